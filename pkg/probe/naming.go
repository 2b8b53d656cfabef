// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package probe

import (
	"path"
	"strings"
)

const (
	outSuffix = ".out"
	tarSuffix = ".tar"

	// placeholder stands in for path separators in flat entry names.
	placeholder = "%"
)

// CommandLabel is the human readable form of a command line: the base name
// of the executable followed by its arguments.
func CommandLabel(argv []string) string {
	if len(argv) == 0 {
		return ""
	}
	parts := make([]string, 0, len(argv))
	parts = append(parts, path.Base(argv[0]))
	parts = append(parts, argv[1:]...)
	return strings.Join(parts, " ")
}

// SanitizeName flattens a label into a single file name. Spaces become
// dashes, double dashes collapse and path separators become the
// placeholder. Names without an extension get ".out".
func SanitizeName(label string) string {
	s := strings.ReplaceAll(label, " ", "-")
	s = strings.ReplaceAll(s, "--", "-")
	s = strings.ReplaceAll(s, "/", placeholder)
	if !strings.Contains(s, ".") {
		s += outSuffix
	}
	return s
}

// Desanitize maps every placeholder in a SanitizeName result back to a path
// separator. It inverts the separator substitution only: spacing and dashes
// are not recovered, and a label that already held the placeholder reads
// back with a separator in its place.
func Desanitize(name string) string {
	return strings.ReplaceAll(name, placeholder, "/")
}

// FileName is the entry of an unfiltered file: its path without the leading slash.
func FileName(p string) string {
	return strings.TrimLeft(path.Clean(p), "/")
}

// FilteredFileName is the entry of a filtered file: the base name with dots
// replaced by underscores and ".out" appended.
func FilteredFileName(p string) string {
	return strings.ReplaceAll(path.Base(p), ".", "_") + outSuffix
}

// DirectoryName is the entry of a packed directory tree.
func DirectoryName(p string) string {
	return FileName(p) + tarSuffix
}
