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

package archive

import (
	"fmt"
	"io/fs"
	"path"
	"strings"
	"time"
)

// Type is the kind of an archive entry.
type Type int

const (
	TypeFile Type = iota
	TypeDir
	TypeSymlink
)

// Entry is one member of an archive. Path is relative to the archive's
// base directory.
type Entry struct {
	Path    string
	Type    Type
	Data    []byte
	Link    string
	Mode    fs.FileMode
	ModTime time.Time
}

// File returns a regular file entry.
func File(p string, data []byte) Entry {
	return Entry{Path: p, Type: TypeFile, Data: data, Mode: 0o644}
}

// Dir returns a directory entry.
func Dir(p string) Entry {
	return Entry{Path: p, Type: TypeDir, Mode: 0o755}
}

// Symlink returns a symbolic link entry.
func Symlink(p, target string) Entry {
	return Entry{Path: p, Type: TypeSymlink, Link: target, Mode: 0o777}
}

// CleanPath validates an entry path and returns its canonical form.
func CleanPath(p string) (string, error) {
	if p == "" {
		return "", fmt.Errorf("entry path is empty")
	}
	if strings.Contains(p, "\\") || strings.ContainsRune(p, 0) {
		return "", fmt.Errorf("entry path %q contains invalid characters", p)
	}
	if strings.HasPrefix(p, "/") {
		return "", fmt.Errorf("entry path %q must be relative", p)
	}
	c := path.Clean(p)
	if c == "." || c == ".." || strings.HasPrefix(c, "../") {
		return "", fmt.Errorf("entry path %q escapes the archive root", p)
	}
	return c, nil
}
