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

package redact

import (
	"bytes"
	"regexp"
	"strings"
)

// DefaultXenstorePatterns are the xenstore paths whose values are private.
var DefaultXenstorePatterns = []string{
	"*passw*",
	"*secret*",
	"*token*",
	"*/vm-data/*",
}

var xenstoreLine = regexp.MustCompile(`^(\S+) = "(.*)"$`)

// XenstoreFilter blanks the values of `path = "value"` lines whose path
// matches one of its patterns. Paths are matched case-insensitively.
type XenstoreFilter struct {
	patterns []string
}

// NewXenstoreFilter creates a filter for patterns, or the defaults when none are given.
func NewXenstoreFilter(patterns ...string) *XenstoreFilter {
	if len(patterns) == 0 {
		patterns = DefaultXenstorePatterns
	}
	lower := make([]string, 0, len(patterns))
	for _, p := range patterns {
		lower = append(lower, strings.ToLower(p))
	}
	return &XenstoreFilter{patterns: lower}
}

// Redact implements Redactor.
func (f *XenstoreFilter) Redact(data []byte) []byte {
	lines := bytes.Split(data, []byte("\n"))
	for i, line := range lines {
		m := xenstoreLine.FindSubmatch(line)
		if m == nil {
			continue
		}
		if !MatchesAny(strings.ToLower(string(m[1])), f.patterns) {
			continue
		}
		lines[i] = []byte(string(m[1]) + ` = "` + Marker + `"`)
	}
	return bytes.Join(lines, []byte("\n"))
}
