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
	"fmt"
	"slices"
	"time"
)

// Kind is the way a probe gathers data.
type Kind string

const (
	// KindCommand runs an external command.
	KindCommand Kind = "command"
	// KindFile reads a single file.
	KindFile Kind = "file"
	// KindDirectory packs a directory tree as a nested tar archive.
	KindDirectory Kind = "directory"
	// KindBuiltin runs an in-process producer such as a structured database dump.
	KindBuiltin Kind = "builtin"
	// KindUnit dumps the properties of a systemd unit.
	KindUnit Kind = "unit"
)

// SupportedKinds lists every kind a catalog may use.
var SupportedKinds = []Kind{KindCommand, KindFile, KindDirectory, KindBuiltin, KindUnit}

// Filter names accepted in the catalog.
const (
	// FilterDefault applies the generic redaction registry without renaming the entry.
	FilterDefault = ""
	// FilterGeneric applies the generic redaction registry and stores a file
	// probe under its filtered name.
	FilterGeneric = "generic"
	// FilterXenstore redacts secret-looking xenstore paths.
	FilterXenstore = "xenstore"
	// FilterNone stores the output as captured.
	FilterNone = "none"
)

// SupportedFilters lists every filter a catalog may use.
var SupportedFilters = []string{FilterDefault, FilterGeneric, FilterXenstore, FilterNone}

// Probe is one catalog entry. It is read-only once loaded.
type Probe struct {
	Name     string        `json:"name" yaml:"name"`
	Category string        `json:"category" yaml:"category"`
	Kind     Kind          `json:"kind" yaml:"kind"`
	Command  []string      `json:"command,omitempty" yaml:"command,omitempty"`
	Path     string        `json:"path,omitempty" yaml:"path,omitempty"`
	Builtin  string        `json:"builtin,omitempty" yaml:"builtin,omitempty"`
	Unit     string        `json:"unit,omitempty" yaml:"unit,omitempty"`
	Filter   string        `json:"filter,omitempty" yaml:"filter,omitempty"`
	Output   string        `json:"output,omitempty" yaml:"output,omitempty"`
	Timeout  time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	Limit    int64         `json:"limit,omitempty" yaml:"limit,omitempty"`
}

// Validate checks that the probe carries what its kind needs.
func (p Probe) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("probe name is required")
	}
	if !slices.Contains(SupportedKinds, p.Kind) {
		return fmt.Errorf("probe %q: unknown kind %q", p.Name, p.Kind)
	}
	if !slices.Contains(SupportedFilters, p.Filter) {
		return fmt.Errorf("probe %q: unknown filter %q", p.Name, p.Filter)
	}
	if p.Timeout < 0 || p.Limit < 0 {
		return fmt.Errorf("probe %q: timeout and limit must not be negative", p.Name)
	}

	switch p.Kind {
	case KindCommand:
		if len(p.Command) == 0 || p.Command[0] == "" {
			return fmt.Errorf("probe %q: command is required", p.Name)
		}
	case KindFile, KindDirectory:
		if p.Path == "" {
			return fmt.Errorf("probe %q: path is required", p.Name)
		}
	case KindBuiltin:
		if p.Builtin == "" {
			return fmt.Errorf("probe %q: builtin is required", p.Name)
		}
	case KindUnit:
		if p.Unit == "" {
			return fmt.Errorf("probe %q: unit is required", p.Name)
		}
	}
	return nil
}

// Entry returns the archive entry name of the probe, relative to the run
// base directory.
func (p Probe) Entry() string {
	if p.Output != "" {
		return p.Output
	}
	switch p.Kind {
	case KindCommand:
		return SanitizeName(CommandLabel(p.Command))
	case KindFile:
		if p.Filter != FilterDefault && p.Filter != FilterNone {
			return FilteredFileName(p.Path)
		}
		return FileName(p.Path)
	case KindDirectory:
		return DirectoryName(p.Path)
	default:
		return SanitizeName(p.Name)
	}
}

// Status summarizes how a probe ended.
type Status string

const (
	StatusOK        Status = "ok"
	StatusFailed    Status = "failed"
	StatusTimeout   Status = "timeout"
	StatusTruncated Status = "truncated"
)

// Result is the captured output of one probe run. It is immutable once returned.
type Result struct {
	Probe      string
	Entry      string
	Data       []byte
	Truncated  bool
	TimedOut   bool
	ExitCode   int
	Err        error
	Elapsed    time.Duration
	SubArchive bool
}

// Status derives the outcome from the result flags.
func (r *Result) Status() Status {
	switch {
	case r.TimedOut:
		return StatusTimeout
	case r.Err != nil || r.ExitCode != 0:
		return StatusFailed
	case r.Truncated:
		return StatusTruncated
	default:
		return StatusOK
	}
}
