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

package xapidb

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/xenserver/bugtool/pkg/collector/file"
	"github.com/xenserver/bugtool/pkg/defaults"
	"github.com/xenserver/bugtool/pkg/errors"
)

// Source dumps the filtered management database named by a pointer config.
type Source struct {
	confPath string
	filter   *Filter
}

// SourceOption configures a Source.
type SourceOption func(*Source)

// WithConfPath overrides the pointer config location.
func WithConfPath(path string) SourceOption {
	return func(s *Source) {
		s.confPath = path
	}
}

// WithFilter sets the filter applied to the database.
func WithFilter(f *Filter) SourceOption {
	return func(s *Source) {
		s.filter = f
	}
}

// NewSource creates a Source reading defaults.XapiDBConfPath.
func NewSource(opts ...SourceOption) *Source {
	s := &Source{confPath: defaults.XapiDBConfPath}
	for _, opt := range opts {
		opt(s)
	}
	if s.filter == nil {
		s.filter = NewFilter()
	}
	return s
}

// DatabasePath returns the database file named by the first section of
// the pointer config. A missing pointer config is a ConfigFailure wrapping
// fs.ErrNotExist.
func (s *Source) DatabasePath() (string, error) {
	sections, err := file.NewParser().GetSections(s.confPath)
	if err != nil {
		return "", errors.WrapWithContext(errors.ErrCodeConfigFailure,
			"failed to read database pointer", err, map[string]any{"path": s.confPath})
	}
	if len(sections) == 0 {
		return "", errors.NewWithContext(errors.ErrCodeConfigFailure,
			fmt.Sprintf("no database configured in %s", s.confPath), map[string]any{"path": s.confPath})
	}
	return sections[0], nil
}

// Dump returns the filtered database. A database file that does not exist
// yields an empty dump. A database that cannot be parsed is reported to the
// filter's recorder and also yields an empty dump.
func (s *Source) Dump(ctx context.Context) (string, error) {
	dbPath, err := s.DatabasePath()
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(dbPath)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			slog.Warn("management database not found", "path", dbPath)
			return "", nil
		}
		return "", errors.Wrap(errors.ErrCodeProbeFailure, fmt.Sprintf("failed to read %s", dbPath), err)
	}

	out, err := s.filter.Filter(string(data))
	if err != nil {
		s.filter.recorder.Record(FilterName, err)
		return "", nil
	}
	return out, nil
}
