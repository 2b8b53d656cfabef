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

package host

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xenserver/bugtool/pkg/collector/file"
	"github.com/xenserver/bugtool/pkg/redact"
)

var (
	sysctlDir      = "proc/sys"
	modulesFile    = "proc/modules"
	cmdlineFile    = "proc/cmdline"
	releasePrimary = "etc/os-release"
	// per freedesktop.org, used when the primary file is missing
	releaseFallback = "usr/lib/os-release"

	// FilteredSysctls are parameters left out of the sysctl dump for
	// privacy or noise.
	FilteredSysctls = []string{
		"dev.cdrom.*",
		"*.stable_secret",
		"kernel.random.uuid",
	}
)

// Source reads host state under a root directory.
type Source struct {
	root string
}

// Option configures a Source.
type Option func(*Source)

// WithRoot sets the filesystem root. The default is "/".
func WithRoot(root string) Option {
	return func(s *Source) {
		s.root = root
	}
}

// NewSource creates a Source.
func NewSource(opts ...Option) *Source {
	s := &Source{root: "/"}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Source) path(rel string) string {
	return filepath.Join(s.root, rel)
}

// Sysctl dumps kernel parameters in `sysctl -a` form. Unreadable and
// write-only parameters are skipped.
func (s *Source) Sysctl(ctx context.Context) (string, error) {
	root := s.path(sysctlDir)
	parser := file.NewParser(file.WithSkipComments(false))

	var b strings.Builder
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if d.IsDir() || d.Type()&fs.ModeSymlink != 0 {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", path, err)
		}
		key := strings.ReplaceAll(filepath.ToSlash(rel), "/", ".")
		if redact.MatchesAny(key, FilteredSysctls) {
			return nil
		}

		lines, err := parser.GetLines(path)
		if err != nil {
			return nil
		}
		if len(lines) == 0 {
			fmt.Fprintf(&b, "%s = \n", key)
			return nil
		}
		for _, line := range lines {
			fmt.Fprintf(&b, "%s = %s\n", key, line)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to collect sysctl parameters: %w", err)
	}
	return b.String(), nil
}

// KernelModules lists the loaded modules sorted by name.
func (s *Source) KernelModules(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	lines, err := file.NewParser().GetLines(s.path(modulesFile))
	if err != nil {
		return "", fmt.Errorf("failed to read kernel modules: %w", err)
	}

	rows := make([][]string, 0, len(lines))
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		rows = append(rows, fields[:3])
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i][0] < rows[j][0] })

	var b strings.Builder
	fmt.Fprintf(&b, "%-24s %10s %s\n", "Module", "Size", "Used")
	for _, r := range rows {
		fmt.Fprintf(&b, "%-24s %10s %s\n", r[0], r[1], r[2])
	}
	return b.String(), nil
}

// KernelCmdline lists the boot parameters, one per line in boot order.
func (s *Source) KernelCmdline(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	params, err := file.NewParser(file.WithDelimiter(" ")).GetLines(s.path(cmdlineFile))
	if err != nil {
		return "", fmt.Errorf("failed to read boot parameters: %w", err)
	}
	if len(params) == 0 {
		return "", nil
	}
	return strings.Join(params, "\n") + "\n", nil
}

// OSRelease returns the release file as sorted KEY=value lines.
func (s *Source) OSRelease(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := s.path(releasePrimary)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		path = s.path(releaseFallback)
	}

	params, err := file.NewParser(file.WithVTrimChars(`"'`)).GetMap(path)
	if err != nil {
		return "", fmt.Errorf("failed to read os release: %w", err)
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%s\n", k, params[k])
	}
	return b.String(), nil
}
