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

package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/xenserver/bugtool/pkg/collector/command"
	"github.com/xenserver/bugtool/pkg/collector/dir"
	"github.com/xenserver/bugtool/pkg/collector/file"
	"github.com/xenserver/bugtool/pkg/collector/host"
	"github.com/xenserver/bugtool/pkg/collector/systemd"
	"github.com/xenserver/bugtool/pkg/defaults"
	"github.com/xenserver/bugtool/pkg/diag"
	"github.com/xenserver/bugtool/pkg/errors"
	"github.com/xenserver/bugtool/pkg/probe"
	"github.com/xenserver/bugtool/pkg/redact/clusterd"
	"github.com/xenserver/bugtool/pkg/redact/xapidb"
)

// Factory creates collectors with their dependencies.
// This interface enables dependency injection for testing.
type Factory interface {
	Create(kind probe.Kind) (Collector, error)
}

// DefaultFactory creates collectors with production dependencies.
type DefaultFactory struct {
	baseName   string
	timeout    time.Duration
	limit      int64
	dirLimit   int64
	recorder   *diag.Recorder
	xapiDBConf string
	clusterdDB string
	hostRoot   string
	connector  systemd.Connector
	builtins   map[string]Builtin
	collectors map[probe.Kind]Collector
}

// Option configures a DefaultFactory.
type Option func(*DefaultFactory)

// WithBaseName sets the run base directory used by nested archives.
func WithBaseName(name string) Option {
	return func(f *DefaultFactory) {
		f.baseName = name
	}
}

// WithTimeout sets the default command and unit timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *DefaultFactory) {
		f.timeout = d
	}
}

// WithOutputLimit sets the default per-probe output cap.
func WithOutputLimit(n int64) Option {
	return func(f *DefaultFactory) {
		f.limit = n
	}
}

// WithDirectoryLimit sets the cap on file bytes packed per directory probe.
func WithDirectoryLimit(n int64) Option {
	return func(f *DefaultFactory) {
		f.dirLimit = n
	}
}

// WithRecorder sets where structured filters report failures.
func WithRecorder(r *diag.Recorder) Option {
	return func(f *DefaultFactory) {
		f.recorder = r
	}
}

// WithXapiDBConf overrides the management database pointer config.
func WithXapiDBConf(path string) Option {
	return func(f *DefaultFactory) {
		f.xapiDBConf = path
	}
}

// WithClusterdDB overrides the cluster database location.
func WithClusterdDB(path string) Option {
	return func(f *DefaultFactory) {
		f.clusterdDB = path
	}
}

// WithUnitConnector sets how unit probes reach systemd.
func WithUnitConnector(c systemd.Connector) Option {
	return func(f *DefaultFactory) {
		f.connector = c
	}
}

// WithHostRoot sets the filesystem root read by the host builtins.
func WithHostRoot(root string) Option {
	return func(f *DefaultFactory) {
		f.hostRoot = root
	}
}

// WithBuiltin registers or replaces a builtin producer.
func WithBuiltin(name string, fn Builtin) Option {
	return func(f *DefaultFactory) {
		f.builtins[name] = fn
	}
}

// NewDefaultFactory creates a factory with default settings.
func NewDefaultFactory(opts ...Option) *DefaultFactory {
	f := &DefaultFactory{
		baseName:   "bug-report",
		timeout:    defaults.ProbeTimeout,
		limit:      defaults.ProbeOutputLimit,
		dirLimit:   defaults.DirectoryOutputLimit,
		xapiDBConf: defaults.XapiDBConfPath,
		clusterdDB: defaults.XapiClusterdDBPath,
		hostRoot:   "/",
		builtins:   make(map[string]Builtin),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.registerDefaultBuiltins()
	f.collectors = f.build()
	return f
}

func (f *DefaultFactory) registerDefaultBuiltins() {
	if _, ok := f.builtins[BuiltinXapiDB]; !ok {
		src := xapidb.NewSource(
			xapidb.WithConfPath(f.xapiDBConf),
			xapidb.WithFilter(xapidb.NewFilter(xapidb.WithRecorder(f.recorder))),
		)
		f.builtins[BuiltinXapiDB] = src.Dump
	}
	if _, ok := f.builtins[BuiltinClusterdDB]; !ok {
		cf := clusterd.NewFilter(clusterd.WithPath(f.clusterdDB), clusterd.WithRecorder(f.recorder))
		f.builtins[BuiltinClusterdDB] = cf.Dump
	}

	hs := host.NewSource(host.WithRoot(f.hostRoot))
	for name, fn := range map[string]Builtin{
		BuiltinSysctl:        hs.Sysctl,
		BuiltinKernelModules: hs.KernelModules,
		BuiltinKernelCmdline: hs.KernelCmdline,
		BuiltinOSRelease:     hs.OSRelease,
	} {
		if _, ok := f.builtins[name]; !ok {
			f.builtins[name] = fn
		}
	}
}

func (f *DefaultFactory) build() map[probe.Kind]Collector {
	cmd := command.NewCollector()
	cmd.Timeout = f.timeout
	cmd.Limit = f.limit

	fc := file.NewCollector()
	fc.Limit = f.limit

	dc := dir.NewCollector(f.baseName)
	dc.Limit = f.dirLimit

	uc := systemd.NewCollector(f.connector)

	return map[probe.Kind]Collector{
		probe.KindCommand:   cmd,
		probe.KindFile:      fc,
		probe.KindDirectory: dc,
		probe.KindUnit:      uc,
		probe.KindBuiltin:   NewBuiltinCollector(f.builtins),
	}
}

// Create returns the collector for a probe kind.
func (f *DefaultFactory) Create(kind probe.Kind) (Collector, error) {
	c, ok := f.collectors[kind]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidRequest, fmt.Sprintf("unsupported probe kind %q", kind))
	}
	return c, nil
}

// Collect runs p with the collector for its kind.
func Collect(ctx context.Context, f Factory, p probe.Probe) *probe.Result {
	c, err := f.Create(p.Kind)
	if err != nil {
		return &probe.Result{
			Probe: p.Name,
			Entry: p.Entry(),
			Data:  []byte(fmt.Sprintf("Failed to run %s: %v\n", p.Name, err)),
			Err:   err,
		}
	}
	return c.Collect(ctx, p)
}
