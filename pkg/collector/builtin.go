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
	"log/slog"
	"sort"
	"time"

	"github.com/xenserver/bugtool/pkg/errors"
	"github.com/xenserver/bugtool/pkg/probe"
)

// Default builtin names.
const (
	BuiltinXapiDB        = "xapi-db"
	BuiltinClusterdDB    = "xapi-clusterd-db"
	BuiltinSysctl        = "sysctl"
	BuiltinKernelModules = "kernel-modules"
	BuiltinKernelCmdline = "kernel-cmdline"
	BuiltinOSRelease     = "os-release"
)

// BuiltinCollector dispatches builtin probes to registered producers.
type BuiltinCollector struct {
	builtins map[string]Builtin
}

// NewBuiltinCollector creates a collector over the given producers.
func NewBuiltinCollector(builtins map[string]Builtin) *BuiltinCollector {
	m := make(map[string]Builtin, len(builtins))
	for k, v := range builtins {
		m[k] = v
	}
	return &BuiltinCollector{builtins: m}
}

// Names returns the registered builtin names, sorted.
func (c *BuiltinCollector) Names() []string {
	names := make([]string, 0, len(c.builtins))
	for k := range c.builtins {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Collect runs the probe's producer.
func (c *BuiltinCollector) Collect(ctx context.Context, p probe.Probe) *probe.Result {
	start := time.Now()
	res := &probe.Result{Probe: p.Name, Entry: p.Entry()}
	defer func() { res.Elapsed = time.Since(start) }()

	fn, ok := c.builtins[p.Builtin]
	if !ok {
		res.Err = errors.NewWithContext(errors.ErrCodeNotFound, "unknown builtin",
			map[string]any{"builtin": p.Builtin})
		res.Data = []byte(fmt.Sprintf("Failed to run builtin %s: unknown builtin\n", p.Builtin))
		return res
	}

	out, err := fn(ctx)
	if err != nil {
		slog.Warn("builtin probe failed", "probe", p.Name, "builtin", p.Builtin, "error", err)
		res.Data = []byte(fmt.Sprintf("Failed to run builtin %s: %v\n", p.Builtin, err))
		if errors.CodeOf(err) == "" {
			err = errors.Wrap(errors.ErrCodeProbeFailure, "builtin failed", err)
		}
		res.Err = err
		return res
	}

	res.Data = []byte(out)
	return res
}
