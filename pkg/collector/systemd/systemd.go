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

package systemd

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/coreos/go-systemd/v22/dbus"

	"github.com/xenserver/bugtool/pkg/defaults"
	"github.com/xenserver/bugtool/pkg/errors"
	"github.com/xenserver/bugtool/pkg/probe"
	"github.com/xenserver/bugtool/pkg/redact"
)

// FilteredProperties are dropped from unit dumps for privacy or noise.
var FilteredProperties = []string{
	"AllowedCPUs",
	"AllowedMemoryNodes",
	"BPFProgram",
	"*Credential*",
	"Environment",
	"EnvironmentFiles",
	"InvocationID",
}

// Conn is the subset of the systemd D-Bus connection used by the collector.
type Conn interface {
	GetAllPropertiesContext(ctx context.Context, unit string) (map[string]interface{}, error)
	Close()
}

// Connector opens a connection to systemd.
type Connector func(ctx context.Context) (Conn, error)

// SystemConnector connects to the systemd manager on the system bus.
func SystemConnector(ctx context.Context) (Conn, error) {
	conn, err := dbus.NewSystemdConnectionContext(ctx)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// Collector dumps unit properties.
type Collector struct {
	Connect Connector
	Timeout time.Duration
	Filter  []string
}

// NewCollector creates a unit collector using the given connector. A nil
// connector uses the system bus.
func NewCollector(connect Connector) *Collector {
	if connect == nil {
		connect = SystemConnector
	}
	return &Collector{
		Connect: connect,
		Timeout: defaults.UnitTimeout,
		Filter:  FilteredProperties,
	}
}

// Collect writes the unit's properties as the entry content.
func (c *Collector) Collect(ctx context.Context, p probe.Probe) *probe.Result {
	start := time.Now()
	res := &probe.Result{Probe: p.Name, Entry: p.Entry()}
	defer func() { res.Elapsed = time.Since(start) }()

	timeout := c.Timeout
	if p.Timeout > 0 {
		timeout = p.Timeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	props, err := c.properties(ctx, p.Unit)
	if err != nil {
		slog.Debug("unit probe failed", "probe", p.Name, "unit", p.Unit, "error", err)
		res.Data = []byte(fmt.Sprintf("Failed to query unit %s: %v\n", p.Unit, err))
		res.Err = errors.WrapWithContext(errors.ErrCodeProbeFailure, "failed to query unit", err,
			map[string]interface{}{"unit": p.Unit})
		return res
	}

	res.Data = Format(redact.FilterOut(props, c.Filter))
	return res
}

func (c *Collector) properties(ctx context.Context, unit string) (map[string]interface{}, error) {
	conn, err := c.Connect(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to systemd: %w", err)
	}
	defer conn.Close()

	props, err := conn.GetAllPropertiesContext(ctx, unit)
	if err != nil {
		return nil, fmt.Errorf("failed to get unit properties: %w", err)
	}
	return props, nil
}

// Format renders properties as sorted key=value lines.
func Format(props map[string]interface{}) []byte {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%s\n", k, formatValue(props[k]))
	}
	return []byte(b.String())
}

func formatValue(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []string:
		return strings.Join(t, " ")
	case []byte:
		return string(t)
	case bool:
		if t {
			return "yes"
		}
		return "no"
	default:
		return fmt.Sprint(t)
	}
}
