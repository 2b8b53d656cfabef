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

package snapshotter

import (
	"time"

	"github.com/xenserver/bugtool/pkg/header"
	"github.com/xenserver/bugtool/pkg/probe"
)

// InventoryFileName is the run index stored inside the archive.
const InventoryFileName = "inventory.yaml"

// Inventory indexes one collection run. Entries follow catalog order.
type Inventory struct {
	header.Header `json:",inline" yaml:",inline"`

	RunID       string            `json:"run_id" yaml:"run_id"`
	Base        string            `json:"base" yaml:"base"`
	Archive     string            `json:"archive" yaml:"archive"`
	Format      string            `json:"format" yaml:"format"`
	Host        map[string]string `json:"host,omitempty" yaml:"host,omitempty"`
	Started     time.Time         `json:"started" yaml:"started"`
	Finished    time.Time         `json:"finished" yaml:"finished"`
	Entries     []InventoryEntry  `json:"entries" yaml:"entries"`
	Diagnostics []Diagnostic      `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// InventoryEntry describes how one probe ended.
type InventoryEntry struct {
	Probe     string       `json:"probe" yaml:"probe"`
	Category  string       `json:"category" yaml:"category"`
	Entry     string       `json:"entry" yaml:"entry"`
	Status    probe.Status `json:"status" yaml:"status"`
	ExitCode  int          `json:"exit_code,omitempty" yaml:"exit_code,omitempty"`
	Truncated bool         `json:"truncated,omitempty" yaml:"truncated,omitempty"`
	TimedOut  bool         `json:"timed_out,omitempty" yaml:"timed_out,omitempty"`
	Bytes     int          `json:"bytes" yaml:"bytes"`
	Duration  string       `json:"duration" yaml:"duration"`
	Error     string       `json:"error,omitempty" yaml:"error,omitempty"`
}

// Diagnostic is a filter failure reported during the run.
type Diagnostic struct {
	Filter string `json:"filter" yaml:"filter"`
	Error  string `json:"error" yaml:"error"`
}

// Summary counts entries per status.
func (inv *Inventory) Summary() map[probe.Status]int {
	m := make(map[probe.Status]int)
	for _, e := range inv.Entries {
		m[e.Status]++
	}
	return m
}

func newInventoryEntry(p probe.Probe, res *probe.Result) InventoryEntry {
	e := InventoryEntry{
		Probe:     p.Name,
		Category:  p.Category,
		Entry:     res.Entry,
		Status:    res.Status(),
		ExitCode:  res.ExitCode,
		Truncated: res.Truncated,
		TimedOut:  res.TimedOut,
		Bytes:     len(res.Data),
		Duration:  res.Elapsed.Round(time.Millisecond).String(),
	}
	if res.Err != nil {
		e.Error = res.Err.Error()
	}
	return e
}
