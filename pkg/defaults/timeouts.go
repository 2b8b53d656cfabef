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

package defaults

import "time"

// Probe budgets.
const (
	// ProbeTimeout is the wall-clock limit for a single probe.
	// Probes in the catalog may override it.
	ProbeTimeout = 30 * time.Second

	// ProbeKillGrace is how long to wait for output pipes to drain after the
	// process group of a timed out command was killed.
	ProbeKillGrace = 2 * time.Second

	// ProbeOutputLimit is the byte ceiling on captured output per probe.
	ProbeOutputLimit int64 = 64 << 20

	// DirectoryOutputLimit is the byte ceiling on file content packed from
	// one directory probe.
	DirectoryOutputLimit int64 = 256 << 20
)

// Run scheduling.
const (
	// Parallelism is the default number of probes executed concurrently.
	Parallelism = 4

	// ProbeRate is the default number of probe launches per second.
	ProbeRate = 20

	// RunTimeout bounds a whole collection run.
	RunTimeout = 30 * time.Minute

	// UnitTimeout is the timeout for systemd D-Bus calls.
	UnitTimeout = 10 * time.Second
)

// Well-known paths.
const (
	// XapiDBConfPath is the pointer config naming the management database file.
	XapiDBConfPath = "/etc/xensource/db.conf"

	// XapiClusterdDBPath is the cluster config database.
	XapiClusterdDBPath = "/var/opt/xapi-clusterd/db"

	// XensourceInventoryPath describes the host installation.
	XensourceInventoryPath = "/etc/xensource-inventory"

	// OutputDir is where archives and the run log are written.
	OutputDir = "/var/opt/xen/bug-report"

	// LogFileName is the append-only diagnostics log written next to the archive.
	LogFileName = "bugtool.log"
)

// RedactionMarker replaces every sensitive value.
const RedactionMarker = "REMOVED"
