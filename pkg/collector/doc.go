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

// Package collector runs catalog probes and turns their outcome into
// archive entry content.
//
// # Core Interface
//
// Every probe kind has a Collector:
//
//	type Collector interface {
//	    Collect(ctx context.Context, p probe.Probe) *probe.Result
//	}
//
// Collect never returns an error. A command that cannot start, a file that
// cannot be read or a builtin that fails still produces a result whose
// content explains the failure, so one broken probe never aborts the run.
// The failure itself is kept in Result.Err for the run inventory.
//
// # Factory Pattern
//
// The Factory interface abstracts collector creation so runs can be tested
// with fakes:
//
//	factory := collector.NewDefaultFactory(
//	    collector.WithBaseName("bug-report-20250101120000"),
//	    collector.WithRecorder(rec),
//	)
//	c, err := factory.Create(probe.KindCommand)
//
// # Available Collectors
//
//   - command: external commands, see package command
//   - file: single files, see package file
//   - directory: nested tar archives, see package dir
//   - unit: systemd unit properties, see package systemd
//   - builtin: in-process producers such as the filtered xapi database
//
// The default builtins are the filtered databases ("xapi-db",
// "xapi-clusterd-db") and the host dumps of package host ("sysctl",
// "kernel-modules", "kernel-cmdline", "os-release"). Additional builtins
// are registered with WithBuiltin, which also replaces a default.
package collector
