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

// Package snapshotter runs a collection and writes the support archive.
//
// A Snapshotter holds the state of one run: the probe list in catalog
// order, the collector factory, the redaction filters, the diagnostics
// recorder and the archive settings. Measure runs every probe on a bounded
// worker pool, paced by a rate limiter, then adds the results to the
// archive in catalog order regardless of completion order:
//
//	s := snapshotter.New(probes,
//	    snapshotter.WithOutputDir("/var/opt/xen/bug-report"),
//	    snapshotter.WithFormat(archive.FormatZip),
//	    snapshotter.WithRecorder(rec),
//	)
//	inv, err := s.Measure(ctx)
//
// # Filtering
//
// Command, file and unit output goes through the generic redaction
// registry unless the probe names another filter. Probes with the
// "xenstore" filter use the xenstore path filter and "none" stores output
// as captured. Builtin producers filter their own structured data, and
// directory probes are packed as nested archives, so neither is filtered
// again.
//
// # Archive Layout
//
// Every member lives under the run base directory. After the probe entries
// come inventory.yaml, which lists each probe once with its status, and
// checksums.txt with a SHA-256 line for every file before it. Both can be
// turned off.
//
// # Failures
//
// Probe and filter failures never abort a run; they become entry content
// and inventory status. An invalid probe list fails before anything runs,
// and an archive that cannot be written fails the run with an
// ARCHIVE_FAILURE error.
//
// # Metrics
//
// Run and probe durations and outcomes are exported through the default
// Prometheus registry. WriteMetrics dumps them in the text format.
package snapshotter
