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

// Package cli implements the bugtool command line.
//
// # Commands
//
// collect runs the selected probe categories and writes one archive:
//
//	bugtool collect --entries xenserver-logs,xenserver-databases --output-format zip
//	bugtool collect --all --output-dir /tmp/reports --push oci://registry.example.com/support/bugtool
//
// list prints the catalog:
//
//	bugtool list --format table
//	bugtool list --categories --format yaml
//
// Every flag can also be set through a BUGTOOL_ prefixed environment
// variable, e.g. BUGTOOL_OUTPUT_DIR.
//
// # Exit Status
//
// Probe and filter failures are recorded in the archive and do not change
// the exit status. The command fails when the catalog or flags are invalid
// or the archive cannot be written.
package cli
