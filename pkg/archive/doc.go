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

// Package archive assembles collected entries into the final container.
//
// A Builder accepts entries in order and writes them, in that same order,
// under a single top-level directory named for the run:
//
//	b := archive.NewBuilder("bug-report-20250301120000")
//	_ = b.Add(archive.File("ls-lR-%opt%xensource.out", data))
//	err := b.WriteFile("/var/opt/xen/bug-report/bug-report-20250301120000.tar.gz", archive.FormatTarGz)
//
// Entry paths are relative, forward-slash separated and unique; Add rejects
// duplicates and paths escaping the run directory. Directory probes store
// their own tar archive as a single entry, so archives nest.
//
// Checksums renders a checksums.txt body with the SHA-256 of every entry.
package archive
