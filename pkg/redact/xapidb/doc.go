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

// Package xapidb redacts the management database before it is archived.
//
// The database is an XML document of tables and rows. Filter keeps the
// document as it is and changes only:
//
//   - rows of the secret table: the <value> child is emptied and a value
//     attribute set to the marker is added to the row;
//   - rows of the Cluster table: the same for <cluster_token>;
//   - rows of the VM table: the EFI variable data inside the NVRAM and
//     snapshot_metadata attributes, which are written in a nested quoting
//     language (see RedactNested).
//
// A VM attribute that cannot be parsed is replaced by the marker as a whole
// and reported to the diagnostics recorder; the rest of the document is
// still filtered.
//
// Source locates the database through its pointer config file and returns
// the filtered dump.
package xapidb
