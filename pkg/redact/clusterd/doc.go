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

// Package clusterd redacts the cluster daemon database.
//
// The database is a JSON document. The cluster token, and the authkey and
// pems.blobs of both cluster_config and old_cluster_config, are replaced by
// the marker wherever they are present. Edits are made in place on the raw
// document, so every other byte keeps its position. A document repeating a
// secret key is treated as unparseable and dumps as empty.
package clusterd
