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

// Package catalog loads the ordered list of probes a run may execute.
//
// A catalog is a YAML document with a list of categories and a list of
// probes. Probe order in the document is the order of entries in the final
// archive. An embedded default catalog is used when no file is given.
//
//	cat, err := catalog.Load(path)
//	probes, err := cat.Select([]string{"xenserver-config"}, false)
package catalog
