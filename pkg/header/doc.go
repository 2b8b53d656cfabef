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

// Package header provides the common document header written at the top of
// every structured file bugtool produces.
//
// A header identifies the document kind and schema, and carries free-form
// metadata such as the tool version and creation time:
//
//	kind: Inventory
//	apiVersion: bugtool.xenserver.com/v1
//	metadata:
//	  timestamp: "2025-03-04T05:06:07Z"
//	  version: v1.2.3
//
// Documents embed Header inline so the fields appear at the top level.
package header
