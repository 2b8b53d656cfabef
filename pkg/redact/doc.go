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

// Package redact removes secrets from probe output before it is archived.
//
// Two kinds of filters live here. The Registry is an ordered list of
// regular expression rules for secret shaped text (password assignments,
// tokens, key material, URL credentials, SNMP communities) and is applied
// to plain text output. XenstoreFilter understands the `path = "value"`
// listing of the xenstore tree and blanks values whose path matches a
// wildcard pattern.
//
// Format aware filters for the management and cluster databases live in
// the xapidb and clusterd subpackages.
//
// Every filter replaces secrets with Marker. Filters are idempotent:
// applying one to its own output changes nothing.
package redact
