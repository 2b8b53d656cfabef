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

// Package oci publishes support archives to OCI registries.
//
// The archive file becomes the single layer of an OCI 1.1 artifact
// manifest, so it can be pulled back with any ORAS compatible client:
//
//	ref, err := oci.ParseReference("oci://registry.example.com/support/bugtool:case-1234")
//	res, err := oci.Push(ctx, oci.PushOptions{
//	    ArchivePath: "/var/opt/xen/bug-report/bug-report-20250101120000.tar",
//	    Reference:   ref,
//	})
//
// Registry credentials come from the Docker credential store.
package oci
