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

// Package host produces builtin dumps of kernel and operating system state:
//
//   - sysctl: every readable kernel parameter as "name = value"
//   - kernel-modules: loaded modules with size and use count
//   - kernel-cmdline: boot parameters, one per line
//   - os-release: the distribution release file as sorted KEY=value lines
//
// All paths are resolved under a configurable root so the dumps can be
// taken from a mounted host filesystem.
package host
