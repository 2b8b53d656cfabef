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

// Package diag records internal filter failures.
//
// A filter that cannot process its input does not abort the run. It hands
// the failure to a Recorder, which keeps an in-memory record for the run,
// appends a timestamped line to the run log file and prints a short notice
// to the visible output. The Recorder is safe for concurrent use.
package diag
