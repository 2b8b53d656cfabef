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

// Package command runs command probes.
//
// A command runs with its standard output and error merged into one bounded
// buffer and with an absolute timeout. On Unix systems the command is
// started in its own process group and the whole group is killed when the
// timeout expires, so helpers it spawned cannot outlive the probe. Output
// captured before the timeout is kept.
//
// Collect never returns an error: a command that cannot be started yields
// an entry that says so, and a command that fails keeps its output with the
// failure recorded in the result.
package command
