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

// Package errors provides structured errors for bugtool.
//
// Every failure that crosses a package boundary carries an ErrorCode so that
// callers can decide, without string matching, whether the failure is local
// to one probe or fatal to the whole run.
//
// # Failure Taxonomy
//
//   - ErrCodeProbeFailure: a command exited non-zero, timed out, or a file
//     could not be read. Recorded inside the probe's own archive entry.
//   - ErrCodeFilterFailure: a structured filter could not parse its input.
//     Recorded as a diagnostic; the entry degrades to empty or partial content.
//   - ErrCodeConfigFailure: a pointer/config file needed to locate a data
//     source is missing. Returned to the caller of that one filter.
//   - ErrCodeArchiveFailure: the final container could not be written.
//     Fatal for the run.
//
// # Usage
//
//	if err := builder.WriteFile(path); err != nil {
//	    return errors.Wrap(errors.ErrCodeArchiveFailure, "failed to write archive", err)
//	}
//
// StructuredError implements Unwrap, so errors.Is and errors.As from the
// standard library keep working through the wrapper:
//
//	if stderrors.Is(err, fs.ErrNotExist) {
//	    // pointer file missing
//	}
package errors
