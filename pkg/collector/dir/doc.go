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

// Package dir packs directory probes into nested tar archives.
//
// The tree at the probe path is stored as a tar archive whose members are
// rooted at the run base directory followed by the path without its leading
// slash, so unpacking etc/systemd.tar next to the outer archive's contents
// recreates <base>/etc/systemd. Unreadable files and subtrees are skipped;
// the rest of the tree is still packed.
package dir
