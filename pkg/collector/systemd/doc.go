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

// Package systemd dumps systemd unit properties over D-Bus.
//
// Each unit probe produces one entry with every property of the unit as a
// sorted key=value line. Properties that carry credentials or are pure noise
// are dropped by wildcard pattern before the entry is written:
//
//	ActiveState=active
//	ExecMainPID=1234
//	UnitFileState=enabled
//
// When the system bus is unavailable the entry records the connection error
// instead.
package systemd
