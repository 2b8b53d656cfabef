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

// Package file reads single files for file probes and parses small
// configuration files.
//
// # File Probes
//
// Collector reads a file up to the probe's byte limit. A file that cannot
// be read still produces an entry; its content explains why:
//
//	Failed to filter /etc/snmp/snmpd.xs.conf [Errno 2] No such file or directory: '/etc/snmp/snmpd.xs.conf'
//
// # Configuration Files
//
// Parser splits line based configuration into lines, key/value pairs or
// bracketed sections:
//
//	p := file.NewParser(file.WithVTrimChars("'\""))
//	inv, err := p.GetMap("/etc/xensource-inventory")
//
//	sections, err := file.NewParser().GetSections("/etc/xensource/db.conf")
//
// Errors from Parser wrap the underlying *fs.PathError, so callers can test
// for fs.ErrNotExist.
package file
