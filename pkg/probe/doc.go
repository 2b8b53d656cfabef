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

// Package probe defines the unit of collection: a Probe read from the
// catalog and the Result produced by running it.
//
// It also owns entry naming. Entry names are derived only from probe
// identity, so the same catalog always yields the same archive layout:
//
//	ls -lR /opt/xensource          -> ls-lR-%opt%xensource.out
//	/etc/xensource-inventory       -> etc/xensource-inventory
//	/etc/snmp/snmpd.xs.conf (filt) -> snmpd_xs_conf.out
//	/etc/systemd (directory)       -> etc/systemd.tar
package probe
