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

package probe

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEntryNames(t *testing.T) {
	tests := []struct {
		name  string
		probe Probe
		want  string
	}{
		{
			name:  "command with path argument",
			probe: Probe{Name: "opt", Kind: KindCommand, Command: []string{"ls", "-lR", "/opt/xensource"}},
			want:  "ls-lR-%opt%xensource.out",
		},
		{
			name:  "command with nested path",
			probe: Probe{Name: "vdis", Kind: KindCommand, Command: []string{"/bin/ls", "-lR", "/etc/xensource/static-vdis"}},
			want:  "ls-lR-%etc%xensource%static-vdis.out",
		},
		{
			name:  "absolute executable",
			probe: Probe{Name: "static-vdis", Kind: KindCommand, Command: []string{"/opt/xensource/bin/static-vdis", "list"}},
			want:  "static-vdis-list.out",
		},
		{
			name:  "double dash collapses",
			probe: Probe{Name: "ver", Kind: KindCommand, Command: []string{"xl", "--version"}},
			want:  "xl-version.out",
		},
		{
			name:  "label with dot keeps it",
			probe: Probe{Name: "cfg", Kind: KindCommand, Command: []string{"cat", "/etc/hosts.allow"}},
			want:  "cat-%etc%hosts.allow",
		},
		{
			name:  "plain file",
			probe: Probe{Name: "inv", Kind: KindFile, Path: "/etc/xensource-inventory"},
			want:  "etc/xensource-inventory",
		},
		{
			name:  "filtered file",
			probe: Probe{Name: "snmpd", Kind: KindFile, Path: "/etc/snmp/snmpd.xs.conf", Filter: FilterGeneric},
			want:  "snmpd_xs_conf.out",
		},
		{
			name:  "unfiltered file keeps path",
			probe: Probe{Name: "raw", Kind: KindFile, Path: "/etc/snmp/snmpd.xs.conf", Filter: FilterNone},
			want:  "etc/snmp/snmpd.xs.conf",
		},
		{
			name:  "directory",
			probe: Probe{Name: "systemd", Kind: KindDirectory, Path: "/etc/systemd"},
			want:  "etc/systemd.tar",
		},
		{
			name:  "builtin",
			probe: Probe{Name: "xapi-clusterd-db", Kind: KindBuiltin, Builtin: "xapi-clusterd-db"},
			want:  "xapi-clusterd-db.out",
		},
		{
			name:  "explicit output wins",
			probe: Probe{Name: "db", Kind: KindBuiltin, Builtin: "xapi-db", Output: "xapi-db.xml"},
			want:  "xapi-db.xml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.probe.Entry())
		})
	}
}

func TestDesanitize(t *testing.T) {
	assert.Equal(t, "ls-lR-/opt/xensource.out", Desanitize("ls-lR-%opt%xensource.out"))
	assert.Equal(t, "plain.out", Desanitize("plain.out"))
}

func TestDesanitizeSeparatorsOnly(t *testing.T) {
	tests := []struct {
		label string
		flat  string
		back  string
	}{
		{"ls -lR /opt/xensource", "ls-lR-%opt%xensource.out", "ls-lR-/opt/xensource.out"},
		{"cat /var/log/a b", "cat-%var%log%a-b.out", "cat-/var/log/a-b.out"},
		{"xl -v info", "xl-v-info.out", "xl-v-info.out"},
		{"date +%s", "date-+%s.out", "date-+/s.out"},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			flat := SanitizeName(tt.label)
			assert.Equal(t, tt.flat, flat)
			assert.Equal(t, tt.back, Desanitize(flat))
			assert.NotContains(t, flat, "/")
		})
	}
}

func TestCommandLabel(t *testing.T) {
	assert.Equal(t, "", CommandLabel(nil))
	assert.Equal(t, "ls -lR /opt", CommandLabel([]string{"/usr/bin/ls", "-lR", "/opt"}))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		probe   Probe
		wantErr bool
	}{
		{"valid command", Probe{Name: "a", Kind: KindCommand, Command: []string{"true"}}, false},
		{"missing name", Probe{Kind: KindCommand, Command: []string{"true"}}, true},
		{"unknown kind", Probe{Name: "a", Kind: "socket"}, true},
		{"unknown filter", Probe{Name: "a", Kind: KindFile, Path: "/x", Filter: "magic"}, true},
		{"command without argv", Probe{Name: "a", Kind: KindCommand}, true},
		{"file without path", Probe{Name: "a", Kind: KindFile}, true},
		{"directory without path", Probe{Name: "a", Kind: KindDirectory}, true},
		{"builtin without name", Probe{Name: "a", Kind: KindBuiltin}, true},
		{"unit without unit", Probe{Name: "a", Kind: KindUnit}, true},
		{"negative timeout", Probe{Name: "a", Kind: KindFile, Path: "/x", Timeout: -time.Second}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.probe.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestResultStatus(t *testing.T) {
	tests := []struct {
		name string
		res  Result
		want Status
	}{
		{"ok", Result{}, StatusOK},
		{"exit code", Result{ExitCode: 2}, StatusFailed},
		{"error", Result{Err: errors.New("boom")}, StatusFailed},
		{"truncated", Result{Truncated: true}, StatusTruncated},
		{"timeout wins", Result{TimedOut: true, Truncated: true, Err: errors.New("killed")}, StatusTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.res.Status())
		})
	}
}
