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

package dir

import (
	"archive/tar"
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenserver/bugtool/pkg/probe"
)

func members(t *testing.T, data []byte) map[string]string {
	t.Helper()
	out := make(map[string]string)
	tr := tar.NewReader(bytes.NewReader(data))
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
		b, err := io.ReadAll(tr)
		require.NoError(t, err)
		if hdr.Typeflag == tar.TypeSymlink {
			out[hdr.Name] = "-> " + hdr.Linkname
			continue
		}
		out[hdr.Name] = string(b)
	}
}

func makeTree(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "etc", "systemd")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "system", "multi-user.target.wants"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "system.conf"), []byte("[Manager]\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "system", "xapi.service"), []byte("[Unit]\n"), 0o644))
	require.NoError(t, os.Symlink("../xapi.service", filepath.Join(root, "system", "multi-user.target.wants", "xapi.service")))
	return root
}

func TestCollectPacksTree(t *testing.T) {
	root := makeTree(t)
	rel := strings.TrimLeft(filepath.ToSlash(root), "/")

	res := NewCollector("bug-report-1").Collect(context.Background(),
		probe.Probe{Name: "systemd", Kind: probe.KindDirectory, Path: root})

	require.NoError(t, res.Err)
	assert.True(t, res.SubArchive)
	assert.False(t, res.Truncated)
	assert.Equal(t, rel+".tar", res.Entry)

	got := members(t, res.Data)
	prefix := "bug-report-1/" + rel
	assert.Equal(t, "[Manager]\n", got[prefix+"/system.conf"])
	assert.Equal(t, "[Unit]\n", got[prefix+"/system/xapi.service"])
	assert.Equal(t, "-> ../xapi.service", got[prefix+"/system/multi-user.target.wants/xapi.service"])
	assert.Contains(t, got, prefix+"/")

	for n := range got {
		assert.True(t, strings.HasPrefix(n, prefix), n)
	}
}

func TestCollectLimit(t *testing.T) {
	root := makeTree(t)
	c := NewCollector("base")
	c.Limit = 4

	res := c.Collect(context.Background(), probe.Probe{Name: "systemd", Kind: probe.KindDirectory, Path: root})
	assert.True(t, res.Truncated)

	total := 0
	for _, v := range members(t, res.Data) {
		if !strings.HasPrefix(v, "-> ") {
			total += len(v)
		}
	}
	assert.LessOrEqual(t, total, 4)
}

func TestCollectMissingDirectory(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")
	res := NewCollector("base").Collect(context.Background(),
		probe.Probe{Name: "nope", Kind: probe.KindDirectory, Path: missing})

	assert.Error(t, res.Err)
	assert.Equal(t, probe.StatusFailed, res.Status())
	assert.Empty(t, members(t, res.Data))
}

func TestCollectSkipsUnreadable(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permissions are not enforced for root")
	}
	root := makeTree(t)
	locked := filepath.Join(root, "locked.conf")
	require.NoError(t, os.WriteFile(locked, []byte("x"), 0o000))

	res := NewCollector("base").Collect(context.Background(),
		probe.Probe{Name: "systemd", Kind: probe.KindDirectory, Path: root})

	require.NoError(t, res.Err)
	got := members(t, res.Data)
	for n := range got {
		assert.NotContains(t, n, "locked.conf")
	}
	assert.NotEmpty(t, got)
}
