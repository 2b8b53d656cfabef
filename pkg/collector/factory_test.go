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

package collector

import (
	"context"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenserver/bugtool/pkg/collector/command"
	"github.com/xenserver/bugtool/pkg/collector/dir"
	"github.com/xenserver/bugtool/pkg/collector/file"
	"github.com/xenserver/bugtool/pkg/collector/systemd"
	"github.com/xenserver/bugtool/pkg/diag"
	"github.com/xenserver/bugtool/pkg/errors"
	"github.com/xenserver/bugtool/pkg/probe"
)

func TestDefaultFactory_Create(t *testing.T) {
	f := NewDefaultFactory(WithBaseName("bug-report-1"))

	tests := []struct {
		kind probe.Kind
		want interface{}
	}{
		{probe.KindCommand, &command.Collector{}},
		{probe.KindFile, &file.Collector{}},
		{probe.KindDirectory, &dir.Collector{}},
		{probe.KindUnit, &systemd.Collector{}},
		{probe.KindBuiltin, &BuiltinCollector{}},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			c, err := f.Create(tt.kind)
			require.NoError(t, err)
			assert.IsType(t, tt.want, c)
		})
	}

	_, err := f.Create("telepathy")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidRequest, errors.CodeOf(err))
}

func TestDefaultFactory_Options(t *testing.T) {
	f := NewDefaultFactory(
		WithBaseName("base"),
		WithTimeout(5),
		WithOutputLimit(10),
		WithDirectoryLimit(20),
	)

	c, err := f.Create(probe.KindCommand)
	require.NoError(t, err)
	cmd := c.(*command.Collector)
	assert.EqualValues(t, 5, cmd.Timeout)
	assert.EqualValues(t, 10, cmd.Limit)

	c, err = f.Create(probe.KindDirectory)
	require.NoError(t, err)
	dc := c.(*dir.Collector)
	assert.Equal(t, "base", dc.Base)
	assert.EqualValues(t, 20, dc.Limit)

	c, err = f.Create(probe.KindBuiltin)
	require.NoError(t, err)
	assert.Equal(t, []string{
		BuiltinKernelCmdline,
		BuiltinKernelModules,
		BuiltinOSRelease,
		BuiltinSysctl,
		BuiltinClusterdDB,
		BuiltinXapiDB,
	}, c.(*BuiltinCollector).Names())
}

func TestBuiltin(t *testing.T) {
	f := NewDefaultFactory(
		WithBuiltin("hello", func(context.Context) (string, error) { return "hi\n", nil }),
		WithBuiltin("broken", func(context.Context) (string, error) {
			return "", errors.New(errors.ErrCodeConfigFailure, "no config")
		}),
		WithBuiltin("plain", func(context.Context) (string, error) { return "", stderrors.New("boom") }),
	)
	ctx := context.Background()

	res := Collect(ctx, f, probe.Probe{Name: "hello", Kind: probe.KindBuiltin, Builtin: "hello", Output: "hello.txt"})
	require.NoError(t, res.Err)
	assert.Equal(t, "hello.txt", res.Entry)
	assert.Equal(t, "hi\n", string(res.Data))

	res = Collect(ctx, f, probe.Probe{Name: "broken", Kind: probe.KindBuiltin, Builtin: "broken"})
	assert.Equal(t, errors.ErrCodeConfigFailure, errors.CodeOf(res.Err))
	assert.Equal(t, probe.StatusFailed, res.Status())
	assert.Equal(t, "Failed to run builtin broken: [CONFIG_FAILURE] no config\n", string(res.Data))

	res = Collect(ctx, f, probe.Probe{Name: "plain", Kind: probe.KindBuiltin, Builtin: "plain"})
	assert.Equal(t, errors.ErrCodeProbeFailure, errors.CodeOf(res.Err))
	assert.Equal(t, "Failed to run builtin plain: boom\n", string(res.Data))

	res = Collect(ctx, f, probe.Probe{Name: "nope", Kind: probe.KindBuiltin, Builtin: "nope"})
	assert.Equal(t, errors.ErrCodeNotFound, errors.CodeOf(res.Err))
	assert.Contains(t, string(res.Data), "unknown builtin")
}

func TestCollectUnsupportedKind(t *testing.T) {
	res := Collect(context.Background(), NewDefaultFactory(), probe.Probe{Name: "x", Kind: "bogus"})
	require.Error(t, res.Err)
	assert.Contains(t, string(res.Data), "Failed to run x")
}

func TestDefaultBuiltins(t *testing.T) {
	dirPath := t.TempDir()
	conf := filepath.Join(dirPath, "db.conf")
	db := filepath.Join(dirPath, "state.db")
	clusterDB := filepath.Join(dirPath, "clusterd-db")

	require.NoError(t, os.WriteFile(conf, []byte("["+db+"]\nmode:write_limit\n"), 0o644))
	require.NoError(t, os.WriteFile(db,
		[]byte(`<database><table name="secret"><row ref="r1" value="s3cr3t"/></table></database>`), 0o644))
	require.NoError(t, os.WriteFile(clusterDB, []byte(`{"token":"abc","x":1}`), 0o644))

	rec := diag.New(diag.WithOutput(&nopWriter{}))
	f := NewDefaultFactory(WithXapiDBConf(conf), WithClusterdDB(clusterDB), WithRecorder(rec))
	ctx := context.Background()

	res := Collect(ctx, f, probe.Probe{Name: "xapi-db", Kind: probe.KindBuiltin, Builtin: BuiltinXapiDB})
	require.NoError(t, res.Err)
	assert.Contains(t, string(res.Data), `value="REMOVED"`)
	assert.NotContains(t, string(res.Data), "s3cr3t")

	res = Collect(ctx, f, probe.Probe{Name: "clusterd", Kind: probe.KindBuiltin, Builtin: BuiltinClusterdDB})
	require.NoError(t, res.Err)
	assert.Equal(t, `{"token":"REMOVED","x":1}`, string(res.Data))

	missing := NewDefaultFactory(WithXapiDBConf(filepath.Join(dirPath, "absent.conf")))
	res = Collect(ctx, missing, probe.Probe{Name: "xapi-db", Kind: probe.KindBuiltin, Builtin: BuiltinXapiDB})
	require.Error(t, res.Err)
	assert.True(t, stderrors.Is(res.Err, fs.ErrNotExist))
	assert.Equal(t, errors.ErrCodeConfigFailure, errors.CodeOf(res.Err))
	assert.Contains(t, string(res.Data), "Failed to run builtin xapi-db:")
	assert.Empty(t, rec.Records())
}

func TestHostBuiltins(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "proc"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "proc", "cmdline"), []byte("ro quiet\n"), 0o644))

	f := NewDefaultFactory(WithHostRoot(root))
	res := Collect(context.Background(), f, probe.Probe{Name: "cmdline", Kind: probe.KindBuiltin, Builtin: BuiltinKernelCmdline})
	require.NoError(t, res.Err)
	assert.Equal(t, "ro\nquiet\n", string(res.Data))
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
