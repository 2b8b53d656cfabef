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

package clusterd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenserver/bugtool/pkg/diag"
	"github.com/xenserver/bugtool/pkg/errors"
)

const original = `
{
    "token": "secret-token",
    "cluster_config": {
        "pems": {
            "blobs": "secret-blob"
        },
        "authkey": "secret-key"
    },
    "old_cluster_config": {
        "pems": {
            "blobs": "secret-blob"
        },
        "authkey": "secret-key"
    },
    "max_config_version": 1
}`

func dump(t *testing.T, content string, opts ...Option) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "db")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	got, err := NewFilter(append([]Option{WithPath(path)}, opts...)...).Dump(context.Background())
	require.NoError(t, err)
	return got
}

func TestRemovalOfAllSecrets(t *testing.T) {
	got := dump(t, original)

	want := strings.NewReplacer(
		`"secret-token"`, `"REMOVED"`,
		`"secret-blob"`, `"REMOVED"`,
		`"secret-key"`, `"REMOVED"`,
	).Replace(original)
	assert.Equal(t, want, got)
}

// document builds a cluster database with only the selected fields.
func document(fields map[string]bool, secret func(string) string) map[string]any {
	doc := map[string]any{"max_config_version": 1}
	if fields["token"] {
		doc["token"] = secret("secret-token")
	}
	for _, key := range []string{"cluster_config", "old_cluster_config"} {
		if !fields[key] {
			continue
		}
		cfg := map[string]any{}
		if fields["authkey"] {
			cfg["authkey"] = secret("secret-key")
		}
		if fields["pems"] {
			pems := map[string]any{}
			if fields["blobs"] {
				pems["blobs"] = secret("secret-blob")
			}
			cfg["pems"] = pems
		}
		doc[key] = cfg
	}
	return doc
}

func TestAllSubsetsOfFields(t *testing.T) {
	names := []string{"token", "cluster_config", "old_cluster_config", "pems", "blobs", "authkey"}
	keep := func(s string) string { return s }
	removed := func(string) string { return "REMOVED" }

	for mask := 0; mask < 1<<len(names); mask++ {
		fields := make(map[string]bool, len(names))
		for i, n := range names {
			fields[n] = mask&(1<<i) == 0
		}

		in, err := json.Marshal(document(fields, keep))
		require.NoError(t, err)
		want, err := json.Marshal(document(fields, removed))
		require.NoError(t, err)

		got, err := Redact(in)
		require.NoError(t, err, "mask %b", mask)
		assert.JSONEq(t, string(want), string(got), "mask %b", mask)
	}
}

func TestUnrelatedFieldsKeepPosition(t *testing.T) {
	in := `{"a":1,"token":"t","b":[1,2],"cluster_config":{"x":"y","authkey":"k"},"z":null}`
	got, err := Redact([]byte(in))
	require.NoError(t, err)
	assert.Equal(t, `{"a":1,"token":"REMOVED","b":[1,2],"cluster_config":{"x":"y","authkey":"REMOVED"},"z":null}`, string(got))
}

func TestDuplicateSecretKeys(t *testing.T) {
	tests := []struct {
		name string
		in   string
		key  string
	}{
		{name: "token", in: `{"token":"a","token":"b"}`, key: "token"},
		{name: "nested authkey", in: `{"cluster_config":{"authkey":"k1","authkey":"k2"}}`, key: "cluster_config.authkey"},
		{name: "both", in: `{"token":"first","token":"second","cluster_config":{"authkey":"k1","authkey":"k2"}}`, key: "token"},
		{name: "repeated parent", in: `{"old_cluster_config":{"x":1},"old_cluster_config":{"authkey":"k"}}`, key: "old_cluster_config"},
		{name: "repeated blobs", in: `{"cluster_config":{"pems":{"blobs":"a","blobs":"b"}}}`, key: "cluster_config.pems.blobs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Redact([]byte(tt.in))
			require.Error(t, err)
			assert.Nil(t, got)
			assert.Equal(t, errors.ErrCodeFilterFailure, errors.CodeOf(err))
			assert.Contains(t, err.Error(), `duplicate key "`+tt.key+`"`)
		})
	}
}

func TestDuplicateUnrelatedKeysAllowed(t *testing.T) {
	got, err := Redact([]byte(`{"x":1,"x":2,"cluster_config":{"y":1,"y":2,"authkey":"k"}}`))
	require.NoError(t, err)
	assert.Equal(t, `{"x":1,"x":2,"cluster_config":{"y":1,"y":2,"authkey":"REMOVED"}}`, string(got))
}

func TestDuplicateSecretDumpsEmpty(t *testing.T) {
	var out bytes.Buffer
	rec := diag.New(diag.WithOutput(&out))

	got := dump(t, `{"token":"first","token":"second-secret"}`, WithRecorder(rec))
	assert.Equal(t, "", got)
	assert.NotContains(t, got, "second-secret")
	assert.Equal(t, "bugtool: Internal error: "+FilterName+": failed to parse JSON: duplicate key \"token\"\n", out.String())
	require.Len(t, rec.Records(), 1)
}

func TestNoDatabase(t *testing.T) {
	f := NewFilter(WithPath(filepath.Join(t.TempDir(), "does", "not", "exist")))
	got, err := f.Dump(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestInvalidDatabase(t *testing.T) {
	var out, log bytes.Buffer
	rec := diag.New(diag.WithOutput(&out), diag.WithLogWriter(&log))

	got := dump(t, "invalid json", WithRecorder(rec))
	assert.Equal(t, "", got)

	assert.True(t, strings.HasPrefix(out.String(), "bugtool: Internal error: "+FilterName+": failed to parse JSON: "))
	assert.Contains(t, out.String(), FilterName)
	assert.Contains(t, out.String(), "JSON")
	assert.Contains(t, log.String(), FilterName)
	assert.Contains(t, log.String(), "JSON")

	recs := rec.Records()
	require.Len(t, recs, 1)
	assert.Equal(t, FilterName, recs[0].Filter)
}

func TestInvalidDatabaseDefaultRecorder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db")
	require.NoError(t, os.WriteFile(path, []byte("invalid json"), 0o600))

	f := NewFilter(WithPath(path))
	require.NotNil(t, f.recorder)

	got, err := f.Dump(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "", got)
	require.Len(t, f.recorder.Records(), 1)
	assert.Equal(t, FilterName, f.recorder.Records()[0].Filter)
}

func TestIdempotent(t *testing.T) {
	once, err := Redact([]byte(original))
	require.NoError(t, err)
	twice, err := Redact(once)
	require.NoError(t, err)
	assert.Equal(t, string(once), string(twice))
}
