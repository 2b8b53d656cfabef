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

package serializer

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string            `json:"name" yaml:"name"`
	Count int               `json:"count" yaml:"count"`
	Tags  []string          `json:"tags" yaml:"tags"`
	Meta  map[string]string `json:"meta" yaml:"meta"`
}

type grid [][]string

func (g grid) Header() []string { return []string{"NAME", "KIND"} }
func (g grid) Rows() [][]string { return g }

func TestSerialize(t *testing.T) {
	v := sample{Name: "xapi", Count: 2, Tags: []string{"a"}, Meta: map[string]string{"k": "v"}}

	tests := []struct {
		format Format
		want   string
	}{
		{FormatJSON, "{\n  \"name\": \"xapi\",\n  \"count\": 2,\n  \"tags\": [\n    \"a\"\n  ],\n  \"meta\": {\n    \"k\": \"v\"\n  }\n}\n"},
		{FormatYAML, "name: xapi\ncount: 2\ntags:\n  - a\nmeta:\n  k: v\n"},
		{FormatTable, "FIELD   VALUE\n-----   -----\ncount   2\nmeta.k  v\nname    xapi\ntags.0  a\n"},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, NewWriter(tt.format, &buf).Serialize(context.Background(), v))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestSerializeTabular(t *testing.T) {
	var buf bytes.Buffer
	g := grid{{"xapi-db", "builtin"}, {"xensource-inventory", "file"}}
	require.NoError(t, NewWriter(FormatTable, &buf).Serialize(context.Background(), g))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "NAME                 KIND", lines[0])
	assert.Equal(t, "----                 ----", lines[1])
	assert.Equal(t, "xapi-db              builtin", lines[2])
	assert.Equal(t, "xensource-inventory  file", lines[3])
}

func TestSerializeEmptyTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(FormatTable, &buf).Serialize(context.Background(), struct{}{}))
	assert.Equal(t, "<empty>\n", buf.String())
}

func TestSerializeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer
	assert.Error(t, NewWriter(FormatJSON, &buf).Serialize(ctx, 1))
	assert.Empty(t, buf.String())
}

func TestUnknownFormatDefaultsToJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter("xml", &buf).Serialize(context.Background(), map[string]int{"a": 1}))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" YAML ")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = ParseFormat("csv")
	assert.ErrorContains(t, err, "json, yaml, table")
}

func TestNilOutputIsStdout(t *testing.T) {
	w := NewWriter(FormatYAML, nil)
	assert.Equal(t, os.Stdout, w.out)
	assert.Equal(t, FormatYAML, w.format)
}

func TestFlattenScalar(t *testing.T) {
	rows, err := flatten("plain")
	require.NoError(t, err)
	assert.Equal(t, fieldTable{{"value", "plain"}}, rows)

	rows, err = flatten(map[string]any{"b": []int{3, 4}, "a": nil})
	require.NoError(t, err)
	assert.Equal(t, fieldTable{{"a", ""}, {"b.0", "3"}, {"b.1", "4"}}, rows)
}
