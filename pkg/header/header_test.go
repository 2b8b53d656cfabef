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

package header

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"
)

func TestKind(t *testing.T) {
	assert.True(t, KindInventory.IsValid())
	assert.False(t, Kind("Recipe").IsValid())
	assert.Equal(t, "Inventory", KindInventory.String())
}

func TestNew(t *testing.T) {
	h := New(WithKind(KindInventory), WithMetadata("source", "embedded"))
	assert.Equal(t, KindInventory, h.Kind)
	assert.Equal(t, APIVersion, h.APIVersion)
	assert.Equal(t, map[string]string{"source": "embedded"}, h.Metadata)

	h = New(WithAPIVersion("bugtool.xenserver.com/v2"))
	assert.Equal(t, "bugtool.xenserver.com/v2", h.APIVersion)
}

func TestInit(t *testing.T) {
	created := time.Date(2025, 3, 4, 5, 6, 7, 0, time.FixedZone("X", 3600))

	var h Header
	h.Init(KindInventory, "v1.2.3", created)
	assert.Equal(t, KindInventory, h.Kind)
	assert.Equal(t, APIVersion, h.APIVersion)
	assert.Equal(t, "2025-03-04T04:06:07Z", h.Metadata[MetadataTimestamp])
	assert.Equal(t, "v1.2.3", h.Version())

	h.Init(KindInventory, "", created)
	assert.Empty(t, h.Version())
	assert.Len(t, h.Metadata, 1)
}

func TestInlineYAML(t *testing.T) {
	doc := struct {
		Header `yaml:",inline"`
		Name   string `yaml:"name"`
	}{Name: "x"}
	doc.Init(KindInventory, "v1", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	out, err := yaml.Marshal(doc)
	assert.NoError(t, err)
	assert.Equal(t, "kind: Inventory\napiVersion: bugtool.xenserver.com/v1\nmetadata:\n    timestamp: \"2025-01-01T00:00:00Z\"\n    version: v1\nname: x\n", string(out))
}
