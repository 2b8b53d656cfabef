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

package xapidb

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNestedRoundTrip(t *testing.T) {
	inputs := []string{
		``,
		`()`,
		`(('EFI-variables'%.'private data'))`,
		`('NVRAM'%.'(('_%.'_')%.(\'EFI-variables\'%.\'data\')()`,
		`('NVRAM'%.'((\'EFI-variables\'%.\'abc\'))')`,
		`'unterminated`,
		`((( open groups`,
		`'a ) b'`,
		`100% sure \\ not a quote \\\'nested\\\'`,
		`%.%.%`,
	}
	for _, in := range inputs {
		root, err := parseNested(in)
		require.NoError(t, err, in)
		assert.Equal(t, in, root.content(), "round trip of %q", in)
	}
}

func TestParseNestedErrors(t *testing.T) {
	_, err := parseNested(`())`)
	assert.ErrorIs(t, err, errStrayParen)

	_, err = parseNested(strings.Repeat("(", maxNestingDepth+1))
	assert.ErrorIs(t, err, errTooDeep)

	_, err = parseNested(strings.Repeat("(", maxNestingDepth))
	assert.NoError(t, err)
}

func TestTokenizeQuoteLevels(t *testing.T) {
	toks := tokenize(`'a\'b\\\'c\\d`)
	kinds := make([]tokenKind, 0, len(toks))
	levels := make([]int, 0, len(toks))
	for _, tk := range toks {
		kinds = append(kinds, tk.kind)
		levels = append(levels, tk.level)
	}
	assert.Equal(t, []tokenKind{tokQuote, tokText, tokQuote, tokText, tokQuote, tokText}, kinds)
	assert.Equal(t, []int{0, 0, 1, 0, 3, 0}, levels)
	assert.Equal(t, `c\\d`, toks[5].text)
}

func TestRedactNested(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		want  string
		count int
	}{
		{
			name:  "plain NVRAM",
			in:    `(('EFI-variables'%.'private data'))`,
			want:  `(('EFI-variables'%.'REMOVED'))`,
			count: 1,
		},
		{
			name:  "escaped inside snapshot metadata",
			in:    `('NVRAM'%.'(('_%.'_')%.(\'EFI-variables\'%.\'data\')()`,
			want:  `('NVRAM'%.'(('_%.'_')%.(\'EFI-variables\'%.\'REMOVED\')()`,
			count: 1,
		},
		{
			name:  "well nested snapshot metadata",
			in:    `(('NVRAM'%.'((\'EFI-variables\'%.\'ZGF0YQ==\'))')%.('other'%.'x'))`,
			want:  `(('NVRAM'%.'((\'EFI-variables\'%.\'REMOVED\'))')%.('other'%.'x'))`,
			count: 1,
		},
		{
			name:  "several keys",
			in:    `(('EFI-variables'%.'a'))(('EFI-variables'%.'b'))`,
			want:  `(('EFI-variables'%.'REMOVED'))(('EFI-variables'%.'REMOVED'))`,
			count: 2,
		},
		{
			name: "mismatched levels untouched",
			in:   `(('EFI-variables'%.\'x\'))`,
			want: `(('EFI-variables'%.\'x\'))`,
		},
		{
			name: "other keys untouched",
			in:   `(('name'%.'value'))`,
			want: `(('name'%.'value'))`,
		},
		{
			name:  "already redacted",
			in:    `(('EFI-variables'%.'REMOVED'))`,
			want:  `(('EFI-variables'%.'REMOVED'))`,
			count: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, n, err := RedactNested(tt.in, "REMOVED")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.count, n)
		})
	}
}
