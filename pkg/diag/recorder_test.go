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

package diag

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bterrors "github.com/xenserver/bugtool/pkg/errors"
)

func TestRecord(t *testing.T) {
	var out, log bytes.Buffer
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	r := New(WithOutput(&out), WithLogWriter(&log), WithClock(func() time.Time { return fixed }))

	r.Record("filter_xapi_clusterd_db", errors.New("failed to parse JSON: unexpected end"))

	assert.Equal(t, "bugtool: Internal error: filter_xapi_clusterd_db: failed to parse JSON: unexpected end\n", out.String())
	assert.Equal(t, "2025-03-01T12:00:00Z Internal error: filter_xapi_clusterd_db: failed to parse JSON: unexpected end\n", log.String())

	recs := r.Records()
	require.Len(t, recs, 1)
	assert.Equal(t, "filter_xapi_clusterd_db", recs[0].Filter)
	assert.Equal(t, fixed, recs[0].Time)
}

func TestRecordStructuredError(t *testing.T) {
	var out bytes.Buffer
	r := New(WithOutput(&out))

	r.Record("filter_xapi_clusterd_db",
		bterrors.Wrap(bterrors.ErrCodeFilterFailure, "failed to parse JSON", errors.New("invalid character 'i'")))
	r.Record("filter_xapi_db", bterrors.New(bterrors.ErrCodeFilterFailure, "nesting too deep"))

	assert.Equal(t,
		"bugtool: Internal error: filter_xapi_clusterd_db: failed to parse JSON: invalid character 'i'\n"+
			"bugtool: Internal error: filter_xapi_db: nesting too deep\n", out.String())
}

func TestRecordsIsCopy(t *testing.T) {
	r := New(WithOutput(&bytes.Buffer{}))
	r.Record("a", errors.New("x"))

	recs := r.Records()
	recs[0].Filter = "mutated"
	assert.Equal(t, "a", r.Records()[0].Filter)
}

func TestNilAndNoError(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() { r.Record("a", errors.New("x")) })
	assert.Nil(t, r.Records())
	assert.NoError(t, r.Close())

	var out bytes.Buffer
	r = New(WithOutput(&out))
	r.Record("a", nil)
	assert.Empty(t, r.Records())
	assert.Empty(t, out.String())
}

func TestOpenAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bugtool.log")
	require.NoError(t, os.WriteFile(path, []byte("previous run\n"), 0o600))

	r, err := Open(path, WithOutput(&bytes.Buffer{}))
	require.NoError(t, err)
	r.Record("filter_xapi_db", errors.New("nesting too deep"))
	require.NoError(t, r.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "previous run", lines[0])
	assert.Contains(t, lines[1], "filter_xapi_db: nesting too deep")
}

func TestOpenFails(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing", "bugtool.log"))
	assert.Error(t, err)
}

func TestConcurrentRecord(t *testing.T) {
	var out, log bytes.Buffer
	r := New(WithOutput(&out), WithLogWriter(&log))

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Record(fmt.Sprintf("f%d", i), errors.New("boom"))
		}()
	}
	wg.Wait()

	assert.Len(t, r.Records(), 50)
	assert.Equal(t, 50, strings.Count(log.String(), "\n"))
	assert.Equal(t, 50, strings.Count(out.String(), "\n"))
}
