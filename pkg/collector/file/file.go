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

package file

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/xenserver/bugtool/pkg/defaults"
	"github.com/xenserver/bugtool/pkg/errors"
	"github.com/xenserver/bugtool/pkg/probe"
)

// Collector reads file probes.
type Collector struct {
	Limit int64
}

// NewCollector creates a file collector with the default output limit.
func NewCollector() *Collector {
	return &Collector{Limit: defaults.ProbeOutputLimit}
}

// Collect reads the probe's file. It never fails: read errors become the
// entry content.
func (c *Collector) Collect(ctx context.Context, p probe.Probe) *probe.Result {
	start := time.Now()
	res := &probe.Result{Probe: p.Name, Entry: p.Entry()}

	limit := c.Limit
	if p.Limit > 0 {
		limit = p.Limit
	}

	data, truncated, err := readLimited(ctx, p.Path, limit)
	if err != nil {
		slog.Debug("file probe failed", "probe", p.Name, "path", p.Path, "error", err)
		res.Data = []byte(FailureMessage(p.Path, err))
		res.Err = errors.Wrap(errors.ErrCodeProbeFailure, fmt.Sprintf("failed to read %s", p.Path), err)
	} else {
		res.Data = data
		res.Truncated = truncated
	}

	res.Elapsed = time.Since(start)
	return res
}

func readLimited(ctx context.Context, path string, limit int64) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, false, err
	}
	defer f.Close()

	r := io.Reader(f)
	if limit > 0 {
		r = io.LimitReader(f, limit+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, false, err
	}
	if limit > 0 && int64(len(data)) > limit {
		return data[:limit], true, nil
	}
	return data, false, nil
}
