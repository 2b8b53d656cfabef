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

package command

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os/exec"
	"sync"
	"time"

	"github.com/xenserver/bugtool/pkg/defaults"
	"github.com/xenserver/bugtool/pkg/errors"
	"github.com/xenserver/bugtool/pkg/probe"
)

// Collector runs command probes.
type Collector struct {
	// Timeout applies to probes that do not set their own.
	Timeout time.Duration
	// Limit applies to probes that do not set their own.
	Limit int64
	// KillGrace bounds the wait for output pipes after the command exited
	// or was killed.
	KillGrace time.Duration
}

// NewCollector creates a command collector with default budgets.
func NewCollector() *Collector {
	return &Collector{
		Timeout:   defaults.ProbeTimeout,
		Limit:     defaults.ProbeOutputLimit,
		KillGrace: defaults.ProbeKillGrace,
	}
}

// Collect runs the probe's command.
func (c *Collector) Collect(ctx context.Context, p probe.Probe) *probe.Result {
	start := time.Now()
	res := &probe.Result{Probe: p.Name, Entry: p.Entry()}
	label := probe.CommandLabel(p.Command)

	timeout := c.Timeout
	if p.Timeout > 0 {
		timeout = p.Timeout
	}
	limit := c.Limit
	if p.Limit > 0 {
		limit = p.Limit
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out := &limitWriter{limit: limit}
	cmd := exec.CommandContext(runCtx, p.Command[0], p.Command[1:]...)
	cmd.Stdout = out
	cmd.Stderr = out
	cmd.WaitDelay = c.KillGrace
	setProcessGroup(cmd)

	if err := cmd.Start(); err != nil {
		slog.Debug("command failed to start", "probe", p.Name, "error", err)
		res.Data = fmt.Appendf(nil, "Failed to run %s: %v\n", label, err)
		res.Err = errors.Wrap(errors.ErrCodeProbeFailure, fmt.Sprintf("failed to start %s", label), err)
		res.Elapsed = time.Since(start)
		return res
	}

	err := cmd.Wait()
	res.Elapsed = time.Since(start)
	res.Data, res.Truncated = out.result()

	var exitErr *exec.ExitError
	switch {
	case stderrors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil:
		res.TimedOut = true
		res.Truncated = true
		res.ExitCode = -1
		res.Err = errors.WrapWithContext(errors.ErrCodeTimeout,
			fmt.Sprintf("%s timed out", label), runCtx.Err(), map[string]any{"timeout": timeout.String()})
		slog.Warn("probe timed out", "probe", p.Name, "timeout", timeout)
	case ctx.Err() != nil:
		res.ExitCode = -1
		res.Err = errors.Wrap(errors.ErrCodeProbeFailure, fmt.Sprintf("%s cancelled", label), ctx.Err())
	case stderrors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
		res.Err = errors.Wrap(errors.ErrCodeProbeFailure, fmt.Sprintf("%s exited with status %d", label, res.ExitCode), err)
	case stderrors.Is(err, exec.ErrWaitDelay):
		// the command exited but something it started kept the output open
		res.Truncated = true
	case err != nil:
		res.Err = errors.Wrap(errors.ErrCodeProbeFailure, fmt.Sprintf("%s failed", label), err)
	}

	return res
}

// limitWriter keeps the first limit bytes written to it and silently drops
// the rest, so the command never blocks on a full pipe.
type limitWriter struct {
	mu        sync.Mutex
	buf       bytes.Buffer
	limit     int64
	truncated bool
}

func (w *limitWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.limit <= 0 {
		w.buf.Write(p)
		return len(p), nil
	}

	remaining := w.limit - int64(w.buf.Len())
	if int64(len(p)) > remaining {
		if remaining > 0 {
			w.buf.Write(p[:remaining])
		}
		w.truncated = true
		return len(p), nil
	}
	w.buf.Write(p)
	return len(p), nil
}

func (w *limitWriter) result() ([]byte, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return bytes.Clone(w.buf.Bytes()), w.truncated
}
