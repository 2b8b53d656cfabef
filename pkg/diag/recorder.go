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
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/xenserver/bugtool/pkg/errors"
)

// Record is one internal failure. Records are never removed during a run.
type Record struct {
	Filter string    `json:"filter" yaml:"filter"`
	Error  string    `json:"error" yaml:"error"`
	Time   time.Time `json:"time" yaml:"time"`
}

// Recorder serializes failure records to memory, a log writer and the
// visible output.
type Recorder struct {
	mu      sync.Mutex
	records []Record
	output  io.Writer
	log     io.Writer
	closer  io.Closer
	now     func() time.Time
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithOutput sets the visible output. Defaults to stderr.
func WithOutput(w io.Writer) Option {
	return func(r *Recorder) {
		r.output = w
	}
}

// WithLogWriter sets the log destination. Defaults to discarding.
func WithLogWriter(w io.Writer) Option {
	return func(r *Recorder) {
		r.log = w
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) {
		r.now = now
	}
}

// New creates a Recorder.
func New(opts ...Option) *Recorder {
	r := &Recorder{
		output: os.Stderr,
		log:    io.Discard,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Open creates a Recorder appending to the log file at path. The file is
// created if needed and never truncated.
func Open(path string, opts ...Option) (*Recorder, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %q: %w", path, err)
	}
	r := New(append([]Option{WithLogWriter(f)}, opts...)...)
	r.closer = f
	return r, nil
}

// Record stores a failure of the named filter. Safe to call on a nil Recorder.
func (r *Recorder) Record(filter string, err error) {
	if r == nil || err == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rec := Record{
		Filter: filter,
		Error:  describe(err),
		Time:   r.now().UTC(),
	}
	r.records = append(r.records, rec)

	slog.Error("internal filter error", "filter", filter, "error", rec.Error)

	if _, werr := fmt.Fprintf(r.output, "bugtool: Internal error: %s: %s\n", rec.Filter, rec.Error); werr != nil {
		slog.Debug("failed to write diagnostic to output", "error", werr)
	}
	if _, werr := fmt.Fprintf(r.log, "%s Internal error: %s: %s\n",
		rec.Time.Format(time.RFC3339), rec.Filter, rec.Error); werr != nil {
		slog.Warn("failed to append diagnostic to log", "error", werr)
	}
}

// describe renders a top-level structured error without its code prefix.
func describe(err error) string {
	se, ok := err.(*errors.StructuredError)
	if !ok {
		return err.Error()
	}
	if se.Cause == nil {
		return se.Message
	}
	return se.Message + ": " + se.Cause.Error()
}

// Records returns a copy of everything recorded so far.
func (r *Recorder) Records() []Record {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}

// Close closes the log file opened by Open.
func (r *Recorder) Close() error {
	if r == nil || r.closer == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	err := r.closer.Close()
	r.closer = nil
	r.log = io.Discard
	return err
}
