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

package snapshotter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"

	"github.com/xenserver/bugtool/pkg/archive"
	"github.com/xenserver/bugtool/pkg/collector"
	"github.com/xenserver/bugtool/pkg/collector/file"
	"github.com/xenserver/bugtool/pkg/defaults"
	"github.com/xenserver/bugtool/pkg/diag"
	"github.com/xenserver/bugtool/pkg/errors"
	"github.com/xenserver/bugtool/pkg/header"
	"github.com/xenserver/bugtool/pkg/probe"
	"github.com/xenserver/bugtool/pkg/redact"
)

// Snapshotter runs a probe list once and writes the archive. A Snapshotter
// holds the state of a single run and must not be reused.
type Snapshotter struct {
	probes        []probe.Probe
	version       string
	factory       collector.Factory
	generic       redact.Redactor
	xenstore      redact.Redactor
	recorder      *diag.Recorder
	outputDir     string
	baseName      string
	format        archive.Format
	parallel      int
	rate          float64
	timeout       time.Duration
	inventory     bool
	checksums     bool
	hostInventory string
	now           func() time.Time
}

// Option configures a Snapshotter.
type Option func(*Snapshotter)

// WithVersion records the tool version in the inventory.
func WithVersion(v string) Option {
	return func(s *Snapshotter) {
		s.version = v
	}
}

// WithFactory sets the collector factory. The default factory is built for
// the run base name and recorder.
func WithFactory(f collector.Factory) Option {
	return func(s *Snapshotter) {
		s.factory = f
	}
}

// WithRedactor replaces the generic redaction registry.
func WithRedactor(r redact.Redactor) Option {
	return func(s *Snapshotter) {
		s.generic = r
	}
}

// WithXenstoreRedactor replaces the xenstore filter.
func WithXenstoreRedactor(r redact.Redactor) Option {
	return func(s *Snapshotter) {
		s.xenstore = r
	}
}

// WithRecorder sets the diagnostics recorder of the run.
func WithRecorder(r *diag.Recorder) Option {
	return func(s *Snapshotter) {
		s.recorder = r
	}
}

// WithOutputDir sets where the archive is written.
func WithOutputDir(dir string) Option {
	return func(s *Snapshotter) {
		s.outputDir = dir
	}
}

// WithBaseName sets the top-level directory and archive file name.
func WithBaseName(name string) Option {
	return func(s *Snapshotter) {
		s.baseName = name
	}
}

// WithFormat sets the archive format.
func WithFormat(f archive.Format) Option {
	return func(s *Snapshotter) {
		s.format = f
	}
}

// WithParallel sets how many probes run at once.
func WithParallel(n int) Option {
	return func(s *Snapshotter) {
		s.parallel = n
	}
}

// WithRate limits probe launches per second. Zero or less disables pacing.
func WithRate(r float64) Option {
	return func(s *Snapshotter) {
		s.rate = r
	}
}

// WithRunTimeout bounds the whole run.
func WithRunTimeout(d time.Duration) Option {
	return func(s *Snapshotter) {
		s.timeout = d
	}
}

// WithInventory toggles the inventory.yaml entry.
func WithInventory(enabled bool) Option {
	return func(s *Snapshotter) {
		s.inventory = enabled
	}
}

// WithChecksums toggles the checksums.txt entry.
func WithChecksums(enabled bool) Option {
	return func(s *Snapshotter) {
		s.checksums = enabled
	}
}

// WithHostInventory sets the host description file read into the
// inventory. An empty path skips it.
func WithHostInventory(path string) Option {
	return func(s *Snapshotter) {
		s.hostInventory = path
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Snapshotter) {
		s.now = now
	}
}

// New creates a Snapshotter for probes, in catalog order.
func New(probes []probe.Probe, opts ...Option) *Snapshotter {
	s := &Snapshotter{
		probes:        probes,
		generic:       redact.NewRegistry(),
		xenstore:      redact.NewXenstoreFilter(),
		outputDir:     defaults.OutputDir,
		format:        archive.FormatTar,
		parallel:      defaults.Parallelism,
		rate:          defaults.ProbeRate,
		timeout:       defaults.RunTimeout,
		inventory:     true,
		checksums:     true,
		hostInventory: defaults.XensourceInventoryPath,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.baseName == "" {
		s.baseName = DefaultBaseName(s.now())
	}
	if s.factory == nil {
		s.factory = collector.NewDefaultFactory(
			collector.WithBaseName(s.baseName),
			collector.WithRecorder(s.recorder),
		)
	}
	if s.parallel < 1 {
		s.parallel = 1
	}
	return s
}

// DefaultBaseName names a run after its start time.
func DefaultBaseName(t time.Time) string {
	return "bug-report-" + t.UTC().Format("20060102150405")
}

// BaseName returns the run's top-level directory name.
func (s *Snapshotter) BaseName() string {
	return s.baseName
}

// ArchivePath returns where Measure writes the archive.
func (s *Snapshotter) ArchivePath() string {
	return filepath.Join(s.outputDir, s.baseName+"."+s.format.Extension())
}

// Measure runs every probe, filters the output and writes the archive.
// Probe and filter failures end up in the archive; only an invalid probe
// list or an archive that cannot be written fails the run.
func (s *Snapshotter) Measure(ctx context.Context) (*Inventory, error) {
	start := s.now()
	defer func() {
		runDuration.Observe(time.Since(start).Seconds())
	}()

	inv, err := s.measure(ctx, start)
	if err != nil {
		runTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	runTotal.WithLabelValues("success").Inc()
	return inv, nil
}

func (s *Snapshotter) measure(ctx context.Context, start time.Time) (*Inventory, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	slog.Info("starting collection",
		slog.String("base", s.baseName),
		slog.Int("probes", len(s.probes)),
		slog.Int("parallel", s.parallel))

	results := s.run(ctx)

	b := archive.NewBuilder(s.baseName, archive.WithModTime(start))
	inv := &Inventory{
		RunID:   uuid.NewString(),
		Base:    s.baseName,
		Archive: s.ArchivePath(),
		Format:  string(s.format),
		Host:    s.host(),
		Started: start.UTC(),
		Entries: make([]InventoryEntry, 0, len(results)),
	}
	inv.Init(header.KindInventory, s.version, inv.Started)

	for i, res := range results {
		p := s.probes[i]
		if err := b.Add(archive.File(res.Entry, res.Data)); err != nil {
			return nil, errors.Wrap(errors.ErrCodeArchiveFailure, "failed to add entry", err)
		}
		inv.Entries = append(inv.Entries, newInventoryEntry(p, res))
	}

	for _, r := range s.recorder.Records() {
		inv.Diagnostics = append(inv.Diagnostics, Diagnostic{Filter: r.Filter, Error: r.Error})
	}
	inv.Finished = s.now().UTC()

	if s.inventory {
		data, err := yaml.Marshal(inv)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, "failed to serialize inventory", err)
		}
		if err := b.Add(archive.File(InventoryFileName, data)); err != nil {
			return nil, errors.Wrap(errors.ErrCodeArchiveFailure, "failed to add inventory", err)
		}
	}
	if s.checksums {
		if err := b.Add(archive.File(archive.ChecksumFileName, b.Checksums())); err != nil {
			return nil, errors.Wrap(errors.ErrCodeArchiveFailure, "failed to add checksums", err)
		}
	}

	if err := b.WriteFile(inv.Archive, s.format); err != nil {
		slog.Error("failed to write archive", slog.String("path", inv.Archive), slog.String("error", err.Error()))
		return nil, err
	}
	if fi, err := os.Stat(inv.Archive); err == nil {
		archiveBytes.Set(float64(fi.Size()))
	}

	slog.Info("collection complete",
		slog.String("archive", inv.Archive),
		slog.Int("entries", b.Len()),
		slog.Duration("elapsed", time.Since(start)))

	return inv, nil
}

// validate rejects invalid probes and probes that would share an entry.
func (s *Snapshotter) validate() error {
	reserved := map[string]string{
		InventoryFileName:        "inventory",
		archive.ChecksumFileName: "checksums",
	}
	seen := make(map[string]string, len(s.probes))
	for _, p := range s.probes {
		if err := p.Validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidRequest, "invalid probe", err)
		}
		entry := p.Entry()
		if other, ok := seen[entry]; ok {
			return errors.NewWithContext(errors.ErrCodeInvalidRequest,
				fmt.Sprintf("probes %q and %q write the same entry %q", other, p.Name, entry),
				map[string]any{"entry": entry})
		}
		if owner, ok := reserved[entry]; ok {
			return errors.New(errors.ErrCodeInvalidRequest,
				fmt.Sprintf("probe %q writes the %s entry %q", p.Name, owner, entry))
		}
		seen[entry] = p.Name
	}
	return nil
}

// run executes the probes on a bounded worker pool and returns their
// filtered results indexed like s.probes.
func (s *Snapshotter) run(ctx context.Context) []*probe.Result {
	limit := rate.Inf
	if s.rate > 0 {
		limit = rate.Limit(s.rate)
	}
	limiter := rate.NewLimiter(limit, 1)

	results := make([]*probe.Result, len(s.probes))

	var g errgroup.Group
	g.SetLimit(s.parallel)

	for i, p := range s.probes {
		g.Go(func() error {
			if err := limiter.Wait(ctx); err != nil {
				results[i] = skipped(p, err)
				probeTotal.WithLabelValues(string(p.Kind), string(probe.StatusTimeout)).Inc()
				return nil
			}

			res := s.collectOne(ctx, p)
			probeDuration.WithLabelValues(string(p.Kind)).Observe(res.Elapsed.Seconds())
			probeTotal.WithLabelValues(string(p.Kind), string(res.Status())).Inc()
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// collectOne runs and filters a single probe. A panic in a collector or
// filter becomes a failed result for that probe only.
func (s *Snapshotter) collectOne(ctx context.Context, p probe.Probe) (res *probe.Result) {
	start := time.Now()
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		err := errors.New(errors.ErrCodeInternal, fmt.Sprintf("%s panicked: %v", p.Name, r))
		slog.Error("probe panicked",
			slog.String("probe", p.Name),
			slog.Any("panic", r),
			slog.String("stack", string(debug.Stack())))
		s.recorder.Record(p.Name, err)
		res = &probe.Result{
			Probe:    p.Name,
			Entry:    p.Entry(),
			Data:     []byte(fmt.Sprintf("Failed to run %s: %v\n", p.Name, r)),
			ExitCode: -1,
			Elapsed:  time.Since(start),
			Err:      err,
		}
	}()

	slog.Debug("running probe", slog.String("probe", p.Name), slog.String("kind", string(p.Kind)))
	res = collector.Collect(ctx, s.factory, p)
	return s.filter(p, res)
}

// filter applies the probe's text filter. Builtin and directory output is
// produced already filtered or packed and is stored as is.
func (s *Snapshotter) filter(p probe.Probe, res *probe.Result) *probe.Result {
	if res.SubArchive || p.Kind == probe.KindBuiltin || p.Kind == probe.KindDirectory {
		return res
	}

	var r redact.Redactor
	switch p.Filter {
	case probe.FilterNone:
		return res
	case probe.FilterXenstore:
		r = s.xenstore
	default:
		r = s.generic
	}

	out := *res
	out.Data = r.Redact(res.Data)
	return &out
}

// host reads the installation description. Failures leave it empty.
func (s *Snapshotter) host() map[string]string {
	if s.hostInventory == "" {
		return nil
	}
	m, err := file.NewParser(file.WithVTrimChars(`'"`)).GetMap(s.hostInventory)
	if err != nil {
		slog.Debug("host inventory unavailable", slog.String("path", s.hostInventory), slog.String("error", err.Error()))
		return nil
	}
	return m
}

func skipped(p probe.Probe, err error) *probe.Result {
	return &probe.Result{
		Probe:    p.Name,
		Entry:    p.Entry(),
		Data:     []byte(fmt.Sprintf("Failed to run %s: %v\n", p.Name, err)),
		TimedOut: true,
		ExitCode: -1,
		Err:      errors.Wrap(errors.ErrCodeTimeout, "probe not started", err),
	}
}
