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

package dir

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xenserver/bugtool/pkg/archive"
	"github.com/xenserver/bugtool/pkg/defaults"
	"github.com/xenserver/bugtool/pkg/errors"
	"github.com/xenserver/bugtool/pkg/probe"
)

// Collector packs directory trees.
type Collector struct {
	// Base is the top-level directory of the nested archive.
	Base string
	// Limit bounds the total file content packed per probe.
	Limit int64
}

// NewCollector creates a directory collector for the run base name.
func NewCollector(base string) *Collector {
	return &Collector{Base: base, Limit: defaults.DirectoryOutputLimit}
}

// Collect walks the probe's directory and returns the tar archive as the
// entry content.
func (c *Collector) Collect(ctx context.Context, p probe.Probe) *probe.Result {
	start := time.Now()
	res := &probe.Result{Probe: p.Name, Entry: p.Entry(), SubArchive: true}

	limit := c.Limit
	if p.Limit > 0 {
		limit = p.Limit
	}

	b := archive.NewBuilder(c.Base)
	w := &walker{ctx: ctx, builder: b, remaining: limit, unlimited: limit <= 0}
	root := filepath.Clean(p.Path)

	if err := filepath.WalkDir(root, w.visit(root)); err != nil {
		res.Err = errors.Wrap(errors.ErrCodeProbeFailure, fmt.Sprintf("failed to walk %s", root), err)
		slog.Warn("directory probe incomplete", "probe", p.Name, "path", root, "error", err)
	}
	if w.skipped > 0 {
		slog.Debug("skipped unreadable paths", "probe", p.Name, "count", w.skipped)
	}

	var buf bytes.Buffer
	if err := b.WriteTo(&buf, archive.FormatTar); err != nil {
		res.Err = err
	}
	res.Data = buf.Bytes()
	res.Truncated = w.truncated
	res.Elapsed = time.Since(start)
	return res
}

type walker struct {
	ctx       context.Context
	builder   *archive.Builder
	remaining int64
	unlimited bool
	truncated bool
	skipped   int
}

func (w *walker) visit(root string) fs.WalkDirFunc {
	return func(path string, d fs.DirEntry, err error) error {
		if cerr := w.ctx.Err(); cerr != nil {
			return cerr
		}
		if err != nil {
			if path == root {
				return err
			}
			w.skipped++
			slog.Debug("skipping unreadable path", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		name := strings.TrimLeft(filepath.ToSlash(path), "/")
		info, err := d.Info()
		if err != nil {
			w.skipped++
			return nil
		}

		switch {
		case d.IsDir():
			return w.add(archive.Entry{Path: name, Type: archive.TypeDir, Mode: info.Mode().Perm(), ModTime: info.ModTime()})
		case d.Type()&fs.ModeSymlink != 0:
			target, err := os.Readlink(path)
			if err != nil {
				w.skipped++
				return nil
			}
			return w.add(archive.Entry{Path: name, Type: archive.TypeSymlink, Link: target, Mode: 0o777, ModTime: info.ModTime()})
		case d.Type().IsRegular():
			data, err := w.read(path, info.Size())
			if err != nil {
				w.skipped++
				slog.Debug("skipping unreadable file", "path", path, "error", err)
				return nil
			}
			return w.add(archive.Entry{Path: name, Type: archive.TypeFile, Data: data, Mode: info.Mode().Perm(), ModTime: info.ModTime()})
		default:
			// sockets, devices and pipes carry no content
			return nil
		}
	}
}

func (w *walker) add(e archive.Entry) error {
	if err := w.builder.Add(e); err != nil {
		w.skipped++
		slog.Debug("skipping entry", "path", e.Path, "error", err)
	}
	return nil
}

func (w *walker) read(path string, size int64) ([]byte, error) {
	if !w.unlimited && w.remaining <= 0 {
		w.truncated = true
		return nil, stderrors.New("directory output limit reached")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := io.Reader(f)
	if !w.unlimited {
		r = io.LimitReader(f, w.remaining)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if !w.unlimited {
		w.remaining -= int64(len(data))
		if int64(len(data)) < size {
			w.truncated = true
		}
	}
	return data, nil
}
