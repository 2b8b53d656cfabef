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

package archive

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/xenserver/bugtool/pkg/errors"
)

// ChecksumFileName is the standard name for checksum files.
const ChecksumFileName = "checksums.txt"

// Builder accumulates entries for one archive. It is safe for concurrent
// use, but entries are written in the order they were added.
type Builder struct {
	mu      sync.Mutex
	base    string
	modTime time.Time
	entries []Entry
	paths   map[string]struct{}
}

// Option configures a Builder.
type Option func(*Builder)

// WithModTime sets the time stamped on entries that carry none.
func WithModTime(t time.Time) Option {
	return func(b *Builder) {
		b.modTime = t
	}
}

// NewBuilder creates a Builder whose entries live under base.
func NewBuilder(base string, opts ...Option) *Builder {
	b := &Builder{
		base:    strings.Trim(base, "/"),
		modTime: time.Now(),
		paths:   make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Base returns the top-level directory name.
func (b *Builder) Base() string {
	return b.base
}

// Add appends an entry. Paths must be unique.
func (b *Builder) Add(e Entry) error {
	p, err := CleanPath(e.Path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidRequest, "invalid archive entry", err)
	}
	e.Path = p
	if e.ModTime.IsZero() {
		e.ModTime = b.modTime
	}
	if e.Mode == 0 {
		e.Mode = 0o644
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, dup := b.paths[p]; dup {
		return errors.New(errors.ErrCodeInvalidRequest, fmt.Sprintf("duplicate archive entry %q", p))
	}
	b.paths[p] = struct{}{}
	b.entries = append(b.entries, e)
	return nil
}

// Entries returns a copy of the entries in insertion order.
func (b *Builder) Entries() []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Entry, len(b.entries))
	copy(out, b.entries)
	return out
}

// Len returns the number of entries.
func (b *Builder) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

// Checksums renders "<sha256>  <path>" lines for every file entry.
func (b *Builder) Checksums() []byte {
	var sb strings.Builder
	for _, e := range b.Entries() {
		if e.Type != TypeFile {
			continue
		}
		sum := sha256.Sum256(e.Data)
		fmt.Fprintf(&sb, "%s  %s\n", hex.EncodeToString(sum[:]), e.Path)
	}
	return []byte(sb.String())
}

// WriteTo serializes every entry in format to w.
func (b *Builder) WriteTo(w io.Writer, format Format) error {
	entries := b.Entries()
	var err error
	switch format {
	case FormatTar:
		err = writeTar(w, b.base, entries, false)
	case FormatTarGz:
		err = writeTar(w, b.base, entries, true)
	case FormatZip:
		err = writeZip(w, b.base, entries)
	default:
		return errors.New(errors.ErrCodeInvalidRequest, fmt.Sprintf("unknown archive format %q", format))
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeArchiveFailure, "failed to write archive", err)
	}
	return nil
}

// WriteFile writes the archive to path atomically: it is written to a
// temporary file in the same directory and renamed into place.
func (b *Builder) WriteFile(dst string, format Format) error {
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return errors.Wrap(errors.ErrCodeArchiveFailure, fmt.Sprintf("failed to create %s", dir), err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dst)+".*")
	if err != nil {
		return errors.Wrap(errors.ErrCodeArchiveFailure, "failed to create archive file", err)
	}
	defer os.Remove(tmp.Name())

	bw := bufio.NewWriter(tmp)
	if err := b.WriteTo(bw, format); err != nil {
		tmp.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodeArchiveFailure, "failed to flush archive", err)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeArchiveFailure, "failed to close archive", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return errors.Wrap(errors.ErrCodeArchiveFailure, fmt.Sprintf("failed to move archive to %s", dst), err)
	}

	slog.Debug("archive written", "path", dst, "format", format, "entries", b.Len())
	return nil
}

func fullName(base, p string) string {
	if base == "" {
		return p
	}
	return path.Join(base, p)
}
