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
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"fmt"
	"io"
	"io/fs"
)

func writeTar(w io.Writer, base string, entries []Entry, compress bool) (err error) {
	if compress {
		gz := gzip.NewWriter(w)
		defer func() {
			if cerr := gz.Close(); err == nil && cerr != nil {
				err = fmt.Errorf("failed to finish gzip stream: %w", cerr)
			}
		}()
		w = gz
	}

	tw := tar.NewWriter(w)
	for _, e := range entries {
		hdr := &tar.Header{
			Name:    fullName(base, e.Path),
			Mode:    int64(e.Mode.Perm()),
			ModTime: e.ModTime,
			Format:  tar.FormatPAX,
		}
		switch e.Type {
		case TypeDir:
			hdr.Typeflag = tar.TypeDir
			hdr.Name += "/"
		case TypeSymlink:
			hdr.Typeflag = tar.TypeSymlink
			hdr.Linkname = e.Link
		default:
			hdr.Typeflag = tar.TypeReg
			hdr.Size = int64(len(e.Data))
		}

		if err := tw.WriteHeader(hdr); err != nil {
			return fmt.Errorf("failed to write header for %s: %w", e.Path, err)
		}
		if e.Type == TypeFile {
			if _, err := tw.Write(e.Data); err != nil {
				return fmt.Errorf("failed to write %s: %w", e.Path, err)
			}
		}
	}
	if err := tw.Close(); err != nil {
		return fmt.Errorf("failed to finish tar stream: %w", err)
	}
	return nil
}

func writeZip(w io.Writer, base string, entries []Entry) error {
	zw := zip.NewWriter(w)
	for _, e := range entries {
		hdr := &zip.FileHeader{
			Name:     fullName(base, e.Path),
			Method:   zip.Deflate,
			Modified: e.ModTime,
		}
		var data []byte
		switch e.Type {
		case TypeDir:
			hdr.Name += "/"
			hdr.Method = zip.Store
			hdr.SetMode(e.Mode.Perm() | fs.ModeDir)
		case TypeSymlink:
			hdr.Method = zip.Store
			hdr.SetMode(e.Mode.Perm() | fs.ModeSymlink)
			data = []byte(e.Link)
		default:
			hdr.SetMode(e.Mode.Perm())
			data = e.Data
		}

		fw, err := zw.CreateHeader(hdr)
		if err != nil {
			return fmt.Errorf("failed to create zip entry %s: %w", e.Path, err)
		}
		if len(data) > 0 {
			if _, err := fw.Write(data); err != nil {
				return fmt.Errorf("failed to write %s: %w", e.Path, err)
			}
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish zip stream: %w", err)
	}
	return nil
}
