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

package clusterd

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/xenserver/bugtool/pkg/defaults"
	"github.com/xenserver/bugtool/pkg/diag"
	"github.com/xenserver/bugtool/pkg/errors"
	"github.com/xenserver/bugtool/pkg/redact"
)

// FilterName identifies this filter in diagnostic records.
const FilterName = "filter_xapi_clusterd_db"

// secretPaths are redacted independently; any of them may be absent.
var secretPaths = []string{
	"token",
	"cluster_config.authkey",
	"cluster_config.pems.blobs",
	"old_cluster_config.authkey",
	"old_cluster_config.pems.blobs",
}

// Filter dumps the redacted cluster database.
type Filter struct {
	path     string
	recorder *diag.Recorder
}

// Option configures a Filter.
type Option func(*Filter)

// WithPath overrides the database location.
func WithPath(path string) Option {
	return func(f *Filter) {
		f.path = path
	}
}

// WithRecorder sets where parse failures are reported.
func WithRecorder(r *diag.Recorder) Option {
	return func(f *Filter) {
		f.recorder = r
	}
}

// NewFilter creates a Filter reading defaults.XapiClusterdDBPath.
func NewFilter(opts ...Option) *Filter {
	f := &Filter{path: defaults.XapiClusterdDBPath}
	for _, opt := range opts {
		opt(f)
	}
	if f.recorder == nil {
		f.recorder = diag.New()
	}
	return f
}

// Dump returns the redacted database. A missing database yields "" and no
// error. A database that is not valid JSON is reported to the recorder and
// also yields "".
func (f *Filter) Dump(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			slog.Debug("cluster database not present", "path", f.path)
			return "", nil
		}
		return "", errors.Wrap(errors.ErrCodeProbeFailure, fmt.Sprintf("failed to read %s", f.path), err)
	}

	out, err := Redact(data)
	if err != nil {
		f.recorder.Record(FilterName, err)
		return "", nil
	}
	return string(out), nil
}

// Redact replaces the secrets in a cluster database document. A document
// that repeats a secret key, or an object on the way to one, is rejected:
// path lookups only reach the first occurrence, so the later ones would
// otherwise be kept.
func Redact(data []byte) ([]byte, error) {
	if !gjson.ValidBytes(data) {
		var v any
		cause := json.Unmarshal(data, &v)
		if cause == nil {
			cause = stderrors.New("invalid document")
		}
		return nil, errors.Wrap(errors.ErrCodeFilterFailure, "failed to parse JSON", cause)
	}

	if dup := duplicateSecretKey(gjson.ParseBytes(data)); dup != "" {
		return nil, errors.Wrap(errors.ErrCodeFilterFailure, "failed to parse JSON",
			fmt.Errorf("duplicate key %q", dup))
	}

	out := data
	for _, path := range secretPaths {
		if !gjson.GetBytes(out, path).Exists() {
			continue
		}
		var err error
		out, err = sjson.SetBytes(out, path, redact.Marker)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeFilterFailure, fmt.Sprintf("failed to redact %s", path), err)
		}
	}
	return out, nil
}

// duplicateSecretKey returns the first secret path, or object leading to
// one, that occurs more than once in doc.
func duplicateSecretKey(doc gjson.Result) string {
	seen := make(map[string]struct{})
	var dup string
	var walk func(prefix string, r gjson.Result)
	walk = func(prefix string, r gjson.Result) {
		if !r.IsObject() {
			return
		}
		r.ForEach(func(k, v gjson.Result) bool {
			path := k.String()
			if prefix != "" {
				path = prefix + "." + path
			}
			if !onSecretPath(path) {
				return true
			}
			if _, ok := seen[path]; ok {
				dup = path
				return false
			}
			seen[path] = struct{}{}
			walk(path, v)
			return dup == ""
		})
	}
	walk("", doc)
	return dup
}

// onSecretPath reports whether path is a secret path or one of its parents.
func onSecretPath(path string) bool {
	for _, p := range secretPaths {
		if p == path || strings.HasPrefix(p, path+".") {
			return true
		}
	}
	return false
}
