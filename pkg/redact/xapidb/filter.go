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
	"fmt"
	"log/slog"

	"github.com/beevik/etree"

	"github.com/xenserver/bugtool/pkg/diag"
	"github.com/xenserver/bugtool/pkg/errors"
	"github.com/xenserver/bugtool/pkg/redact"
)

// FilterName identifies this filter in diagnostic records.
const FilterName = "filter_xapi_db"

// secretChildren maps a table to the row child holding its secret.
var secretChildren = map[string]string{
	"secret":  "value",
	"Cluster": "cluster_token",
}

// nestedAttrs are the VM row attributes written in the nested quoting language.
var nestedAttrs = []string{"NVRAM", "snapshot_metadata"}

// Filter redacts a serialized management database.
type Filter struct {
	recorder *diag.Recorder
	marker   string
}

// Option configures a Filter.
type Option func(*Filter)

// WithRecorder sets where per-row failures are reported.
func WithRecorder(r *diag.Recorder) Option {
	return func(f *Filter) {
		f.recorder = r
	}
}

// NewFilter creates a Filter. Without a recorder, failures go to a
// stderr-only one.
func NewFilter(opts ...Option) *Filter {
	f := &Filter{marker: redact.Marker}
	for _, opt := range opts {
		opt(f)
	}
	if f.recorder == nil {
		f.recorder = diag.New()
	}
	return f
}

// Filter returns db with its secrets replaced. An error is returned only
// when db is not well formed XML.
func (f *Filter) Filter(db string) (string, error) {
	doc := etree.NewDocument()
	doc.WriteSettings.CanonicalText = true
	doc.WriteSettings.CanonicalAttrVal = true

	if err := doc.ReadFromString(db); err != nil {
		return "", errors.Wrap(errors.ErrCodeFilterFailure, "failed to parse database", err)
	}

	root := doc.Root()
	if root == nil {
		return db, nil
	}

	for _, table := range root.FindElements("//table") {
		name := table.SelectAttrValue("name", "")
		if child, ok := secretChildren[name]; ok {
			f.hoistSecrets(table, child)
			continue
		}
		if name == "VM" {
			f.redactVMs(table)
		}
	}

	out, err := doc.WriteToString()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeFilterFailure, "failed to serialize database", err)
	}
	return out, nil
}

// hoistSecrets empties the secret child of every row and records the
// marker in a same named row attribute.
func (f *Filter) hoistSecrets(table *etree.Element, child string) {
	for _, row := range table.SelectElements("row") {
		if el := row.SelectElement(child); el != nil {
			el.SetText("")
		}
		row.CreateAttr(child, f.marker)
	}
}

func (f *Filter) redactVMs(table *etree.Element) {
	for _, row := range table.SelectElements("row") {
		for _, key := range nestedAttrs {
			attr := row.SelectAttr(key)
			if attr == nil {
				continue
			}
			value, n, err := RedactNested(attr.Value, f.marker)
			if err != nil {
				ref := row.SelectAttrValue("ref", row.SelectAttrValue("id", ""))
				f.recorder.Record(FilterName, fmt.Errorf("VM %s attribute %s: %w", ref, key, err))
				attr.Value = f.marker
				continue
			}
			if n > 0 {
				slog.Debug("redacted EFI variables", "attr", key, "count", n)
			}
			attr.Value = value
		}
	}
}
