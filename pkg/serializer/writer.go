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

package serializer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// Format is an output encoding.
type Format string

const (
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatTable Format = "table"
)

type encodeFunc func(out io.Writer, v any) error

var encoders = map[Format]encodeFunc{
	FormatJSON:  encodeJSON,
	FormatYAML:  encodeYAML,
	FormatTable: encodeTable,
}

// IsUnknown reports whether f is not a supported format.
func (f Format) IsUnknown() bool {
	_, ok := encoders[f]
	return !ok
}

// SupportedFormats lists the format names in help order.
func SupportedFormats() []string {
	return []string{string(FormatJSON), string(FormatYAML), string(FormatTable)}
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f.IsUnknown() {
		return "", fmt.Errorf("unknown output format %q, supported: %s", s, strings.Join(SupportedFormats(), ", "))
	}
	return f, nil
}

// Writer encodes values onto one output stream.
type Writer struct {
	format Format
	out    io.Writer
}

var _ Serializer = (*Writer)(nil)

// NewWriter creates a Writer. A nil out writes to stdout and an unknown
// format falls back to JSON.
func NewWriter(format Format, out io.Writer) *Writer {
	if out == nil {
		out = os.Stdout
	}
	if format.IsUnknown() {
		slog.Warn("unknown format, defaulting to JSON", "format", format)
		format = FormatJSON
	}
	return &Writer{format: format, out: out}
}

// Serialize writes v in the writer's format.
func (w *Writer) Serialize(ctx context.Context, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return encoders[w.format](w.out, v)
}

func encodeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to serialize to JSON: %w", err)
	}
	return nil
}

func encodeYAML(out io.Writer, v any) error {
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to serialize to YAML: %w", err)
	}
	return enc.Close()
}

func encodeTable(out io.Writer, v any) error {
	t, ok := v.(Tabular)
	if !ok {
		fields, err := flatten(v)
		if err != nil {
			return err
		}
		if len(fields) == 0 {
			_, err := fmt.Fprintln(out, "<empty>")
			return err
		}
		t = fields
	}

	header := t.Header()
	rule := make([]string, len(header))
	for i, h := range header {
		rule[i] = strings.Repeat("-", len(h))
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	fmt.Fprintln(tw, strings.Join(rule, "\t"))
	for _, row := range t.Rows() {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// fieldTable holds the leaves of a document as FIELD/VALUE rows.
type fieldTable [][]string

func (f fieldTable) Header() []string { return []string{"FIELD", "VALUE"} }
func (f fieldTable) Rows() [][]string { return f }

// flatten lists every scalar of v's JSON form under its dotted path,
// sorted by path. Array elements are addressed by index.
func flatten(v any) (fieldTable, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize to table: %w", err)
	}

	var rows fieldTable
	var walk func(prefix string, r gjson.Result)
	walk = func(prefix string, r gjson.Result) {
		if !r.IsObject() && !r.IsArray() {
			if prefix == "" {
				prefix = "value"
			}
			rows = append(rows, []string{prefix, r.String()})
			return
		}
		i := 0
		r.ForEach(func(k, val gjson.Result) bool {
			key := k.String()
			if r.IsArray() {
				key = strconv.Itoa(i)
			}
			i++
			walk(joinKey(prefix, key), val)
			return true
		})
	}
	walk("", gjson.ParseBytes(data))

	sort.Slice(rows, func(i, j int) bool { return rows[i][0] < rows[j][0] })
	return rows, nil
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
