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

package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/xenserver/bugtool/pkg/errors"
	"github.com/xenserver/bugtool/pkg/probe"
	"github.com/xenserver/bugtool/pkg/version"
)

// SchemaVersion is the newest catalog schema this build reads.
var SchemaVersion = version.MustParse("v1")

//go:embed data/default.yaml
var defaultCatalog []byte

// Category groups probes that are selected together.
type Category struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Default     bool   `json:"default" yaml:"default"`
}

// Catalog is the ordered probe list.
type Catalog struct {
	Version    string        `json:"version" yaml:"version"`
	Categories []Category    `json:"categories" yaml:"categories"`
	Probes     []probe.Probe `json:"probes" yaml:"probes"`
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog file. An empty path selects the embedded catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfigFailure, fmt.Sprintf("failed to read catalog %q", path), err)
	}
	return Parse(data)
}

// Parse decodes and validates a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "failed to parse catalog", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the schema version, every probe and that names, entries and categories are consistent.
func (c *Catalog) Validate() error {
	if c.Version != "" {
		v, err := version.Parse(c.Version)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidRequest, fmt.Sprintf("invalid catalog version %q", c.Version), err)
		}
		if !v.Compatible(SchemaVersion) {
			return errors.New(errors.ErrCodeInvalidRequest,
				fmt.Sprintf("catalog version %s is not supported (want %s)", v, SchemaVersion))
		}
	}

	categories := make(map[string]struct{}, len(c.Categories))
	for _, cat := range c.Categories {
		if _, dup := categories[cat.Name]; dup {
			return errors.New(errors.ErrCodeInvalidRequest, fmt.Sprintf("duplicate category %q", cat.Name))
		}
		categories[cat.Name] = struct{}{}
	}

	names := make(map[string]struct{}, len(c.Probes))
	entries := make(map[string]string, len(c.Probes))
	for _, p := range c.Probes {
		if err := p.Validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidRequest, "invalid probe", err)
		}
		if _, dup := names[p.Name]; dup {
			return errors.New(errors.ErrCodeInvalidRequest, fmt.Sprintf("duplicate probe %q", p.Name))
		}
		names[p.Name] = struct{}{}

		entry := p.Entry()
		if other, dup := entries[entry]; dup {
			return errors.New(errors.ErrCodeInvalidRequest,
				fmt.Sprintf("probes %q and %q both write entry %q", other, p.Name, entry))
		}
		entries[entry] = p.Name

		if len(categories) > 0 {
			if _, ok := categories[p.Category]; !ok {
				return errors.New(errors.ErrCodeInvalidRequest,
					fmt.Sprintf("probe %q: unknown category %q", p.Name, p.Category))
			}
		}
	}
	return nil
}

// Select returns the probes of the named categories in catalog order.
// With all set every probe is returned; with no names the default
// categories are used.
func (c *Catalog) Select(names []string, all bool) ([]probe.Probe, error) {
	if all {
		return slices.Clone(c.Probes), nil
	}

	if len(names) == 0 {
		for _, cat := range c.Categories {
			if cat.Default {
				names = append(names, cat.Name)
			}
		}
	}

	for _, n := range names {
		if !c.hasCategory(n) {
			return nil, errors.New(errors.ErrCodeNotFound, fmt.Sprintf("unknown category %q", n))
		}
	}

	selected := make([]probe.Probe, 0, len(c.Probes))
	for _, p := range c.Probes {
		if slices.Contains(names, p.Category) {
			selected = append(selected, p)
		}
	}
	return selected, nil
}

func (c *Catalog) hasCategory(name string) bool {
	for _, cat := range c.Categories {
		if cat.Name == name {
			return true
		}
	}
	for _, p := range c.Probes {
		if p.Category == name {
			return true
		}
	}
	return false
}
