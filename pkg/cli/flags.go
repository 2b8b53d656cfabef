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

package cli

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/xenserver/bugtool/pkg/catalog"
	"github.com/xenserver/bugtool/pkg/probe"
	"github.com/xenserver/bugtool/pkg/serializer"
)

// selectionFlags are shared by commands that pick probes from the catalog.
// Flags keep parsed state, so every command gets fresh instances.
func selectionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "catalog",
			Usage:   "probe catalog YAML file (default: built-in catalog)",
			Sources: cli.EnvVars("BUGTOOL_CATALOG"),
		},
		&cli.StringSliceFlag{
			Name:    "entries",
			Usage:   "probe categories, comma separated (default: the default categories)",
			Sources: cli.EnvVars("BUGTOOL_ENTRIES"),
		},
		&cli.BoolFlag{
			Name:    "all",
			Usage:   "select every probe category",
			Sources: cli.EnvVars("BUGTOOL_ALL"),
		},
	}
}

func loadProbes(cmd *cli.Command) (*catalog.Catalog, []probe.Probe, error) {
	cat, err := catalog.Load(cmd.String("catalog"))
	if err != nil {
		return nil, nil, err
	}
	probes, err := cat.Select(splitList(cmd.StringSlice("entries")), cmd.Bool("all"))
	if err != nil {
		return nil, nil, err
	}
	return cat, probes, nil
}

// splitList accepts both repeated flags and comma separated values.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	f, err := serializer.ParseFormat(cmd.String("format"))
	if err != nil {
		return "", fmt.Errorf("invalid --format: %w", err)
	}
	return f, nil
}
