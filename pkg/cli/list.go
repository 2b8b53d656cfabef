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
	"context"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/xenserver/bugtool/pkg/catalog"
	"github.com/xenserver/bugtool/pkg/probe"
	"github.com/xenserver/bugtool/pkg/serializer"
)

func listCmd() *cli.Command {
	flags := append(selectionFlags(),
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"t"},
			Usage:   "output format (supported values: " + strings.Join(serializer.SupportedFormats(), ", ") + ")",
			Value:   string(serializer.FormatTable),
			Sources: cli.EnvVars("BUGTOOL_FORMAT"),
		},
		&cli.BoolFlag{
			Name:  "categories",
			Usage: "list categories instead of probes",
		},
	)

	return &cli.Command{
		Name:                  "list",
		EnableShellCompletion: true,
		Usage:                 "List catalog categories and probes",
		Description: `Print the probe catalog. Without --entries every probe is listed,
with the archive entry each one writes.`,
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			format, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}
			cat, err := catalog.Load(cmd.String("catalog"))
			if err != nil {
				return err
			}

			w := serializer.NewWriter(format, cmd.Root().Writer)
			if cmd.Bool("categories") {
				return w.Serialize(ctx, categoryTable(cat.Categories))
			}

			entries := splitList(cmd.StringSlice("entries"))
			probes, err := cat.Select(entries, cmd.Bool("all") || len(entries) == 0)
			if err != nil {
				return err
			}
			return w.Serialize(ctx, probeTable(probes))
		},
	}
}

type probeTable []probe.Probe

func (t probeTable) Header() []string {
	return []string{"NAME", "CATEGORY", "KIND", "ENTRY", "FILTER"}
}

func (t probeTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, p := range t {
		filter := p.Filter
		if filter == probe.FilterDefault {
			filter = "-"
		}
		rows = append(rows, []string{p.Name, p.Category, string(p.Kind), p.Entry(), filter})
	}
	return rows
}

type categoryTable []catalog.Category

func (t categoryTable) Header() []string {
	return []string{"NAME", "DEFAULT", "DESCRIPTION"}
}

func (t categoryTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, c := range t {
		rows = append(rows, []string{c.Name, strconv.FormatBool(c.Default), c.Description})
	}
	return rows
}
