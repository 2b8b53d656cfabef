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
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/xenserver/bugtool/pkg/archive"
	"github.com/xenserver/bugtool/pkg/collector"
	"github.com/xenserver/bugtool/pkg/defaults"
	"github.com/xenserver/bugtool/pkg/diag"
	"github.com/xenserver/bugtool/pkg/errors"
	"github.com/xenserver/bugtool/pkg/oci"
	"github.com/xenserver/bugtool/pkg/probe"
	"github.com/xenserver/bugtool/pkg/snapshotter"
)

func collectCmd() *cli.Command {
	flags := append(selectionFlags(),
		&cli.StringFlag{
			Name:    "output-format",
			Usage:   fmt.Sprintf("archive format (supported values: %s)", strings.Join(archive.SupportedFormats(), ", ")),
			Value:   string(archive.FormatTar),
			Sources: cli.EnvVars("BUGTOOL_OUTPUT_FORMAT"),
		},
		&cli.StringFlag{
			Name:    "output-dir",
			Usage:   "directory the archive is written to",
			Value:   defaults.OutputDir,
			Sources: cli.EnvVars("BUGTOOL_OUTPUT_DIR"),
		},
		&cli.StringFlag{
			Name:    "base-name",
			Usage:   "top-level directory and archive name (default: bug-report-<UTC timestamp>)",
			Sources: cli.EnvVars("BUGTOOL_BASE_NAME"),
		},
		&cli.StringFlag{
			Name:    "log-file",
			Usage:   "append-only diagnostics log (default: <output-dir>/" + defaults.LogFileName + ")",
			Sources: cli.EnvVars("BUGTOOL_LOG_FILE"),
		},
		&cli.IntFlag{
			Name:    "parallel",
			Usage:   "probes run concurrently",
			Value:   defaults.Parallelism,
			Sources: cli.EnvVars("BUGTOOL_PARALLEL"),
		},
		&cli.FloatFlag{
			Name:    "rate",
			Usage:   "probe launches per second, 0 for unlimited",
			Value:   defaults.ProbeRate,
			Sources: cli.EnvVars("BUGTOOL_RATE"),
		},
		&cli.DurationFlag{
			Name:    "timeout",
			Usage:   "default per-probe timeout",
			Value:   defaults.ProbeTimeout,
			Sources: cli.EnvVars("BUGTOOL_TIMEOUT"),
		},
		&cli.DurationFlag{
			Name:    "run-timeout",
			Usage:   "limit for the whole collection",
			Value:   defaults.RunTimeout,
			Sources: cli.EnvVars("BUGTOOL_RUN_TIMEOUT"),
		},
		&cli.Int64Flag{
			Name:    "limit",
			Usage:   "default per-probe output cap in bytes",
			Value:   defaults.ProbeOutputLimit,
			Sources: cli.EnvVars("BUGTOOL_LIMIT"),
		},
		&cli.BoolFlag{
			Name:    "inventory",
			Usage:   "add inventory.yaml to the archive",
			Value:   true,
			Sources: cli.EnvVars("BUGTOOL_INVENTORY"),
		},
		&cli.BoolFlag{
			Name:    "checksums",
			Usage:   "add checksums.txt to the archive",
			Value:   true,
			Sources: cli.EnvVars("BUGTOOL_CHECKSUMS"),
		},
		&cli.StringFlag{
			Name:    "xapi-db-conf",
			Usage:   "pointer config naming the management database",
			Value:   defaults.XapiDBConfPath,
			Sources: cli.EnvVars("BUGTOOL_XAPI_DB_CONF"),
		},
		&cli.StringFlag{
			Name:    "clusterd-db",
			Usage:   "cluster configuration database",
			Value:   defaults.XapiClusterdDBPath,
			Sources: cli.EnvVars("BUGTOOL_CLUSTERD_DB"),
		},
		&cli.StringFlag{
			Name:    "host-root",
			Usage:   "filesystem root read by the kernel and OS release probes",
			Value:   "/",
			Sources: cli.EnvVars("BUGTOOL_HOST_ROOT"),
		},
		&cli.StringFlag{
			Name:    "host-inventory",
			Usage:   "host description recorded in the inventory, empty to skip",
			Value:   defaults.XensourceInventoryPath,
			Sources: cli.EnvVars("BUGTOOL_HOST_INVENTORY"),
		},
		&cli.StringFlag{
			Name:    "push",
			Usage:   "also publish the archive to an OCI registry (oci://registry/repository[:tag])",
			Sources: cli.EnvVars("BUGTOOL_PUSH"),
		},
		&cli.BoolFlag{
			Name:    "plain-http",
			Usage:   "use HTTP for the registry connection",
			Sources: cli.EnvVars("BUGTOOL_PLAIN_HTTP"),
		},
		&cli.BoolFlag{
			Name:    "insecure-tls",
			Usage:   "skip registry TLS certificate verification",
			Sources: cli.EnvVars("BUGTOOL_INSECURE_TLS"),
		},
		&cli.StringFlag{
			Name:    "metrics-file",
			Usage:   "write Prometheus metrics in text format to this file",
			Sources: cli.EnvVars("BUGTOOL_METRICS_FILE"),
		},
	)

	return &cli.Command{
		Name:                  "collect",
		EnableShellCompletion: true,
		Usage:                 "Run probes and write a support archive",
		Description: `Run the probes of the selected catalog categories and package their
output into a single archive under one top-level directory.

Secrets are removed before anything is written: generic password, token
and key assignments, SNMP communities, management database secrets and
cluster tokens. Filter failures are reported as internal errors on stderr
and appended to the log file.

The archive is written to <output-dir>/<base-name>.<ext> and its path is
printed on stdout.`,
		Flags:  flags,
		Action: runCollect,
	}
}

func runCollect(ctx context.Context, cmd *cli.Command) error {
	_, probes, err := loadProbes(cmd)
	if err != nil {
		return err
	}

	format, err := archive.ParseFormat(cmd.String("output-format"))
	if err != nil {
		return err
	}

	var ref *oci.Reference
	if target := cmd.String("push"); target != "" {
		if ref, err = oci.ParseReference(target); err != nil {
			return err
		}
	}

	outDir := cmd.String("output-dir")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeArchiveFailure, "failed to create output directory", err)
	}

	logPath := cmd.String("log-file")
	if logPath == "" {
		logPath = filepath.Join(outDir, defaults.LogFileName)
	}
	rec, err := diag.Open(logPath, diag.WithOutput(cmd.Root().ErrWriter))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := rec.Close(); cerr != nil {
			slog.Warn("failed to close diagnostics log", "path", logPath, "error", cerr)
		}
	}()

	base := cmd.String("base-name")
	if base == "" {
		base = snapshotter.DefaultBaseName(time.Now())
	}

	factory := collector.NewDefaultFactory(
		collector.WithBaseName(base),
		collector.WithRecorder(rec),
		collector.WithTimeout(cmd.Duration("timeout")),
		collector.WithOutputLimit(cmd.Int64("limit")),
		collector.WithXapiDBConf(cmd.String("xapi-db-conf")),
		collector.WithClusterdDB(cmd.String("clusterd-db")),
		collector.WithHostRoot(cmd.String("host-root")),
	)

	s := snapshotter.New(probes,
		snapshotter.WithVersion(version),
		snapshotter.WithFactory(factory),
		snapshotter.WithRecorder(rec),
		snapshotter.WithOutputDir(outDir),
		snapshotter.WithBaseName(base),
		snapshotter.WithFormat(format),
		snapshotter.WithParallel(cmd.Int("parallel")),
		snapshotter.WithRate(cmd.Float("rate")),
		snapshotter.WithRunTimeout(cmd.Duration("run-timeout")),
		snapshotter.WithInventory(cmd.Bool("inventory")),
		snapshotter.WithChecksums(cmd.Bool("checksums")),
		snapshotter.WithHostInventory(cmd.String("host-inventory")),
	)

	inv, err := s.Measure(ctx)
	if err != nil {
		return err
	}

	w := cmd.Root().Writer
	fmt.Fprintln(w, inv.Archive)
	printSummary(cmd.Root().ErrWriter, inv)

	if ref != nil {
		if ref.Tag == "" {
			ref = ref.WithTag(base)
		}
		res, err := oci.Push(ctx, oci.PushOptions{
			ArchivePath: inv.Archive,
			Reference:   ref,
			Version:     version,
			PlainHTTP:   cmd.Bool("plain-http"),
			InsecureTLS: cmd.Bool("insecure-tls"),
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s@%s\n", res.Reference, res.Digest)
	}

	if path := cmd.String("metrics-file"); path != "" {
		if err := snapshotter.WriteMetrics(path); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, "failed to write metrics", err)
		}
	}
	return nil
}

func printSummary(w io.Writer, inv *snapshotter.Inventory) {
	counts := inv.Summary()
	bytes := 0
	for _, e := range inv.Entries {
		bytes += e.Bytes
	}
	p := message.NewPrinter(language.English)
	p.Fprintf(w, "Collected %d probes in %v: %d ok, %d failed, %d timed out, %d truncated, %d bytes\n",
		len(inv.Entries),
		inv.Finished.Sub(inv.Started).Round(time.Millisecond),
		counts[probe.StatusOK],
		counts[probe.StatusFailed],
		counts[probe.StatusTimeout],
		counts[probe.StatusTruncated],
		bytes)
	if n := len(inv.Diagnostics); n > 0 {
		p.Fprintf(w, "%d internal errors were recorded\n", n)
	}
}
