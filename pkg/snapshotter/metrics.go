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

package snapshotter

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bugtool_run_duration_seconds",
			Help:    "Time taken to collect and write a complete archive",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 900},
		},
	)

	runTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bugtool_run_total",
			Help: "Total number of collection runs",
		},
		[]string{"status"}, // success or error
	)

	probeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bugtool_probe_duration_seconds",
			Help:    "Time taken by individual probes",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 10, 30, 60},
		},
		[]string{"kind"},
	)

	probeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bugtool_probe_total",
			Help: "Probes run by kind and outcome",
		},
		[]string{"kind", "status"},
	)

	archiveBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bugtool_archive_bytes",
			Help: "Size of the last written archive",
		},
	)
)

// WriteMetrics exports the process metrics in the Prometheus text format,
// for pickup by a node exporter textfile collector.
func WriteMetrics(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
