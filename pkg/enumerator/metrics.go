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

package enumerator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Per-request enumeration metrics
	enumerateRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mienum_enumerate_requests_total",
			Help: "Total number of enumeration requests by outcome",
		},
		[]string{"status"}, // success, open_error, drain_error
	)

	operationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mienum_operation_duration_seconds",
			Help:    "Time from opening to closing one enumeration operation",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 90},
		},
		[]string{"class"},
	)

	operationCloseFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mienum_operation_close_failures_total",
			Help: "Total number of enumeration operations that failed to close",
		},
	)

	// Instance metrics
	instancesEmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mienum_instances_emitted_total",
			Help: "Total number of instances written to output documents",
		},
	)

	instancesSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mienum_instances_skipped_total",
			Help: "Total number of instances omitted from output documents",
		},
		[]string{"reason"}, // malformed, graph_too_deep
	)

	// Session metrics
	connectTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mienum_connect_total",
			Help: "Total number of provider connection attempts",
		},
		[]string{"status"}, // success or error
	)
)
