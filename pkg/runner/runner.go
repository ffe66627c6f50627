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

package runner

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/NVIDIA/mienum/pkg/defaults"
	"github.com/NVIDIA/mienum/pkg/encoder"
	"github.com/NVIDIA/mienum/pkg/errors"
	"github.com/NVIDIA/mienum/pkg/header"
	"github.com/NVIDIA/mienum/pkg/perf"
)

// Enumerator is the client surface the runner drives.
type Enumerator interface {
	Connect(ctx context.Context) error
	Disconnect()
	Enumerate(ctx context.Context, items []any) (string, error)
}

// Sink receives emitted records.
type Sink interface {
	Serialize(ctx context.Context, data any) error
}

// Option is a functional option for configuring Runner instances.
type Option func(*Runner)

// WithInterval enables periodic runs. Zero runs once.
func WithInterval(d time.Duration) Option {
	return func(r *Runner) {
		r.interval = d
	}
}

// WithTag sets the tag attached to each record.
func WithTag(tag string) Option {
	return func(r *Runner) {
		if tag != "" {
			r.tag = tag
		}
	}
}

// WithPerf transforms every document with t before emitting it.
func WithPerf(t *perf.Transformer, counters []string, host string) Option {
	return func(r *Runner) {
		r.transform = t
		r.counters = counters
		r.host = host
	}
}

// WithVersion records the producing version in each record's metadata.
func WithVersion(v string) Option {
	return func(r *Runner) {
		r.version = v
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		r.now = now
	}
}

// Runner enumerates the configured items once or on an interval.
type Runner struct {
	client    Enumerator
	sink      Sink
	items     []any
	interval  time.Duration
	tag       string
	transform *perf.Transformer
	counters  []string
	host      string
	version   string
	now       func() time.Time
}

// New returns a Runner for items.
func New(client Enumerator, sink Sink, items []any, opts ...Option) *Runner {
	r := &Runner{
		client: client,
		sink:   sink,
		items:  items,
		tag:    defaults.RunnerDefaultTag,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run connects, performs the runs and disconnects when done. With no
// interval it enumerates once and returns that run's error. Otherwise it
// waits one interval before every run until ctx is canceled; failed runs
// are logged and the loop continues.
func (r *Runner) Run(ctx context.Context) error {
	if r.interval > 0 && r.interval < defaults.RunnerMinInterval {
		return errors.NewWithContext(errors.ErrCodeInvalidRequest, "run interval below minimum",
			map[string]any{"interval": r.interval.String()})
	}

	if err := r.client.Connect(ctx); err != nil {
		return err
	}
	defer r.client.Disconnect()

	if r.interval == 0 {
		return r.RunOnce(ctx)
	}

	slog.Info("starting periodic enumeration",
		"interval", r.interval.String(),
		"tag", r.tag,
		"items", len(r.items))

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("periodic enumeration stopped")
			return nil
		case <-ticker.C:
			if err := r.RunOnce(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				slog.Error("enumeration run failed", "error", err)
			}
		}
	}
}

// RunOnce performs a single enumeration and emits its record. Documents
// without instances, and transforms with no data items, are not emitted.
func (r *Runner) RunOnce(ctx context.Context) error {
	runID := uuid.NewString()
	start := r.now()
	log := slog.With("runId", runID, "tag", r.tag)

	doc, err := r.client.Enumerate(ctx, r.items)
	if err != nil {
		runsTotal.WithLabelValues("error").Inc()
		return err
	}
	lastRun.Set(float64(r.now().Unix()))

	if isEmpty(doc) {
		runsTotal.WithLabelValues("empty").Inc()
		log.Debug("enumeration returned no instances")
		return nil
	}

	rec := Record{
		Tag:   r.tag,
		Time:  start.UTC(),
		RunID: runID,
	}
	rec.Init(header.KindEnumeration, r.version, start)
	if r.transform != nil {
		rec.Kind = header.KindPerfCounters
		blob, err := r.transform.TransformAndWrap(doc, r.counters, r.host, start)
		if err != nil {
			runsTotal.WithLabelValues("error").Inc()
			return err
		}
		if blob == nil {
			runsTotal.WithLabelValues("empty").Inc()
			log.Debug("transform produced no data items")
			return nil
		}
		rec.Perf = blob
	} else {
		rec.Records = json.RawMessage(encoder.EscapeControls(doc))
	}

	if err := r.sink.Serialize(ctx, rec); err != nil {
		runsTotal.WithLabelValues("error").Inc()
		return errors.Wrap(errors.ErrCodeInternal, "failed to emit record", err)
	}
	runsTotal.WithLabelValues("success").Inc()
	recordsEmitted.Inc()
	log.Debug("record emitted", "duration", time.Since(start).String())
	return nil
}

func isEmpty(doc string) bool {
	s := strings.TrimSpace(doc)
	return s == "" || s == "[]"
}
