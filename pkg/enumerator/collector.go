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
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/NVIDIA/mienum/pkg/encoder"
	"github.com/NVIDIA/mienum/pkg/provider"
)

// Collect drains op into w as comma-separated instance objects without
// enclosing brackets and returns how many were written. A provider error
// ends the drain and is logged. Only errors writing to w are returned.
func (d *Driver) Collect(ctx context.Context, w io.Writer, op provider.Operation) (int, error) {
	res, err := d.drain(ctx, w, op, 0)
	return res.count, err
}

// drainResult describes how one operation's drain ended.
type drainResult struct {
	count       int
	providerErr error
}

// drain writes instances from op, preceding each with a separator when
// prior instances have already been written to the document.
func (d *Driver) drain(ctx context.Context, w io.Writer, op provider.Operation, prior int) (drainResult, error) {
	var (
		count int
		buf   bytes.Buffer
	)

	for {
		inst, more, err := op.Next(ctx)
		if err != nil {
			slog.Warn("enumeration ended with provider error",
				slog.Int("instances", count),
				slog.String("error", err.Error()))
			return drainResult{count: count, providerErr: err}, nil
		}
		if inst == nil {
			return drainResult{count: count}, nil
		}

		buf.Reset()
		if prior+count > 0 {
			buf.WriteByte(',')
		}
		if err := d.encoder.EncodeInstance(&buf, inst); err != nil {
			if !encoder.Skippable(err) {
				return drainResult{count: count}, err
			}
			d.skipped(err)
		} else {
			if _, err := w.Write(buf.Bytes()); err != nil {
				return drainResult{count: count}, fmt.Errorf("failed to write instance: %w", err)
			}
			count++
			instancesEmitted.Inc()
		}

		if !more {
			return drainResult{count: count}, nil
		}
	}
}

func (d *Driver) skipped(err error) {
	reason := "malformed"
	if errors.Is(err, encoder.ErrGraphTooDeep) {
		reason = "graph_too_deep"
	}
	instancesSkipped.WithLabelValues(reason).Inc()
	slog.Warn("instance omitted from output",
		slog.String("reason", reason),
		slog.String("error", err.Error()))
}
