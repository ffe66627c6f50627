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
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/NVIDIA/mienum/pkg/encoder"
	mierrors "github.com/NVIDIA/mienum/pkg/errors"
	"github.com/NVIDIA/mienum/pkg/provider"
)

// Driver runs enumeration requests against an open session and writes the
// results as one JSON array. A Driver is bound to one session and is not
// safe for concurrent use.
type Driver struct {
	session provider.Session
	encoder *encoder.Encoder
}

// NewDriver returns a Driver for sess. A nil encoder uses encoder.New().
func NewDriver(sess provider.Session, enc *encoder.Encoder) *Driver {
	if enc == nil {
		enc = encoder.New()
	}
	return &Driver{session: sess, encoder: enc}
}

// Enumerate writes a JSON array holding the instances of every request in
// order. A request whose operation cannot be opened or fails mid-drain
// contributes whatever it yielded and the driver moves on. Every opened
// operation is closed before the next request starts.
//
// The returned error is non-nil only when writing to w fails or ctx ends.
// The array is closed in the latter case.
func (d *Driver) Enumerate(ctx context.Context, w io.Writer, reqs []provider.Request) error {
	if _, err := io.WriteString(w, "["); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}

	written := 0
	for _, req := range reqs {
		if err := ctx.Err(); err != nil {
			if _, werr := io.WriteString(w, "]"); werr != nil {
				return fmt.Errorf("failed to write document: %w", werr)
			}
			return mierrors.Wrap(mierrors.ErrCodeTimeout, "enumeration interrupted", err)
		}

		n, err := d.request(ctx, w, req, written)
		written += n
		if err != nil {
			return err
		}
	}

	if _, err := io.WriteString(w, "]"); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}

// request opens, drains and closes one operation.
func (d *Driver) request(ctx context.Context, w io.Writer, req provider.Request, prior int) (int, error) {
	if timeout := d.session.Options().Timeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	op, err := d.session.Enumerate(ctx, req)
	if err != nil {
		enumerateRequestsTotal.WithLabelValues("open_error").Inc()
		slog.Warn("failed to start enumeration",
			slog.String("class", req.ClassName),
			slog.String("namespace", req.Namespace),
			slog.String("error", err.Error()))
		return 0, nil
	}
	defer func() {
		if cerr := op.Close(); cerr != nil {
			operationCloseFailures.Inc()
			slog.Warn("failed to close enumeration",
				slog.String("class", req.ClassName),
				slog.String("error", cerr.Error()))
		}
		operationDuration.WithLabelValues(req.ClassName).Observe(time.Since(start).Seconds())
	}()

	res, err := d.drain(ctx, w, op, prior)
	if err != nil {
		return res.count, err
	}

	status := "success"
	if res.providerErr != nil {
		status = "drain_error"
	}
	enumerateRequestsTotal.WithLabelValues(status).Inc()

	slog.Debug("enumeration complete",
		slog.String("class", req.ClassName),
		slog.String("namespace", req.Namespace),
		slog.Int("instances", res.count),
		slog.Duration("duration", time.Since(start)))

	return res.count, nil
}
