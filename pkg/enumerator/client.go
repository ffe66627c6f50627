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
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/NVIDIA/mienum/pkg/defaults"
	"github.com/NVIDIA/mienum/pkg/encoder"
	mierrors "github.com/NVIDIA/mienum/pkg/errors"
	"github.com/NVIDIA/mienum/pkg/provider"
)

// Client owns one provider session and exposes connect, disconnect and
// enumerate. Calls are serialized internally.
type Client struct {
	provider       provider.Provider
	options        provider.OperationOptions
	encoder        *encoder.Encoder
	connectTimeout time.Duration

	mu      sync.Mutex
	session provider.Session
}

// Option is a functional option for configuring Client instances.
type Option func(*Client)

// WithOperationTimeout sets the timeout applied to every enumeration operation.
func WithOperationTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.options.Timeout = d
		}
	}
}

// WithEncoder sets the encoder used to write instances.
func WithEncoder(enc *encoder.Encoder) Option {
	return func(c *Client) {
		if enc != nil {
			c.encoder = enc
		}
	}
}

// WithConnectTimeout bounds Connect.
func WithConnectTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.connectTimeout = d
		}
	}
}

// NewClient returns a disconnected Client for p.
func NewClient(p provider.Provider, opts ...Option) *Client {
	c := &Client{
		provider:       p,
		options:        provider.DefaultOperationOptions(),
		encoder:        encoder.New(),
		connectTimeout: defaults.ConnectTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect opens a session, replacing any existing one. On failure the
// client is left fully disconnected.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.disconnectLocked()

	ctx, cancel := context.WithTimeout(ctx, c.connectTimeout)
	defer cancel()

	sess, err := c.provider.Connect(ctx, c.options)
	if err != nil {
		connectTotal.WithLabelValues("error").Inc()
		c.disconnectLocked()
		return mierrors.WrapWithContext(mierrors.ErrCodeConnection, "failed to connect to provider", err,
			map[string]any{"operationTimeout": c.options.Timeout.String()})
	}

	connectTotal.WithLabelValues("success").Inc()
	c.session = sess
	slog.Debug("provider session opened", slog.Duration("operationTimeout", c.options.Timeout))
	return nil
}

// Disconnect closes the session if one is open. It is safe to call at any time.
func (c *Client) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disconnectLocked()
}

func (c *Client) disconnectLocked() {
	if c.session == nil {
		return
	}
	if err := c.session.Close(); err != nil {
		slog.Warn("failed to close provider session", slog.String("error", err.Error()))
	}
	c.session = nil
}

// Connected reports whether a session is open.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session != nil
}

// EnumerateRequests writes the JSON array for reqs to w.
func (c *Client) EnumerateRequests(ctx context.Context, w io.Writer, reqs []provider.Request) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return mierrors.New(mierrors.ErrCodeUnavailable, "client is not connected")
	}

	if err := NewDriver(c.session, c.encoder).Enumerate(ctx, w, reqs); err != nil {
		if _, ok := mierrors.CodeOf(err); ok {
			return err
		}
		return mierrors.Wrap(mierrors.ErrCodeEnumeration, "enumeration failed", err)
	}
	return nil
}

// Enumerate parses items with ParseRequests and returns the JSON array text.
// When the context ends mid-document the closed partial array is returned
// with the TIMEOUT error.
func (c *Client) Enumerate(ctx context.Context, items []any) (string, error) {
	var sb strings.Builder
	err := c.EnumerateRequests(ctx, &sb, ParseRequests(items))
	return sb.String(), err
}
