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

package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/NVIDIA/mienum/pkg/mi"
	"github.com/NVIDIA/mienum/pkg/provider"
)

// Name is the registry name of this provider.
const Name = "memory"

var (
	// ErrInvalidClass is returned when no class matches the request.
	ErrInvalidClass = errors.New("invalid class")

	errSessionClosed   = errors.New("session is closed")
	errOperationClosed = errors.New("operation is closed")
)

func init() {
	provider.Register(Name, func(opts provider.Options) (provider.Provider, error) {
		if opts.Fixture == "" {
			return New(), nil
		}
		return Load(opts.Fixture)
	})
}

// Class holds the instances served for one request and optional faults.
type Class struct {
	Instances []mi.Instance

	// EnumerateErr, when set, fails the operation before it starts.
	EnumerateErr error

	// FailAfter makes Next fail with FailErr once that many instances have
	// been returned. Negative disables the fault.
	FailAfter int
	FailErr   error
}

// Stats counts resources handed out by a Provider.
type Stats struct {
	SessionsOpened   int
	SessionsClosed   int
	OperationsOpened int
	OperationsClosed int
}

// Provider serves fixed instances from memory.
type Provider struct {
	mu         sync.Mutex
	connectErr error
	classes    map[provider.Request]*Class
	stats      Stats
}

// Option is a functional option for configuring Provider instances.
type Option func(*Provider)

// WithClass adds instances served for req.
func WithClass(req provider.Request, instances ...mi.Instance) Option {
	return func(p *Provider) {
		c := p.class(req)
		c.Instances = append(c.Instances, instances...)
	}
}

// WithEnumerateError makes enumeration of req fail immediately.
func WithEnumerateError(req provider.Request, err error) Option {
	return func(p *Provider) {
		p.class(req).EnumerateErr = err
	}
}

// WithFailure makes enumeration of req fail after n instances.
func WithFailure(req provider.Request, n int, err error) Option {
	return func(p *Provider) {
		c := p.class(req)
		c.FailAfter = n
		c.FailErr = err
	}
}

// WithConnectError makes Connect fail.
func WithConnectError(err error) Option {
	return func(p *Provider) {
		p.connectErr = err
	}
}

// New returns a Provider configured with the given options.
func New(opts ...Option) *Provider {
	p := &Provider{
		classes: make(map[provider.Request]*Class),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provider) class(req provider.Request) *Class {
	c, ok := p.classes[req]
	if !ok {
		c = &Class{FailAfter: -1}
		p.classes[req] = c
	}
	return c
}

// Stats returns a snapshot of the resource counters.
func (p *Provider) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

// Connect opens a session.
func (p *Provider) Connect(ctx context.Context, opts provider.OperationOptions) (provider.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.connectErr != nil {
		return nil, p.connectErr
	}

	p.mu.Lock()
	p.stats.SessionsOpened++
	p.mu.Unlock()

	return &session{p: p, opts: opts}, nil
}

type session struct {
	p      *Provider
	opts   provider.OperationOptions
	closed bool
}

func (s *session) Options() provider.OperationOptions {
	return s.opts
}

func (s *session) Enumerate(ctx context.Context, req provider.Request) (provider.Operation, error) {
	if s.closed {
		return nil, errSessionClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.p.mu.Lock()
	c, ok := s.p.classes[req]
	s.p.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidClass, req)
	}
	if c.EnumerateErr != nil {
		return nil, c.EnumerateErr
	}

	s.p.mu.Lock()
	s.p.stats.OperationsOpened++
	s.p.mu.Unlock()

	return &operation{p: s.p, class: c}, nil
}

func (s *session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	s.p.mu.Lock()
	s.p.stats.SessionsClosed++
	s.p.mu.Unlock()
	return nil
}

type operation struct {
	p      *Provider
	class  *Class
	pos    int
	closed bool
}

func (o *operation) failing() bool {
	return o.class.FailAfter >= 0 && o.class.FailAfter == o.pos
}

func (o *operation) Next(ctx context.Context) (mi.Instance, bool, error) {
	if o.closed {
		return nil, false, errOperationClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	if o.failing() {
		return nil, false, o.class.FailErr
	}
	if o.pos >= len(o.class.Instances) {
		return nil, false, nil
	}

	inst := o.class.Instances[o.pos]
	o.pos++
	more := o.pos < len(o.class.Instances) || o.failing()
	return inst, more, nil
}

func (o *operation) Close() error {
	if o.closed {
		return nil
	}
	o.closed = true

	o.p.mu.Lock()
	o.p.stats.OperationsClosed++
	o.p.mu.Unlock()
	return nil
}
