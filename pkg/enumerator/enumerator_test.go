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
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/mienum/pkg/encoder"
	mierrors "github.com/NVIDIA/mienum/pkg/errors"
	"github.com/NVIDIA/mienum/pkg/mi"
	"github.com/NVIDIA/mienum/pkg/provider"
	"github.com/NVIDIA/mienum/pkg/provider/memory"
)

var (
	reqA = provider.Request{ClassName: "A", Namespace: "ns"}
	reqB = provider.Request{ClassName: "B", Namespace: "ns2"}
	reqC = provider.Request{ClassName: "C", Namespace: "ns"}
)

func inst(class string, id uint32) *mi.Static {
	return mi.NewInstance(class).Set("Id", mi.Uint32(id)).Build()
}

func openSession(t *testing.T, p *memory.Provider) provider.Session {
	t.Helper()
	sess, err := p.Connect(context.Background(), provider.DefaultOperationOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = sess.Close() })
	return sess
}

func enumerate(t *testing.T, p *memory.Provider, reqs ...provider.Request) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, NewDriver(openSession(t, p), nil).Enumerate(context.Background(), &buf, reqs))
	require.True(t, json.Valid(buf.Bytes()), buf.String())
	return buf.String()
}

func TestCollect(t *testing.T) {
	p := memory.New(memory.WithClass(reqA, inst("A", 1), inst("A", 2)))
	sess := openSession(t, p)

	op, err := sess.Enumerate(context.Background(), reqA)
	require.NoError(t, err)
	defer op.Close()

	var buf bytes.Buffer
	n, err := NewDriver(sess, nil).Collect(context.Background(), &buf, op)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, `{"ClassName":"A","Id":"1"},{"ClassName":"A","Id":"2"}`, buf.String())
}

func TestDriver_EmptyFirstRequest(t *testing.T) {
	p := memory.New(
		memory.WithClass(reqA),
		memory.WithClass(reqB, inst("B", 1), inst("B", 2)),
	)

	got := enumerate(t, p, reqA, reqB)
	assert.Equal(t, `[{"ClassName":"B","Id":"1"},{"ClassName":"B","Id":"2"}]`, got)
}

func TestDriver_EmptyMiddleRequest(t *testing.T) {
	p := memory.New(
		memory.WithClass(reqA, inst("A", 1)),
		memory.WithClass(reqB),
		memory.WithClass(reqC, inst("C", 1)),
	)

	got := enumerate(t, p, reqA, reqB, reqC)
	assert.Equal(t, `[{"ClassName":"A","Id":"1"},{"ClassName":"C","Id":"1"}]`, got)
}

func TestDriver_NoRequests(t *testing.T) {
	assert.Equal(t, `[]`, enumerate(t, memory.New()))
}

func TestDriver_FailureMidDrain(t *testing.T) {
	p := memory.New(
		memory.WithClass(reqA, inst("A", 1), inst("A", 2)),
		memory.WithFailure(reqA, 1, errors.New("connection reset")),
		memory.WithClass(reqB, inst("B", 1)),
	)

	got := enumerate(t, p, reqA, reqB)
	assert.Equal(t, `[{"ClassName":"A","Id":"1"},{"ClassName":"B","Id":"1"}]`, got)

	stats := p.Stats()
	assert.Equal(t, 2, stats.OperationsOpened)
	assert.Equal(t, stats.OperationsOpened, stats.OperationsClosed)
}

func TestDriver_OpenFailureContinues(t *testing.T) {
	p := memory.New(
		memory.WithEnumerateError(reqA, errors.New("access denied")),
		memory.WithClass(reqB, inst("B", 1)),
	)

	got := enumerate(t, p, reqA, provider.Request{ClassName: "Unknown"}, reqB)
	assert.Equal(t, `[{"ClassName":"B","Id":"1"}]`, got)
	assert.Equal(t, 1, p.Stats().OperationsClosed)
}

func TestDriver_SkipsMalformedInstances(t *testing.T) {
	p := memory.New(memory.WithClass(reqA,
		&mi.Static{},
		inst("A", 1),
		&mi.Static{},
		inst("A", 2),
	))

	got := enumerate(t, p, reqA)
	assert.Equal(t, `[{"ClassName":"A","Id":"1"},{"ClassName":"A","Id":"2"}]`, got)
}

func TestDriver_SkipsCyclicInstances(t *testing.T) {
	loop := &mi.Static{Class: "Loop"}
	loop.Elements = []mi.Element{{Name: "Self", Type: mi.TypeReference, Value: mi.Reference{Instance: loop}}}

	p := memory.New(memory.WithClass(reqA, loop, inst("A", 1)))
	assert.Equal(t, `[{"ClassName":"A","Id":"1"}]`, enumerate(t, p, reqA))
}

type limitedWriter struct {
	limit int
	buf   bytes.Buffer
}

func (l *limitedWriter) Write(p []byte) (int, error) {
	if l.buf.Len()+len(p) > l.limit {
		return 0, errors.New("sink full")
	}
	return l.buf.Write(p)
}

func TestDriver_WriteErrorClosesOperation(t *testing.T) {
	p := memory.New(memory.WithClass(reqA, inst("A", 1), inst("A", 2)))
	w := &limitedWriter{limit: 30}

	err := NewDriver(openSession(t, p), nil).Enumerate(context.Background(), w, []provider.Request{reqA})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sink full")

	stats := p.Stats()
	assert.Equal(t, 1, stats.OperationsOpened)
	assert.Equal(t, 1, stats.OperationsClosed)
}

func TestDriver_CanceledContext(t *testing.T) {
	p := memory.New(memory.WithClass(reqA, inst("A", 1)))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := NewDriver(openSession(t, p), nil).Enumerate(ctx, &buf, []provider.Request{reqA})
	require.Error(t, err)
	code, ok := mierrors.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, mierrors.ErrCodeTimeout, code)
	assert.Equal(t, `[]`, buf.String())
}

type deadlineSession struct {
	hadDeadline bool
	remaining   time.Duration
}

func (s *deadlineSession) Enumerate(ctx context.Context, _ provider.Request) (provider.Operation, error) {
	var deadline time.Time
	deadline, s.hadDeadline = ctx.Deadline()
	s.remaining = time.Until(deadline)
	return nil, errors.New("stop")
}

func (s *deadlineSession) Options() provider.OperationOptions {
	return provider.OperationOptions{Timeout: time.Minute}
}

func (s *deadlineSession) Close() error { return nil }

func TestDriver_OperationTimeout(t *testing.T) {
	sess := &deadlineSession{}
	var buf bytes.Buffer
	require.NoError(t, NewDriver(sess, nil).Enumerate(context.Background(), &buf, []provider.Request{reqA}))

	assert.True(t, sess.hadDeadline)
	assert.InDelta(t, time.Minute.Seconds(), sess.remaining.Seconds(), 5)
	assert.Equal(t, `[]`, buf.String())
}

func TestDriver_NestedDepthFromEncoder(t *testing.T) {
	leaf := inst("Leaf", 1)
	mid := mi.NewInstance("Mid").Set("Child", mi.Embedded{Instance: leaf}).Build()
	p := memory.New(memory.WithClass(reqA, mid, leaf))

	var buf bytes.Buffer
	d := NewDriver(openSession(t, p), encoder.New(encoder.WithMaxDepth(1)))
	require.NoError(t, d.Enumerate(context.Background(), &buf, []provider.Request{reqA}))
	assert.Equal(t, `[{"ClassName":"Leaf","Id":"1"}]`, buf.String())
}

func TestParseRequests(t *testing.T) {
	tests := []struct {
		name  string
		items []any
		want  []provider.Request
	}{
		{
			name:  "mixed",
			items: []any{[]any{"A", "ns"}, []any{"bad"}, 5, []any{"B", "ns2"}},
			want:  []provider.Request{reqA, reqB},
		},
		{
			name:  "string slices",
			items: []any{[]string{"A", "ns"}, [2]string{"B", "ns2"}, []string{"x", "y", "z"}},
			want:  []provider.Request{reqA, reqB},
		},
		{
			name:  "non-string members",
			items: []any{[]any{"A", 1}, []any{nil, "ns"}, "A ns", nil},
			want:  []provider.Request{},
		},
		{
			name:  "empty",
			items: nil,
			want:  []provider.Request{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRequests(tt.items))
		})
	}
}

func TestClient_Lifecycle(t *testing.T) {
	p := memory.New(
		memory.WithClass(reqA, inst("A", 1)),
		memory.WithClass(reqB, inst("B", 1)),
	)
	c := NewClient(p, WithOperationTimeout(time.Minute))

	_, err := c.Enumerate(context.Background(), []any{[]any{"A", "ns"}})
	require.Error(t, err)
	code, _ := mierrors.CodeOf(err)
	assert.Equal(t, mierrors.ErrCodeUnavailable, code)

	require.NoError(t, c.Connect(context.Background()))
	assert.True(t, c.Connected())

	got, err := c.Enumerate(context.Background(), []any{[]any{"A", "ns"}, []any{"bad"}, 5, []any{"B", "ns2"}})
	require.NoError(t, err)
	assert.Equal(t, `[{"ClassName":"A","Id":"1"},{"ClassName":"B","Id":"1"}]`, got)

	require.NoError(t, c.Connect(context.Background()))
	assert.Equal(t, 2, p.Stats().SessionsOpened)
	assert.Equal(t, 1, p.Stats().SessionsClosed)

	c.Disconnect()
	c.Disconnect()
	assert.False(t, c.Connected())
	assert.Equal(t, 2, p.Stats().SessionsClosed)
}

func TestClient_ConnectFailure(t *testing.T) {
	c := NewClient(memory.New(memory.WithConnectError(errors.New("no broker"))))

	err := c.Connect(context.Background())
	require.Error(t, err)
	code, ok := mierrors.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, mierrors.ErrCodeConnection, code)
	assert.Contains(t, err.Error(), "no broker")
	assert.False(t, c.Connected())

	c.Disconnect()
}

func TestClient_EnumerateRequestsToWriter(t *testing.T) {
	c := NewClient(memory.New(memory.WithClass(reqA, inst("A", 7))))
	require.NoError(t, c.Connect(context.Background()))
	defer c.Disconnect()

	var sb strings.Builder
	require.NoError(t, c.EnumerateRequests(context.Background(), &sb, []provider.Request{reqA}))
	assert.Equal(t, `[{"ClassName":"A","Id":"7"}]`, sb.String())
}

// cancelAfterDrain cancels the run once the first operation is exhausted.
type cancelAfterDrain struct {
	provider.Provider
	cancel context.CancelFunc
}

func (p *cancelAfterDrain) Connect(ctx context.Context, opts provider.OperationOptions) (provider.Session, error) {
	s, err := p.Provider.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &cancelSession{Session: s, cancel: p.cancel}, nil
}

type cancelSession struct {
	provider.Session
	cancel context.CancelFunc
}

func (s *cancelSession) Enumerate(ctx context.Context, req provider.Request) (provider.Operation, error) {
	op, err := s.Session.Enumerate(ctx, req)
	if err != nil {
		return nil, err
	}
	return &cancelOperation{Operation: op, cancel: s.cancel}, nil
}

type cancelOperation struct {
	provider.Operation
	cancel context.CancelFunc
}

func (o *cancelOperation) Next(ctx context.Context) (mi.Instance, bool, error) {
	inst, more, err := o.Operation.Next(ctx)
	if !more {
		o.cancel()
	}
	return inst, more, err
}

func TestClient_EnumerateCanceledReturnsPartial(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := memory.New(
		memory.WithClass(reqA, inst("A", 1)),
		memory.WithClass(reqB, inst("B", 1)),
	)
	c := NewClient(&cancelAfterDrain{Provider: p, cancel: cancel})
	require.NoError(t, c.Connect(context.Background()))
	defer c.Disconnect()

	got, err := c.Enumerate(ctx, []any{[]any{"A", "ns"}, []any{"B", "ns2"}})
	require.Error(t, err)
	code, ok := mierrors.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, mierrors.ErrCodeTimeout, code)
	assert.Equal(t, `[{"ClassName":"A","Id":"1"}]`, got)

	stats := p.Stats()
	assert.Equal(t, 1, stats.OperationsOpened)
	assert.Equal(t, 1, stats.OperationsClosed)
}
