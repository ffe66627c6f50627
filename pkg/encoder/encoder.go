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

package encoder

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"reflect"

	"github.com/NVIDIA/mienum/pkg/defaults"
	mierrors "github.com/NVIDIA/mienum/pkg/errors"
	"github.com/NVIDIA/mienum/pkg/mi"
)

var (
	// ErrMalformedInstance is returned when an instance's class name or
	// element count cannot be read. Nothing is written for it.
	ErrMalformedInstance = errors.New("instance metadata unavailable")

	// ErrGraphTooDeep is returned when nested instances exceed the depth
	// limit or refer back to an instance that is still being encoded.
	ErrGraphTooDeep = errors.New("instance graph too deep or cyclic")

	// errSkipValue drops a single value whose tag is unknown or whose
	// payload does not match its tag.
	errSkipValue = errors.New("value skipped")
)

// Skippable reports whether err only means the instance produced no output.
// Any other error returned by the encoder comes from the destination writer.
func Skippable(err error) bool {
	return errors.Is(err, ErrMalformedInstance) || errors.Is(err, ErrGraphTooDeep)
}

// Option is a functional option for configuring Encoder instances.
type Option func(*Encoder)

// WithMaxDepth sets the maximum instance nesting depth. Values below 1 are ignored.
func WithMaxDepth(depth int) Option {
	return func(e *Encoder) {
		if depth > 0 {
			e.maxDepth = depth
		}
	}
}

// Encoder turns instances into the fixed JSON layout consumed downstream.
// It holds no per-call state and is safe for concurrent use.
type Encoder struct {
	maxDepth int
}

// New returns an Encoder configured with the given options.
func New(opts ...Option) *Encoder {
	e := &Encoder{
		maxDepth: defaults.MaxInstanceDepth,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MaxDepth returns the configured nesting limit.
func (e *Encoder) MaxDepth() int {
	return e.maxDepth
}

// EncodeInstance writes inst as one JSON object. The object is staged in
// memory first, so on any error nothing has been written to w.
func (e *Encoder) EncodeInstance(w io.Writer, inst mi.Instance) error {
	var buf bytes.Buffer
	st := newState()
	if err := e.instance(&buf, inst, st); err != nil {
		return err
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write instance: %w", err)
	}
	return nil
}

// EncodeValue writes a single value with tag t. Unknown tags and values
// that do not match t write nothing and return nil.
func (e *Encoder) EncodeValue(w io.Writer, v mi.Value, t mi.Type) error {
	var buf bytes.Buffer
	err := e.value(&buf, v, t, newState())
	if errors.Is(err, errSkipValue) {
		return nil
	}
	if err != nil {
		return err
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write value: %w", err)
	}
	return nil
}

// state tracks the instances currently open on the encoding stack.
type state struct {
	depth    int
	visiting map[uintptr]struct{}
}

func newState() *state {
	return &state{visiting: make(map[uintptr]struct{})}
}

// identity returns a stable key for pointer-backed instances. Instances
// held by value cannot form cycles through themselves and are bounded by
// the depth limit alone.
func identity(inst mi.Instance) (uintptr, bool) {
	v := reflect.ValueOf(inst)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return 0, false
	}
	return v.Pointer(), true
}

func isNilPointer(inst mi.Instance) bool {
	v := reflect.ValueOf(inst)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

func (e *Encoder) enter(inst mi.Instance, st *state) (func(), error) {
	if st.depth >= e.maxDepth {
		return nil, mierrors.WrapWithContext(mierrors.ErrCodeGraphTooDeep,
			"instance nesting exceeds limit", ErrGraphTooDeep,
			map[string]any{"maxDepth": e.maxDepth})
	}
	key, tracked := identity(inst)
	if tracked {
		if _, open := st.visiting[key]; open {
			return nil, mierrors.Wrap(mierrors.ErrCodeGraphTooDeep,
				"instance refers back to itself", ErrGraphTooDeep)
		}
		st.visiting[key] = struct{}{}
	}
	st.depth++
	return func() {
		st.depth--
		if tracked {
			delete(st.visiting, key)
		}
	}, nil
}

func (e *Encoder) instance(buf *bytes.Buffer, inst mi.Instance, st *state) error {
	if inst == nil || isNilPointer(inst) {
		return fmt.Errorf("%w: nil instance", ErrMalformedInstance)
	}
	class, err := inst.ClassName()
	if err != nil {
		return fmt.Errorf("%w: class name: %w", ErrMalformedInstance, err)
	}
	count, err := inst.ElementCount()
	if err != nil {
		return fmt.Errorf("%w: element count: %w", ErrMalformedInstance, err)
	}

	leave, err := e.enter(inst, st)
	if err != nil {
		return err
	}
	defer leave()

	buf.WriteString(`{"ClassName":"`)
	writeEscaped(buf, class)
	buf.WriteByte('"')

	for i := 0; i < count; i++ {
		el, err := inst.ElementAt(i)
		if err != nil || el.IsNull() {
			continue
		}
		mark := buf.Len()
		buf.WriteString(`,"`)
		writeEscaped(buf, el.Name)
		buf.WriteString(`":`)
		if err := e.value(buf, el.Value, el.Type, st); err != nil {
			if !skipsElement(err) {
				return err
			}
			buf.Truncate(mark)
		}
	}

	buf.WriteByte('}')
	return nil
}

// skipsElement reports whether err only invalidates the element being
// written. Nested malformed instances drop the element that holds them.
func skipsElement(err error) bool {
	return errors.Is(err, errSkipValue) || errors.Is(err, ErrMalformedInstance)
}

func (e *Encoder) value(buf *bytes.Buffer, v mi.Value, t mi.Type, st *state) error {
	if !t.Known() || v == nil {
		return errSkipValue
	}
	if t.IsArray() {
		return e.array(buf, v, t, st)
	}

	switch t {
	case mi.TypeDatetime:
		dt, ok := v.(mi.Datetime)
		if !ok {
			return errSkipValue
		}
		writeDatetime(buf, dt)
		return nil
	case mi.TypeReference:
		ref, ok := v.(mi.Reference)
		if !ok {
			return errSkipValue
		}
		return e.instance(buf, ref.Instance, st)
	case mi.TypeInstance:
		emb, ok := v.(mi.Embedded)
		if !ok {
			return errSkipValue
		}
		return e.instance(buf, emb.Instance, st)
	}

	mark := buf.Len()
	buf.WriteByte('"')
	if !writeScalar(buf, v, t) {
		buf.Truncate(mark)
		return errSkipValue
	}
	buf.WriteByte('"')
	return nil
}

func (e *Encoder) array(buf *bytes.Buffer, v mi.Value, t mi.Type, st *state) error {
	seq, ok := v.(mi.Sequence)
	if !ok || seq.Type() != t {
		return errSkipValue
	}
	item := t.Scalar()

	buf.WriteByte('[')
	written := 0
	for i := 0; i < seq.Len(); i++ {
		mark := buf.Len()
		if written > 0 {
			buf.WriteByte(',')
		}
		if err := e.value(buf, seq.At(i), item, st); err != nil {
			if !skipsElement(err) {
				return err
			}
			buf.Truncate(mark)
			continue
		}
		written++
	}
	buf.WriteByte(']')
	return nil
}
