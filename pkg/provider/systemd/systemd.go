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

package systemd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"sort"

	"github.com/coreos/go-systemd/v22/dbus"

	"github.com/NVIDIA/mienum/pkg/mi"
	"github.com/NVIDIA/mienum/pkg/provider"
)

const (
	// Name is the registry name of this provider.
	Name = "systemd"

	// Namespace is the namespace the classes below are served from.
	Namespace = "root/systemd"

	// ClassUnit lists loaded units with their load and activation state.
	ClassUnit = "Systemd_Unit"

	// ClassUnitProperties exposes every D-Bus property of each unit.
	ClassUnitProperties = "Systemd_UnitProperties"
)

var (
	// ErrInvalidClass is returned for classes this provider does not serve.
	ErrInvalidClass = errors.New("invalid class")

	// ErrInvalidNamespace is returned for namespaces other than Namespace.
	ErrInvalidNamespace = errors.New("invalid namespace")

	// Properties that are noisy, binary or sensitive.
	filterOutProperties = []string{
		"AllowedCPUs",
		"AllowedMemoryNodes",
		"Asserts",
		"BPFProgram",
		"BusName",
		"Id",
		"*Credential*",
	}
)

func init() {
	provider.Register(Name, func(opts provider.Options) (provider.Provider, error) {
		return New(opts.Units), nil
	})
}

// conn is the subset of *dbus.Conn used by the provider.
type conn interface {
	ListUnitsContext(ctx context.Context) ([]dbus.UnitStatus, error)
	ListUnitsByNamesContext(ctx context.Context, units []string) ([]dbus.UnitStatus, error)
	GetAllPropertiesContext(ctx context.Context, unit string) (map[string]interface{}, error)
	Close()
}

// Provider enumerates systemd units over the system D-Bus.
type Provider struct {
	// Units restricts enumeration to the named units. Empty means all loaded units.
	Units []string

	dial func(ctx context.Context) (conn, error)
}

// New returns a Provider for the given units.
func New(units []string) *Provider {
	return &Provider{
		Units: units,
		dial: func(ctx context.Context) (conn, error) {
			return dbus.NewSystemdConnectionContext(ctx)
		},
	}
}

// Connect opens a D-Bus connection to systemd.
func (p *Provider) Connect(ctx context.Context, opts provider.OperationOptions) (provider.Session, error) {
	c, err := p.dial(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to systemd: %w", err)
	}
	slog.Debug("connected to systemd", slog.Int("units", len(p.Units)))
	return &session{conn: c, units: p.Units, opts: opts}, nil
}

type session struct {
	conn   conn
	units  []string
	opts   provider.OperationOptions
	closed bool
}

func (s *session) Options() provider.OperationOptions {
	return s.opts
}

func (s *session) Close() error {
	if !s.closed {
		s.closed = true
		s.conn.Close()
	}
	return nil
}

func (s *session) Enumerate(ctx context.Context, req provider.Request) (provider.Operation, error) {
	if s.closed {
		return nil, errors.New("session is closed")
	}
	if req.Namespace != "" && req.Namespace != Namespace {
		return nil, fmt.Errorf("%w: %s", ErrInvalidNamespace, req.Namespace)
	}
	if req.ClassName != ClassUnit && req.ClassName != ClassUnitProperties {
		return nil, fmt.Errorf("%w: %s", ErrInvalidClass, req.ClassName)
	}

	var (
		units []dbus.UnitStatus
		err   error
	)
	if len(s.units) > 0 {
		units, err = s.conn.ListUnitsByNamesContext(ctx, s.units)
	} else {
		units, err = s.conn.ListUnitsContext(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list units: %w", err)
	}

	return &operation{conn: s.conn, class: req.ClassName, units: units}, nil
}

type operation struct {
	conn  conn
	class string
	units []dbus.UnitStatus
	pos   int
}

func (o *operation) Next(ctx context.Context) (mi.Instance, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	if o.pos >= len(o.units) {
		return nil, false, nil
	}
	u := o.units[o.pos]
	o.pos++
	more := o.pos < len(o.units)

	if o.class == ClassUnit {
		return unitInstance(u), more, nil
	}

	props, err := o.conn.GetAllPropertiesContext(ctx, u.Name)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get properties of %s: %w", u.Name, err)
	}
	return propertiesInstance(u.Name, props), more, nil
}

func (o *operation) Close() error {
	o.units = nil
	return nil
}

func unitInstance(u dbus.UnitStatus) *mi.Static {
	b := mi.NewInstance(ClassUnit).
		SetKey("Name", mi.String(u.Name)).
		SetString("Description", u.Description).
		SetString("LoadState", u.LoadState).
		SetString("ActiveState", u.ActiveState).
		SetString("SubState", u.SubState).
		SetString("Path", string(u.Path))

	if u.Followed != "" {
		b.SetString("Followed", u.Followed)
	} else {
		b.SetNull("Followed", mi.TypeString)
	}

	if u.JobId != 0 {
		b.Set("JobId", mi.Uint32(u.JobId)).
			SetString("JobType", u.JobType)
	} else {
		b.SetNull("JobId", mi.TypeUint32).
			SetNull("JobType", mi.TypeString)
	}
	return b.Build()
}

func propertiesInstance(unit string, props map[string]interface{}) *mi.Static {
	keys := make([]string, 0, len(props))
	for k := range props {
		if !filtered(k) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	b := mi.NewInstance(ClassUnitProperties).SetKey("Unit", mi.String(unit))
	for _, k := range keys {
		b.Set(k, toValue(props[k]))
	}
	return b.Build()
}

func filtered(key string) bool {
	for _, pattern := range filterOutProperties {
		if ok, _ := path.Match(pattern, key); ok {
			return true
		}
	}
	return false
}

// toValue maps D-Bus property values onto instance values. Types without a
// direct counterpart are rendered as text.
func toValue(v interface{}) mi.Value {
	switch x := v.(type) {
	case string:
		return mi.String(x)
	case bool:
		return mi.Boolean(x)
	case uint8:
		return mi.Uint8(x)
	case int16:
		return mi.Sint16(x)
	case uint16:
		return mi.Uint16(x)
	case int32:
		return mi.Sint32(x)
	case uint32:
		return mi.Uint32(x)
	case int64:
		return mi.Sint64(x)
	case uint64:
		return mi.Uint64(x)
	case float64:
		return mi.Real64(x)
	case []string:
		out := make(mi.StringA, len(x))
		for i, s := range x {
			out[i] = mi.String(s)
		}
		return out
	case []uint8:
		out := make(mi.Uint8A, len(x))
		for i, b := range x {
			out[i] = mi.Uint8(b)
		}
		return out
	case fmt.Stringer:
		return mi.String(x.String())
	default:
		return mi.String(fmt.Sprint(x))
	}
}
