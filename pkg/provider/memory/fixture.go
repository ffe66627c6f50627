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
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/NVIDIA/mienum/pkg/mi"
	"github.com/NVIDIA/mienum/pkg/provider"
)

// Fixture is the YAML document a Provider can be loaded from.
//
//	classes:
//	  - namespace: root/scx
//	    className: SCX_OperatingSystem
//	    instances:
//	      - elements:
//	          - {name: Name, type: String, value: Linux Distribution, key: true}
//	          - {name: LastBootUpTime, type: Datetime, value: "2015-08-19T10:57:14Z"}
//	          - {name: Uptime, type: Datetime, value: 41h4m}
//	          - {name: Description, type: String, null: true}
type Fixture struct {
	ConnectError string         `yaml:"connectError,omitempty"`
	Classes      []ClassFixture `yaml:"classes"`
}

// ClassFixture describes the instances served for one namespace and class.
type ClassFixture struct {
	Namespace      string            `yaml:"namespace"`
	ClassName      string            `yaml:"className"`
	EnumerateError string            `yaml:"enumerateError,omitempty"`
	FailAfter      *int              `yaml:"failAfter,omitempty"`
	FailError      string            `yaml:"failError,omitempty"`
	Instances      []InstanceFixture `yaml:"instances"`
}

// InstanceFixture is one instance. ClassName defaults to the enclosing class.
type InstanceFixture struct {
	ClassName string           `yaml:"className,omitempty"`
	Elements  []ElementFixture `yaml:"elements"`
}

// ElementFixture is one element. Type is a type name such as Uint32 or
// StringA. Datetime values are RFC 3339 timestamps or Go durations.
// Reference and Instance values are nested instance fixtures.
type ElementFixture struct {
	Name  string    `yaml:"name"`
	Type  string    `yaml:"type"`
	Key   bool      `yaml:"key,omitempty"`
	Null  bool      `yaml:"null,omitempty"`
	Value yaml.Node `yaml:"value"`
}

// Load reads a fixture file and returns a Provider serving it.
func Load(path string) (*Provider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture %s: %w", path, err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse fixture %s: %w", path, err)
	}
	return p, nil
}

// Parse decodes fixture YAML into a Provider.
func Parse(data []byte) (*Provider, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	p := New()
	if f.ConnectError != "" {
		p.connectErr = errors.New(f.ConnectError)
	}

	for _, cf := range f.Classes {
		if cf.ClassName == "" {
			return nil, errors.New("class fixture without className")
		}
		req := provider.Request{ClassName: cf.ClassName, Namespace: cf.Namespace}
		c := p.class(req)

		for i, inf := range cf.Instances {
			inst, err := inf.build(cf.ClassName)
			if err != nil {
				return nil, fmt.Errorf("%s instance %d: %w", req, i, err)
			}
			c.Instances = append(c.Instances, inst)
		}
		if cf.EnumerateError != "" {
			c.EnumerateErr = errors.New(cf.EnumerateError)
		}
		if cf.FailAfter != nil {
			c.FailAfter = *cf.FailAfter
			c.FailErr = errors.New(cf.FailError)
			if cf.FailError == "" {
				c.FailErr = errors.New("operation failed")
			}
		}
	}
	return p, nil
}

func (f *InstanceFixture) build(defaultClass string) (*mi.Static, error) {
	class := f.ClassName
	if class == "" {
		class = defaultClass
	}
	b := mi.NewInstance(class)

	for _, ef := range f.Elements {
		t, ok := mi.ParseType(ef.Type)
		if !ok {
			return nil, fmt.Errorf("element %q: unknown type %q", ef.Name, ef.Type)
		}
		el := mi.Element{Name: ef.Name, Type: t}
		if ef.Key {
			el.Flags |= mi.FlagKey
		}
		if ef.Null {
			el.Flags |= mi.FlagNull
			b.SetElement(el)
			continue
		}

		v, err := decodeValue(&ef.Value, t)
		if err != nil {
			return nil, fmt.Errorf("element %q: %w", ef.Name, err)
		}
		el.Value = v
		b.SetElement(el)
	}
	return b.Build(), nil
}

func decodeValue(n *yaml.Node, t mi.Type) (mi.Value, error) {
	if !t.IsArray() {
		return decodeScalar(n, t)
	}
	if n.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("%s value must be a sequence", t)
	}

	items := make([]mi.Value, 0, len(n.Content))
	for _, item := range n.Content {
		v, err := decodeScalar(item, t.Scalar())
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}

	switch t.Scalar() {
	case mi.TypeBoolean:
		return toArray[mi.Boolean](items), nil
	case mi.TypeUint8:
		return toArray[mi.Uint8](items), nil
	case mi.TypeSint8:
		return toArray[mi.Sint8](items), nil
	case mi.TypeUint16:
		return toArray[mi.Uint16](items), nil
	case mi.TypeSint16:
		return toArray[mi.Sint16](items), nil
	case mi.TypeUint32:
		return toArray[mi.Uint32](items), nil
	case mi.TypeSint32:
		return toArray[mi.Sint32](items), nil
	case mi.TypeUint64:
		return toArray[mi.Uint64](items), nil
	case mi.TypeSint64:
		return toArray[mi.Sint64](items), nil
	case mi.TypeReal32:
		return toArray[mi.Real32](items), nil
	case mi.TypeReal64:
		return toArray[mi.Real64](items), nil
	case mi.TypeChar16:
		return toArray[mi.Char16](items), nil
	case mi.TypeDatetime:
		return toArray[mi.Datetime](items), nil
	case mi.TypeString:
		return toArray[mi.String](items), nil
	case mi.TypeReference:
		return toArray[mi.Reference](items), nil
	default:
		return toArray[mi.Embedded](items), nil
	}
}

func toArray[T mi.Scalar](items []mi.Value) mi.Array[T] {
	out := make(mi.Array[T], len(items))
	for i, v := range items {
		out[i] = v.(T)
	}
	return out
}

func decodeScalar(n *yaml.Node, t mi.Type) (mi.Value, error) {
	if t == mi.TypeReference || t == mi.TypeInstance {
		var nested InstanceFixture
		if err := n.Decode(&nested); err != nil {
			return nil, fmt.Errorf("%s value: %w", t, err)
		}
		inst, err := nested.build("")
		if err != nil {
			return nil, err
		}
		if t == mi.TypeReference {
			return mi.Reference{Instance: inst}, nil
		}
		return mi.Embedded{Instance: inst}, nil
	}

	if n.Kind != yaml.ScalarNode {
		return nil, fmt.Errorf("%s value must be a scalar", t)
	}
	s := n.Value

	switch t {
	case mi.TypeBoolean:
		b, err := strconv.ParseBool(s)
		return mi.Boolean(b), err
	case mi.TypeUint8:
		u, err := strconv.ParseUint(s, 10, 8)
		return mi.Uint8(u), err
	case mi.TypeSint8:
		i, err := strconv.ParseInt(s, 10, 8)
		return mi.Sint8(i), err
	case mi.TypeUint16:
		u, err := strconv.ParseUint(s, 10, 16)
		return mi.Uint16(u), err
	case mi.TypeSint16:
		i, err := strconv.ParseInt(s, 10, 16)
		return mi.Sint16(i), err
	case mi.TypeUint32:
		u, err := strconv.ParseUint(s, 10, 32)
		return mi.Uint32(u), err
	case mi.TypeSint32:
		i, err := strconv.ParseInt(s, 10, 32)
		return mi.Sint32(i), err
	case mi.TypeUint64:
		u, err := strconv.ParseUint(s, 10, 64)
		return mi.Uint64(u), err
	case mi.TypeSint64:
		i, err := strconv.ParseInt(s, 10, 64)
		return mi.Sint64(i), err
	case mi.TypeReal32:
		f, err := strconv.ParseFloat(s, 32)
		return mi.Real32(f), err
	case mi.TypeReal64:
		f, err := strconv.ParseFloat(s, 64)
		return mi.Real64(f), err
	case mi.TypeChar16:
		u, err := strconv.ParseUint(s, 10, 16)
		return mi.Char16(u), err
	case mi.TypeString:
		return mi.String(s), nil
	case mi.TypeDatetime:
		return parseDatetime(s)
	default:
		return nil, fmt.Errorf("unsupported type %s", t)
	}
}

func parseDatetime(s string) (mi.Datetime, error) {
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return mi.NewTimestamp(ts), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return mi.Datetime{}, fmt.Errorf("datetime %q is neither RFC 3339 nor a duration", s)
	}
	return mi.NewInterval(d), nil
}
