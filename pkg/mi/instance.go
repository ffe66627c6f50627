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

package mi

import (
	"errors"
	"fmt"
)

// ErrNoClassName is returned by instances that carry no class name.
var ErrNoClassName = errors.New("instance has no class name")

// Element is one named, typed, possibly-null field of an Instance.
// Type is authoritative; Value is only read when it matches Type.
type Element struct {
	Name  string
	Type  Type
	Value Value
	Flags Flags
}

// IsNull reports whether the element is flagged null.
func (e Element) IsNull() bool {
	return e.Flags&FlagNull != 0
}

// Instance is a read-only view of one typed, named record. Providers
// implement it over their own storage; any accessor may fail, in which
// case consumers skip what they could not read.
type Instance interface {
	ClassName() (string, error)
	ElementCount() (int, error)
	ElementAt(i int) (Element, error)
}

// Static is an in-memory Instance.
type Static struct {
	Class    string
	Elements []Element
}

// ClassName returns the class name, or ErrNoClassName when it is empty.
func (s *Static) ClassName() (string, error) {
	if s.Class == "" {
		return "", ErrNoClassName
	}
	return s.Class, nil
}

// ElementCount returns the number of elements.
func (s *Static) ElementCount() (int, error) {
	return len(s.Elements), nil
}

// ElementAt returns element i.
func (s *Static) ElementAt(i int) (Element, error) {
	if i < 0 || i >= len(s.Elements) {
		return Element{}, fmt.Errorf("element index %d out of range [0,%d)", i, len(s.Elements))
	}
	return s.Elements[i], nil
}

// Get returns the first element named name.
func (s *Static) Get(name string) (Element, bool) {
	for _, e := range s.Elements {
		if e.Name == name {
			return e, true
		}
	}
	return Element{}, false
}
