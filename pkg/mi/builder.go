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

// InstanceBuilder provides a fluent API for building Static instances.
// Elements keep insertion order.
type InstanceBuilder struct {
	class    string
	elements []Element
}

// NewInstance creates a new InstanceBuilder for the given class.
func NewInstance(class string) *InstanceBuilder {
	return &InstanceBuilder{
		class:    class,
		elements: make([]Element, 0),
	}
}

// Set appends a non-null element whose tag is taken from the value.
func (b *InstanceBuilder) Set(name string, value Value) *InstanceBuilder {
	b.elements = append(b.elements, Element{
		Name:  name,
		Type:  value.Type(),
		Value: value,
	})
	return b
}

// SetKey appends a non-null element flagged as a class key.
func (b *InstanceBuilder) SetKey(name string, value Value) *InstanceBuilder {
	b.elements = append(b.elements, Element{
		Name:  name,
		Type:  value.Type(),
		Value: value,
		Flags: FlagKey,
	})
	return b
}

// SetNull appends a null element of type t.
func (b *InstanceBuilder) SetNull(name string, t Type) *InstanceBuilder {
	b.elements = append(b.elements, Element{
		Name:  name,
		Type:  t,
		Flags: FlagNull,
	})
	return b
}

// SetString is a convenience method for adding string values.
func (b *InstanceBuilder) SetString(name, value string) *InstanceBuilder {
	return b.Set(name, String(value))
}

// SetElement appends a raw element as-is.
func (b *InstanceBuilder) SetElement(e Element) *InstanceBuilder {
	b.elements = append(b.elements, e)
	return b
}

// Build constructs and returns the instance.
func (b *InstanceBuilder) Build() *Static {
	return &Static{
		Class:    b.class,
		Elements: b.elements,
	}
}
