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

// Value is the closed set of typed values an element can carry.
// Only types declared in this package implement it.
type Value interface {
	// Type returns the tag matching the variant.
	Type() Type
	isValue()
}

// Scalar variants.
type (
	Boolean bool
	Uint8   uint8
	Sint8   int8
	Uint16  uint16
	Sint16  int16
	Uint32  uint32
	Sint32  int32
	Uint64  uint64
	Sint64  int64
	Real32  float32
	Real64  float64
	// Char16 is a single UTF-16 code unit.
	Char16 uint16
	String string
)

// Reference points at another instance by association. The target is
// owned by whoever produced it; holders must not retain it past one
// document's construction.
type Reference struct {
	Instance Instance
}

// Embedded is an instance nested by value inside another. Ownership rules
// match Reference.
type Embedded struct {
	Instance Instance
}

func (Boolean) Type() Type   { return TypeBoolean }
func (Uint8) Type() Type     { return TypeUint8 }
func (Sint8) Type() Type     { return TypeSint8 }
func (Uint16) Type() Type    { return TypeUint16 }
func (Sint16) Type() Type    { return TypeSint16 }
func (Uint32) Type() Type    { return TypeUint32 }
func (Sint32) Type() Type    { return TypeSint32 }
func (Uint64) Type() Type    { return TypeUint64 }
func (Sint64) Type() Type    { return TypeSint64 }
func (Real32) Type() Type    { return TypeReal32 }
func (Real64) Type() Type    { return TypeReal64 }
func (Char16) Type() Type    { return TypeChar16 }
func (String) Type() Type    { return TypeString }
func (Reference) Type() Type { return TypeReference }
func (Embedded) Type() Type  { return TypeInstance }

func (Boolean) isValue()   {}
func (Uint8) isValue()     {}
func (Sint8) isValue()     {}
func (Uint16) isValue()    {}
func (Sint16) isValue()    {}
func (Uint32) isValue()    {}
func (Sint32) isValue()    {}
func (Uint64) isValue()    {}
func (Sint64) isValue()    {}
func (Real32) isValue()    {}
func (Real64) isValue()    {}
func (Char16) isValue()    {}
func (String) isValue()    {}
func (Reference) isValue() {}
func (Embedded) isValue()  {}

// Scalar is a compile-time constraint over the non-array variants.
type Scalar interface {
	Value
	Boolean | Uint8 | Sint8 | Uint16 | Sint16 | Uint32 | Sint32 | Uint64 | Sint64 |
		Real32 | Real64 | Char16 | String | Datetime | Reference | Embedded
}

// Array is a homogeneous array of one scalar variant.
type Array[T Scalar] []T

// Type returns the scalar tag of T with the array bit set.
func (a Array[T]) Type() Type {
	var zero T
	return zero.Type() | ArrayBit
}

func (Array[T]) isValue() {}

// Len returns the fixed element count.
func (a Array[T]) Len() int { return len(a) }

// At returns element i as a Value.
func (a Array[T]) At(i int) Value { return a[i] }

// Sequence is implemented by every Array instantiation.
type Sequence interface {
	Value
	Len() int
	At(i int) Value
}

// Array variants.
type (
	BooleanA   = Array[Boolean]
	Uint8A     = Array[Uint8]
	Sint8A     = Array[Sint8]
	Uint16A    = Array[Uint16]
	Sint16A    = Array[Sint16]
	Uint32A    = Array[Uint32]
	Sint32A    = Array[Sint32]
	Uint64A    = Array[Uint64]
	Sint64A    = Array[Sint64]
	Real32A    = Array[Real32]
	Real64A    = Array[Real64]
	Char16A    = Array[Char16]
	DatetimeA  = Array[Datetime]
	StringA    = Array[String]
	ReferenceA = Array[Reference]
	InstanceA  = Array[Embedded]
)
