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

import "fmt"

// Type is the discriminator that identifies which Value variant is active.
// The numeric codes match the management provider's wire codes.
type Type uint32

const (
	TypeBoolean   Type = 0
	TypeUint8     Type = 1
	TypeSint8     Type = 2
	TypeUint16    Type = 3
	TypeSint16    Type = 4
	TypeUint32    Type = 5
	TypeSint32    Type = 6
	TypeUint64    Type = 7
	TypeSint64    Type = 8
	TypeReal32    Type = 9
	TypeReal64    Type = 10
	TypeChar16    Type = 11
	TypeDatetime  Type = 12
	TypeString    Type = 13
	TypeReference Type = 14
	TypeInstance  Type = 15

	// ArrayBit is set on every homogeneous array tag.
	ArrayBit Type = 16

	TypeBooleanA   = TypeBoolean | ArrayBit
	TypeUint8A     = TypeUint8 | ArrayBit
	TypeSint8A     = TypeSint8 | ArrayBit
	TypeUint16A    = TypeUint16 | ArrayBit
	TypeSint16A    = TypeSint16 | ArrayBit
	TypeUint32A    = TypeUint32 | ArrayBit
	TypeSint32A    = TypeSint32 | ArrayBit
	TypeUint64A    = TypeUint64 | ArrayBit
	TypeSint64A    = TypeSint64 | ArrayBit
	TypeReal32A    = TypeReal32 | ArrayBit
	TypeReal64A    = TypeReal64 | ArrayBit
	TypeChar16A    = TypeChar16 | ArrayBit
	TypeDatetimeA  = TypeDatetime | ArrayBit
	TypeStringA    = TypeString | ArrayBit
	TypeReferenceA = TypeReference | ArrayBit
	TypeInstanceA  = TypeInstance | ArrayBit
)

var typeNames = map[Type]string{
	TypeBoolean:   "Boolean",
	TypeUint8:     "Uint8",
	TypeSint8:     "Sint8",
	TypeUint16:    "Uint16",
	TypeSint16:    "Sint16",
	TypeUint32:    "Uint32",
	TypeSint32:    "Sint32",
	TypeUint64:    "Uint64",
	TypeSint64:    "Sint64",
	TypeReal32:    "Real32",
	TypeReal64:    "Real64",
	TypeChar16:    "Char16",
	TypeDatetime:  "Datetime",
	TypeString:    "String",
	TypeReference: "Reference",
	TypeInstance:  "Instance",
}

// IsArray reports whether the array bit is set.
func (t Type) IsArray() bool {
	return t&ArrayBit != 0
}

// Scalar returns the tag with the array bit cleared.
func (t Type) Scalar() Type {
	return t &^ ArrayBit
}

// Known reports whether t is one of the 32 tags the encoder understands.
func (t Type) Known() bool {
	return t <= TypeInstanceA
}

// String returns the provider name of the tag, e.g. "Uint32" or "StringA".
func (t Type) String() string {
	if !t.Known() {
		return fmt.Sprintf("Type(%d)", uint32(t))
	}
	name := typeNames[t.Scalar()]
	if t.IsArray() {
		return name + "A"
	}
	return name
}

// ParseType parses a provider tag name such as "Uint32" or "StringA".
// Returns the Type and true if parsing succeeds.
func ParseType(s string) (Type, bool) {
	for t, name := range typeNames {
		if s == name {
			return t, true
		}
		if s == name+"A" {
			return t | ArrayBit, true
		}
	}
	return 0, false
}

// Flags carries per-element provider flags.
type Flags uint32

const (
	// FlagNull marks an element that has no value.
	FlagNull Flags = 0x20000000
	// FlagKey marks a key property of the class.
	FlagKey Flags = 0x00001000
)
