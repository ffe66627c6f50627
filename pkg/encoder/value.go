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
	"strconv"

	"github.com/NVIDIA/mienum/pkg/mi"
)

// writeScalar appends the unquoted text form of a non-datetime,
// non-instance scalar. It returns false when v is not the variant t names.
func writeScalar(buf *bytes.Buffer, v mi.Value, t mi.Type) bool {
	scratch := buf.AvailableBuffer()

	switch t {
	case mi.TypeBoolean:
		x, ok := v.(mi.Boolean)
		if !ok {
			return false
		}
		buf.Write(strconv.AppendBool(scratch, bool(x)))
	case mi.TypeUint8:
		x, ok := v.(mi.Uint8)
		if !ok {
			return false
		}
		buf.Write(strconv.AppendUint(scratch, uint64(x), 10))
	case mi.TypeSint8:
		x, ok := v.(mi.Sint8)
		if !ok {
			return false
		}
		buf.Write(strconv.AppendInt(scratch, int64(x), 10))
	case mi.TypeUint16:
		x, ok := v.(mi.Uint16)
		if !ok {
			return false
		}
		buf.Write(strconv.AppendUint(scratch, uint64(x), 10))
	case mi.TypeSint16:
		x, ok := v.(mi.Sint16)
		if !ok {
			return false
		}
		buf.Write(strconv.AppendInt(scratch, int64(x), 10))
	case mi.TypeUint32:
		x, ok := v.(mi.Uint32)
		if !ok {
			return false
		}
		buf.Write(strconv.AppendUint(scratch, uint64(x), 10))
	case mi.TypeSint32:
		x, ok := v.(mi.Sint32)
		if !ok {
			return false
		}
		buf.Write(strconv.AppendInt(scratch, int64(x), 10))
	case mi.TypeUint64:
		x, ok := v.(mi.Uint64)
		if !ok {
			return false
		}
		buf.Write(strconv.AppendUint(scratch, uint64(x), 10))
	case mi.TypeSint64:
		x, ok := v.(mi.Sint64)
		if !ok {
			return false
		}
		buf.Write(strconv.AppendInt(scratch, int64(x), 10))
	case mi.TypeReal32:
		x, ok := v.(mi.Real32)
		if !ok {
			return false
		}
		buf.Write(strconv.AppendFloat(scratch, float64(x), 'g', -1, 32))
	case mi.TypeReal64:
		x, ok := v.(mi.Real64)
		if !ok {
			return false
		}
		buf.Write(strconv.AppendFloat(scratch, float64(x), 'g', -1, 64))
	case mi.TypeChar16:
		x, ok := v.(mi.Char16)
		if !ok {
			return false
		}
		buf.Write(strconv.AppendUint(scratch, uint64(x), 10))
	case mi.TypeString:
		x, ok := v.(mi.String)
		if !ok {
			return false
		}
		writeEscaped(buf, string(x))
	default:
		return false
	}
	return true
}

// writeDatetime appends the object form of a timestamp or interval.
// Every field is quoted and the field order is fixed.
func writeDatetime(buf *bytes.Buffer, dt mi.Datetime) {
	if dt.IsTimestamp {
		ts := dt.Timestamp
		buf.WriteString(`{"MI_Type":"MI_Timestamp"`)
		writeField(buf, "year", uint64(ts.Year))
		writeField(buf, "month", uint64(ts.Month))
		writeField(buf, "day", uint64(ts.Day))
		writeField(buf, "hour", uint64(ts.Hour))
		writeField(buf, "minute", uint64(ts.Minute))
		writeField(buf, "second", uint64(ts.Second))
		writeField(buf, "microseconds", uint64(ts.Microseconds))
		buf.WriteString(`,"utc":"`)
		buf.Write(strconv.AppendInt(buf.AvailableBuffer(), int64(ts.UTC), 10))
		buf.WriteString(`"}`)
		return
	}

	iv := dt.Interval
	buf.WriteString(`{"MI_Type":"MI_Interval"`)
	writeField(buf, "days", uint64(iv.Days))
	writeField(buf, "hours", uint64(iv.Hours))
	writeField(buf, "minutes", uint64(iv.Minutes))
	writeField(buf, "seconds", uint64(iv.Seconds))
	writeField(buf, "microseconds", uint64(iv.Microseconds))
	buf.WriteByte('}')
}

func writeField(buf *bytes.Buffer, name string, v uint64) {
	buf.WriteString(`,"`)
	buf.WriteString(name)
	buf.WriteString(`":"`)
	buf.Write(strconv.AppendUint(buf.AvailableBuffer(), v, 10))
	buf.WriteByte('"')
}
