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

import "time"

// Timestamp is an absolute point in time. UTC is the offset from UTC in minutes.
type Timestamp struct {
	Year         uint32
	Month        uint32
	Day          uint32
	Hour         uint32
	Minute       uint32
	Second       uint32
	Microseconds uint32
	UTC          int32
}

// Interval is a relative duration.
type Interval struct {
	Days         uint32
	Hours        uint32
	Minutes      uint32
	Seconds      uint32
	Microseconds uint32
}

// Datetime holds either a Timestamp or an Interval, selected by IsTimestamp.
type Datetime struct {
	IsTimestamp bool
	Timestamp   Timestamp
	Interval    Interval
}

func (Datetime) Type() Type { return TypeDatetime }
func (Datetime) isValue()   {}

// NewTimestamp converts t into a timestamp Datetime, keeping t's zone offset.
func NewTimestamp(t time.Time) Datetime {
	_, offset := t.Zone()
	return Datetime{
		IsTimestamp: true,
		Timestamp: Timestamp{
			Year:         uint32(t.Year()),
			Month:        uint32(t.Month()),
			Day:          uint32(t.Day()),
			Hour:         uint32(t.Hour()),
			Minute:       uint32(t.Minute()),
			Second:       uint32(t.Second()),
			Microseconds: uint32(t.Nanosecond() / int(time.Microsecond)),
			UTC:          int32(offset / 60),
		},
	}
}

// NewInterval converts a non-negative duration into an interval Datetime.
// Negative durations are clamped to zero.
func NewInterval(d time.Duration) Datetime {
	if d < 0 {
		d = 0
	}
	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute
	d -= minutes * time.Minute
	seconds := d / time.Second
	d -= seconds * time.Second
	return Datetime{
		Interval: Interval{
			Days:         uint32(days),
			Hours:        uint32(hours),
			Minutes:      uint32(minutes),
			Seconds:      uint32(seconds),
			Microseconds: uint32(d / time.Microsecond),
		},
	}
}

// Time returns the timestamp as a time.Time in a fixed zone matching UTC.
func (ts Timestamp) Time() time.Time {
	loc := time.UTC
	if ts.UTC != 0 {
		loc = time.FixedZone("", int(ts.UTC)*60)
	}
	return time.Date(int(ts.Year), time.Month(ts.Month), int(ts.Day),
		int(ts.Hour), int(ts.Minute), int(ts.Second),
		int(ts.Microseconds)*int(time.Microsecond), loc)
}

// Duration returns the interval length.
func (iv Interval) Duration() time.Duration {
	return time.Duration(iv.Days)*24*time.Hour +
		time.Duration(iv.Hours)*time.Hour +
		time.Duration(iv.Minutes)*time.Minute +
		time.Duration(iv.Seconds)*time.Second +
		time.Duration(iv.Microseconds)*time.Microsecond
}
