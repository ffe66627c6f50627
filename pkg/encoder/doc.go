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

// Package encoder writes management instances as JSON objects in the fixed
// layout expected by the log ingestion pipeline.
//
// # Format
//
// Every instance becomes one object whose first key is ClassName:
//
//	{"ClassName":"SCX_OperatingSystem","Name":"Linux Distribution","SystemUpTime":"3567851"}
//
// Scalars are always JSON strings, including booleans and numbers. Arrays
// become JSON arrays. Datetime values become objects tagged with MI_Type:
//
//	{"MI_Type":"MI_Timestamp","year":"2015","month":"8","day":"19","hour":"10",
//	 "minute":"57","second":"14","microseconds":"0","utc":"0"}
//	{"MI_Type":"MI_Interval","days":"1","hours":"2","minutes":"3","seconds":"4","microseconds":"5"}
//
// Referenced and embedded instances are written as nested objects of the
// same shape. Null elements are omitted, as are elements whose type tag is
// unknown or whose value does not match the tag.
//
// # Escaping
//
// Strings are escaped with EscapeRune, which only rewrites the quote,
// backslash, solidus and the \b \f \n \r \t controls. All other bytes,
// including non-ASCII text, are copied unchanged.
//
// # Failures
//
// EncodeInstance stages each object in memory. If the instance's class name
// or element count is unreadable it returns ErrMalformedInstance; if nested
// instances are cyclic or deeper than the configured limit it returns
// ErrGraphTooDeep. In both cases nothing is written and Skippable reports
// true. Any other error comes from the destination writer.
package encoder
