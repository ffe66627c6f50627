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

import "bytes"

// EscapeRune returns the JSON escape sequence for r and true, or "" and
// false when r is copied verbatim. Only the quote, backslash, solidus,
// backspace, form feed, newline, carriage return and tab are escaped.
func EscapeRune(r rune) (string, bool) {
	switch r {
	case '"':
		return `\"`, true
	case '\\':
		return `\\`, true
	case '/':
		return `\/`, true
	case '\b':
		return `\b`, true
	case '\f':
		return `\f`, true
	case '\n':
		return `\n`, true
	case '\r':
		return `\r`, true
	case '\t':
		return `\t`, true
	default:
		return "", false
	}
}

// writeEscaped appends s to buf with EscapeRune applied. Every escaped
// character is ASCII, so s is scanned byte-wise and multi-byte sequences,
// valid or not, are copied unchanged.
func writeEscaped(buf *bytes.Buffer, s string) {
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x80 {
			continue
		}
		repl, ok := EscapeRune(rune(c))
		if !ok {
			continue
		}
		buf.WriteString(s[start:i])
		buf.WriteString(repl)
		start = i + 1
	}
	buf.WriteString(s[start:])
}

// Escape returns s with EscapeRune applied to every character.
func Escape(s string) string {
	var buf bytes.Buffer
	buf.Grow(len(s))
	writeEscaped(&buf, s)
	return buf.String()
}

// EscapeControls rewrites every byte below 0x20 in doc as a \u00XX escape.
// Encoded documents carry such bytes only inside strings, so the result is
// the same document in a form strict JSON parsers accept.
func EscapeControls(doc string) string {
	i := 0
	for i < len(doc) && doc[i] >= 0x20 {
		i++
	}
	if i == len(doc) {
		return doc
	}

	const hex = "0123456789abcdef"
	var buf bytes.Buffer
	buf.Grow(len(doc) + 8)
	buf.WriteString(doc[:i])
	for ; i < len(doc); i++ {
		c := doc[i]
		if c >= 0x20 {
			buf.WriteByte(c)
			continue
		}
		buf.WriteString(`\u00`)
		buf.WriteByte(hex[c>>4])
		buf.WriteByte(hex[c&0xf])
	}
	return buf.String()
}
