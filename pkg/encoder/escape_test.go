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
	"encoding/json"
	"testing"

	"github.com/NVIDIA/mienum/pkg/mi"
)

func TestEscapeRune(t *testing.T) {
	tests := []struct {
		r    rune
		want string
		ok   bool
	}{
		{'"', `\"`, true},
		{'\\', `\\`, true},
		{'/', `\/`, true},
		{'\b', `\b`, true},
		{'\f', `\f`, true},
		{'\n', `\n`, true},
		{'\r', `\r`, true},
		{'\t', `\t`, true},
		{'a', "", false},
		{'é', "", false},
		{0x01, "", false},
		{' ', "", false},
	}

	for _, tt := range tests {
		got, ok := EscapeRune(tt.r)
		if ok != tt.ok || got != tt.want {
			t.Errorf("EscapeRune(%q) = (%q, %v), want (%q, %v)", tt.r, got, ok, tt.want, tt.ok)
		}
	}
}

func TestEscape_RoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"plain",
		`quote " here`,
		`back\slash`,
		"/usr/lib/x",
		"bs\bff\fnl\ncr\rtab\t",
		"unicode ünïcödé 日本",
		"all \"\\/\b\f\n\r\t at once",
	}

	for _, in := range inputs {
		escaped := Escape(in)
		var out string
		if err := json.Unmarshal([]byte(`"`+escaped+`"`), &out); err != nil {
			t.Fatalf("Escape(%q) = %q is not a valid JSON string body: %v", in, escaped, err)
		}
		if out != in {
			t.Errorf("round trip of %q = %q", in, out)
		}
	}
}

func TestEscape_PassThrough(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"abc", "abc"},
		{"a/b", `a\/b`},
		{"\x01ctl", "\x01ctl"},
		{"日本", "日本"},
		{"bad\xffutf8/", "bad\xffutf8\\/"},
	}

	for _, tt := range tests {
		if got := Escape(tt.in); got != tt.want {
			t.Errorf("Escape(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEscapeControls(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{`[{"Name":"a\/b"}]`, `[{"Name":"a\/b"}]`},
		{"[{\"Name\":\"a\x01b\"}]", `[{"Name":"a\u0001b"}]`},
		{"\x00\x1f", `\u0000\u001f`},
		{"日本\x02", `日本\u0002`},
	}

	for _, tt := range tests {
		if got := EscapeControls(tt.in); got != tt.want {
			t.Errorf("EscapeControls(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEscapeControls_EncodedDocumentParses(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	inst := mi.NewInstance("SCX_LogFile").SetString("Message", "bell\x07 tab\t /var/log").Build()
	if err := New().EncodeInstance(&buf, inst); err != nil {
		t.Fatalf("EncodeInstance: %v", err)
	}
	buf.WriteByte(']')

	if json.Valid(buf.Bytes()) {
		t.Fatalf("raw encoded document unexpectedly valid: %q", buf.String())
	}

	var out []map[string]string
	if err := json.Unmarshal([]byte(EscapeControls(buf.String())), &out); err != nil {
		t.Fatalf("escaped document does not parse: %v", err)
	}
	if got := out[0]["Message"]; got != "bell\x07 tab\t /var/log" {
		t.Errorf("Message = %q", got)
	}
}
