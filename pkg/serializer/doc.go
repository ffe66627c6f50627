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

// Package serializer writes agent output and reads auxiliary inputs.
//
// # Output
//
// NewFileWriterOrStdout selects the destination from a single string:
//
//	""                      stdout
//	"/var/log/mienum.json"  a file, appended to on every write
//	"cm://monitoring/omi"   a ConfigMap, replaced on every write
//
// Writers emit JSON (indented, one document per write) or YAML (one
// "---" separated document per write). ConfigMaps are written with
// server-side apply under the field manager "mienum" and hold the payload
// in records.json or records.yaml next to format and timestamp keys.
//
// # Input
//
// FromFile decodes a value from a local path, an http(s) URL fetched with
// HTTPReader, or a ConfigMap. The format follows the file extension.
//
// # HTTP
//
// RespondJSON encodes a response body before writing the header.
package serializer
