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

// Package api exposes enumeration over HTTP.
//
// It registers one application route on pkg/server:
//
//	GET  /v1/enumerate?class=SCX_Agent&namespace=root/scx
//	POST /v1/enumerate   {"items": [["SCX_Agent", "root/scx"]]}
//
// Both return the enumeration's JSON array as the response body. Requests
// that name no classes enumerate the configured items. Errors use the
// server's ErrorResponse body; a disconnected provider yields 503 and an
// expired enumeration 504.
package api
