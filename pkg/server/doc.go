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

// Package server provides the HTTP server shared by mienum's API surface.
//
// Application routes are supplied with WithHandler and wrapped in a fixed
// middleware chain:
//
//   - Prometheus request metrics, labeled by route pattern
//   - API version negotiation through a vendor Accept header
//     (application/vnd.nvidia.mienum.v1+json)
//   - Request IDs, taken from a valid X-Request-Id or generated
//   - Panic recovery
//   - Token bucket rate limiting (golang.org/x/time/rate)
//   - Request body size limits
//   - Debug request logging
//
// System routes bypass the chain:
//
//	GET /health   liveness, always 200
//	GET /ready    readiness, 503 until serving and the Ready check passes
//	GET /metrics  Prometheus exposition
//
// Errors are written as ErrorResponse with a code taken from pkg/errors.
// WriteErrorFromErr maps structured error codes to HTTP status codes.
//
// Usage:
//
//	s := server.New(
//	    server.WithName("mienum"),
//	    server.WithVersion(version),
//	    server.WithHandler(map[string]http.HandlerFunc{
//	        "/v1/enumerate": h.HandleEnumerate,
//	    }),
//	)
//	err := s.Run(ctx)
//
// Run stops on SIGINT, SIGTERM or context cancellation and shuts down within
// the configured ShutdownTimeout (SHUTDOWN_TIMEOUT_SECONDS).
package server
