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

package defaults

import "time"

// Provider operation defaults.
const (
	// OperationTimeout is applied to every enumeration operation at connect
	// time (1 minute + 30 seconds).
	OperationTimeout = 1*time.Minute + 30*time.Second

	// ConnectTimeout bounds establishing the provider application and session.
	ConnectTimeout = 30 * time.Second

	// OperationCloseTimeout bounds releasing an enumeration operation.
	OperationCloseTimeout = 10 * time.Second
)

// Encoder limits.
const (
	// MaxInstanceDepth is the deepest nesting of embedded or referenced
	// instances the encoder follows before failing with GRAPH_TOO_DEEP.
	MaxInstanceDepth = 32
)

// Runner defaults.
const (
	// RunnerMinInterval is the shortest accepted periodic run interval.
	RunnerMinInterval = 1 * time.Second

	// RunnerDefaultInterval is used by watch when no interval is configured.
	RunnerDefaultInterval = 1 * time.Minute

	// RunnerDefaultTag is the tag attached to emitted documents.
	RunnerDefaultTag = "omi.data"
)

// Server timeouts for HTTP server configuration.
const (
	// ServerReadTimeout is the maximum duration for reading request headers.
	ServerReadTimeout = 10 * time.Second

	// ServerReadHeaderTimeout prevents slow header attacks.
	ServerReadHeaderTimeout = 5 * time.Second

	// ServerWriteTimeout is the maximum duration for writing a response.
	// Must exceed OperationTimeout so a slow enumeration can still answer.
	ServerWriteTimeout = 2 * time.Minute

	// ServerIdleTimeout is the maximum duration to wait for the next request.
	ServerIdleTimeout = 3 * time.Minute

	// ServerShutdownTimeout is the maximum duration for graceful shutdown.
	ServerShutdownTimeout = 30 * time.Second

	// EnumerateHandlerTimeout is the timeout for /v1/enumerate requests.
	EnumerateHandlerTimeout = 110 * time.Second
)

// HTTP client timeouts for remote mapping and fixture downloads.
const (
	// HTTPClientTimeout bounds a complete request including the body.
	HTTPClientTimeout = 30 * time.Second

	// HTTPConnectTimeout bounds dialing the remote host.
	HTTPConnectTimeout = 5 * time.Second

	// HTTPTLSHandshakeTimeout bounds the TLS handshake.
	HTTPTLSHandshakeTimeout = 5 * time.Second

	// HTTPResponseHeaderTimeout bounds waiting for response headers.
	HTTPResponseHeaderTimeout = 10 * time.Second

	// HTTPIdleConnTimeout is how long idle pooled connections are kept.
	HTTPIdleConnTimeout = 90 * time.Second

	// HTTPKeepAlive is the TCP keep-alive period.
	HTTPKeepAlive = 30 * time.Second
)

// Kubernetes timeouts for K8s API operations.
const (
	// K8sListTimeout is the timeout for a single list page.
	K8sListTimeout = 30 * time.Second

	// ConfigMapWriteTimeout is the timeout for writing to ConfigMaps.
	ConfigMapWriteTimeout = 30 * time.Second
)

// Kubernetes list paging.
const (
	// K8sListPageSize is the page size used when draining list calls.
	K8sListPageSize int64 = 100
)

// Enumerate API limits.
const (
	// APIMaxEnumerateItems bounds the classes accepted by one request.
	APIMaxEnumerateItems = 64

	// APIDefaultNamespace is used when a GET request names no namespace.
	APIDefaultNamespace = "root/scx"
)
