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

// Package defaults provides centralized configuration constants for mienum.
//
// This package defines timeout values, limits, and other configuration
// defaults used across the codebase. Centralizing these values ensures consistency
// and makes tuning easier.
//
// # Categories
//
//   - Provider timeouts: the fixed 90s operation timeout applied at connect time
//   - Encoder limits: maximum instance nesting depth
//   - Runner defaults: minimum interval and default tag
//   - Server timeouts: For HTTP server configuration
//   - Kubernetes timeouts: For K8s API operations
//
// # Usage
//
//	import "github.com/NVIDIA/mienum/pkg/defaults"
//
//	opts := provider.OperationOptions{Timeout: defaults.OperationTimeout}
package defaults
