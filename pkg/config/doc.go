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

// Package config loads the agent configuration.
//
// The file is YAML:
//
//	provider: memory
//	fixture: scx.yaml
//	items:
//	  - [SCX_OperatingSystem, root/scx]
//	  - [SCX_FileSystemStatisticalInformation, root/scx]
//	run_interval: 60s
//	tag: omi.data
//	operation_timeout: 90s
//	output: cm://monitoring/mienum
//	perf:
//	  mapping: mappings.json
//	  counters: ["Logical Disk % Free Space"]
//	server:
//	  port: 8080
//
// Durations use Go syntax. Items that are not a [class, namespace] pair of
// strings are dropped when the requests are built. Environment variables
// prefixed MIENUM_ override the file, and PORT overrides server.port.
package config
