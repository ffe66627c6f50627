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

// Package perf turns enumerated instance documents into performance
// counter records.
//
// A mapping file lists, per class, the performance object name, the
// property that names the instance and the properties that carry counters:
//
//	[{"CimClassName":"SCX_ProcessorStatisticalInformation","ObjectName":"Processor",
//	  "InstanceProperty":"Name",
//	  "CimProperties":[{"CimPropertyName":"PercentProcessorTime","CounterName":"% Processor Time"}]}]
//
// Only counters named in the collected list as "ObjectName CounterName" are
// emitted. A record whose class has no mapping rejects the whole document.
//
// Mapping files may be JSON or YAML and are loaded from disk, over HTTP or
// from a ConfigMap.
package perf
