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

// Package systemd implements a provider that enumerates systemd units over
// the system D-Bus.
//
// Two classes are served from the root/systemd namespace:
//
//   - Systemd_Unit: one instance per unit with Name, Description, LoadState,
//     ActiveState, SubState, Path and, when a job is queued, JobId and JobType
//   - Systemd_UnitProperties: one instance per unit carrying every D-Bus
//     property of the unit, minus a small set of noisy or sensitive ones
//
// When the provider is created with unit names only those units are
// enumerated; otherwise all loaded units are.
//
//	p := systemd.New([]string{"containerd.service", "kubelet.service"})
package systemd
