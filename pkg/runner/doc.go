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

// Package runner schedules enumerations and hands their results to a sink.
//
// With no interval a Runner connects, enumerates once and disconnects. With
// an interval it waits that long before every run until its context is
// canceled:
//
//	r := runner.New(client, sink, cfg.Items,
//		runner.WithInterval(time.Minute),
//		runner.WithTag("omi.data"))
//	if err := r.Run(ctx); err != nil {
//		return err
//	}
//
// Each emitted Record carries a run ID, the tag and either the enumeration
// document or, when a counter mapping is configured, the transformed perf
// blob. Runs that find no instances emit nothing.
package runner
