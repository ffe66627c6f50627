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

// Package mi defines the typed, self-describing management data model that
// providers hand out: instances with named, typed elements.
//
// # Core Types
//
//   - Type: numeric tag identifying a value variant; array tags are scalar|ArrayBit
//   - Value: closed interface implemented by the scalar variants (Boolean, Uint8, ...,
//     String, Datetime, Reference, Embedded) and by Array[T] for every scalar T
//   - Element: (name, tag, value, flags); FlagNull marks an element with no value
//   - Instance: read-only view with a class name and ordered elements
//
// # Creating Instances
//
//	inst := mi.NewInstance("SCX_OperatingSystem").
//	    SetString("Name", "Linux Distribution").
//	    Set("LastBootUpTime", mi.NewTimestamp(boot)).
//	    Set("SystemUpTime", mi.Uint64(3567851)).
//	    SetNull("Description", mi.TypeString).
//	    Build()
//
// # Ownership
//
// Reference and Embedded values hold a view into an instance owned by the
// provider result that produced it. The view is valid while that result is
// being drained and must not be retained afterwards.
package mi
