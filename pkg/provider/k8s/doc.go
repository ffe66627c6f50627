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

// Package k8s implements a provider that enumerates Kubernetes nodes and
// pods as management instances.
//
// Classes served from the root/kubernetes namespace:
//
//   - K8s_Node: node identity, system info, readiness, capacity, addresses and labels
//   - K8s_Pod: pod placement and phase, with each container status embedded as a
//     K8s_Container instance and the controlling owner as a K8s_OwnerReference reference
//
// Pods can be restricted to one Kubernetes namespace by appending it to the
// request namespace, for example root/kubernetes/kube-system.
//
// List calls are paginated. Each operation fetches the next page only after
// the previous one has been consumed.
package k8s
