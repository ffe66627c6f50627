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

// Package k8s groups mienum's Kubernetes integration.
//
// The client sub-package returns a shared clientset, authenticating
// in-cluster through the service account or out-of-cluster through a
// kubeconfig:
//
//	clientset, cfg, err := client.GetKubeClient()
//
// The clientset backs the k8s instance provider (pkg/provider/k8s) and the
// ConfigMap output (cm://namespace/name) in pkg/serializer.
package k8s
