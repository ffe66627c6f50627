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

// Package client builds Kubernetes clients for the k8s provider and the
// ConfigMap sinks.
//
// GetKubeClient returns one shared client, discovered from KUBECONFIG,
// ~/.kube/config or the in-cluster service account, in that order.
// GetKubeClientWithConfig builds a dedicated client for an explicit path,
// and Resolve picks between the two:
//
//	c, cfg, err := client.Resolve(kubeconfig)
//	if err != nil {
//		return fmt.Errorf("failed to get kubernetes client: %w", err)
//	}
//	slog.Debug("kubernetes client ready", "host", cfg.Host, "auth", client.AuthMethod(cfg))
package client
