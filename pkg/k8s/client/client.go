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

package client

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"
)

// Interface is an alias for kubernetes.Interface so fake clientsets can be
// passed wherever a client is accepted.
type Interface = kubernetes.Interface

var (
	clientOnce   sync.Once
	cachedClient Interface
	cachedConfig *rest.Config
	clientErr    error
)

// GetKubeClient returns the shared client built from the discovered
// kubeconfig. It is created on the first call and reused afterwards.
func GetKubeClient() (Interface, *rest.Config, error) {
	clientOnce.Do(func() {
		cs, cfg, err := BuildKubeClient("")
		if err != nil {
			clientErr = err
			return
		}
		cachedClient, cachedConfig = cs, cfg
	})
	return cachedClient, cachedConfig, clientErr
}

// BuildKubeClient creates a new client, bypassing the shared one. An empty
// kubeconfig is resolved from KUBECONFIG, then ~/.kube/config, then the
// in-cluster service account.
func BuildKubeClient(kubeconfig string) (*kubernetes.Clientset, *rest.Config, error) {
	if kubeconfig == "" {
		kubeconfig = discoverKubeconfig()
	}

	var (
		config *rest.Config
		err    error
	)
	if kubeconfig == "" {
		config, err = rest.InClusterConfig()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get in-cluster config: %w", err)
		}
	} else {
		config, err = clientcmd.BuildConfigFromFlags("", kubeconfig)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to build kube config from %s: %w", kubeconfig, err)
		}
	}

	cs, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create kubernetes client: %w", err)
	}
	return cs, config, nil
}

func discoverKubeconfig() string {
	if env := os.Getenv("KUBECONFIG"); env != "" {
		return env
	}
	home := filepath.Join(homedir.HomeDir(), ".kube", "config")
	if _, err := os.Stat(home); err != nil {
		return ""
	}
	return home
}

// GetKubeClientWithConfig builds a dedicated client for kubeconfig.
func GetKubeClientWithConfig(kubeconfig string) (Interface, *rest.Config, error) {
	cs, cfg, err := BuildKubeClient(kubeconfig)
	if err != nil {
		return nil, nil, err
	}
	return cs, cfg, nil
}

// Resolve returns a dedicated client when kubeconfig is set and the shared
// client otherwise.
func Resolve(kubeconfig string) (Interface, *rest.Config, error) {
	if kubeconfig != "" {
		return GetKubeClientWithConfig(kubeconfig)
	}
	return GetKubeClient()
}

// AuthMethod names the credential type in cfg for audit logging.
func AuthMethod(cfg *rest.Config) string {
	switch {
	case cfg == nil:
		return "unknown"
	case cfg.AuthProvider != nil:
		return cfg.AuthProvider.Name
	case cfg.ExecProvider != nil:
		return "exec"
	case cfg.BearerToken != "" || cfg.BearerTokenFile != "":
		return "bearer-token"
	case cfg.CertData != nil || cfg.CertFile != "":
		return "cert"
	default:
		return "default"
	}
}
