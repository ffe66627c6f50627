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

package k8s

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"k8s.io/client-go/kubernetes"

	"github.com/NVIDIA/mienum/pkg/defaults"
	"github.com/NVIDIA/mienum/pkg/k8s/client"
	"github.com/NVIDIA/mienum/pkg/provider"
)

const (
	// Name is the registry name of this provider.
	Name = "k8s"

	// Namespace is the root namespace. Pods may be restricted to one
	// Kubernetes namespace with Namespace + "/" + name.
	Namespace = "root/kubernetes"

	// ClassNode is one instance per cluster node.
	ClassNode = "K8s_Node"

	// ClassPod is one instance per pod.
	ClassPod = "K8s_Pod"

	// ClassContainer is embedded in pod instances.
	ClassContainer = "K8s_Container"

	// ClassOwner is referenced by pod instances with a controller.
	ClassOwner = "K8s_OwnerReference"
)

var (
	// ErrInvalidClass is returned for classes this provider does not serve.
	ErrInvalidClass = errors.New("invalid class")

	// ErrInvalidNamespace is returned for namespaces outside Namespace.
	ErrInvalidNamespace = errors.New("invalid namespace")
)

func init() {
	provider.Register(Name, func(opts provider.Options) (provider.Provider, error) {
		return New(opts.Kubeconfig), nil
	})
}

// Provider enumerates nodes and pods through the Kubernetes API.
type Provider struct {
	kubeconfig string
	clientset  kubernetes.Interface
	pageSize   int64
}

// New returns a Provider using the given kubeconfig. An empty path uses
// automatic discovery.
func New(kubeconfig string) *Provider {
	return &Provider{
		kubeconfig: kubeconfig,
		pageSize:   defaults.K8sListPageSize,
	}
}

// NewWithClient returns a Provider bound to an existing client.
func NewWithClient(c kubernetes.Interface, pageSize int64) *Provider {
	if pageSize <= 0 {
		pageSize = defaults.K8sListPageSize
	}
	return &Provider{clientset: c, pageSize: pageSize}
}

func (p *Provider) getClient() (kubernetes.Interface, error) {
	if p.clientset != nil {
		return p.clientset, nil
	}
	c, cfg, err := client.Resolve(p.kubeconfig)
	if err != nil {
		return nil, err
	}
	slog.Debug("kubernetes client ready", "host", cfg.Host, "auth", client.AuthMethod(cfg))
	return c, nil
}

// Connect builds the client and checks that the API server answers.
func (p *Provider) Connect(ctx context.Context, opts provider.OperationOptions) (provider.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c, err := p.getClient()
	if err != nil {
		return nil, fmt.Errorf("failed to get kubernetes client: %w", err)
	}

	v, err := c.Discovery().ServerVersion()
	if err != nil {
		return nil, fmt.Errorf("failed to get kubernetes version: %w", err)
	}
	slog.Debug("connected to kubernetes", slog.String("version", v.GitVersion))

	return &session{client: c, opts: opts, pageSize: p.pageSize}, nil
}

type session struct {
	client   kubernetes.Interface
	opts     provider.OperationOptions
	pageSize int64
	closed   bool
}

func (s *session) Options() provider.OperationOptions {
	return s.opts
}

func (s *session) Close() error {
	s.closed = true
	return nil
}

func (s *session) Enumerate(ctx context.Context, req provider.Request) (provider.Operation, error) {
	if s.closed {
		return nil, errors.New("session is closed")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ns, err := kubeNamespace(req.Namespace)
	if err != nil {
		return nil, err
	}

	switch req.ClassName {
	case ClassNode:
		if ns != "" {
			return nil, fmt.Errorf("%w: nodes are cluster scoped", ErrInvalidNamespace)
		}
		return newOperation(s.pageSize, listNodes(s.client)), nil
	case ClassPod:
		return newOperation(s.pageSize, listPods(s.client, ns)), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidClass, req.ClassName)
	}
}

// kubeNamespace maps a request namespace to a Kubernetes namespace.
// Empty means all namespaces.
func kubeNamespace(ns string) (string, error) {
	if ns == "" || ns == Namespace {
		return "", nil
	}
	if rest, ok := strings.CutPrefix(ns, Namespace+"/"); ok && rest != "" {
		return rest, nil
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidNamespace, ns)
}
