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

package provider

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/NVIDIA/mienum/pkg/defaults"
	"github.com/NVIDIA/mienum/pkg/mi"
)

// Request identifies one enumeration: all instances of ClassName in Namespace.
type Request struct {
	ClassName string `json:"className" yaml:"className"`
	Namespace string `json:"namespace" yaml:"namespace"`
}

func (r Request) String() string {
	return r.Namespace + ":" + r.ClassName
}

// OperationOptions apply to every operation started on a session.
type OperationOptions struct {
	// Timeout bounds each enumeration operation from open to close.
	Timeout time.Duration
}

// DefaultOperationOptions returns the options used when none are configured.
func DefaultOperationOptions() OperationOptions {
	return OperationOptions{Timeout: defaults.OperationTimeout}
}

// Provider is a source of management instances.
type Provider interface {
	// Connect opens a session. A failed Connect leaves nothing open.
	Connect(ctx context.Context, opts OperationOptions) (Session, error)
}

// Session is an open connection to a provider. Sessions are not safe for
// concurrent use.
type Session interface {
	// Enumerate starts an operation yielding every instance that matches req.
	Enumerate(ctx context.Context, req Request) (Operation, error)

	// Options returns the options the session was opened with.
	Options() OperationOptions

	// Close releases the session. Calling Close more than once is a no-op.
	Close() error
}

// Operation is a pull-based cursor over one enumeration's results.
//
// Next returns the next instance, whether more results are pending, and
// the status of the pull. A nil instance with a nil error means the result
// set is exhausted. Instances returned by Next, including any instances they
// reference, are only valid until the following call to Next or Close.
type Operation interface {
	Next(ctx context.Context) (inst mi.Instance, more bool, err error)
	Close() error
}

// Options carries provider construction settings. Each provider reads only
// the fields that apply to it.
type Options struct {
	// Fixture is the YAML file served by the memory provider.
	Fixture string

	// Units restricts the systemd provider to the named units.
	Units []string

	// Kubeconfig is the kubeconfig path used by the k8s provider.
	// Empty means automatic discovery.
	Kubeconfig string
}

// Factory builds a provider from options.
type Factory func(opts Options) (Provider, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register makes a provider factory available under name. It panics if
// name is empty, f is nil, or name is already registered.
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if name == "" || f == nil {
		panic("provider: Register called with empty name or nil factory")
	}
	if _, dup := registry[name]; dup {
		panic("provider: Register called twice for " + name)
	}
	registry[name] = f
}

// New builds the provider registered under name.
func New(name string, opts Options) (Provider, error) {
	registryMu.RLock()
	f, ok := registry[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown provider %q (available: %v)", name, Names())
	}
	return f(opts)
}

// Names returns the registered provider names in sorted order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
