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

package serializer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/validation"
	accorev1 "k8s.io/client-go/applyconfigurations/core/v1"

	"github.com/NVIDIA/mienum/pkg/defaults"
	"github.com/NVIDIA/mienum/pkg/k8s/client"
)

const (
	// FieldManager owns the fields written by server-side apply.
	FieldManager = "mienum"

	// DataKeyPrefix names the ConfigMap key holding the payload; the
	// format extension is appended.
	DataKeyPrefix = "records."
)

// Tagged is implemented by values that carry a routing tag. The tag is
// added to the ConfigMap labels.
type Tagged interface {
	GetTag() string
}

// ConfigMapOption is a functional option for configuring ConfigMapWriter instances.
type ConfigMapOption func(*ConfigMapWriter)

// WithKubeconfig builds a dedicated client from path instead of the shared one.
func WithKubeconfig(path string) ConfigMapOption {
	return func(w *ConfigMapWriter) {
		w.kubeconfig = path
	}
}

// WithKubeClient uses c for all API calls.
func WithKubeClient(c client.Interface) ConfigMapOption {
	return func(w *ConfigMapWriter) {
		w.client = c
	}
}

// ConfigMapWriter stores each serialized value in a ConfigMap, replacing
// the previous one.
type ConfigMapWriter struct {
	namespace  string
	name       string
	format     Format
	kubeconfig string
	client     client.Interface
	now        func() time.Time
}

// NewConfigMapWriter returns a writer for namespace/name.
func NewConfigMapWriter(namespace, name string, format Format, opts ...ConfigMapOption) *ConfigMapWriter {
	w := &ConfigMapWriter{
		namespace: namespace,
		name:      name,
		format:    orDefault(format),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *ConfigMapWriter) kube() (client.Interface, error) {
	if w.client != nil {
		return w.client, nil
	}
	c, cfg, err := client.Resolve(w.kubeconfig)
	if err != nil {
		return nil, fmt.Errorf("failed to get kubernetes client: %w", err)
	}
	slog.Info("configmap client ready",
		"namespace", w.namespace,
		"name", w.name,
		"auth_method", client.AuthMethod(cfg))
	w.client = c
	return c, nil
}

// Serialize applies a ConfigMap whose data holds:
//   - records.{json|yaml}: the serialized value
//   - format: the format used
//   - timestamp: RFC 3339 time of the write
func (w *ConfigMapWriter) Serialize(ctx context.Context, data any) error {
	writeCtx, cancel := context.WithTimeout(ctx, defaults.ConfigMapWriteTimeout)
	defer cancel()

	c, err := w.kube()
	if err != nil {
		return err
	}

	content, err := encode(w.format, data)
	if err != nil {
		return fmt.Errorf("failed to serialize records: %w", err)
	}

	labels := map[string]string{
		"app.kubernetes.io/name":       "mienum",
		"app.kubernetes.io/managed-by": FieldManager,
	}
	if t, ok := data.(Tagged); ok {
		if tag := t.GetTag(); len(validation.IsValidLabelValue(tag)) == 0 {
			labels["mienum.nvidia.com/tag"] = tag
		}
	}

	cm := accorev1.ConfigMap(w.name, w.namespace).
		WithLabels(labels).
		WithData(map[string]string{
			DataKeyPrefix + w.format.Extension(): string(content),
			"format":                             string(w.format),
			"timestamp":                          w.now().UTC().Format(time.RFC3339),
		})

	slog.Debug("applying ConfigMap",
		"namespace", w.namespace,
		"name", w.name,
		"format", w.format,
		"bytes", len(content))

	_, err = c.CoreV1().ConfigMaps(w.namespace).Apply(writeCtx, cm, metav1.ApplyOptions{
		FieldManager: FieldManager,
		Force:        true,
	})
	if err != nil {
		return fmt.Errorf("failed to apply ConfigMap %s/%s: %w", w.namespace, w.name, err)
	}
	return nil
}

// Close is a no-op.
func (w *ConfigMapWriter) Close() error {
	return nil
}

// parseConfigMapURI splits cm://namespace/name.
func parseConfigMapURI(uri string) (namespace, name string, err error) {
	if !strings.HasPrefix(uri, ConfigMapURIScheme) {
		return "", "", fmt.Errorf("invalid ConfigMap URI: must start with %s", ConfigMapURIScheme)
	}

	parts := strings.SplitN(strings.TrimPrefix(uri, ConfigMapURIScheme), "/", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid ConfigMap URI format: expected %snamespace/name, got %s", ConfigMapURIScheme, uri)
	}

	namespace = strings.TrimSpace(parts[0])
	name = strings.TrimSpace(parts[1])
	if namespace == "" {
		return "", "", fmt.Errorf("invalid ConfigMap URI: namespace cannot be empty")
	}
	if name == "" {
		return "", "", fmt.Errorf("invalid ConfigMap URI: name cannot be empty")
	}
	return namespace, name, nil
}
