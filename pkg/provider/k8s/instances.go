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
	"fmt"
	"sort"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/utils/ptr"

	"github.com/NVIDIA/mienum/pkg/mi"
)

func listNodes(c kubernetes.Interface) pageFunc {
	return func(ctx context.Context, opts metav1.ListOptions) ([]mi.Instance, string, error) {
		nodes, err := c.CoreV1().Nodes().List(ctx, opts)
		if err != nil {
			return nil, "", fmt.Errorf("failed to list nodes: %w", err)
		}
		out := make([]mi.Instance, 0, len(nodes.Items))
		for i := range nodes.Items {
			out = append(out, nodeInstance(&nodes.Items[i]))
		}
		return out, nodes.Continue, nil
	}
}

func listPods(c kubernetes.Interface, namespace string) pageFunc {
	return func(ctx context.Context, opts metav1.ListOptions) ([]mi.Instance, string, error) {
		pods, err := c.CoreV1().Pods(namespace).List(ctx, opts)
		if err != nil {
			return nil, "", fmt.Errorf("failed to list pods: %w", err)
		}
		out := make([]mi.Instance, 0, len(pods.Items))
		for i := range pods.Items {
			out = append(out, podInstance(&pods.Items[i]))
		}
		return out, pods.Continue, nil
	}
}

func nodeInstance(n *corev1.Node) *mi.Static {
	info := n.Status.NodeInfo
	b := mi.NewInstance(ClassNode).
		SetKey("Name", mi.String(n.Name)).
		SetString("KernelVersion", info.KernelVersion).
		SetString("OSImage", info.OSImage).
		SetString("OperatingSystem", info.OperatingSystem).
		SetString("Architecture", info.Architecture).
		SetString("ContainerRuntimeVersion", info.ContainerRuntimeVersion).
		SetString("KubeletVersion", info.KubeletVersion).
		Set("Ready", mi.Boolean(nodeReady(n))).
		Set("Unschedulable", mi.Boolean(n.Spec.Unschedulable)).
		Set("CreationTimestamp", mi.NewTimestamp(n.CreationTimestamp.Time))

	if n.Spec.ProviderID != "" {
		b.SetString("ProviderID", n.Spec.ProviderID)
	} else {
		b.SetNull("ProviderID", mi.TypeString)
	}

	if cpu, ok := n.Status.Capacity[corev1.ResourceCPU]; ok {
		b.Set("CPUCapacityMillis", mi.Sint64(cpu.MilliValue()))
	} else {
		b.SetNull("CPUCapacityMillis", mi.TypeSint64)
	}
	if mem, ok := n.Status.Capacity[corev1.ResourceMemory]; ok {
		b.Set("MemoryCapacityBytes", mi.Sint64(mem.Value()))
	} else {
		b.SetNull("MemoryCapacityBytes", mi.TypeSint64)
	}

	addrs := make(mi.StringA, 0, len(n.Status.Addresses))
	for _, a := range n.Status.Addresses {
		addrs = append(addrs, mi.String(string(a.Type)+"="+a.Address))
	}
	b.Set("Addresses", addrs)
	b.Set("Labels", labels(n.Labels))

	return b.Build()
}

func nodeReady(n *corev1.Node) bool {
	for _, c := range n.Status.Conditions {
		if c.Type == corev1.NodeReady {
			return c.Status == corev1.ConditionTrue
		}
	}
	return false
}

func labels(m map[string]string) mi.StringA {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(mi.StringA, 0, len(keys))
	for _, k := range keys {
		out = append(out, mi.String(k+"="+m[k]))
	}
	return out
}

func podInstance(p *corev1.Pod) *mi.Static {
	b := mi.NewInstance(ClassPod).
		SetKey("Namespace", mi.String(p.Namespace)).
		SetKey("Name", mi.String(p.Name)).
		SetString("NodeName", p.Spec.NodeName).
		SetString("Phase", string(p.Status.Phase)).
		SetString("PodIP", p.Status.PodIP).
		Set("CreationTimestamp", mi.NewTimestamp(p.CreationTimestamp.Time))

	if p.Status.StartTime != nil {
		b.Set("StartTime", mi.NewTimestamp(p.Status.StartTime.Time))
	} else {
		b.SetNull("StartTime", mi.TypeDatetime)
	}

	if p.Spec.Priority != nil {
		b.Set("Priority", mi.Sint32(*p.Spec.Priority))
	} else {
		b.SetNull("Priority", mi.TypeSint32)
	}

	var restarts uint32
	containers := make(mi.InstanceA, 0, len(p.Status.ContainerStatuses))
	for i := range p.Status.ContainerStatuses {
		cs := &p.Status.ContainerStatuses[i]
		restarts += uint32(cs.RestartCount)
		containers = append(containers, mi.Embedded{Instance: containerInstance(cs)})
	}
	b.Set("RestartCount", mi.Uint32(restarts))
	b.Set("Containers", containers)

	if owner := metav1.GetControllerOf(p); owner != nil {
		b.Set("Owner", mi.Reference{Instance: ownerInstance(owner)})
	} else {
		b.SetNull("Owner", mi.TypeReference)
	}

	return b.Build()
}

func containerInstance(cs *corev1.ContainerStatus) *mi.Static {
	return mi.NewInstance(ClassContainer).
		SetKey("Name", mi.String(cs.Name)).
		SetString("Image", cs.Image).
		Set("Ready", mi.Boolean(cs.Ready)).
		Set("Started", mi.Boolean(ptr.Deref(cs.Started, false))).
		Set("RestartCount", mi.Uint32(uint32(cs.RestartCount))).
		SetString("State", containerState(cs.State)).
		Build()
}

func containerState(s corev1.ContainerState) string {
	switch {
	case s.Running != nil:
		return "Running"
	case s.Waiting != nil:
		return "Waiting"
	case s.Terminated != nil:
		return "Terminated"
	default:
		return "Unknown"
	}
}

func ownerInstance(o *metav1.OwnerReference) *mi.Static {
	return mi.NewInstance(ClassOwner).
		SetKey("UID", mi.String(string(o.UID))).
		SetString("Kind", o.Kind).
		SetString("Name", o.Name).
		Set("Controller", mi.Boolean(ptr.Deref(o.Controller, false))).
		Build()
}
