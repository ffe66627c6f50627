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
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes/fake"
	"k8s.io/utils/ptr"

	"github.com/NVIDIA/mienum/pkg/encoder"
	"github.com/NVIDIA/mienum/pkg/mi"
	"github.com/NVIDIA/mienum/pkg/provider"
)

var created = metav1.NewTime(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))

func testNode() *corev1.Node {
	return &corev1.Node{
		ObjectMeta: metav1.ObjectMeta{
			Name:              "gpu-node-1",
			CreationTimestamp: created,
			Labels:            map[string]string{"zone": "a", "arch": "amd64"},
		},
		Spec: corev1.NodeSpec{ProviderID: "aws:///us-west-2a/i-0123"},
		Status: corev1.NodeStatus{
			NodeInfo: corev1.NodeSystemInfo{
				KernelVersion:           "6.8.0",
				OSImage:                 "Ubuntu 24.04",
				ContainerRuntimeVersion: "containerd://1.7.0",
				KubeletVersion:          "v1.33.0",
			},
			Capacity: corev1.ResourceList{
				corev1.ResourceCPU:    resource.MustParse("8"),
				corev1.ResourceMemory: resource.MustParse("1Gi"),
			},
			Conditions: []corev1.NodeCondition{{Type: corev1.NodeReady, Status: corev1.ConditionTrue}},
			Addresses:  []corev1.NodeAddress{{Type: corev1.NodeInternalIP, Address: "10.0.0.1"}},
		},
	}
}

func testPod() *corev1.Pod {
	return &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{
			Name:              "web-0",
			Namespace:         "default",
			CreationTimestamp: created,
			OwnerReferences: []metav1.OwnerReference{{
				Kind: "StatefulSet", Name: "web", UID: "uid-1", Controller: ptr.To(true),
			}},
		},
		Spec: corev1.PodSpec{NodeName: "gpu-node-1", Priority: ptr.To[int32](100)},
		Status: corev1.PodStatus{
			Phase: corev1.PodRunning,
			PodIP: "10.1.0.5",
			ContainerStatuses: []corev1.ContainerStatus{
				{Name: "app", Image: "nginx", Ready: true, Started: ptr.To(true), RestartCount: 2,
					State: corev1.ContainerState{Running: &corev1.ContainerStateRunning{}}},
				{Name: "sidecar", Image: "envoy", RestartCount: 1,
					State: corev1.ContainerState{Waiting: &corev1.ContainerStateWaiting{}}},
			},
		},
	}
}

func drain(t *testing.T, op provider.Operation) []mi.Instance {
	t.Helper()
	var out []mi.Instance
	for {
		inst, more, err := op.Next(context.Background())
		require.NoError(t, err)
		if inst == nil {
			return out
		}
		out = append(out, inst)
		if !more {
			return out
		}
	}
}

func connect(t *testing.T, objs ...runtime.Object) provider.Session {
	t.Helper()
	p := NewWithClient(fake.NewClientset(objs...), 0)
	sess, err := p.Connect(context.Background(), provider.DefaultOperationOptions())
	require.NoError(t, err)
	return sess
}

func TestProvider_Nodes(t *testing.T) {
	sess := connect(t, testNode())
	defer sess.Close()

	op, err := sess.Enumerate(context.Background(), provider.Request{ClassName: ClassNode, Namespace: Namespace})
	require.NoError(t, err)
	defer op.Close()

	got := drain(t, op)
	require.Len(t, got, 1)
	n := got[0].(*mi.Static)

	get := func(name string) mi.Value {
		e, ok := n.Get(name)
		require.True(t, ok, name)
		return e.Value
	}
	assert.Equal(t, mi.String("gpu-node-1"), get("Name"))
	assert.Equal(t, mi.Boolean(true), get("Ready"))
	assert.Equal(t, mi.Sint64(8000), get("CPUCapacityMillis"))
	assert.Equal(t, mi.Sint64(1<<30), get("MemoryCapacityBytes"))
	assert.Equal(t, mi.StringA{"arch=amd64", "zone=a"}, get("Labels"))
	assert.Equal(t, mi.StringA{"InternalIP=10.0.0.1"}, get("Addresses"))
	assert.Equal(t, mi.String("aws:///us-west-2a/i-0123"), get("ProviderID"))
}

func TestProvider_Pods(t *testing.T) {
	other := testPod()
	other.Name = "job-1"
	other.Namespace = "batch"
	other.OwnerReferences = nil
	other.Spec.Priority = nil

	sess := connect(t, testPod(), other)
	defer sess.Close()

	t.Run("all namespaces", func(t *testing.T) {
		op, err := sess.Enumerate(context.Background(), provider.Request{ClassName: ClassPod, Namespace: Namespace})
		require.NoError(t, err)
		assert.Len(t, drain(t, op), 2)
	})

	t.Run("one namespace", func(t *testing.T) {
		op, err := sess.Enumerate(context.Background(), provider.Request{ClassName: ClassPod, Namespace: Namespace + "/batch"})
		require.NoError(t, err)
		got := drain(t, op)
		require.Len(t, got, 1)

		p := got[0].(*mi.Static)
		owner, _ := p.Get("Owner")
		assert.True(t, owner.IsNull())
		prio, _ := p.Get("Priority")
		assert.True(t, prio.IsNull())
	})

	t.Run("encoded", func(t *testing.T) {
		op, err := sess.Enumerate(context.Background(), provider.Request{ClassName: ClassPod, Namespace: Namespace + "/default"})
		require.NoError(t, err)
		got := drain(t, op)
		require.Len(t, got, 1)

		var buf bytes.Buffer
		require.NoError(t, encoder.New().EncodeInstance(&buf, got[0]))
		out := buf.String()
		assert.Contains(t, out, `"RestartCount":"3"`)
		assert.Contains(t, out, `"Priority":"100"`)
		assert.Contains(t, out, `"Owner":{"ClassName":"K8s_OwnerReference","UID":"uid-1","Kind":"StatefulSet","Name":"web","Controller":"true"}`)
		assert.Contains(t, out, `{"ClassName":"K8s_Container","Name":"sidecar","Image":"envoy","Ready":"false","Started":"false","RestartCount":"1","State":"Waiting"}`)
	})
}

func TestProvider_EnumerateErrors(t *testing.T) {
	sess := connect(t)

	_, err := sess.Enumerate(context.Background(), provider.Request{ClassName: "K8s_Service"})
	assert.ErrorIs(t, err, ErrInvalidClass)

	_, err = sess.Enumerate(context.Background(), provider.Request{ClassName: ClassPod, Namespace: "root/cimv2"})
	assert.ErrorIs(t, err, ErrInvalidNamespace)

	_, err = sess.Enumerate(context.Background(), provider.Request{ClassName: ClassNode, Namespace: Namespace + "/default"})
	assert.ErrorIs(t, err, ErrInvalidNamespace)

	require.NoError(t, sess.Close())
	_, err = sess.Enumerate(context.Background(), provider.Request{ClassName: ClassNode})
	assert.Error(t, err)
}

func TestOperation_Pages(t *testing.T) {
	pages := [][]mi.Instance{
		{mi.NewInstance("A").Build(), mi.NewInstance("A").Build()},
		{},
		{mi.NewInstance("A").Build()},
	}
	var seen []metav1.ListOptions
	op := newOperation(2, func(_ context.Context, opts metav1.ListOptions) ([]mi.Instance, string, error) {
		seen = append(seen, opts)
		i := len(seen) - 1
		cont := ""
		if i < len(pages)-1 {
			cont = "page"
		}
		return pages[i], cont, nil
	})

	assert.Len(t, drain(t, op), 3)
	require.Len(t, seen, 3)
	assert.Equal(t, int64(2), seen[0].Limit)
	assert.Empty(t, seen[0].Continue)
	assert.Equal(t, "page", seen[1].Continue)
}

func TestOperation_ListError(t *testing.T) {
	boom := errors.New("forbidden")
	op := newOperation(10, func(context.Context, metav1.ListOptions) ([]mi.Instance, string, error) {
		return nil, "", boom
	})
	_, _, err := op.Next(context.Background())
	assert.ErrorIs(t, err, boom)

	require.NoError(t, op.Close())
	inst, more, err := op.Next(context.Background())
	assert.Nil(t, inst)
	assert.False(t, more)
	assert.NoError(t, err)
}

func TestOperation_Empty(t *testing.T) {
	op := newOperation(10, func(context.Context, metav1.ListOptions) ([]mi.Instance, string, error) {
		return nil, "", nil
	})
	inst, more, err := op.Next(context.Background())
	assert.Nil(t, inst)
	assert.False(t, more)
	assert.NoError(t, err)
}

func TestKubeNamespace(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "", want: ""},
		{in: Namespace, want: ""},
		{in: Namespace + "/kube-system", want: "kube-system"},
		{in: Namespace + "/", wantErr: true},
		{in: "root/scx", wantErr: true},
	}

	for _, tt := range tests {
		got, err := kubeNamespace(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}
