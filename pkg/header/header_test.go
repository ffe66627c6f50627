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

package header

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKind_IsValid(t *testing.T) {
	tests := []struct {
		kind Kind
		want bool
	}{
		{KindEnumeration, true},
		{KindPerfCounters, true},
		{Kind("Snapshot"), false},
		{Kind(""), false},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.IsValid())
		})
	}
}

func TestNew(t *testing.T) {
	h := New(WithKind(KindEnumeration), WithMetadata("host", "node-1"))
	assert.Equal(t, KindEnumeration, h.GetKind())
	assert.Equal(t, APIVersion, h.APIVersion)
	assert.Equal(t, "node-1", h.Metadata["host"])

	var empty Header
	WithMetadata("k", "v")(&empty)
	assert.Equal(t, "v", empty.Metadata["k"])
}

func TestInit(t *testing.T) {
	created := time.Date(2015, 10, 1, 23, 26, 23, 0, time.FixedZone("x", 3600))

	var h Header
	h.Init(KindPerfCounters, "v1.2.3", created)
	assert.Equal(t, KindPerfCounters, h.Kind)
	assert.Equal(t, APIVersion, h.APIVersion)
	assert.Equal(t, map[string]string{
		"timestamp": "2015-10-01T22:26:23Z",
		"version":   "v1.2.3",
	}, h.Metadata)

	h.Init(KindEnumeration, "", created)
	assert.NotContains(t, h.Metadata, "version")
}
