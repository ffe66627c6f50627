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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct{ opts Options }

func (s *stubProvider) Connect(context.Context, OperationOptions) (Session, error) {
	return nil, errors.New("not implemented")
}

func TestRegistry(t *testing.T) {
	Register("stub", func(opts Options) (Provider, error) {
		return &stubProvider{opts: opts}, nil
	})

	p, err := New("stub", Options{Fixture: "x.yaml"})
	require.NoError(t, err)
	assert.Equal(t, "x.yaml", p.(*stubProvider).opts.Fixture)
	assert.Contains(t, Names(), "stub")

	_, err = New("missing", Options{})
	assert.ErrorContains(t, err, `unknown provider "missing"`)

	assert.Panics(t, func() {
		Register("stub", func(Options) (Provider, error) { return nil, nil })
	})
	assert.Panics(t, func() { Register("", nil) })
}

func TestDefaultOperationOptions(t *testing.T) {
	assert.Equal(t, "1m30s", DefaultOperationOptions().Timeout.String())
}

func TestRequest_String(t *testing.T) {
	assert.Equal(t, "root/scx:SCX_OperatingSystem",
		Request{ClassName: "SCX_OperatingSystem", Namespace: "root/scx"}.String())
}
