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

package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/mienum/pkg/config"
	"github.com/NVIDIA/mienum/pkg/enumerator"
	"github.com/NVIDIA/mienum/pkg/mi"
	"github.com/NVIDIA/mienum/pkg/provider"
	"github.com/NVIDIA/mienum/pkg/provider/memory"
	"github.com/NVIDIA/mienum/pkg/server"
)

var (
	reqAgent = provider.Request{ClassName: "SCX_Agent", Namespace: "root/scx"}
	reqOS    = provider.Request{ClassName: "SCX_OperatingSystem", Namespace: "root/scx"}
	reqOther = provider.Request{ClassName: "SCX_Agent", Namespace: "root/other"}
)

func connectedClient(t *testing.T) *enumerator.Client {
	t.Helper()
	p := memory.New(
		memory.WithClass(reqAgent, mi.NewInstance("SCX_Agent").SetString("Version", "1.6.4").Build()),
		memory.WithClass(reqOS, mi.NewInstance("SCX_OperatingSystem").SetString("Name", "Linux").Build()),
		memory.WithClass(reqOther, mi.NewInstance("SCX_Agent").SetString("Version", "other").Build()),
	)
	c := enumerator.NewClient(p)
	require.NoError(t, c.Connect(context.Background()))
	t.Cleanup(c.Disconnect)
	return c
}

const (
	agentJSON = `{"ClassName":"SCX_Agent","Version":"1.6.4"}`
	osJSON    = `{"ClassName":"SCX_OperatingSystem","Name":"Linux"}`
)

func TestHandleEnumerate(t *testing.T) {
	client := connectedClient(t)
	h := NewEnumerateHandler(client, WithDefaultItems([]provider.Request{reqOS}))

	tests := []struct {
		name       string
		method     string
		target     string
		body       string
		wantStatus int
		wantBody   string
		wantCode   string
	}{
		{
			name:       "get single class",
			method:     http.MethodGet,
			target:     "/v1/enumerate?class=SCX_Agent",
			wantStatus: http.StatusOK,
			wantBody:   "[" + agentJSON + "]",
		},
		{
			name:       "get multiple classes",
			method:     http.MethodGet,
			target:     "/v1/enumerate?class=SCX_Agent&class=SCX_OperatingSystem",
			wantStatus: http.StatusOK,
			wantBody:   "[" + agentJSON + "," + osJSON + "]",
		},
		{
			name:       "get namespace",
			method:     http.MethodGet,
			target:     "/v1/enumerate?class=SCX_Agent&namespace=root/other",
			wantStatus: http.StatusOK,
			wantBody:   `[{"ClassName":"SCX_Agent","Version":"other"}]`,
		},
		{
			name:       "get unknown class",
			method:     http.MethodGet,
			target:     "/v1/enumerate?class=SCX_Missing",
			wantStatus: http.StatusOK,
			wantBody:   `[]`,
		},
		{
			name:       "get defaults",
			method:     http.MethodGet,
			target:     "/v1/enumerate",
			wantStatus: http.StatusOK,
			wantBody:   "[" + osJSON + "]",
		},
		{
			name:       "post items",
			method:     http.MethodPost,
			target:     "/v1/enumerate",
			body:       `{"items":[["SCX_OperatingSystem","root/scx"],["SCX_Agent","root/scx"]]}`,
			wantStatus: http.StatusOK,
			wantBody:   "[" + osJSON + "," + agentJSON + "]",
		},
		{
			name:       "post drops malformed items",
			method:     http.MethodPost,
			target:     "/v1/enumerate",
			body:       `{"items":[["SCX_Agent"],["SCX_Agent","root/scx"],42]}`,
			wantStatus: http.StatusOK,
			wantBody:   "[" + agentJSON + "]",
		},
		{
			name:       "post empty body uses defaults",
			method:     http.MethodPost,
			target:     "/v1/enumerate",
			wantStatus: http.StatusOK,
			wantBody:   "[" + osJSON + "]",
		},
		{
			name:       "post only malformed items",
			method:     http.MethodPost,
			target:     "/v1/enumerate",
			body:       `{"items":[["SCX_Agent"],{"class":"SCX_Agent"},7]}`,
			wantStatus: http.StatusOK,
			wantBody:   "[]",
		},
		{
			name:       "post invalid json",
			method:     http.MethodPost,
			target:     "/v1/enumerate",
			body:       `{"items":`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_REQUEST",
		},
		{
			name:       "post unknown field",
			method:     http.MethodPost,
			target:     "/v1/enumerate",
			body:       `{"classes":[]}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_REQUEST",
		},
		{
			name:       "method not allowed",
			method:     http.MethodDelete,
			target:     "/v1/enumerate",
			wantStatus: http.StatusMethodNotAllowed,
			wantCode:   "METHOD_NOT_ALLOWED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			w := httptest.NewRecorder()
			h.HandleEnumerate(w, httptest.NewRequest(tt.method, tt.target, body))

			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
				assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			}
			if tt.wantCode != "" {
				var resp server.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, tt.wantCode, resp.Code)
			}
		})
	}
}

func TestHandleEnumerate_NoItems(t *testing.T) {
	h := NewEnumerateHandler(connectedClient(t))

	w := httptest.NewRecorder()
	h.HandleEnumerate(w, httptest.NewRequest(http.MethodGet, "/v1/enumerate", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleEnumerate_MaxItems(t *testing.T) {
	h := NewEnumerateHandler(connectedClient(t), WithMaxItems(1))

	w := httptest.NewRecorder()
	h.HandleEnumerate(w, httptest.NewRequest(http.MethodGet,
		"/v1/enumerate?class=SCX_Agent&class=SCX_OperatingSystem", nil))

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp server.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.EqualValues(t, 2, resp.Details["requested"])
	assert.EqualValues(t, 1, resp.Details["max"])
}

func TestHandleEnumerate_Disconnected(t *testing.T) {
	client := enumerator.NewClient(memory.New())
	h := NewEnumerateHandler(client, WithTimeout(time.Second))

	w := httptest.NewRecorder()
	h.HandleEnumerate(w, httptest.NewRequest(http.MethodGet, "/v1/enumerate?class=SCX_Agent", nil))

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	var resp server.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "SERVICE_UNAVAILABLE", resp.Code)
	assert.True(t, resp.Retryable)
}

func TestNewServer(t *testing.T) {
	cfg, err := config.Parse([]byte(`
provider: memory
items:
  - [SCX_Agent, root/scx]
`))
	require.NoError(t, err)

	client := connectedClient(t)
	s := NewServer(cfg, client, "test")

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, RouteEnumerate, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "["+agentJSON+"]", w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
	assert.Equal(t, "v1", w.Header().Get("X-API-Version"))
}

func TestServe_ConnectFailure(t *testing.T) {
	cfg := config.Default()
	cfg.Provider = "memory"

	client := enumerator.NewClient(memory.New(memory.WithConnectError(assert.AnError)))
	err := Serve(context.Background(), cfg, client, "test")
	require.Error(t, err)
	assert.False(t, client.Connected())
}
