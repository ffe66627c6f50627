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

package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/mienum/pkg/errors"
)

func TestHTTPStatusFromCode(t *testing.T) {
	tests := []struct {
		code errors.ErrorCode
		want int
	}{
		{errors.ErrCodeInvalidRequest, http.StatusBadRequest},
		{errors.ErrCodeNotFound, http.StatusNotFound},
		{errors.ErrCodeMethodNotAllowed, http.StatusMethodNotAllowed},
		{errors.ErrCodeRateLimitExceeded, http.StatusTooManyRequests},
		{errors.ErrCodeUnavailable, http.StatusServiceUnavailable},
		{errors.ErrCodeConnection, http.StatusServiceUnavailable},
		{errors.ErrCodeTimeout, http.StatusGatewayTimeout},
		{errors.ErrCodeEnumeration, http.StatusBadGateway},
		{errors.ErrCodeGraphTooDeep, http.StatusInternalServerError},
		{errors.ErrCodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatusFromCode(tt.code))
		})
	}
}

func TestWriteError(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), contextKeyRequestID, "req-1"))
	w := httptest.NewRecorder()

	WriteError(w, req, http.StatusBadRequest, errors.ErrCodeInvalidRequest, "bad class", false,
		map[string]any{"class": ""})

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_REQUEST", resp.Code)
	assert.Equal(t, "bad class", resp.Message)
	assert.Equal(t, "req-1", resp.RequestID)
	assert.False(t, resp.Retryable)
	assert.Equal(t, "", resp.Details["class"])
}

func TestWriteErrorFromErr(t *testing.T) {
	t.Run("structured", func(t *testing.T) {
		err := errors.WrapWithContext(errors.ErrCodeTimeout, "enumeration timed out",
			stderrors.New("deadline"), map[string]any{"class": "SCX_Agent"})
		w := httptest.NewRecorder()
		WriteErrorFromErr(w, httptest.NewRequest(http.MethodGet, "/", nil), err, "fallback", nil)

		require.Equal(t, http.StatusGatewayTimeout, w.Code)
		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "TIMEOUT", resp.Code)
		assert.Equal(t, "enumeration timed out", resp.Message)
		assert.True(t, resp.Retryable)
		assert.Equal(t, "SCX_Agent", resp.Details["class"])
		assert.Equal(t, "deadline", resp.Details["error"])
		assert.NotEmpty(t, resp.RequestID)
	})

	t.Run("plain", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteErrorFromErr(w, httptest.NewRequest(http.MethodGet, "/", nil),
			stderrors.New("disk full"), "write failed", map[string]any{"op": "sink"})

		require.Equal(t, http.StatusInternalServerError, w.Code)
		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "INTERNAL", resp.Code)
		assert.Equal(t, "write failed", resp.Message)
		assert.Equal(t, "disk full", resp.Details["error"])
		assert.Equal(t, "sink", resp.Details["op"])
	})
}
