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
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/NVIDIA/mienum/pkg/defaults"
	"github.com/NVIDIA/mienum/pkg/enumerator"
	"github.com/NVIDIA/mienum/pkg/errors"
	"github.com/NVIDIA/mienum/pkg/provider"
	"github.com/NVIDIA/mienum/pkg/server"
)

// Enumerator writes the JSON array for a batch of requests.
type Enumerator interface {
	EnumerateRequests(ctx context.Context, w io.Writer, reqs []provider.Request) error
}

// EnumerateRequest is the POST body of /v1/enumerate.
type EnumerateRequest struct {
	// Items lists [class, namespace] pairs.
	Items []any `json:"items"`
}

// HandlerOption is a functional option for configuring EnumerateHandler instances.
type HandlerOption func(*EnumerateHandler)

// WithDefaultItems sets the requests served when a call names none.
func WithDefaultItems(reqs []provider.Request) HandlerOption {
	return func(h *EnumerateHandler) {
		h.defaults = reqs
	}
}

// WithMaxItems bounds the requests accepted per call.
func WithMaxItems(n int) HandlerOption {
	return func(h *EnumerateHandler) {
		if n > 0 {
			h.maxItems = n
		}
	}
}

// WithTimeout bounds one call.
func WithTimeout(d time.Duration) HandlerOption {
	return func(h *EnumerateHandler) {
		if d > 0 {
			h.timeout = d
		}
	}
}

// EnumerateHandler serves enumeration results over HTTP.
type EnumerateHandler struct {
	client   Enumerator
	defaults []provider.Request
	maxItems int
	timeout  time.Duration
}

// NewEnumerateHandler returns a handler that enumerates through client.
func NewEnumerateHandler(client Enumerator, opts ...HandlerOption) *EnumerateHandler {
	h := &EnumerateHandler{
		client:   client,
		maxItems: defaults.APIMaxEnumerateItems,
		timeout:  defaults.EnumerateHandlerTimeout,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// HandleEnumerate processes GET and POST /v1/enumerate.
//
// GET takes repeated class parameters and an optional namespace:
//
//	/v1/enumerate?class=SCX_Agent&class=SCX_OperatingSystem&namespace=root/scx
//
// POST takes an EnumerateRequest body. Either form falls back to the
// configured default items when it names no classes. Malformed POST items
// are dropped, so a body with only malformed items yields an empty array.
// The response body is the enumeration's JSON array.
func (h *EnumerateHandler) HandleEnumerate(w http.ResponseWriter, r *http.Request) {
	var (
		reqs []provider.Request
		err  error
	)

	switch r.Method {
	case http.MethodGet:
		reqs = requestsFromQuery(r)
	case http.MethodPost:
		reqs, err = requestsFromBody(r)
	default:
		w.Header().Set("Allow", "GET, POST")
		server.WriteError(w, r, http.StatusMethodNotAllowed, errors.ErrCodeMethodNotAllowed,
			"Method not allowed", false, map[string]any{"method": r.Method})
		return
	}
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Invalid request body", nil)
		return
	}

	if reqs == nil {
		if len(h.defaults) == 0 {
			server.WriteError(w, r, http.StatusBadRequest, errors.ErrCodeInvalidRequest,
				"No classes to enumerate", false, nil)
			return
		}
		reqs = h.defaults
	}
	if len(reqs) > h.maxItems {
		server.WriteError(w, r, http.StatusBadRequest, errors.ErrCodeInvalidRequest,
			"Too many classes requested", false, map[string]any{
				"requested": len(reqs),
				"max":       h.maxItems,
			})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var buf bytes.Buffer
	if err := h.client.EnumerateRequests(ctx, &buf, reqs); err != nil {
		slog.Warn("enumeration request failed",
			"requestID", server.RequestID(r.Context()),
			"classes", len(reqs),
			"error", err,
		)
		server.WriteErrorFromErr(w, r, err, "Enumeration failed", map[string]any{"classes": len(reqs)})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Warn("response write failed", "error", err)
	}
}

func requestsFromQuery(r *http.Request) []provider.Request {
	q := r.URL.Query()
	ns := q.Get("namespace")
	if ns == "" {
		ns = defaults.APIDefaultNamespace
	}

	var reqs []provider.Request
	for _, class := range q["class"] {
		if class == "" {
			continue
		}
		reqs = append(reqs, provider.Request{ClassName: class, Namespace: ns})
	}
	return reqs
}

func requestsFromBody(r *http.Request) ([]provider.Request, error) {
	var body EnumerateRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil, nil
		}
		var maxErr *http.MaxBytesError
		if stderrors.As(err, &maxErr) {
			return nil, errors.WrapWithContext(errors.ErrCodeInvalidRequest, "request body too large",
				err, map[string]any{"limit": maxErr.Limit})
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "invalid request body", err)
	}

	if len(body.Items) == 0 {
		return nil, nil
	}
	// Non-nil even when every item is malformed: those are dropped and
	// the result is an empty array, not the defaults.
	return enumerator.ParseRequests(body.Items), nil
}
