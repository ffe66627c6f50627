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
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/NVIDIA/mienum/pkg/defaults"
)

// RespondJSON writes data as a JSON response. The body is encoded before
// the header is written so an encoding failure still yields a clean 500.
func RespondJSON(w http.ResponseWriter, statusCode int, data any) {
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(data); err != nil {
		slog.Error("json encoding failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Warn("response write failed", "error", err)
	}
}

// HTTPReaderUserAgent is sent with every download.
const HTTPReaderUserAgent = "mienum/1.0"

// HTTPReaderOption is a functional option for configuring HTTPReader instances.
type HTTPReaderOption func(*HTTPReader)

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) HTTPReaderOption {
	return func(r *HTTPReader) {
		r.userAgent = ua
	}
}

// WithTotalTimeout bounds each request including reading the body.
func WithTotalTimeout(d time.Duration) HTTPReaderOption {
	return func(r *HTTPReader) {
		if d > 0 {
			r.client.Timeout = d
		}
	}
}

// WithInsecureSkipVerify disables TLS certificate checks.
func WithInsecureSkipVerify(skip bool) HTTPReaderOption {
	return func(r *HTTPReader) {
		tr, ok := r.client.Transport.(*http.Transport)
		if !ok {
			return
		}
		if tr.TLSClientConfig == nil {
			tr.TLSClientConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		tr.TLSClientConfig.InsecureSkipVerify = skip //nolint:gosec // opt-in for lab endpoints
	}
}

// WithHTTPClient replaces the client and its transport.
func WithHTTPClient(c *http.Client) HTTPReaderOption {
	return func(r *HTTPReader) {
		if c != nil {
			r.client = c
		}
	}
}

// HTTPReader fetches remote mapping and fixture files.
type HTTPReader struct {
	userAgent string
	client    *http.Client
}

// NewHTTPReader returns a reader with pooled connections and bounded timeouts.
func NewHTTPReader(opts ...HTTPReaderOption) *HTTPReader {
	r := &HTTPReader{
		userAgent: HTTPReaderUserAgent,
		client: &http.Client{
			Timeout:   defaults.HTTPClientTimeout,
			Transport: newTransport(),
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func newTransport() *http.Transport {
	return &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		DialContext: (&net.Dialer{
			Timeout:   defaults.HTTPConnectTimeout,
			KeepAlive: defaults.HTTPKeepAlive,
		}).DialContext,
		TLSHandshakeTimeout:   defaults.HTTPTLSHandshakeTimeout,
		ResponseHeaderTimeout: defaults.HTTPResponseHeaderTimeout,
		ExpectContinueTimeout: 1 * time.Second,
		IdleConnTimeout:       defaults.HTTPIdleConnTimeout,
		ForceAttemptHTTP2:     true,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}
}

// Read fetches url and returns the body.
func (r *HTTPReader) Read(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("url is empty")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for url %s: %w", url, err)
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed for url %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s: status %s", url, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body from %s: %w", url, err)
	}
	return data, nil
}

// Download fetches url into filePath.
func (r *HTTPReader) Download(ctx context.Context, url, filePath string) error {
	data, err := r.Read(ctx, url)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filePath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filePath, err)
	}
	return nil
}
