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
	"log/slog"
	"net/http"

	"github.com/NVIDIA/mienum/pkg/config"
	"github.com/NVIDIA/mienum/pkg/enumerator"
	"github.com/NVIDIA/mienum/pkg/errors"
	"github.com/NVIDIA/mienum/pkg/server"
)

// Name identifies the API server in logs and the root route.
const Name = "mienum-api-server"

// RouteEnumerate is the enumeration endpoint.
const RouteEnumerate = "/v1/enumerate"

// Routes returns the application routes for h.
func Routes(h *EnumerateHandler) map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		RouteEnumerate: h.HandleEnumerate,
	}
}

// NewServer builds the API server for a connected client.
func NewServer(cfg *config.Config, client *enumerator.Client, version string) *server.Server {
	h := NewEnumerateHandler(client, WithDefaultItems(cfg.Requests()))

	sc := server.NewConfig()
	sc.Name = Name
	sc.Version = version
	if cfg.Server.Address != "" {
		sc.Address = cfg.Server.Address
	}
	if cfg.Server.Port > 0 {
		sc.Port = cfg.Server.Port
	}

	return server.New(
		server.WithConfig(sc),
		server.WithHandler(Routes(h)),
		server.WithReadiness(client.Connected),
	)
}

// Serve connects client, serves the API until ctx ends and disconnects.
func Serve(ctx context.Context, cfg *config.Config, client *enumerator.Client, version string) error {
	if err := client.Connect(ctx); err != nil {
		return err
	}
	defer client.Disconnect()

	slog.Info("starting",
		"name", Name,
		"version", version,
		"provider", cfg.Provider,
		"items", len(cfg.Requests()),
	)

	if err := NewServer(cfg, client, version).Run(ctx); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "server exited with error", err)
	}
	return nil
}
