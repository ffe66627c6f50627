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

package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/mienum/pkg/api"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:                  "serve",
		EnableShellCompletion: true,
		Usage:                 "Serve enumeration over HTTP",
		Description: `Hold one provider session open and answer enumeration requests:

  GET  /v1/enumerate?class=SCX_Agent&namespace=root/scx
  POST /v1/enumerate   {"items": [["SCX_Agent", "root/scx"]]}

Requests that name no classes enumerate the configured items. The server
also exposes /health, /ready and /metrics.`,
		Flags:  flags(commonFlags(), serverFlags()),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			client, err := newClient(cfg)
			if err != nil {
				return err
			}
			return api.Serve(ctx, cfg, client, version)
		},
	}
}
