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
	"log/slog"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/NVIDIA/mienum/pkg/api"
	"github.com/NVIDIA/mienum/pkg/defaults"
)

func watchCmd() *cli.Command {
	return &cli.Command{
		Name:                  "watch",
		EnableShellCompletion: true,
		Usage:                 "Enumerate the configured classes periodically",
		Description: `Run an enumeration every interval and write one record per run. The first
run happens one interval after start. Failed runs are logged and the loop
continues until interrupted.

With --serve the HTTP API runs alongside the loop on its own provider
session:

  mienum watch -c agent.yaml --interval 30s --serve --port 8080`,
		Flags: flags(commonFlags(), outputFlags(), serverFlags(), []cli.Flag{
			&cli.DurationFlag{
				Name:  flagInterval,
				Usage: "Time between runs (defaults to run_interval, then 1m)",
			},
			&cli.BoolFlag{
				Name:  "serve",
				Usage: "Also serve the HTTP API",
			},
		}),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			interval := cfg.RunInterval
			if interval == 0 {
				interval = defaults.RunnerDefaultInterval
			}

			client, err := newClient(cfg)
			if err != nil {
				return err
			}
			sink, err := newSink(cmd, cfg)
			if err != nil {
				return err
			}
			defer closeSink(sink)

			r, err := newRunner(ctx, cfg, client, sink, interval)
			if err != nil {
				return err
			}

			if !cmd.Bool("serve") {
				return r.Run(ctx)
			}

			apiClient, err := newClient(cfg)
			if err != nil {
				return err
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return r.Run(gctx)
			})
			g.Go(func() error {
				return api.Serve(gctx, cfg, apiClient, version)
			})

			slog.Debug("watching with API enabled", "interval", interval.String())
			return g.Wait()
		},
	}
}
