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
	"fmt"

	"github.com/urfave/cli/v3"
)

func enumerateCmd() *cli.Command {
	return &cli.Command{
		Name:                  "enumerate",
		EnableShellCompletion: true,
		Usage:                 "Enumerate the configured classes once",
		Description: `Connect to the provider, enumerate every configured class and write one
record holding the combined JSON array.

Classes come from the configuration file's items or from --class:

  mienum enumerate --provider memory --fixture scx.yaml --class SCX_Agent
  mienum enumerate -c agent.yaml --output cm://monitoring/mienum

With --raw the JSON array is written to stdout exactly as produced, without
the record envelope. A run that finds no instances writes nothing.`,
		Flags: flags(commonFlags(), outputFlags(), []cli.Flag{
			&cli.BoolFlag{
				Name:  "raw",
				Usage: "Write the bare JSON array to stdout",
			},
		}),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			client, err := newClient(cfg)
			if err != nil {
				return err
			}

			if cmd.Bool("raw") {
				if err := client.Connect(ctx); err != nil {
					return err
				}
				defer client.Disconnect()

				// An interrupted run still yields a closed partial array.
				doc, err := client.Enumerate(ctx, cfg.Items)
				if doc != "" {
					if _, werr := fmt.Fprintln(cmd.Root().Writer, doc); werr != nil && err == nil {
						err = werr
					}
				}
				return err
			}

			sink, err := newSink(cmd, cfg)
			if err != nil {
				return err
			}
			defer closeSink(sink)

			r, err := newRunner(ctx, cfg, client, sink, 0)
			if err != nil {
				return err
			}
			return r.Run(ctx)
		},
	}
}
