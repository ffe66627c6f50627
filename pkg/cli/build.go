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
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/mienum/pkg/config"
	"github.com/NVIDIA/mienum/pkg/encoder"
	"github.com/NVIDIA/mienum/pkg/enumerator"
	"github.com/NVIDIA/mienum/pkg/errors"
	"github.com/NVIDIA/mienum/pkg/perf"
	"github.com/NVIDIA/mienum/pkg/provider"
	"github.com/NVIDIA/mienum/pkg/runner"
	"github.com/NVIDIA/mienum/pkg/serializer"
)

// newClient builds a disconnected client for the configured provider.
func newClient(cfg *config.Config) (*enumerator.Client, error) {
	p, err := provider.New(cfg.Provider, cfg.ProviderOptions())
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeInvalidRequest, "failed to create provider", err,
			map[string]any{"provider": cfg.Provider})
	}

	return enumerator.NewClient(p,
		enumerator.WithOperationTimeout(cfg.OperationTimeout),
		enumerator.WithEncoder(encoder.New(encoder.WithMaxDepth(cfg.MaxDepth))),
	), nil
}

// newSink opens the configured output. Callers close it when done.
func newSink(cmd *cli.Command, cfg *config.Config) (serializer.Serializer, error) {
	format, err := parseOutputFormat(cmd, cfg.Output)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "invalid output format", err)
	}
	return serializer.NewFileWriterOrStdout(format, cfg.Output,
		serializer.WithKubeconfig(cfg.Kubeconfig)), nil
}

func closeSink(s serializer.Serializer) {
	if c, ok := s.(serializer.Closer); ok {
		if err := c.Close(); err != nil {
			slog.Warn("failed to close output", "error", err)
		}
	}
}

// newRunner wires client and sink with the configured tag, interval and
// optional performance counter transform.
func newRunner(ctx context.Context, cfg *config.Config, client runner.Enumerator,
	sink runner.Sink, interval time.Duration) (*runner.Runner, error) {

	opts := []runner.Option{
		runner.WithInterval(interval),
		runner.WithTag(cfg.Tag),
		runner.WithVersion(version),
	}

	if cfg.Perf.Enabled() {
		t, err := perf.LoadTransformer(ctx, cfg.Perf.Mapping)
		if err != nil {
			return nil, err
		}
		host := cfg.Perf.Host
		if host == "" {
			if host, err = os.Hostname(); err != nil {
				slog.Warn("failed to resolve hostname for perf records", "error", err)
			}
		}
		opts = append(opts, runner.WithPerf(t, cfg.Perf.Counters, host))
	}

	return runner.New(client, sink, cfg.Items, opts...), nil
}
