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
	"fmt"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/mienum/pkg/config"
	"github.com/NVIDIA/mienum/pkg/defaults"
	"github.com/NVIDIA/mienum/pkg/serializer"
)

// Flag names shared between commands.
const (
	flagConfig           = "config"
	flagProvider         = "provider"
	flagFixture          = "fixture"
	flagUnit             = "unit"
	flagKubeconfig       = "kubeconfig"
	flagClass            = "class"
	flagNamespace        = "namespace"
	flagMaxDepth         = "max-depth"
	flagOperationTimeout = "operation-timeout"
	flagTag              = "tag"
	flagOutput           = "output"
	flagFormat           = "format"
	flagInterval         = "interval"
	flagAddress          = "address"
	flagPort             = "port"
)

// Flags are built per command because urfave/cli flags keep parse state.

// commonFlags are shared by every command that enumerates.
func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    flagConfig,
			Aliases: []string{"c"},
			Usage:   "Path to the agent configuration file",
			Sources: cli.EnvVars("MIENUM_CONFIG"),
		},
		&cli.StringFlag{
			Name:    flagProvider,
			Aliases: []string{"p"},
			Usage:   "Instance provider (see 'mienum providers')",
		},
		&cli.StringFlag{
			Name:  flagFixture,
			Usage: "YAML fixture served by the memory provider",
		},
		&cli.StringSliceFlag{
			Name:  flagUnit,
			Usage: "Restrict the systemd provider to a unit (can be repeated)",
		},
		&cli.StringFlag{
			Name:    flagKubeconfig,
			Aliases: []string{"k"},
			Usage:   "Path to kubeconfig file (overrides KUBECONFIG env and default ~/.kube/config)",
		},
		&cli.StringSliceFlag{
			Name:  flagClass,
			Usage: "Class to enumerate, as NAME or NAMESPACE:NAME (can be repeated, replaces configured items)",
		},
		&cli.StringFlag{
			Name:  flagNamespace,
			Usage: "Namespace for --class values that do not name one",
			Value: defaults.APIDefaultNamespace,
		},
		&cli.IntFlag{
			Name:  flagMaxDepth,
			Usage: "Deepest nesting of embedded or referenced instances",
		},
		&cli.DurationFlag{
			Name:  flagOperationTimeout,
			Usage: "Timeout applied to each enumeration operation",
		},
	}
}

// outputFlags configure where records go.
func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  flagTag,
			Usage: "Tag attached to emitted records",
		},
		&cli.StringFlag{
			Name:    flagOutput,
			Aliases: []string{"o"},
			Usage:   "Output destination: file path, ConfigMap URI (cm://namespace/name), or empty for stdout",
		},
		&cli.StringFlag{
			Name:    flagFormat,
			Aliases: []string{"t"},
			Usage:   fmt.Sprintf("Output format (supported: %s)", strings.Join(serializer.SupportedFormats(), ", ")),
			Value:   string(serializer.FormatYAML),
		},
	}
}

// serverFlags configure the HTTP listener.
func serverFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  flagAddress,
			Usage: "Address the HTTP server listens on",
		},
		&cli.IntFlag{
			Name:  flagPort,
			Usage: "Port the HTTP server listens on (overrides PORT)",
		},
	}
}

func flags(groups ...[]cli.Flag) []cli.Flag {
	var out []cli.Flag
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// loadConfig reads the configuration file, applies flags over it and
// validates the result.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Read(cmd.String(flagConfig))
	if err != nil {
		return nil, err
	}
	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyFlags(cmd *cli.Command, cfg *config.Config) {
	setString := func(flag string, dst *string) {
		if hasFlag(cmd, flag) && cmd.IsSet(flag) {
			*dst = cmd.String(flag)
		}
	}

	setString(flagProvider, &cfg.Provider)
	setString(flagFixture, &cfg.Fixture)
	setString(flagKubeconfig, &cfg.Kubeconfig)
	setString(flagTag, &cfg.Tag)
	setString(flagOutput, &cfg.Output)
	setString(flagAddress, &cfg.Server.Address)

	if cmd.IsSet(flagUnit) {
		cfg.Units = cmd.StringSlice(flagUnit)
	}
	if classes := cmd.StringSlice(flagClass); len(classes) > 0 {
		cfg.Items = classItems(classes, cmd.String(flagNamespace))
	}
	if cmd.IsSet(flagMaxDepth) {
		cfg.MaxDepth = int(cmd.Int(flagMaxDepth))
	}
	if cmd.IsSet(flagOperationTimeout) {
		cfg.OperationTimeout = cmd.Duration(flagOperationTimeout)
	}
	if hasFlag(cmd, flagInterval) && cmd.IsSet(flagInterval) {
		cfg.RunInterval = cmd.Duration(flagInterval)
	}
	if hasFlag(cmd, flagPort) && cmd.IsSet(flagPort) {
		cfg.Server.Port = int(cmd.Int(flagPort))
	}
}

func hasFlag(cmd *cli.Command, name string) bool {
	for _, f := range cmd.Flags {
		for _, n := range f.Names() {
			if n == name {
				return true
			}
		}
	}
	return false
}

// classItems converts --class values into [class, namespace] items. A
// value may carry its own namespace before the last colon.
func classItems(classes []string, namespace string) []any {
	items := make([]any, 0, len(classes))
	for _, c := range classes {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		ns := namespace
		if i := strings.LastIndex(c, ":"); i >= 0 {
			ns, c = c[:i], c[i+1:]
		}
		items = append(items, []any{c, ns})
	}
	return items
}

// parseOutputFormat returns the --format value, or the format implied by
// the output file extension when --format was not given.
func parseOutputFormat(cmd *cli.Command, output string) (serializer.Format, error) {
	if !cmd.IsSet(flagFormat) && hasKnownExtension(output) {
		return serializer.FormatFromPath(output), nil
	}
	f := serializer.Format(cmd.String(flagFormat))
	if f.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q", f)
	}
	return f, nil
}

func hasKnownExtension(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
