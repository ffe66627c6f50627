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

package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/NVIDIA/mienum/pkg/defaults"
	"github.com/NVIDIA/mienum/pkg/enumerator"
	"github.com/NVIDIA/mienum/pkg/errors"
	"github.com/NVIDIA/mienum/pkg/provider"
)

// Environment variables that override file settings.
const (
	EnvProvider         = "MIENUM_PROVIDER"
	EnvFixture          = "MIENUM_FIXTURE"
	EnvKubeconfig       = "MIENUM_KUBECONFIG"
	EnvRunInterval      = "MIENUM_RUN_INTERVAL"
	EnvTag              = "MIENUM_TAG"
	EnvOperationTimeout = "MIENUM_OPERATION_TIMEOUT"
	EnvMaxDepth         = "MIENUM_MAX_DEPTH"
	EnvOutput           = "MIENUM_OUTPUT"
	EnvPort             = "PORT"
)

// DefaultPort is the HTTP port used by the serve command.
const DefaultPort = 8080

// Config is the agent configuration file.
type Config struct {
	// Provider selects a registered provider by name.
	Provider string `yaml:"provider" json:"provider"`

	// Provider specific settings.
	Fixture    string   `yaml:"fixture,omitempty" json:"fixture,omitempty"`
	Units      []string `yaml:"units,omitempty" json:"units,omitempty"`
	Kubeconfig string   `yaml:"kubeconfig,omitempty" json:"kubeconfig,omitempty"`

	// Items lists [class, namespace] pairs. Malformed entries are ignored.
	Items []any `yaml:"items" json:"items"`

	RunInterval      time.Duration `yaml:"run_interval,omitempty" json:"run_interval,omitempty"`
	Tag              string        `yaml:"tag,omitempty" json:"tag,omitempty"`
	OperationTimeout time.Duration `yaml:"operation_timeout,omitempty" json:"operation_timeout,omitempty"`
	MaxDepth         int           `yaml:"max_depth,omitempty" json:"max_depth,omitempty"`

	// Output is a file path, cm://namespace/name, or empty for stdout.
	Output string `yaml:"output,omitempty" json:"output,omitempty"`

	Perf   Perf   `yaml:"perf,omitempty" json:"perf,omitempty"`
	Server Server `yaml:"server,omitempty" json:"server,omitempty"`
}

// Perf configures the optional performance counter transform.
type Perf struct {
	Mapping  string   `yaml:"mapping,omitempty" json:"mapping,omitempty"`
	Counters []string `yaml:"counters,omitempty" json:"counters,omitempty"`
	Host     string   `yaml:"host,omitempty" json:"host,omitempty"`
}

// Enabled reports whether a counter mapping file is configured.
func (p Perf) Enabled() bool {
	return p.Mapping != ""
}

// Server configures the HTTP listener.
type Server struct {
	Address string `yaml:"address,omitempty" json:"address,omitempty"`
	Port    int    `yaml:"port,omitempty" json:"port,omitempty"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	return &Config{
		Tag:              defaults.RunnerDefaultTag,
		OperationTimeout: defaults.OperationTimeout,
		MaxDepth:         defaults.MaxInstanceDepth,
		Server: Server{
			Port: DefaultPort,
		},
	}
}

// Load reads the YAML file at path, applies environment overrides and
// validates the result. An empty path yields the defaults plus overrides.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read is Load without validation, for callers that apply further
// overrides such as command line flags before calling Validate.
func Read(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.WrapWithContext(errors.ErrCodeNotFound,
				"failed to read config file", err, map[string]any{"path": path})
		}
		if err := cfg.decode(data); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML data over the defaults without consulting the
// environment.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := cfg.decode(data); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(data []byte) error {
	if err := yaml.Unmarshal(data, c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidRequest, "failed to parse config", err)
	}
	if c.Tag == "" {
		c.Tag = defaults.RunnerDefaultTag
	}
	if c.OperationTimeout <= 0 {
		c.OperationTimeout = defaults.OperationTimeout
	}
	if c.MaxDepth <= 0 {
		c.MaxDepth = defaults.MaxInstanceDepth
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvProvider); v != "" {
		c.Provider = v
	}
	if v := os.Getenv(EnvFixture); v != "" {
		c.Fixture = v
	}
	if v := os.Getenv(EnvKubeconfig); v != "" {
		c.Kubeconfig = v
	}
	if v := os.Getenv(EnvTag); v != "" {
		c.Tag = v
	}
	if v := os.Getenv(EnvOutput); v != "" {
		c.Output = v
	}
	if v := os.Getenv(EnvRunInterval); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return envError(EnvRunInterval, v, err)
		}
		c.RunInterval = d
	}
	if v := os.Getenv(EnvOperationTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return envError(EnvOperationTimeout, v, err)
		}
		c.OperationTimeout = d
	}
	if v := os.Getenv(EnvMaxDepth); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return envError(EnvMaxDepth, v, err)
		}
		c.MaxDepth = n
	}
	if v := os.Getenv(EnvPort); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			slog.Warn("ignoring invalid port override", "value", v, "error", err)
		} else {
			c.Server.Port = n
		}
	}
	return nil
}

func envError(name, value string, cause error) error {
	if cause == nil {
		cause = fmt.Errorf("must be positive")
	}
	return errors.WrapWithContext(errors.ErrCodeInvalidRequest,
		"invalid environment override", cause,
		map[string]any{"variable": name, "value": value})
}

// Validate checks the settings the commands depend on.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Provider) == "" {
		return errors.New(errors.ErrCodeInvalidRequest, "provider is required")
	}
	if c.RunInterval < 0 || (c.RunInterval > 0 && c.RunInterval < defaults.RunnerMinInterval) {
		return errors.NewWithContext(errors.ErrCodeInvalidRequest,
			"run_interval must be zero or at least the minimum interval",
			map[string]any{"run_interval": c.RunInterval.String(), "minimum": defaults.RunnerMinInterval.String()})
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.NewWithContext(errors.ErrCodeInvalidRequest,
			"server port out of range", map[string]any{"port": c.Server.Port})
	}
	if c.Perf.Enabled() && len(c.Perf.Counters) == 0 {
		slog.Warn("perf mapping configured without counters, no counters will be collected")
	}
	return nil
}

// Requests returns the well formed enumeration requests from Items.
func (c *Config) Requests() []provider.Request {
	return enumerator.ParseRequests(c.Items)
}

// ProviderOptions returns the settings handed to the provider factory.
func (c *Config) ProviderOptions() provider.Options {
	return provider.Options{
		Fixture:    c.Fixture,
		Units:      c.Units,
		Kubeconfig: c.Kubeconfig,
	}
}

// OperationOptions returns the per-operation settings for the session.
func (c *Config) OperationOptions() provider.OperationOptions {
	return provider.OperationOptions{Timeout: c.OperationTimeout}
}
