// Copyright 2025 RabbitHQ, Inc.
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config provides configuration management for rabbit with support
// for multiple configuration sources and a well-defined precedence order.
//
// Configuration sources (in precedence order, highest to lowest):
//  1. Command-line flags
//  2. Environment variables
//  3. Configuration file
//  4. Built-in defaults
//
// The package supports YAML configuration files and provides automatic
// discovery of configuration in standard locations. Flag overrides are
// applied by the CLI after loading.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from multiple sources and applies them in
// the correct precedence order. If configPath is provided, it loads from
// that specific file. Otherwise, it searches standard locations:
//   - .rabbit.yaml (current directory)
//   - .rabbit.yml (current directory)
//   - ~/.config/rabbit/config.yaml
//
// Environment variables are applied after loading the config file, allowing
// runtime overrides. Path expansion (~ and environment variables) is
// performed on file paths.
//
// Returns an error if the specified config file cannot be loaded, but will
// succeed with defaults if no config file is found in standard locations.
func LoadConfig(configPath string) (*Config, error) {
	// Start with defaults
	cfg := DefaultConfig()

	// Try to load config file if path is provided
	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		// Try default locations
		defaultPaths := []string{
			".rabbit.yaml",
			".rabbit.yml",
			filepath.Join(os.Getenv("HOME"), ".config", "rabbit", "config.yaml"),
		}

		for _, path := range defaultPaths {
			if _, err := os.Stat(path); err == nil {
				if err := loadConfigFile(path, cfg); err != nil {
					return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
				}
				break
			}
		}
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Expand paths
	cfg.Model.Path = expandPath(cfg.Model.Path)
	cfg.Model.Library = expandPath(cfg.Model.Library)
	cfg.Mappings.Dir = expandPath(cfg.Mappings.Dir)

	return cfg, nil
}

// loadConfigFile reads and parses a YAML config file
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config) {
	if endpoint := os.Getenv("GITHUB_API_ENDPOINT"); endpoint != "" {
		cfg.GitHub.APIEndpoint = endpoint
	}

	if minEvents := os.Getenv("RABBIT_MIN_EVENTS"); minEvents != "" {
		if n, err := parsePositiveInt(minEvents); err == nil {
			cfg.Classify.MinEvents = n
		}
	}
	if maxQueries := os.Getenv("RABBIT_MAX_QUERIES"); maxQueries != "" {
		if n, err := parsePositiveInt(maxQueries); err == nil {
			cfg.Classify.MaxQueries = n
		}
	}
	if noWait := os.Getenv("RABBIT_NO_WAIT"); noWait != "" {
		cfg.Classify.NoWait = parseBool(noWait)
	}

	if modelPath := os.Getenv("RABBIT_MODEL_PATH"); modelPath != "" {
		cfg.Model.Path = modelPath
	}
	if library := os.Getenv("RABBIT_ONNX_LIBRARY"); library != "" {
		cfg.Model.Library = library
	}
}

// Token resolves the API token from the environment variable named by
// github.token_env. Returns the empty string when the variable is unset.
func (c *Config) Token() string {
	env := c.GitHub.TokenEnv
	if env == "" {
		env = "GITHUB_TOKEN"
	}
	return os.Getenv(env)
}

// ModelPath resolves the model file location. A relative path is tried
// against the working directory first and then against the directory of
// the running binary, which is where release archives place the model.
func (c *Config) ModelPath() string {
	path := c.Model.Path
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if _, err := os.Stat(path); err == nil {
		return path
	}
	if exe, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(exe), path)
		if _, statErr := os.Stat(candidate); statErr == nil {
			return candidate
		}
	}
	return path
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home := os.Getenv("HOME")
		if home == "" {
			home = os.Getenv("USERPROFILE") // Windows
		}
		path = filepath.Join(home, path[2:])
	}
	return os.ExpandEnv(path)
}

// parsePositiveInt parses a string to a positive integer
func parsePositiveInt(s string) (int, error) {
	var i int
	_, err := fmt.Sscanf(s, "%d", &i)
	if err != nil {
		return 0, fmt.Errorf("failed to parse integer from '%s': %w", s, err)
	}
	if i <= 0 {
		return 0, fmt.Errorf("value must be positive, got: %d", i)
	}
	return i, nil
}

// parseBool parses various boolean representations
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "yes" || s == "1" || s == "on"
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// newValidator builds the shared validator, naming fields by their yaml
// tags so messages match what users write in the config file.
func newValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			tag := fld.Tag.Get("yaml")
			if tag == "" || tag == "-" {
				return fld.Name
			}
			if idx := strings.Index(tag, ","); idx >= 0 {
				tag = tag[:idx]
			}
			return tag
		})
		validate = v
	})
	return validate
}

// Validate checks if the configuration contains valid values. It ensures
// the classification thresholds stay within the GitHub events API limits
// and the output format names a known writer. This should be called after
// loading configuration to catch invalid settings early.
func (c *Config) Validate() error {
	err := newValidator().Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return fieldError(verrs[0])
	}
	return err
}

// fieldError renders one validation failure in terms a user can act on.
func fieldError(fe validator.FieldError) error {
	switch fe.Field() {
	case "min_events":
		return fmt.Errorf("min_events must be between 1 and 300, got: %v", fe.Value())
	case "min_confidence":
		return fmt.Errorf("min_confidence must be between 0.0 and 1.0, got: %v", fe.Value())
	case "max_queries":
		return fmt.Errorf("max_queries must be between 1 and 3, got: %v", fe.Value())
	case "api_endpoint":
		return fmt.Errorf("GitHub API endpoint cannot be empty")
	case "format":
		return fmt.Errorf("output format must be one of term, csv, json, got: %v", fe.Value())
	default:
		return fmt.Errorf("invalid value for %s: %v", fe.Field(), fe.Value())
	}
}
