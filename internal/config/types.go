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

// Package config types define the configuration structures used throughout
// rabbit. These types represent settings that can be loaded from YAML
// configuration files, environment variables, or command-line flags.
package config

// Config represents the complete configuration for rabbit. It consolidates
// settings from various sources and provides a unified interface for
// accessing configuration values throughout the application.
type Config struct {
	GitHub   GitHubConfig   `yaml:"github"`
	Classify ClassifyConfig `yaml:"classify"`
	Model    ModelConfig    `yaml:"model"`
	Mappings MappingsConfig `yaml:"mappings"`
	Output   OutputConfig   `yaml:"output"`
}

// GitHubConfig contains GitHub-specific settings: the API endpoint and the
// name of the environment variable holding the API token. A custom endpoint
// supports GitHub Enterprise deployments and test servers.
type GitHubConfig struct {
	APIEndpoint string `yaml:"api_endpoint" validate:"required"`
	TokenEnv    string `yaml:"token_env"`
}

// ClassifyConfig contains the thresholds steering the classification loop.
// The ranges guard the GitHub events API contract: at most 300 events are
// reachable, in pages of 100.
type ClassifyConfig struct {
	MinEvents     int     `yaml:"min_events" validate:"min=1,max=300"`
	MinConfidence float64 `yaml:"min_confidence" validate:"min=0,max=1"`
	MaxQueries    int     `yaml:"max_queries" validate:"min=1,max=3"`
	NoWait        bool    `yaml:"no_wait"`
}

// ModelConfig locates the classification model. Library optionally points
// at the onnxruntime shared library when it is not on the default search
// path.
type ModelConfig struct {
	Path    string `yaml:"path"`
	Library string `yaml:"library"`
}

// MappingsConfig optionally overrides the embedded event and activity
// mapping tables with a directory of JSON files, mainly for experimenting
// with taxonomy changes without rebuilding.
type MappingsConfig struct {
	Dir string `yaml:"dir"`
}

// OutputConfig carries the default output settings, overridable per run
// with flags.
type OutputConfig struct {
	Format string `yaml:"format" validate:"oneof=term csv json"`
}

// DefaultConfig returns a Config with sensible defaults suitable for most
// use cases. These defaults target public GitHub.com but can be overridden
// for GitHub Enterprise or special requirements.
func DefaultConfig() *Config {
	return &Config{
		GitHub: GitHubConfig{
			APIEndpoint: "https://api.github.com",
			TokenEnv:    "GITHUB_TOKEN",
		},
		Classify: ClassifyConfig{
			MinEvents:     5,
			MinConfidence: 1.0,
			MaxQueries:    3,
			NoWait:        false,
		},
		Model: ModelConfig{
			Path: "resources/models/bimbas.onnx",
		},
		Output: OutputConfig{
			Format: "term",
		},
	}
}
