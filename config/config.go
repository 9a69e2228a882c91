// Package config loads the optional client configuration file.
package config

import (
	"github.com/effective-security/x/configloader"

	"github.com/genbridge/toolbridge/llmutils"
)

// Config carries client settings. Every field is optional; flags and
// environment values take precedence in main.
type Config struct {
	// Model is the Gemini model identifier.
	Model string `json:"model,omitempty" yaml:"model,omitempty"`
	// Temperature overrides the sampling temperature.
	Temperature float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	// TopP overrides nucleus sampling.
	TopP float64 `json:"top_p,omitempty" yaml:"top_p,omitempty"`
	// TopK overrides top-k sampling.
	TopK int `json:"top_k,omitempty" yaml:"top_k,omitempty"`
	// MaxTokens caps the response size.
	MaxTokens int `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty"`
}

// String renders the config as YAML for logging.
func (c *Config) String() string {
	return llmutils.ToYAML(c)
}

// Load reads the config from file, expanding environment variables.
// An empty file name yields an empty config.
func Load(file string) (*Config, error) {
	cfg := new(Config)
	if file == "" {
		return cfg, nil
	}

	err := configloader.UnmarshalAndExpand(file, cfg)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}
