// Package config holds the single configuration structure for fogsmith.
// Values come from defaults, then an optional YAML file, then environment
// variables; validation happens once at startup.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config is the full configuration surface.
type Config struct {
	// Addr is the listen address of the HTTP server.
	Addr string `yaml:"addr" env:"FOGSMITH_ADDR"`

	// ContentDir is the cache artifact directory.
	ContentDir string `yaml:"content_dir" env:"FOGSMITH_CONTENT_DIR"`

	// CatalogBaseURL overrides the upstream catalog endpoint.
	CatalogBaseURL string `yaml:"catalog_base_url" env:"FOGSMITH_CATALOG_URL"`

	// IconNames is the newline-delimited icon identifier seed list.
	IconNames string `yaml:"icon_names" env:"FOGSMITH_ICON_NAMES"`

	Gemini Gemini `yaml:"gemini"`
}

// Gemini configures the generative content service.
type Gemini struct {
	APIKey string `yaml:"api_key" env:"GEMINI_API_KEY"`
	Model  string `yaml:"model" env:"GEMINI_MODEL"`

	// Prompt is the user-turn template; it must contain the <REQUEST> and
	// <BALANCE> placeholders.
	Prompt string `yaml:"prompt" env:"GEMINI_PROMPT"`

	// Instructions is the system instruction text.
	Instructions string `yaml:"instructions" env:"GEMINI_INSTRUCTIONS"`

	// ResponseSchema is the raw JSON schema forced onto model output.
	ResponseSchema string `yaml:"response_schema" env:"GEMINI_RESPONSE_SCHEMA"`

	Temperature     float32 `yaml:"temperature" env:"GEMINI_TEMPERATURE"`
	TopP            float32 `yaml:"top_p" env:"GEMINI_TOP_P"`
	TopK            float32 `yaml:"top_k" env:"GEMINI_TOP_K"`
	MaxOutputTokens int32   `yaml:"max_output_tokens" env:"GEMINI_MAX_OUTPUT_TOKENS"`
}

// Default returns the baseline configuration.
func Default() *Config {
	return &Config{
		Addr:       ":8080",
		ContentDir: "content",
		Gemini: Gemini{
			Model:           "gemini-1.5-flash",
			Temperature:     1.0,
			TopP:            0.95,
			TopK:            40,
			MaxOutputTokens: 8192,
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (a
// missing file is fine), then environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	return cfg, nil
}

// Validate rejects a configuration the pipelines cannot run on. It is called
// once at startup so template and credential problems never surface
// mid-request.
func (c *Config) Validate() error {
	if c.Gemini.APIKey == "" {
		return fmt.Errorf("gemini API key not configured (set GEMINI_API_KEY)")
	}
	if c.Gemini.Prompt == "" {
		return fmt.Errorf("prompt template not configured (set GEMINI_PROMPT)")
	}
	for _, placeholder := range []string{"<REQUEST>", "<BALANCE>"} {
		if !strings.Contains(c.Gemini.Prompt, placeholder) {
			return fmt.Errorf("prompt template is missing the %s placeholder", placeholder)
		}
	}
	if c.Gemini.Instructions == "" {
		return fmt.Errorf("system instructions not configured (set GEMINI_INSTRUCTIONS)")
	}
	if c.Gemini.ResponseSchema != "" && !json.Valid([]byte(c.Gemini.ResponseSchema)) {
		return fmt.Errorf("response schema is not valid JSON")
	}
	return nil
}

// Icons splits the icon seed list into individual identifiers, dropping
// blank lines.
func (c *Config) Icons() []string {
	var icons []string
	for _, line := range strings.Split(c.IconNames, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			icons = append(icons, line)
		}
	}
	return icons
}
