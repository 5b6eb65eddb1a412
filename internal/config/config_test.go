package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const validPrompt = "Suggest a <BALANCE> build for: <REQUEST>"

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Addr != ":8080" {
		t.Errorf("expected Addr=:8080, got %s", cfg.Addr)
	}
	if cfg.Gemini.Model != "gemini-1.5-flash" {
		t.Errorf("expected default model, got %s", cfg.Gemini.Model)
	}
	if cfg.Gemini.MaxOutputTokens != 8192 {
		t.Errorf("expected MaxOutputTokens=8192, got %d", cfg.Gemini.MaxOutputTokens)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("addr: \":9090\"\ngemini:\n  model: gemini-1.5-pro\n  temperature: 0.5\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("GEMINI_TOP_K", "10")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Addr != ":9090" {
		t.Errorf("expected file override for Addr, got %s", cfg.Addr)
	}
	if cfg.Gemini.Model != "gemini-1.5-pro" {
		t.Errorf("expected file override for model, got %s", cfg.Gemini.Model)
	}
	if cfg.Gemini.APIKey != "env-key" {
		t.Errorf("expected env override for API key, got %q", cfg.Gemini.APIKey)
	}
	if cfg.Gemini.TopK != 10 {
		t.Errorf("expected env override for TopK, got %v", cfg.Gemini.TopK)
	}
	if cfg.Gemini.Temperature != 0.5 {
		t.Errorf("expected file value for temperature, got %v", cfg.Gemini.Temperature)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(Default().Gemini.Model, cfg.Gemini.Model); diff != "" {
		t.Errorf("unexpected config (-want +got):\n%s", diff)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.Gemini.APIKey = "key"
		cfg.Gemini.Prompt = validPrompt
		cfg.Gemini.Instructions = "You are a build advisor."
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"valid with schema", func(c *Config) { c.Gemini.ResponseSchema = `{"type":"object"}` }, false},
		{"missing key", func(c *Config) { c.Gemini.APIKey = "" }, true},
		{"missing prompt", func(c *Config) { c.Gemini.Prompt = "" }, true},
		{"prompt without request placeholder", func(c *Config) { c.Gemini.Prompt = "build for <BALANCE>" }, true},
		{"prompt without balance placeholder", func(c *Config) { c.Gemini.Prompt = "build for <REQUEST>" }, true},
		{"missing instructions", func(c *Config) { c.Gemini.Instructions = "" }, true},
		{"malformed schema", func(c *Config) { c.Gemini.ResponseSchema = "{not json" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestIcons(t *testing.T) {
	cfg := Default()
	cfg.IconNames = "iconA\n\n  iconB  \niconC\n"

	want := []string{"iconA", "iconB", "iconC"}
	if diff := cmp.Diff(want, cfg.Icons()); diff != "" {
		t.Errorf("Icons mismatch (-want +got):\n%s", diff)
	}

	cfg.IconNames = ""
	if got := cfg.Icons(); got != nil {
		t.Errorf("expected nil for empty seed list, got %v", got)
	}
}
