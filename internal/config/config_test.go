package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"learningcenter/internal/config"
)

func clearAPIEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"LEARNING_PLATFORM_API_URL", "VITE_LEARNING_PLATFORM_API_URL",
		"CATEGORIES_ENDPOINT_PATH", "VITE_CATEGORIES_ENDPOINT_PATH",
		"TUTORIALS_ENDPOINT_PATH", "VITE_TUTORIALS_ENDPOINT_PATH",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaultConfigWithoutFile(t *testing.T) {
	clearAPIEnv(t)
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	want := filepath.Join(tempHome, ".config", "learningcenter", "config.toml")
	if resolved != want {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, want)
	}
	defaults := config.Default()
	if cfg.API.BaseURL != defaults.API.BaseURL {
		t.Fatalf("unexpected base url: %q", cfg.API.BaseURL)
	}
	if cfg.API.CategoriesPath != "/categories" || cfg.API.TutorialsPath != "/tutorials" {
		t.Fatalf("unexpected endpoint paths: %q %q", cfg.API.CategoriesPath, cfg.API.TutorialsPath)
	}
	if cfg.RequestTimeout() != 0 {
		t.Fatalf("expected no request timeout by default, got %v", cfg.RequestTimeout())
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadUsesEnvironmentFallbacks(t *testing.T) {
	clearAPIEnv(t)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("VITE_LEARNING_PLATFORM_API_URL", "https://platform.example.com/api/")
	t.Setenv("CATEGORIES_ENDPOINT_PATH", "topics")
	t.Setenv("TUTORIALS_ENDPOINT_PATH", "/lessons/")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.API.BaseURL != "https://platform.example.com/api" {
		t.Fatalf("expected env base url with trailing slash trimmed, got %q", cfg.API.BaseURL)
	}
	if cfg.API.CategoriesPath != "/topics" {
		t.Fatalf("expected normalized categories path, got %q", cfg.API.CategoriesPath)
	}
	if cfg.API.TutorialsPath != "/lessons" {
		t.Fatalf("expected normalized tutorials path, got %q", cfg.API.TutorialsPath)
	}
}

func TestLoadCustomPathOverridesEnvironment(t *testing.T) {
	clearAPIEnv(t)
	t.Setenv("LEARNING_PLATFORM_API_URL", "https://env.example.com")
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "learningcenter.toml")

	type payload struct {
		API struct {
			BaseURL        string `toml:"base_url"`
			TimeoutSeconds int    `toml:"timeout_seconds"`
		} `toml:"api"`
		Logging struct {
			Format string `toml:"format"`
			Level  string `toml:"level"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.API.BaseURL = "https://file.example.com/v2"
	custom.API.TimeoutSeconds = 15
	custom.Logging.Format = "JSON"
	custom.Logging.Level = " Debug "
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected custom config to be used, got %q exists=%v", resolved, exists)
	}
	if cfg.API.BaseURL != "https://file.example.com/v2" {
		t.Fatalf("expected file base url to win over env, got %q", cfg.API.BaseURL)
	}
	if cfg.RequestTimeout() != 15*time.Second {
		t.Fatalf("unexpected timeout: %v", cfg.RequestTimeout())
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("expected normalized logging settings, got %+v", cfg.Logging)
	}
}

func TestLoadRejectsMalformedToml(t *testing.T) {
	clearAPIEnv(t)
	configPath := filepath.Join(t.TempDir(), "broken.toml")
	if err := os.WriteFile(configPath, []byte("[api\nbase_url = "), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*config.Config) {}},
		{name: "scheme", mutate: func(c *config.Config) { c.API.BaseURL = "ftp://example.com" }, wantErr: "http or https"},
		{name: "host", mutate: func(c *config.Config) { c.API.BaseURL = "http://" }, wantErr: "host"},
		{name: "empty base", mutate: func(c *config.Config) { c.API.BaseURL = " " }, wantErr: "api.base_url must be set"},
		{name: "same paths", mutate: func(c *config.Config) { c.API.TutorialsPath = c.API.CategoriesPath }, wantErr: "must differ"},
		{name: "negative timeout", mutate: func(c *config.Config) { c.API.TimeoutSeconds = -1 }, wantErr: "timeout_seconds"},
		{name: "level", mutate: func(c *config.Config) { c.Logging.Level = "verbose" }, wantErr: "logging.level"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestCreateSampleWritesLoadableConfig(t *testing.T) {
	clearAPIEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path, false); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	if _, err := os.Stat(path + ".lock"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected lock file to be removed, stat err=%v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("expected sample file to exist")
	}
	if cfg.API.CategoriesPath != "/categories" {
		t.Fatalf("unexpected sample categories path %q", cfg.API.CategoriesPath)
	}

	if err := config.CreateSample(path, false); !errors.Is(err, config.ErrConfigExists) {
		t.Fatalf("expected ErrConfigExists, got %v", err)
	}
	if err := config.CreateSample(path, true); err != nil {
		t.Fatalf("CreateSample overwrite: %v", err)
	}
}

func TestEncodeRoundTrips(t *testing.T) {
	cfg := config.Default()
	cfg.API.BaseURL = "https://example.com"
	encoded, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var decoded config.Config
	if err := toml.Unmarshal([]byte(encoded), &decoded); err != nil {
		t.Fatalf("decode encoded config: %v", err)
	}
	if decoded.API.BaseURL != cfg.API.BaseURL {
		t.Fatalf("unexpected decoded base url %q", decoded.API.BaseURL)
	}
}

func TestExpandPathTilde(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	got, err := config.ExpandPath("~/logs/app.log")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if got != filepath.Join(home, "logs", "app.log") {
		t.Fatalf("unexpected expansion %q", got)
	}
}
