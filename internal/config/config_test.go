package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BackendURL != "http://localhost:8000" {
		t.Errorf("BackendURL = %q", cfg.BackendURL)
	}
	if cfg.Timeout != 0 {
		t.Errorf("Timeout = %s, want none", cfg.Timeout)
	}
	if cfg.Serve.Port != 6143 || cfg.Serve.Addr != "127.0.0.1" {
		t.Errorf("Serve = %+v", cfg.Serve)
	}
}

func TestYAMLFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "medrag.yaml")
	yml := "backend_url: https://analysis.internal:9000\ntimeout: 90s\nlog_level: debug\nstart_dir: /srv/reports\nserve:\n  port: 7000\n"
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BackendURL != "https://analysis.internal:9000" {
		t.Errorf("BackendURL = %q", cfg.BackendURL)
	}
	if cfg.Timeout != 90*time.Second {
		t.Errorf("Timeout = %s", cfg.Timeout)
	}
	if cfg.LogLevel != "debug" || cfg.Serve.Port != 7000 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.StartDir != "/srv/reports" {
		t.Errorf("StartDir = %q", cfg.StartDir)
	}
	if cfg.Serve.Addr != "127.0.0.1" {
		t.Errorf("unset keys should keep defaults, got addr %q", cfg.Serve.Addr)
	}
}

func TestMissingConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())
	if _, err := Load("does-not-exist.yaml"); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("MEDRAG_BACKEND_URL", "http://backend:8000")
	t.Setenv("MEDRAG_TIMEOUT", "2m")
	t.Setenv("MEDRAG_SERVE_PORT", "9999")
	t.Setenv("MEDRAG_START_DIR", "/home/me/reports")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BackendURL != "http://backend:8000" || cfg.Timeout != 2*time.Minute || cfg.Serve.Port != 9999 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.StartDir != "/home/me/reports" {
		t.Errorf("StartDir = %q", cfg.StartDir)
	}
}

func TestDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	// godotenv never overrides a variable that is already set, even to "".
	t.Setenv("MEDRAG_LOG_LEVEL", "")
	os.Unsetenv("MEDRAG_LOG_LEVEL")
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("MEDRAG_LOG_LEVEL=warn\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn from .env", cfg.LogLevel)
	}
}

func TestInvalidEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("MEDRAG_TIMEOUT", "soon")
	if _, err := Load(""); err == nil {
		t.Error("expected error for bad duration")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"scheme", func(c *Config) { c.BackendURL = "ftp://host" }},
		{"no host", func(c *Config) { c.BackendURL = "http://" }},
		{"garbage", func(c *Config) { c.BackendURL = "::" }},
		{"timeout", func(c *Config) { c.Timeout = -time.Second }},
		{"level", func(c *Config) { c.LogLevel = "loud" }},
		{"port", func(c *Config) { c.Serve.Port = 70000 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	if err := Default().Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
}
