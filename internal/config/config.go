// Package config loads medrag settings from defaults, an optional YAML file,
// an optional .env file and MEDRAG_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config aggregates all settings.
type Config struct {
	BackendURL string        `yaml:"backend_url"`
	Timeout    time.Duration `yaml:"timeout"`
	LogLevel   string        `yaml:"log_level"`
	LogFile    string        `yaml:"log_file"`
	StartDir   string        `yaml:"start_dir"` // directory the file picker opens in
	Serve      ServeConfig   `yaml:"serve"`
}

// ServeConfig describes the bridge listener.
type ServeConfig struct {
	Addr string `yaml:"addr"`
	Port int    `yaml:"port"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		BackendURL: "http://localhost:8000",
		LogLevel:   "info",
		Serve: ServeConfig{
			Addr: "127.0.0.1",
			Port: 6143,
		},
	}
}

// Load builds a Config. path may be empty; a named file must exist. A .env
// file in the working directory is read when present.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, cfg.Validate()
}

func applyEnv(cfg *Config) error {
	cfg.BackendURL = getEnvOrDefault("MEDRAG_BACKEND_URL", cfg.BackendURL)
	cfg.LogLevel = getEnvOrDefault("MEDRAG_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFile = getEnvOrDefault("MEDRAG_LOG_FILE", cfg.LogFile)
	cfg.StartDir = getEnvOrDefault("MEDRAG_START_DIR", cfg.StartDir)

	timeout, err := parseOptionalDurationEnv("MEDRAG_TIMEOUT")
	if err != nil {
		return err
	}
	if timeout != nil {
		cfg.Timeout = *timeout
	}

	port, err := parseOptionalIntEnv("MEDRAG_SERVE_PORT")
	if err != nil {
		return err
	}
	if port != nil {
		cfg.Serve.Port = *port
	}
	return nil
}

// Validate checks that the settings are usable.
func (c Config) Validate() error {
	u, err := url.Parse(c.BackendURL)
	if err != nil {
		return fmt.Errorf("invalid backend URL %q: %w", c.BackendURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid backend URL %q: want http(s)://host[:port]", c.BackendURL)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("invalid timeout %s", c.Timeout)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Serve.Port < 0 || c.Serve.Port > 65535 {
		return fmt.Errorf("invalid serve port %d", c.Serve.Port)
	}
	return nil
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level %q", s)
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalIntEnv(key string) (*int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalDurationEnv(key string) (*time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return nil, nil
	}

	val, err := time.ParseDuration(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
