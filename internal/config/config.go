// Package config holds sheetsmcp settings. Values are layered: defaults, then
// an optional YAML file, then environment and command-line flags.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Transports understood by the server.
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
	TransportHTTP  = "http"
)

// Config is the full runtime configuration.
type Config struct {
	CredentialsFile string        `yaml:"credentials_file"`
	TokenFile       string        `yaml:"token_file"`
	RPS             int           `yaml:"rps"`
	Transport       string        `yaml:"transport"`
	Port            int           `yaml:"port"`
	BaseURL         string        `yaml:"base_url"`
	AuthTimeout     time.Duration `yaml:"auth_timeout"`
	Interactive     bool          `yaml:"interactive"`
	OpenBrowser     bool          `yaml:"open_browser"`
	LogLevel        string        `yaml:"log_level"`
	DisabledTools   []string      `yaml:"disabled_tools"`
}

// Default returns the built-in settings. Both credential paths are relative to
// the working directory.
func Default() Config {
	return Config{
		CredentialsFile: "credentials.json",
		TokenFile:       "token.json",
		RPS:             5,
		Transport:       TransportStdio,
		Port:            18080,
		BaseURL:         "http://localhost",
		AuthTimeout:     3 * time.Minute,
		Interactive:     true,
		OpenBrowser:     true,
		LogLevel:        "info",
	}
}

// LoadFile overlays the YAML document at path onto base. Keys absent from the
// file keep their base value.
func LoadFile(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg := base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if strings.TrimSpace(c.CredentialsFile) == "" {
		return errors.New("credentials file must be set")
	}
	if strings.TrimSpace(c.TokenFile) == "" {
		return errors.New("token file must be set")
	}
	switch c.Transport {
	case TransportStdio, TransportSSE, TransportHTTP:
	default:
		return fmt.Errorf("unsupported transport %q", c.Transport)
	}
	if c.Transport != TransportStdio && (c.Port <= 0 || c.Port > 65535) {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.AuthTimeout <= 0 {
		return errors.New("auth timeout must be positive")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps debug|info|warn|error onto slog levels. Empty means info.
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
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// SplitList turns "a, b,,c" into [a b c].
func SplitList(input string) []string {
	if strings.TrimSpace(input) == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
