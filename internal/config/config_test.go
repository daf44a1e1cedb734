package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadFileOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheetsmcp.yaml")
	doc := "token_file: state/token.json\nrps: 2\nauth_timeout: 90s\ndisabled_tools:\n  - fill_spreadsheet\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	cfg, err := LoadFile(path, Default())
	require.NoError(t, err)
	assert.Equal(t, "state/token.json", cfg.TokenFile)
	assert.Equal(t, 2, cfg.RPS)
	assert.Equal(t, 90*time.Second, cfg.AuthTimeout)
	assert.Equal(t, []string{"fill_spreadsheet"}, cfg.DisabledTools)
	assert.Equal(t, "credentials.json", cfg.CredentialsFile, "unset keys keep their default")
	assert.True(t, cfg.Interactive)
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"), Default())
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rps: [unterminated"), 0o600))
	_, err = LoadFile(path, Default())
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "no-credentials", mutate: func(c *Config) { c.CredentialsFile = " " }},
		{name: "no-token", mutate: func(c *Config) { c.TokenFile = "" }},
		{name: "bad-transport", mutate: func(c *Config) { c.Transport = "grpc" }},
		{name: "bad-port", mutate: func(c *Config) { c.Transport = TransportSSE; c.Port = 0 }},
		{name: "bad-timeout", mutate: func(c *Config) { c.AuthTimeout = 0 }},
		{name: "bad-level", mutate: func(c *Config) { c.LogLevel = "loud" }},
	}
	for _, tt := range tests {
		tc := tt
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"":        slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, SplitList("  "))
	assert.Equal(t, []string{"a", "b", "c"}, SplitList("a, b,,c "))
}
