// internal/runtime/auth.go
package runtime

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/sheets/v4"

	"github.com/joshsymonds/sheetsmcp/internal/config"
	"github.com/joshsymonds/sheetsmcp/internal/session"
)

// Scopes lists the OAuth scopes sheetsmcp requests. Changing them invalidates
// stored credentials on the next run.
func Scopes() []string {
	return []string{sheets.SpreadsheetsScope, drive.DriveReadonlyScope}
}

// NewSessionProvider wires the credential store, client secret and interactive
// flow described by cfg. No network traffic happens until the first Session call.
func NewSessionProvider(cfg config.Config, logger *slog.Logger) (*session.Provider, error) {
	oauthCfg, err := session.LoadOAuthConfig(cfg.CredentialsFile, Scopes()...)
	if err != nil {
		return nil, fmt.Errorf("load oauth client: %w", err)
	}
	auth := session.LoopbackAuthorizer{
		Disabled:  !cfg.Interactive,
		NoBrowser: !cfg.OpenBrowser,
		Timeout:   cfg.AuthTimeout,
		Logger:    logger,
	}
	return session.NewProvider(oauthCfg, session.FileStore{Path: cfg.TokenFile}, auth, logger), nil
}

// DefaultLogger writes text logs to stderr; stdout carries the MCP stdio stream.
func DefaultLogger(level slog.Level) *slog.Logger {
	return NewLogger(os.Stderr, level)
}

// NewLogger builds the text logger used across sheetsmcp.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
