package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v2"

	"github.com/joshsymonds/sheetsmcp/internal/batch"
	"github.com/joshsymonds/sheetsmcp/internal/catalog"
	"github.com/joshsymonds/sheetsmcp/internal/config"
	"github.com/joshsymonds/sheetsmcp/internal/rate"
	"github.com/joshsymonds/sheetsmcp/internal/runtime"
	"github.com/joshsymonds/sheetsmcp/internal/session"
	"github.com/joshsymonds/sheetsmcp/internal/tools"
)

var version = "dev"

func main() {
	// a missing .env is fine; real env vars always win over it
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		runtime.DefaultLogger(slog.LevelInfo).Error("sheetsmcp failed", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	serve := &cli.Command{
		Name:   "serve",
		Usage:  "expose the spreadsheet tools over MCP (default)",
		Flags:  serveFlags(),
		Action: serveAction,
	}
	return &cli.App{
		Name:    "sheetsmcp",
		Usage:   "MCP server for Google Sheets",
		Version: version,
		Flags:   append(globalFlags(), serveFlags()...),
		Action:  serveAction,
		Commands: []*cli.Command{
			serve,
			{
				Name:   "auth",
				Usage:  "authorize now and store the credential",
				Action: authAction,
			},
			{
				Name:   "list",
				Usage:  "print the spreadsheets visible to the account",
				Action: listAction,
			},
		},
	}
}

// stack is everything a command needs once configuration is resolved.
type stack struct {
	cfg      config.Config
	logger   *slog.Logger
	provider *session.Provider
	catalog  *catalog.Service
	batch    *batch.Service
	registry *tools.Registry
}

func build(c *cli.Context) (*stack, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := runtime.DefaultLogger(level)

	provider, err := runtime.NewSessionProvider(cfg, logger)
	if err != nil {
		return nil, err
	}
	client := runtime.NewGoogleAPIClient(provider)
	limiter := rate.NewTokenBucket(cfg.RPS)

	st := &stack{
		cfg:      cfg,
		logger:   logger,
		provider: provider,
		catalog:  catalog.NewService(client, limiter, logger),
		batch:    batch.NewService(client, limiter, logger),
		registry: tools.NewRegistry(logger, cfg.DisabledTools),
	}
	if err := st.registry.Register(tools.Spreadsheets(st.catalog, st.batch)...); err != nil {
		return nil, err
	}
	return st, nil
}

func serveAction(c *cli.Context) error {
	st, err := build(c)
	if err != nil {
		return err
	}
	srv := mcpserver.NewMCPServer("sheetsmcp", version,
		mcpserver.WithToolCapabilities(false),
		mcpserver.WithRecovery(),
	)
	st.registry.Attach(srv)
	st.logger.Info("starting server", "transport", st.cfg.Transport, "tools", st.registry.Names())

	addr := fmt.Sprintf(":%d", st.cfg.Port)
	switch st.cfg.Transport {
	case config.TransportStdio:
		return mcpserver.ServeStdio(srv,
			mcpserver.WithErrorLogger(slog.NewLogLogger(st.logger.Handler(), slog.LevelError)))
	case config.TransportSSE:
		sse := mcpserver.NewSSEServer(srv, mcpserver.WithBaseURL(fmt.Sprintf("%s:%d", st.cfg.BaseURL, st.cfg.Port)))
		return listen(c.Context, st.logger, addr, sse.Start, sse.Shutdown)
	case config.TransportHTTP:
		h := mcpserver.NewStreamableHTTPServer(srv)
		return listen(c.Context, st.logger, addr, h.Start, h.Shutdown)
	default:
		return fmt.Errorf("unsupported transport: %s", st.cfg.Transport)
	}
}

// listen runs start until it fails or ctx ends, then shuts down gracefully.
func listen(
	ctx context.Context,
	logger *slog.Logger,
	addr string,
	start func(string) error,
	shutdown func(context.Context) error,
) error {
	errCh := make(chan error, 1)
	go func() { errCh <- start(addr) }()
	logger.Info("listening", "addr", addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func authAction(c *cli.Context) error {
	st, err := build(c)
	if err != nil {
		return err
	}
	s, err := st.provider.RefreshOrReauthorize(c.Context)
	if err != nil {
		return fmt.Errorf("authorize: %w", err)
	}
	st.logger.Info("credential stored", "path", st.cfg.TokenFile, "expires", s.Credential.Expiry)
	return nil
}

func listAction(c *cli.Context) error {
	st, err := build(c)
	if err != nil {
		return err
	}
	files, err := st.catalog.List(c.Context)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, tools.FormatListing(files))
	return err
}
