package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/joshsymonds/sheetsmcp/internal/config"
)

const envPrefix = "SHEETSMCP_"

func env(names ...string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, envPrefix+n)
	}
	return out
}

func globalFlags() []cli.Flag {
	def := config.Default()
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Usage: "optional YAML settings file", EnvVars: env("CONFIG")},
		&cli.StringFlag{Name: "credentials", Usage: "OAuth client secret JSON", Value: def.CredentialsFile, EnvVars: env("CREDENTIALS")},
		&cli.StringFlag{Name: "token", Usage: "where the authorized credential is stored", Value: def.TokenFile, EnvVars: env("TOKEN")},
		&cli.IntFlag{Name: "rps", Usage: "max API requests per second", Value: def.RPS, EnvVars: env("RPS")},
		&cli.DurationFlag{Name: "auth-timeout", Usage: "how long to wait for the browser consent", Value: def.AuthTimeout, EnvVars: env("AUTH_TIMEOUT")},
		&cli.BoolFlag{Name: "interactive", Usage: "allow the browser authorization flow", Value: def.Interactive, EnvVars: env("INTERACTIVE")},
		&cli.BoolFlag{Name: "open-browser", Usage: "launch the browser for authorization instead of only logging the URL", Value: def.OpenBrowser, EnvVars: env("OPEN_BROWSER")},
		&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error", Value: def.LogLevel, EnvVars: env("LOG_LEVEL")},
		&cli.StringFlag{Name: "disabled-tools", Usage: "comma separated tool names to hide", EnvVars: append(env("DISABLED_TOOLS"), "DISABLED_TOOLS")},
	}
}

func serveFlags() []cli.Flag {
	def := config.Default()
	return []cli.Flag{
		&cli.StringFlag{Name: "transport", Aliases: []string{"t"}, Usage: "stdio, sse or http", Value: def.Transport, EnvVars: env("TRANSPORT")},
		&cli.IntFlag{Name: "port", Usage: "listen port for sse and http", Value: def.Port, EnvVars: env("PORT")},
		&cli.StringFlag{Name: "base-url", Usage: "public base URL advertised by the sse transport", Value: def.BaseURL, EnvVars: env("BASE_URL")},
	}
}

// loadConfig layers defaults, the optional file, then any flag or env var
// that was explicitly set.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		loaded, err := config.LoadFile(path, cfg)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	if c.IsSet("credentials") {
		cfg.CredentialsFile = c.String("credentials")
	}
	if c.IsSet("token") {
		cfg.TokenFile = c.String("token")
	}
	if c.IsSet("rps") {
		cfg.RPS = c.Int("rps")
	}
	if c.IsSet("auth-timeout") {
		cfg.AuthTimeout = c.Duration("auth-timeout")
	}
	if c.IsSet("interactive") {
		cfg.Interactive = c.Bool("interactive")
	}
	if c.IsSet("open-browser") {
		cfg.OpenBrowser = c.Bool("open-browser")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("disabled-tools") {
		cfg.DisabledTools = config.SplitList(c.String("disabled-tools"))
	}
	if c.IsSet("transport") {
		cfg.Transport = c.String("transport")
	}
	if c.IsSet("port") {
		cfg.Port = c.Int("port")
	}
	if c.IsSet("base-url") {
		cfg.BaseURL = c.String("base-url")
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
