package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tocata/internal/services"
	"github.com/desertthunder/tocata/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

const configPath = "config.toml"

func main() {
	logger := shared.NewLogger(nil)
	if os.Getenv("TOCATA_DEBUG") != "" {
		shared.SetLogLevel(logger, log.DebugLevel)
	}

	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "error", err)
		}
	}
	if err := config.ApplyEnv(".env"); err != nil {
		logger.Fatalf("invalid environment: %v", err)
	}

	opts := RunnerOpts{Config: config, ConfigPath: configPath, Logger: logger}
	if config.Credentials.Spotify.Configured() {
		if catalog, err := services.NewSpotifyCatalogFromConfig(config, logger); err == nil {
			catalog.SetTokenRefreshCallback(func(tok *oauth2.Token) {
				logger.Debug("access token refreshed", "catalog", catalog.Name(), "expiry", tok.Expiry)
			})
			opts.Catalog = catalog
			opts.Tokens = catalog.TokenSource()
		} else {
			logger.Warn("catalog unavailable", "error", err)
		}
	}

	runner := NewRunner(opts)
	defer runner.Close()

	app := &cli.Command{
		Name:     "tocata",
		Usage:    "Play previews from the Spotify catalog and keep favorites & playlists",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			return
		}
		runner.Close()
		logger.Fatalf("application error: %v", err)
	}
}
