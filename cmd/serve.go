package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/tocata/internal/server"
	"github.com/desertthunder/tocata/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve runs the HTTP server until ctx is cancelled.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.Server
	if cmd.IsSet("host") {
		cfg.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Port = cmd.Int("port")
	}

	lib, err := r.lib()
	if err != nil {
		return err
	}
	if r.tokens == nil {
		r.logger.Warn("catalog credentials not configured, /api/token disabled")
	}

	router := server.NewRouter(cfg, server.Dependencies{
		Tokens:  r.tokens,
		Library: lib,
		Logger:  r.logger,
	})

	ready := make(chan string, 1)
	go func() {
		var addr string
		select {
		case addr = <-ready:
		case <-ctx.Done():
			return
		}
		url := fmt.Sprintf("http://%s", addr)
		r.writePlain("→ Listening on %s\n", url)
		for _, route := range router.Routes() {
			r.writePlain("   %s\n", route)
		}
		if cmd.Bool("open") {
			if err := shared.OpenBrowser(url + "/health"); err != nil {
				r.logger.Warnf("failed to open browser automatically %v", err)
			}
		}
	}()

	return server.Serve(ctx, cfg.Addr(), router, r.logger, ready)
}
