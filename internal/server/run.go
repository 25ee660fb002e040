package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tocata/internal/shared"
	"golang.org/x/oauth2"
)

const shutdownTimeout = 5 * time.Second

// Dependencies are the collaborators served by [NewRouter].
type Dependencies struct {
	Tokens  oauth2.TokenSource // nil disables /api/token
	Library LibraryReader      // nil disables the library routes
	Logger  *log.Logger
}

// NewRouter assembles the proxy routes with logging, recovery and CORS middleware.
func NewRouter(cfg shared.ServerConfig, deps Dependencies) *BasicRouter {
	router := NewBasicRouter()
	router.Use(Recover(deps.Logger), Logging(deps.Logger), CORS(cfg.AllowedOrigin))

	router.Handler(HealthHandler{})
	if deps.Tokens != nil {
		router.Handler(NewTokenHandler(deps.Tokens, deps.Logger))
	}
	if deps.Library != nil {
		router.Handler(NewLibraryHandler(deps.Library))
	}
	return router
}

// Serve listens on addr and serves handler until ctx is cancelled, then shuts down gracefully.
//
// ready, if not nil, receives the bound address once the listener is open.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *log.Logger, ready chan<- string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	httpServer := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", ln.Addr().String())
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
		close(serverErrors)
	}()

	if ready != nil {
		ready <- ln.Addr().String()
	}

	select {
	case err := <-serverErrors:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("error shutting down server", "error", err)
		return err
	}
	logger.Info("server stopped")
	return nil
}
