package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tocata/internal/library"
	"github.com/desertthunder/tocata/internal/player"
	"github.com/desertthunder/tocata/internal/services"
	"github.com/desertthunder/tocata/internal/shared"
	"github.com/desertthunder/tocata/internal/storage"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	catalog    services.Catalog
	tokens     oauth2.TokenSource
	store      storage.Backend
	library    *library.Library
	deck       player.Deck
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Catalog    services.Catalog   // nil when credentials are not configured
	Tokens     oauth2.TokenSource // backs the token proxy; nil disables it
	Store      storage.Backend    // opened from Config.Storage on first use when nil
	Deck       player.Deck        // built from Config.Player.Command when nil
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		catalog:    opts.Catalog,
		tokens:     opts.Tokens,
		store:      opts.Store,
		deck:       opts.Deck,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// SetLogger replaces the runner's logger, e.g. to keep log output off the TUI.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, favoritesCommand, playlistsCommand, catalogCommand, importCommand,
		playCommand, tuiCommand, serveCommand, resetCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// lib opens the storage backend and loads the library on first use.
func (r *Runner) lib() (*library.Library, error) {
	if r.library != nil {
		return r.library, nil
	}
	if r.store == nil {
		store, err := storage.Open(r.config.Storage)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to open %s storage: %v", shared.ErrPersistence, r.config.Storage.Driver, err)
		}
		r.store = store
	}
	r.logger.Debug("loading library", "driver", r.config.Storage.Driver)
	r.library = library.New(r.store, library.Options{Logger: r.logger})
	return r.library, nil
}

// requireCatalog reports a usable error when no catalog client is configured.
func (r *Runner) requireCatalog() error {
	if r.catalog == nil {
		return fmt.Errorf("%w: set credentials.spotify in config.toml or SPOTIFY_CLIENT_ID/SPOTIFY_CLIENT_SECRET", shared.ErrMissingCredentials)
	}
	return nil
}

// Close releases the storage backend.
func (r *Runner) Close() error {
	if r.store == nil {
		return nil
	}
	return r.store.Close()
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
