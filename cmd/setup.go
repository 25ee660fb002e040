package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/tocata/internal/library"
	"github.com/desertthunder/tocata/internal/shared"
	"github.com/desertthunder/tocata/internal/storage"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the template configuration file.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")
	if _, err := os.Stat(path); err == nil {
		r.writePlain("Config already exists at %s\n", path)
		return nil
	}

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}
	r.logger.Info("config file created", "path", path)

	r.writePlain("✓ Wrote %s\n", path)
	r.writePlainln("Next steps:")
	r.writePlain("1. Set credentials.spotify.client_id and client_secret (or SPOTIFY_CLIENT_ID/SPOTIFY_CLIENT_SECRET in .env)\n")
	r.writePlain("2. Run 'tocata setup database' to initialize storage\n")
	return nil
}

// SetupDatabase opens the configured backend and reports what it holds.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.Storage
	r.logger.Info("initializing storage", "driver", cfg.Driver)

	lib, err := r.lib()
	if err != nil {
		return err
	}

	r.writePlain("✓ Storage ready (%s)\n", describeStorage(cfg))
	if s, ok := r.store.(*storage.SQLite); ok {
		keys, err := s.Keys()
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrPersistence, err)
		}
		version, err := s.SchemaVersion()
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrPersistence, err)
		}
		r.writePlain("  Schema version: %d\n", version)
		r.writePlain("  Keys: %d\n", len(keys))
	}
	r.writePlain("  Favorites: %d\n", len(lib.Favorites()))
	r.writePlain("  Playlists: %d\n", len(lib.AllPlaylists()))
	return nil
}

// Reset clears every favorite and playlist.
func (r *Runner) Reset(ctx context.Context, cmd *cli.Command) error {
	if !cmd.Bool("yes") {
		return fmt.Errorf("%w: pass --yes to delete every favorite and playlist", shared.ErrMissingArgument)
	}

	lib, err := r.lib()
	if err != nil {
		return err
	}
	lib.ClearAll()
	if err := lib.LastPersistError(); err != nil {
		return err
	}

	r.logger.Info("library cleared", "keys", []string{library.FavoritesKey, library.PlaylistsKey})
	r.writePlain("✓ Library cleared\n")
	return nil
}

func describeStorage(cfg shared.StorageConfig) string {
	switch cfg.Driver {
	case "", "sqlite":
		return "sqlite: " + cfg.Path
	case "redis":
		return "redis: " + cfg.RedisURL
	case "file", "dir":
		return "file: " + cfg.Dir
	default:
		return cfg.Driver
	}
}
