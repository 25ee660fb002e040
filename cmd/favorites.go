package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/tocata/internal/formatter"
	"github.com/desertthunder/tocata/internal/models"
	"github.com/urfave/cli/v3"
)

func trackFromFlags(cmd *cli.Command) models.Track {
	return models.Track{
		Name:      cmd.String("name"),
		Artist:    cmd.String("artist"),
		Album:     cmd.String("album"),
		AudioFile: cmd.String("audio"),
		Duration:  cmd.String("duration"),
		Cover:     cmd.String("cover"),
	}
}

// FavoritesList prints favorites in the order they were added.
func (r *Runner) FavoritesList(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.lib()
	if err != nil {
		return err
	}
	favorites := lib.Favorites()

	if cmd.Bool("json") {
		return r.writeJSON(favorites, cmd.Bool("pretty"))
	}

	if len(favorites) == 0 {
		r.writePlain("No favorites yet\n")
		return nil
	}

	r.writePlain("Found %d favorites:\n\n", len(favorites))
	for i, f := range favorites {
		r.writePlain("%d. %s - %s\n", i+1, f.Artist, f.Name)
		if f.Album != "" {
			r.writePlain("   Album: %s\n", f.Album)
		}
		if f.Duration != "" {
			r.writePlain("   Duration: %s\n", f.Duration)
		}
		r.writePlain("   Added: %s\n", f.AddedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

// FavoritesAdd adds a track; adding an existing favorite is a no-op.
func (r *Runner) FavoritesAdd(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.lib()
	if err != nil {
		return err
	}
	track := trackFromFlags(cmd)

	if lib.AddFavorite(track) {
		r.writePlain("✓ Added %s to favorites\n", track.Name)
	} else {
		r.writePlain("%s is already a favorite\n", track.Name)
	}
	return lib.LastPersistError()
}

// FavoritesRemove removes a track by name, artist and album.
func (r *Runner) FavoritesRemove(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.lib()
	if err != nil {
		return err
	}
	name := cmd.String("name")

	if lib.RemoveFavorite(name, cmd.String("artist"), cmd.String("album")) {
		r.writePlain("✓ Removed %s from favorites\n", name)
	} else {
		r.writePlain("%s is not a favorite\n", name)
	}
	return lib.LastPersistError()
}

// FavoritesToggle flips a track's favorite state.
func (r *Runner) FavoritesToggle(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.lib()
	if err != nil {
		return err
	}
	track := trackFromFlags(cmd)

	if lib.ToggleFavorite(track) {
		r.writePlain("♥ %s is now a favorite\n", track.Name)
	} else {
		r.writePlain("%s removed from favorites\n", track.Name)
	}
	return lib.LastPersistError()
}

// FavoritesClear removes every favorite.
func (r *Runner) FavoritesClear(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.lib()
	if err != nil {
		return err
	}
	n := len(lib.Favorites())
	lib.ClearFavorites()
	if err := lib.LastPersistError(); err != nil {
		return err
	}

	r.writePlain("✓ Cleared %d favorites\n", n)
	return nil
}

// FavoritesExport renders the favorites with the playlist exporters.
func (r *Runner) FavoritesExport(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.lib()
	if err != nil {
		return err
	}
	f, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	playlist := formatter.FavoritesPlaylist(lib.Favorites())
	if err := r.export(playlist, f, cmd.String("output"), cmd.Bool("cover")); err != nil {
		return fmt.Errorf("failed to export favorites: %w", err)
	}
	return nil
}
