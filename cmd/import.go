package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/tocata/internal/shared"
	"github.com/desertthunder/tocata/internal/tasks"
	"github.com/urfave/cli/v3"
)

func (r *Runner) importer() (*tasks.Importer, error) {
	if err := r.requireCatalog(); err != nil {
		return nil, err
	}
	lib, err := r.lib()
	if err != nil {
		return nil, err
	}
	return tasks.NewImporter(r.catalog, lib, shared.WithLogger(r.logger, "component", "import")), nil
}

func importOpts(cmd *cli.Command, rateLimit float64) tasks.ImportOpts {
	return tasks.ImportOpts{
		PlaylistID:  cmd.String("playlist"),
		NewPlaylist: cmd.String("new"),
		Description: cmd.String("description"),
		NumWorkers:  cmd.Int("workers"),
		RateLimit:   rateLimit,
	}
}

// ImportAlbums imports the albums named on the command line.
func (r *Runner) ImportAlbums(ctx context.Context, cmd *cli.Command) error {
	imp, err := r.importer()
	if err != nil {
		return err
	}
	return r.runImport(func(prog chan<- tasks.ProgressUpdate) (*tasks.ImportResult, error) {
		return imp.ImportAlbums(ctx, prog, cmd.Args().Slice(), importOpts(cmd, r.config.Catalog.RateLimit))
	})
}

// ImportDiscography imports an artist's albums and singles.
func (r *Runner) ImportDiscography(ctx context.Context, cmd *cli.Command) error {
	artistID, err := requireArg(cmd, "artist-id")
	if err != nil {
		return err
	}
	imp, err := r.importer()
	if err != nil {
		return err
	}
	return r.runImport(func(prog chan<- tasks.ProgressUpdate) (*tasks.ImportResult, error) {
		return imp.ImportDiscography(ctx, prog, artistID, cmd.Int("limit"), importOpts(cmd, r.config.Catalog.RateLimit))
	})
}

// ImportTopTracks imports an artist's top tracks.
func (r *Runner) ImportTopTracks(ctx context.Context, cmd *cli.Command) error {
	artistID, err := requireArg(cmd, "artist-id")
	if err != nil {
		return err
	}
	imp, err := r.importer()
	if err != nil {
		return err
	}
	return r.runImport(func(prog chan<- tasks.ProgressUpdate) (*tasks.ImportResult, error) {
		return imp.ImportTopTracks(ctx, prog, artistID, importOpts(cmd, r.config.Catalog.RateLimit))
	})
}

// runImport prints progress while run executes, then a summary.
func (r *Runner) runImport(run func(chan<- tasks.ProgressUpdate) (*tasks.ImportResult, error)) error {
	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.ResolvePlaylist, tasks.FetchArtist, tasks.FetchTracks:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.FetchAlbums:
				r.writePlain("   [%d/%d] %s\n", update.Step, update.Total, update.Message)
			case tasks.AddTracks:
				r.writePlain("📝 %s\n", update.Message)
			}
		}
	}()

	result, err := run(progressCh)
	close(progressCh)
	<-done

	if result == nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Import Complete!")
	r.writePlain("Playlist: %s (ID: %s, %d tracks)\n", result.Playlist.Name, result.Playlist.ID, len(result.Playlist.Tracks))
	r.writePlain("Added: %d\n", result.Added)
	r.writePlain("Skipped: %d (duplicates or no preview)\n", result.Skipped)
	if result.Failed > 0 {
		r.writePlain("\nFailed %d albums:\n", result.Failed)
		for _, a := range result.Albums {
			if a.Error != nil {
				r.writePlain("  - %s: %v\n", a.AlbumID, a.Error)
			}
		}
	}

	if err != nil {
		return err
	}
	if result.Failed > 0 && result.Added == 0 {
		return fmt.Errorf("import failed for every album")
	}
	return nil
}
