package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/tocata/internal/formatter"
	"github.com/desertthunder/tocata/internal/library"
	"github.com/desertthunder/tocata/internal/models"
	"github.com/desertthunder/tocata/internal/shared"
	"github.com/desertthunder/tocata/internal/tasks"
	"github.com/urfave/cli/v3"
)

func requireArg(cmd *cli.Command, name string) (string, error) {
	v := strings.TrimSpace(cmd.StringArg(name))
	if v == "" {
		return "", fmt.Errorf("%w: <%s>", shared.ErrMissingArgument, name)
	}
	return v, nil
}

// PlaylistsList prints every playlist in creation order.
func (r *Runner) PlaylistsList(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.lib()
	if err != nil {
		return err
	}
	playlists := lib.AllPlaylists()

	if cmd.Bool("json") {
		return r.writeJSON(playlists, cmd.Bool("pretty"))
	}

	if len(playlists) == 0 {
		r.writePlain("No playlists yet. Create one with 'tocata playlists create <name>'\n")
		return nil
	}

	r.writePlain("Found %d playlists:\n\n", len(playlists))
	for i, p := range playlists {
		r.writePlain("%d. %s\n", i+1, p.Name)
		if p.Description != "" {
			r.writePlain("   Description: %s\n", p.Description)
		}
		r.writePlain("   ID: %s\n", p.ID)
		r.writePlain("   Tracks: %d (%s)\n", len(p.Tracks), formatter.TotalDuration(p.Tracks))
		r.writePlain("\n")
	}
	return nil
}

// PlaylistsShow prints one playlist with its tracks.
func (r *Runner) PlaylistsShow(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	lib, err := r.lib()
	if err != nil {
		return err
	}
	p, ok := lib.GetPlaylist(id)
	if !ok {
		return &library.NotFoundError{Kind: "playlist", ID: id}
	}

	if cmd.Bool("json") {
		return r.writeJSON(p, cmd.Bool("pretty"))
	}

	r.writePlainHeader(p.Name)
	if p.Description != "" {
		r.writePlain("%s\n", p.Description)
	}
	r.writePlain("ID: %s • %d tracks • %s\n\n", p.ID, len(p.Tracks), formatter.TotalDuration(p.Tracks))
	for i, t := range p.Tracks {
		r.writePlain("%d. %s - %s", i+1, t.Artist, t.Name)
		if t.Duration != "" {
			r.writePlain(" (%s)", t.Duration)
		}
		r.writePlain("\n   Album: %s\n   Track ID: %s\n", t.Album, t.ID)
	}
	return nil
}

// PlaylistsCreate creates an empty playlist.
func (r *Runner) PlaylistsCreate(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.lib()
	if err != nil {
		return err
	}
	p, err := lib.CreatePlaylist(cmd.StringArg("name"), cmd.String("description"))
	if err != nil {
		return err
	}

	r.writePlain("✓ Created playlist %s (ID: %s)\n", p.Name, p.ID)
	return lib.LastPersistError()
}

// PlaylistsRename updates the name and/or description given on the command line.
func (r *Runner) PlaylistsRename(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}

	var update library.PlaylistUpdate
	if cmd.IsSet("name") {
		name := cmd.String("name")
		update.Name = &name
	}
	if cmd.IsSet("description") {
		desc := cmd.String("description")
		update.Description = &desc
	}
	if update.Name == nil && update.Description == nil {
		return fmt.Errorf("%w: --name or --description", shared.ErrMissingArgument)
	}

	lib, err := r.lib()
	if err != nil {
		return err
	}
	p, err := lib.UpdatePlaylist(id, update)
	if err != nil {
		return err
	}

	r.writePlain("✓ Updated playlist %s\n", p.Name)
	return lib.LastPersistError()
}

// PlaylistsDelete deletes a playlist.
func (r *Runner) PlaylistsDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	lib, err := r.lib()
	if err != nil {
		return err
	}
	if !lib.DeletePlaylist(id) {
		return &library.NotFoundError{Kind: "playlist", ID: id}
	}

	r.writePlain("✓ Deleted playlist %s\n", id)
	return lib.LastPersistError()
}

// PlaylistsAddTrack appends one track.
func (r *Runner) PlaylistsAddTrack(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	lib, err := r.lib()
	if err != nil {
		return err
	}
	track := trackFromFlags(cmd)

	added, err := lib.AddTrackToPlaylist(id, track)
	if err != nil {
		return err
	}
	if added {
		r.writePlain("✓ Added %s\n", track.Name)
	} else {
		r.writePlain("%s is already in the playlist\n", track.Name)
	}
	return lib.LastPersistError()
}

// PlaylistsAddAlbum fetches a catalog album and appends its playable tracks.
func (r *Runner) PlaylistsAddAlbum(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	if err := r.requireCatalog(); err != nil {
		return err
	}
	lib, err := r.lib()
	if err != nil {
		return err
	}

	album, err := r.catalog.Album(ctx, cmd.String("album-id"))
	if err != nil {
		return fmt.Errorf("failed to fetch album: %w", err)
	}

	added, err := lib.AddAlbumToPlaylist(id, album.Model())
	if err != nil {
		return err
	}
	r.writePlain("✓ Added %d of %d tracks from %s\n", added, len(album.Tracks), album.Name)
	return lib.LastPersistError()
}

// PlaylistsRemoveTrack removes a track by its playlist-track ID.
func (r *Runner) PlaylistsRemoveTrack(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	trackID, err := requireArg(cmd, "track-id")
	if err != nil {
		return err
	}
	lib, err := r.lib()
	if err != nil {
		return err
	}

	if !lib.RemoveTrackFromPlaylist(id, trackID) {
		return &library.NotFoundError{Kind: "track", ID: trackID}
	}
	r.writePlain("✓ Removed track %s\n", trackID)
	return lib.LastPersistError()
}

// PlaylistsExport exports one playlist to a file or stdout, or all of them to a directory.
func (r *Runner) PlaylistsExport(ctx context.Context, cmd *cli.Command) error {
	f, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	lib, err := r.lib()
	if err != nil {
		return err
	}

	if cmd.Bool("all") {
		return r.exportAll(ctx, lib.AllPlaylists(), f, cmd.String("dir"), cmd.Bool("cover"))
	}

	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	p, ok := lib.GetPlaylist(id)
	if !ok {
		return &library.NotFoundError{Kind: "playlist", ID: id}
	}
	return r.export(p, f, cmd.String("output"), cmd.Bool("cover"))
}

func (r *Runner) exportAll(ctx context.Context, playlists []models.Playlist, f formatter.Format, dir string, covers bool) error {
	if len(playlists) == 0 {
		r.writePlain("No playlists to export\n")
		return nil
	}

	prog := make(chan tasks.ProgressUpdate, len(playlists))
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range prog {
			r.writePlain("   [%d/%d] %s\n", update.Step, update.Total, update.Message)
		}
	}()

	result, err := tasks.BulkExport(ctx, prog, playlists, tasks.BulkExportOpts{
		Format:    f,
		OutputDir: dir,
		Covers:    covers,
	})
	close(prog)
	<-done
	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Export Complete")
	r.writePlain("Directory: %s\n", result.OutputDirectory)
	r.writePlain("Exported: %d/%d\n", result.SuccessfulExports, result.TotalPlaylists)
	r.writePlain("Manifest: %s\n", result.ManifestPath)
	if result.FailedExports > 0 {
		return fmt.Errorf("%d playlists failed to export", result.FailedExports)
	}
	return nil
}

// export renders one playlist to output, or to the runner's writer when output is empty.
func (r *Runner) export(p models.Playlist, f formatter.Format, output string, cover bool) error {
	var (
		data []byte
		err  error
	)
	if f == formatter.FormatMarkdown && cover && output != "" {
		data, err = formatter.ExportToMarkdown(p, r.saveCover(p, filepath.Dir(output)))
	} else {
		data, err = formatter.Export(p, f)
	}
	if err != nil {
		return err
	}

	if output == "" {
		_, err := r.output.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}

	r.logger.Info("playlist exported", "file", output, "tracks", len(p.Tracks))
	r.writePlain("✓ Exported %s to %s\n", p.Name, output)
	return nil
}

// saveCover downloads the playlist cover into dir and returns its file name, or "" on failure.
func (r *Runner) saveCover(p models.Playlist, dir string) string {
	url := formatter.CoverURL(p)
	if url == "" {
		return ""
	}
	img, err := formatter.DownloadImage(r.httpClient, url)
	if err != nil {
		r.logger.Warn("failed to download cover image", "error", err)
		return ""
	}
	if err := os.WriteFile(filepath.Join(dir, "cover.jpg"), img, 0644); err != nil {
		r.logger.Warn("failed to save cover image", "error", err)
		return ""
	}
	return "cover.jpg"
}
