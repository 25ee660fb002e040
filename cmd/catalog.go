package main

import (
	"context"
	"strings"

	"github.com/desertthunder/tocata/internal/services"
	"github.com/desertthunder/tocata/internal/shared"
	"github.com/urfave/cli/v3"
)

// CatalogSearch searches the catalog and prints matches grouped by kind.
func (r *Runner) CatalogSearch(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireCatalog(); err != nil {
		return err
	}
	query, err := requireArg(cmd, "query")
	if err != nil {
		return err
	}

	r.logger.Debug("searching catalog", "query", query, "types", cmd.StringSlice("type"))
	result, err := r.catalog.Search(ctx, query, cmd.Int("offset"), cmd.StringSlice("type"), cmd.Int("limit"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, cmd.Bool("pretty"))
	}

	if len(result.Artists) > 0 {
		r.writePlain("Artists:\n")
		for _, a := range result.Artists {
			r.writePlain("  %s  [%s]\n", a.Name, a.ID)
		}
		r.writePlain("\n")
	}
	if len(result.Albums) > 0 {
		r.writePlain("Albums:\n")
		for _, a := range result.Albums {
			r.writePlain("  %s - %s (%s)  [%s]\n", strings.Join(a.Artists, ", "), a.Name, a.Year(), a.ID)
		}
		r.writePlain("\n")
	}
	if len(result.Tracks) > 0 {
		r.writePlain("Tracks:\n")
		for _, t := range result.Tracks {
			r.writeTrackLine(t)
		}
	}
	if len(result.Artists)+len(result.Albums)+len(result.Tracks) == 0 {
		r.writePlain("No results for %q\n", query)
	}
	return nil
}

// CatalogAlbum prints an album and its track listing.
func (r *Runner) CatalogAlbum(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireCatalog(); err != nil {
		return err
	}
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}

	album, err := r.catalog.Album(ctx, id)
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(album, cmd.Bool("pretty"))
	}

	r.writePlainHeader(album.Name)
	r.writePlain("%s • %s • %d tracks\n\n", strings.Join(album.Artists, ", "), album.Year(), album.TotalTracks)
	for _, t := range album.Tracks {
		r.writeTrackLine(t)
	}
	return nil
}

// CatalogArtist prints an artist profile with albums and top tracks.
func (r *Runner) CatalogArtist(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireCatalog(); err != nil {
		return err
	}
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}

	artist, err := r.catalog.Artist(ctx, id)
	if err != nil {
		return err
	}
	albums, err := r.catalog.ArtistAlbums(ctx, id, cmd.Int("limit"))
	if err != nil {
		return err
	}
	top, err := r.catalog.ArtistTopTracks(ctx, id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(struct {
			Artist    *services.Artist `json:"artist"`
			Albums    []services.Album `json:"albums"`
			TopTracks []services.Track `json:"top_tracks"`
		}{artist, albums, top}, cmd.Bool("pretty"))
	}

	r.writePlainHeader(artist.Name)
	if len(artist.Genres) > 0 {
		r.writePlain("Genres: %s\n", strings.Join(artist.Genres, ", "))
	}
	r.writePlain("Followers: %d • Popularity: %d\n", artist.Followers, artist.Popularity)

	r.writePlainln("Top tracks:")
	for _, t := range top {
		r.writeTrackLine(t)
	}
	r.writePlainln("Albums:")
	for _, a := range albums {
		r.writePlain("  %s (%s)  [%s]\n", a.Name, a.Year(), a.ID)
	}
	return nil
}

func (r *Runner) writeTrackLine(t services.Track) {
	preview := ""
	if t.PreviewURL == "" {
		preview = "  (no preview)"
	}
	r.writePlain("  %s - %s (%s)%s\n", strings.Join(t.Artists, ", "), t.Name, shared.FormatDurationMS(t.DurationMS), preview)
}
