package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tocata/internal/models"
	"github.com/desertthunder/tocata/internal/services"
	"github.com/desertthunder/tocata/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultWorkers   = 4
	maxWorkers       = 10
	defaultRateLimit = 5.0
)

// PlaylistStore is the subset of the library the importer mutates.
type PlaylistStore interface {
	CreatePlaylist(name, description string) (models.Playlist, error)
	GetPlaylist(id string) (models.Playlist, bool)
	AddTrackToPlaylist(playlistID string, track models.Track) (bool, error)
	AddAlbumToPlaylist(playlistID string, album models.Album) (int, error)
}

// ImportOpts selects the target playlist and pacing for an import.
type ImportOpts struct {
	PlaylistID  string  // Existing playlist to import into
	NewPlaylist string  // Name of a playlist to create when PlaylistID is empty
	Description string  // Description for a created playlist
	NumWorkers  int     // Concurrent album fetches (default: 4, max: 10)
	RateLimit   float64 // Catalog requests per second (default: 5)
}

// AlbumImportResult reports one album of an import.
type AlbumImportResult struct {
	AlbumID   string
	AlbumName string
	Fetched   int // Tracks returned by the catalog
	Added     int // Tracks appended to the playlist
	Error     error
}

// ImportResult summarizes an import run.
type ImportResult struct {
	Playlist models.Playlist
	Created  bool
	Albums   []AlbumImportResult
	Added    int
	Skipped  int // Tracks dropped as duplicates or unplayable
	Failed   int // Albums that could not be fetched or added
}

type albumJob struct {
	index int
	id    string
}

type albumFetch struct {
	index int
	album *services.Album
	err   error
}

// Importer copies catalog content into library playlists.
//
// Catalog reads run concurrently behind a shared rate limiter. Library writes
// are applied one at a time in request order.
type Importer struct {
	catalog services.Catalog
	store   PlaylistStore
	logger  *log.Logger
}

// NewImporter creates an importer. A nil logger writes to stderr.
func NewImporter(catalog services.Catalog, store PlaylistStore, logger *log.Logger) *Importer {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Importer{catalog: catalog, store: store, logger: logger}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// ImportAlbums fetches the given albums and appends their tracks to a playlist.
//
// A failed album is recorded in the result and does not stop the run.
// Cancelling ctx stops outstanding fetches; albums already fetched are still added.
func (i *Importer) ImportAlbums(ctx context.Context, prog chan<- ProgressUpdate, ids []string, opts ImportOpts) (*ImportResult, error) {
	if err := i.ready(); err != nil {
		return nil, err
	}
	ids = compact(ids)
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: at least one album id", shared.ErrMissingArgument)
	}

	result, err := i.resolvePlaylist(prog, opts)
	if err != nil {
		return nil, err
	}

	fetched := i.fetchAlbums(ctx, prog, ids, opts)
	result.Albums = make([]AlbumImportResult, len(ids))

	for idx, f := range fetched {
		res := AlbumImportResult{AlbumID: ids[idx], Error: f.err}
		if f.album != nil {
			res.AlbumName = f.album.Name
			res.Fetched = len(f.album.Tracks)
		}
		if res.Error == nil && f.album == nil {
			res.Error = ctx.Err()
		}
		if res.Error == nil {
			added, err := i.store.AddAlbumToPlaylist(result.Playlist.ID, f.album.Model())
			res.Added = added
			res.Error = err
		}

		if res.Error != nil {
			result.Failed++
			i.logger.Warn("album import failed", "album", res.AlbumID, "error", res.Error)
		} else {
			result.Added += res.Added
			result.Skipped += res.Fetched - res.Added
			sendProgress(prog, addTracksUpdate(idx+1, len(ids), res.AlbumName, res.Added))
		}
		result.Albums[idx] = res
	}

	i.refresh(result)
	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

// ImportDiscography imports up to limit albums and singles of an artist.
func (i *Importer) ImportDiscography(ctx context.Context, prog chan<- ProgressUpdate, artistID string, limit int, opts ImportOpts) (*ImportResult, error) {
	if err := i.ready(); err != nil {
		return nil, err
	}
	sendProgress(prog, fetchArtistUpdate(artistID))

	albums, err := i.catalog.ArtistAlbums(ctx, artistID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list artist albums: %w", err)
	}
	ids := make([]string, 0, len(albums))
	for _, a := range albums {
		ids = append(ids, a.ID)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: artist %s has no albums", shared.ErrInvalidInput, artistID)
	}
	return i.ImportAlbums(ctx, prog, ids, opts)
}

// ImportTopTracks appends an artist's top tracks to a playlist.
func (i *Importer) ImportTopTracks(ctx context.Context, prog chan<- ProgressUpdate, artistID string, opts ImportOpts) (*ImportResult, error) {
	if err := i.ready(); err != nil {
		return nil, err
	}
	sendProgress(prog, fetchArtistUpdate(artistID))

	tracks, err := i.catalog.ArtistTopTracks(ctx, artistID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch top tracks: %w", err)
	}
	sendProgress(prog, fetchTracksUpdate(len(tracks)))

	result, err := i.resolvePlaylist(prog, opts)
	if err != nil {
		return nil, err
	}

	for idx, t := range tracks {
		added, err := i.store.AddTrackToPlaylist(result.Playlist.ID, t.Model())
		switch {
		case errors.Is(err, shared.ErrInvalidInput):
			i.logger.Debug("skipping unplayable track", "track", t.Name)
			result.Skipped++
		case err != nil:
			return result, err
		case added:
			result.Added++
			sendProgress(prog, addTracksUpdate(idx+1, len(tracks), t.Name, 1))
		default:
			result.Skipped++
		}
	}

	i.refresh(result)
	return result, nil
}

func (i *Importer) ready() error {
	if i.catalog == nil {
		return fmt.Errorf("%w: catalog not configured", shared.ErrServiceUnavailable)
	}
	if i.store == nil {
		return fmt.Errorf("%w: library not initialized", shared.ErrServiceUnavailable)
	}
	return nil
}

func (i *Importer) resolvePlaylist(prog chan<- ProgressUpdate, opts ImportOpts) (*ImportResult, error) {
	if opts.PlaylistID != "" {
		pl, ok := i.store.GetPlaylist(opts.PlaylistID)
		if !ok {
			return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, opts.PlaylistID)
		}
		sendProgress(prog, resolvePlaylistUpdate(pl.Name, false))
		return &ImportResult{Playlist: pl}, nil
	}
	if strings.TrimSpace(opts.NewPlaylist) == "" {
		return nil, fmt.Errorf("%w: playlist id or new playlist name", shared.ErrMissingArgument)
	}

	pl, err := i.store.CreatePlaylist(opts.NewPlaylist, opts.Description)
	if err != nil {
		return nil, err
	}
	sendProgress(prog, resolvePlaylistUpdate(pl.Name, true))
	return &ImportResult{Playlist: pl, Created: true}, nil
}

// fetchAlbums returns one entry per id, in id order.
func (i *Importer) fetchAlbums(ctx context.Context, prog chan<- ProgressUpdate, ids []string, opts ImportOpts) []albumFetch {
	workers := opts.NumWorkers
	if workers <= 0 {
		workers = defaultWorkers
	}
	if workers > maxWorkers {
		workers = maxWorkers
	}
	if workers > len(ids) {
		workers = len(ids)
	}
	limit := opts.RateLimit
	if limit <= 0 {
		limit = defaultRateLimit
	}
	limiter := rate.NewLimiter(rate.Limit(limit), 1)

	jobs := make(chan albumJob, len(ids))
	results := make(chan albumFetch, len(ids))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go i.albumWorker(ctx, &wg, limiter, jobs, results)
	}

	for idx, id := range ids {
		jobs <- albumJob{index: idx, id: id}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]albumFetch, len(ids))
	completed := 0
	for res := range results {
		completed++
		out[res.index] = res

		update := AlbumImportResult{AlbumID: ids[res.index], Error: res.err}
		if res.album != nil {
			update.AlbumName = res.album.Name
			update.Fetched = len(res.album.Tracks)
		}
		sendProgress(prog, fetchAlbumUpdate(completed, len(ids), update))
	}
	return out
}

// albumWorker fetches albums from the jobs channel until it drains or ctx ends.
func (i *Importer) albumWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	limiter *rate.Limiter,
	jobs <-chan albumJob,
	results chan<- albumFetch,
) {
	defer wg.Done()

	for job := range jobs {
		if err := limiter.Wait(ctx); err != nil {
			results <- albumFetch{index: job.index, err: err}
			continue
		}
		album, err := i.catalog.Album(ctx, job.id)
		results <- albumFetch{index: job.index, album: album, err: err}
	}
}

// refresh reloads the playlist so the result reflects the stored tracks.
func (i *Importer) refresh(result *ImportResult) {
	if pl, ok := i.store.GetPlaylist(result.Playlist.ID); ok {
		result.Playlist = pl
	}
}

func compact(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}
