package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/desertthunder/tocata/internal/formatter"
	"github.com/desertthunder/tocata/internal/models"
	"github.com/desertthunder/tocata/internal/shared"
	"golang.org/x/time/rate"
)

// BulkExportOpts contains configuration for bulk playlist exports.
type BulkExportOpts struct {
	Format     formatter.Format // Export format: json, csv, markdown, text
	OutputDir  string           // Base output directory (default: tocata_export_{epoch})
	NumWorkers int              // Concurrent workers (default: 4, max: 10)
	RateLimit  float64          // Cover downloads per second (default: 5)
	Covers     bool             // Download cover images for markdown exports
}

// PlaylistExportResult reports the files written for one playlist.
type PlaylistExportResult struct {
	PlaylistID   string   `json:"playlistId"`
	PlaylistName string   `json:"playlistName"`
	Success      bool     `json:"success"`
	Files        []string `json:"files"`
	Error        error    `json:"-"`
	ErrorMessage string   `json:"error,omitempty"`
}

// BulkExportResult summarizes a bulk export and is written as the manifest.
type BulkExportResult struct {
	Format            string                 `json:"format"`
	ExportedAt        time.Time              `json:"exportedAt"`
	TotalPlaylists    int                    `json:"totalPlaylists"`
	SuccessfulExports int                    `json:"successfulExports"`
	FailedExports     int                    `json:"failedExports"`
	OutputDirectory   string                 `json:"outputDirectory"`
	ManifestPath      string                 `json:"-"`
	Results           []PlaylistExportResult `json:"results"`
}

// BulkExport writes every playlist to opts.OutputDir concurrently and records the
// outcome in export_manifest.json. A failed playlist does not stop the others.
func BulkExport(ctx context.Context, prog chan<- ProgressUpdate, playlists []models.Playlist, opts BulkExportOpts) (*BulkExportResult, error) {
	if opts.Format == "" {
		opts.Format = formatter.FormatJSON
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("tocata_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = defaultWorkers
	}
	if opts.NumWorkers > maxWorkers {
		opts.NumWorkers = maxWorkers
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = defaultRateLimit
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &BulkExportResult{
		Format:          string(opts.Format),
		ExportedAt:      time.Now().UTC(),
		TotalPlaylists:  len(playlists),
		OutputDirectory: opts.OutputDir,
		Results:         make([]PlaylistExportResult, 0, len(playlists)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan models.Playlist, len(playlists))
	results := make(chan PlaylistExportResult, len(playlists))

	var wg sync.WaitGroup
	for w := 0; w < opts.NumWorkers; w++ {
		wg.Add(1)
		go exportWorker(ctx, &wg, limiter, jobs, results, opts)
	}

	for _, p := range playlists {
		jobs <- p
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		if res.Error != nil {
			res.ErrorMessage = res.Error.Error()
		}
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulExports++
			sendProgress(prog, exportCompletedUpdate(completed, len(playlists), res.PlaylistName, len(res.Files)))
		} else {
			result.FailedExports++
			sendProgress(prog, exportFailedUpdate(completed, len(playlists), res.PlaylistName, res.Error))
		}
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	data, err := shared.MarshalJSON(result, true)
	if err == nil {
		err = os.WriteFile(manifestPath, data, 0644)
	}
	if err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

// exportWorker exports playlists from the jobs channel. Jobs left after ctx ends
// are reported as failures so the manifest accounts for every playlist.
func exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	limiter *rate.Limiter,
	jobs <-chan models.Playlist,
	results chan<- PlaylistExportResult,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for p := range jobs {
		if err := ctx.Err(); err != nil {
			results <- PlaylistExportResult{PlaylistID: p.ID, PlaylistName: p.Name, Files: []string{}, Error: err}
			continue
		}
		results <- exportSinglePlaylist(ctx, limiter, p, opts)
	}
}

// exportSinglePlaylist exports a single playlist to the appropriate format.
func exportSinglePlaylist(ctx context.Context, limiter *rate.Limiter, p models.Playlist, opts BulkExportOpts) PlaylistExportResult {
	result := PlaylistExportResult{
		PlaylistID:   p.ID,
		PlaylistName: p.Name,
		Files:        []string{},
	}

	switch opts.Format {
	case formatter.FormatCSV:
		csvRes, err := formatter.WriteCSVExport(p, filepath.Join(opts.OutputDir, p.ID))
		if err != nil {
			result.Error = fmt.Errorf("CSV export failed: %w", err)
			return result
		}
		result.Files = []string{csvRes.TracksFile, csvRes.MetadataFile}

	case formatter.FormatMarkdown:
		var imageURL string
		if opts.Covers {
			if url := formatter.CoverURL(p); url != "" && limiter.Wait(ctx) == nil {
				imageURL = url
			}
		}
		mdRes, err := formatter.WriteMarkdownExport(p, filepath.Join(opts.OutputDir, p.ID), imageURL)
		if err != nil {
			result.Error = fmt.Errorf("markdown export failed: %w", err)
			return result
		}
		result.Files = mdRes.Files

	case formatter.FormatText:
		path, err := formatter.WriteTextExport(p, filepath.Join(opts.OutputDir, p.ID+"_tracks.txt"))
		if err != nil {
			result.Error = fmt.Errorf("text export failed: %w", err)
			return result
		}
		result.Files = []string{path}

	default:
		path, err := formatter.WriteJSONExport(p, filepath.Join(opts.OutputDir, p.ID+".json"))
		if err != nil {
			result.Error = fmt.Errorf("JSON export failed: %w", err)
			return result
		}
		result.Files = []string{path}
	}

	result.Success = true
	return result
}
