// Package tasks runs long library operations with real-time progress reporting.
//
// # Import
//
// [Importer] copies catalog content into library playlists:
//
//  1. [Importer.ImportAlbums] : fetch albums and append their tracks
//     - Albums are fetched by a worker pool sharing one [rate.Limiter]
//     - Tracks are appended one album at a time, in request order
//     - Duplicates and tracks without a preview are skipped
//
//  2. [Importer.ImportDiscography] : list an artist's albums, then import them
//
//  3. [Importer.ImportTopTracks] : append an artist's top tracks
//
// The target is an existing playlist ([ImportOpts.PlaylistID]) or a new one
// created by name ([ImportOpts.NewPlaylist]).
//
// # Export
//
// [BulkExport] writes many playlists to a directory concurrently and records
// the outcome of each one in export_manifest.json.
//
// # Progress Reporting
//
// All operations accept an optional channel of [ProgressUpdate] values.
// Updates use select with default so a slow reader never blocks the work.
package tasks
