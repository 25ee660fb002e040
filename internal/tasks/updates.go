package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ResolvePlaylist Phase = iota
	FetchArtist
	FetchAlbums
	FetchTracks
	AddTracks
	ExportPlaylist
)

func (p Phase) String() string {
	switch p {
	case ResolvePlaylist:
		return "resolve_playlist"
	case FetchArtist:
		return "fetch_artist"
	case FetchAlbums:
		return "fetch_albums"
	case FetchTracks:
		return "fetch_tracks"
	case AddTracks:
		return "add_tracks"
	case ExportPlaylist:
		return "export_playlist"
	default:
		return ""
	}
}

func resolvePlaylistUpdate(name string, created bool) ProgressUpdate {
	msg := fmt.Sprintf("Importing into playlist %q", name)
	if created {
		msg = fmt.Sprintf("Created playlist %q", name)
	}
	return ProgressUpdate{Phase: ResolvePlaylist, Step: 1, Total: 1, Message: msg}
}

func fetchArtistUpdate(id string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchArtist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching artist %s...", id),
	}
}

func fetchAlbumUpdate(step, total int, res AlbumImportResult) ProgressUpdate {
	msg := fmt.Sprintf("Fetched album %s (%d tracks)", res.AlbumName, res.Fetched)
	if res.Error != nil {
		msg = fmt.Sprintf("Failed to fetch album %s: %v", res.AlbumID, res.Error)
	}
	return ProgressUpdate{Phase: FetchAlbums, Step: step, Total: total, Message: msg, Data: res}
}

func fetchTracksUpdate(n int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTracks,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetched %d top tracks", n),
	}
}

func addTracksUpdate(step, total int, name string, added int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AddTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Added %d tracks from %s", added, name),
	}
}

func exportCompletedUpdate(step, total int, name string, files int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Exported %s (%d files)", name, files),
	}
}

func exportFailedUpdate(step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Failed to export %s: %v", name, err),
	}
}
