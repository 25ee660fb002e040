package services

import (
	"context"
	"strings"

	"github.com/desertthunder/tocata/internal/models"
	"github.com/desertthunder/tocata/internal/shared"
)

// Catalog is a read-only music metadata provider.
type Catalog interface {
	// Search looks up artists, albums and tracks matching query.
	// types selects a subset of "artist", "album" and "track"; empty means all three.
	Search(ctx context.Context, query string, offset int, types []string, limit int) (*SearchResult, error)

	// Album retrieves an album with its track listing.
	Album(ctx context.Context, id string) (*Album, error)

	// Artist retrieves an artist profile.
	Artist(ctx context.Context, id string) (*Artist, error)

	// ArtistAlbums lists up to limit albums by the artist, without track listings.
	ArtistAlbums(ctx context.Context, id string, limit int) ([]Album, error)

	// ArtistTopTracks lists the artist's most popular tracks.
	ArtistTopTracks(ctx context.Context, id string) ([]Track, error)
}

// Image is an artwork resource, largest first when a provider returns several.
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// Artist represents an artist from the catalog
type Artist struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Genres     []string `json:"genres"`
	Followers  int      `json:"followers"`
	Popularity int      `json:"popularity"`
	Images     []Image  `json:"images"`
}

// Album represents an album from the catalog. Tracks is empty in listings.
type Album struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Artists     []string `json:"artists"`
	ReleaseDate string   `json:"release_date"`
	TotalTracks int      `json:"total_tracks"`
	Images      []Image  `json:"images"`
	Tracks      []Track  `json:"tracks"`
}

// Track represents a track from the catalog
type Track struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Artists    []string `json:"artists"`
	Album      string   `json:"album"`
	AlbumID    string   `json:"album_id"`
	DurationMS int      `json:"duration_ms"`
	PreviewURL string   `json:"preview_url"` // empty when the provider has no playable preview
	Images     []Image  `json:"images"`
}

// SearchResult groups search matches by kind.
type SearchResult struct {
	Artists []Artist `json:"artists"`
	Albums  []Album  `json:"albums"`
	Tracks  []Track  `json:"tracks"`
}

// Cover returns the first (largest) image URL, or "".
func Cover(images []Image) string {
	if len(images) == 0 {
		return ""
	}
	return images[0].URL
}

// Year returns the release year of the album.
func (a Album) Year() string {
	year, _, _ := strings.Cut(a.ReleaseDate, "-")
	return year
}

// Model converts the catalog track into a library track reference.
func (t Track) Model() models.Track {
	return models.Track{
		Name:      t.Name,
		Artist:    strings.Join(t.Artists, ", "),
		Album:     t.Album,
		AudioFile: t.PreviewURL,
		Duration:  shared.FormatDurationMS(t.DurationMS),
		Cover:     Cover(t.Images),
	}
}

// Model converts the catalog album and its tracks into library form.
func (a Album) Model() models.Album {
	album := models.Album{
		ID:     a.ID,
		Name:   a.Name,
		Artist: strings.Join(a.Artists, ", "),
		Cover:  Cover(a.Images),
		Tracks: make([]models.Track, 0, len(a.Tracks)),
	}
	for _, t := range a.Tracks {
		album.Tracks = append(album.Tracks, t.Model())
	}
	return album
}
