// package models defines the data model for the music library
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/tocata/internal/shared"
)

const (
	// UnknownField replaces a missing artist or album.
	UnknownField = "Desconocido"
	// DefaultDuration replaces a missing display duration.
	DefaultDuration = "0:00"
)

// Track is a reference to a playable song.
type Track struct {
	Name      string `json:"name"`
	Artist    string `json:"artist"`
	Album     string `json:"album"`
	AudioFile string `json:"audioFile"`
	Duration  string `json:"duration"`
	Cover     string `json:"cover"`
}

// Identity is the normalized (artist, album, name) triple of a track.
type Identity struct {
	Artist string
	Album  string
	Name   string
}

// Key joins the identity parts with "_"; it is the stored id of a [Favorite].
// Distinct identities can share a key, so compare [Identity] values instead.
func (i Identity) Key() string {
	return i.Artist + "_" + i.Album + "_" + i.Name
}

// IdentityOf builds the identity tuple from raw name, artist and album values.
func IdentityOf(name, artist, album string) Identity {
	return Identity{
		Artist: Normalize(artist),
		Album:  Normalize(album),
		Name:   Normalize(name),
	}
}

// Identity returns the deduplication identity of the track.
func (t Track) Identity() Identity {
	return IdentityOf(t.Name, t.Artist, t.Album)
}

// SameRecording reports whether two tracks share name, artist, album and audio reference.
//
// This is the per-playlist uniqueness rule; it compares raw values.
func (t Track) SameRecording(o Track) bool {
	return t.Name == o.Name && t.Artist == o.Artist && t.Album == o.Album && t.AudioFile == o.AudioFile
}

// InvalidTrackError names the field a track is missing.
type InvalidTrackError struct {
	Reason string
}

func (e *InvalidTrackError) Error() string { return "invalid track: " + e.Reason }

func (e *InvalidTrackError) Unwrap() error { return shared.ErrInvalidInput }

// Validate checks the fields a playable track needs.
func (t Track) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return &InvalidTrackError{Reason: "track name is required"}
	}
	if strings.TrimSpace(t.AudioFile) == "" {
		return &InvalidTrackError{Reason: fmt.Sprintf("track %q has no audio reference", t.Name)}
	}
	return nil
}

// Normalize lower-cases s, trims it and collapses every whitespace run to a single "-".
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "-")
}

// NormalizeTrack trims every field and fills the defaults for missing artist, album and duration.
func NormalizeTrack(t Track) Track {
	out := Track{
		Name:      strings.TrimSpace(t.Name),
		Artist:    strings.TrimSpace(t.Artist),
		Album:     strings.TrimSpace(t.Album),
		AudioFile: strings.TrimSpace(t.AudioFile),
		Duration:  strings.TrimSpace(t.Duration),
		Cover:     strings.TrimSpace(t.Cover),
	}
	if out.Artist == "" {
		out.Artist = UnknownField
	}
	if out.Album == "" {
		out.Album = UnknownField
	}
	if out.Duration == "" {
		out.Duration = DefaultDuration
	}
	return out
}

// Favorite is a favorited track.
type Favorite struct {
	Track
	ID      string    `json:"id"`
	AddedAt time.Time `json:"addedAt"`
}

// NewFavorite wraps a track as a favorite added at the given time.
func NewFavorite(t Track, addedAt time.Time) Favorite {
	return Favorite{Track: t, ID: t.Identity().Key(), AddedAt: addedAt}
}

// PlaylistTrack is a track entry inside a playlist.
type PlaylistTrack struct {
	Track
	ID      string    `json:"id"`
	AddedAt time.Time `json:"addedAt"`
}

// Playlist is a named, ordered collection of tracks.
type Playlist struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Tracks      []PlaylistTrack `json:"tracks"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Clone returns a deep copy so callers cannot mutate stored state.
func (p Playlist) Clone() Playlist {
	c := p
	c.Tracks = make([]PlaylistTrack, len(p.Tracks))
	copy(c.Tracks, p.Tracks)
	return c
}

// TrackRefs returns the plain track references in playlist order.
func (p Playlist) TrackRefs() []Track {
	refs := make([]Track, len(p.Tracks))
	for i, pt := range p.Tracks {
		refs[i] = pt.Track
	}
	return refs
}

// Album is a group of tracks delivered by the catalog.
type Album struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Artist string  `json:"artist"`
	Cover  string  `json:"cover"`
	Tracks []Track `json:"tracks"`
}
