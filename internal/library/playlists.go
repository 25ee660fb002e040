package library

import (
	"errors"
	"strings"

	"github.com/desertthunder/tocata/internal/models"
)

// PlaylistUpdate carries the fields to change; nil fields are left alone.
type PlaylistUpdate struct {
	Name        *string
	Description *string
}

// CreatePlaylist creates an empty playlist with a generated id.
//
// Name and description are trimmed; a blank name is a [ValidationError].
func (l *Library) CreatePlaylist(name, description string) (models.Playlist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Playlist{}, &ValidationError{Field: "name", Reason: "playlist name is required"}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	p := models.Playlist{
		ID:          l.nextPlaylistID(),
		Name:        name,
		Description: strings.TrimSpace(description),
		Tracks:      []models.PlaylistTrack{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	l.playlists = append(l.playlists, p)
	l.savePlaylists()
	return p.Clone(), nil
}

// GetPlaylist returns the playlist with id.
func (l *Library) GetPlaylist(id string) (models.Playlist, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.playlistIndex(id)
	if i < 0 {
		return models.Playlist{}, false
	}
	return l.playlists[i].Clone(), true
}

// AllPlaylists returns every playlist in creation order.
func (l *Library) AllPlaylists() []models.Playlist {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]models.Playlist, len(l.playlists))
	for i, p := range l.playlists {
		out[i] = p.Clone()
	}
	return out
}

// AddTrackToPlaylist appends track to the playlist.
//
// It returns false without changes when the playlist already holds a track with
// the same name, artist, album and audio reference.
func (l *Library) AddTrackToPlaylist(playlistID string, track models.Track) (bool, error) {
	if err := validateTrack(track); err != nil {
		return false, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.playlistIndex(playlistID)
	if i < 0 {
		return false, &NotFoundError{Kind: "playlist", ID: playlistID}
	}

	t := models.NormalizeTrack(track)
	p := &l.playlists[i]
	for _, existing := range p.Tracks {
		if existing.SameRecording(t) {
			return false, nil
		}
	}

	now := l.now()
	p.Tracks = append(p.Tracks, models.PlaylistTrack{Track: t, ID: l.newID(), AddedAt: now})
	p.UpdatedAt = now
	l.savePlaylists()
	return true, nil
}

// AddAlbumToPlaylist appends every album track whose audio reference is not
// already in the playlist and returns how many were added.
//
// Tracks missing a name or audio reference are skipped. Album name, artist and
// cover fill in for fields the track leaves empty.
func (l *Library) AddAlbumToPlaylist(playlistID string, album models.Album) (int, error) {
	if len(album.Tracks) == 0 {
		return 0, &ValidationError{Field: "album", Reason: "album has no tracks"}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.playlistIndex(playlistID)
	if i < 0 {
		return 0, &NotFoundError{Kind: "playlist", ID: playlistID}
	}

	p := &l.playlists[i]
	seen := make(map[string]bool, len(p.Tracks)+len(album.Tracks))
	for _, existing := range p.Tracks {
		seen[existing.AudioFile] = true
	}

	now := l.now()
	added := 0
	for _, track := range album.Tracks {
		if validateTrack(track) != nil {
			l.logger.Debug("skipping unplayable album track", "album", album.Name, "track", track.Name)
			continue
		}

		t := models.NormalizeTrack(fromAlbum(track, album))
		if seen[t.AudioFile] {
			continue
		}
		seen[t.AudioFile] = true

		p.Tracks = append(p.Tracks, models.PlaylistTrack{Track: t, ID: l.newID(), AddedAt: now})
		added++
	}

	if added > 0 {
		p.UpdatedAt = now
		l.savePlaylists()
	}
	return added, nil
}

// RemoveTrackFromPlaylist removes the playlist entry with trackID.
func (l *Library) RemoveTrackFromPlaylist(playlistID, trackID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.playlistIndex(playlistID)
	if i < 0 {
		return false
	}

	p := &l.playlists[i]
	for j, t := range p.Tracks {
		if t.ID == trackID {
			p.Tracks = append(p.Tracks[:j], p.Tracks[j+1:]...)
			p.UpdatedAt = l.now()
			l.savePlaylists()
			return true
		}
	}
	return false
}

// DeletePlaylist removes the playlist with id.
func (l *Library) DeletePlaylist(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.playlistIndex(id)
	if i < 0 {
		return false
	}
	l.playlists = append(l.playlists[:i], l.playlists[i+1:]...)
	l.savePlaylists()
	return true
}

// UpdatePlaylist renames or redescribes a playlist and returns the result.
func (l *Library) UpdatePlaylist(id string, update PlaylistUpdate) (models.Playlist, error) {
	var name string
	if update.Name != nil {
		name = strings.TrimSpace(*update.Name)
		if name == "" {
			return models.Playlist{}, &ValidationError{Field: "name", Reason: "playlist name is required"}
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.playlistIndex(id)
	if i < 0 {
		return models.Playlist{}, &NotFoundError{Kind: "playlist", ID: id}
	}

	p := &l.playlists[i]
	if update.Name != nil {
		p.Name = name
	}
	if update.Description != nil {
		p.Description = strings.TrimSpace(*update.Description)
	}
	p.UpdatedAt = l.now()
	l.savePlaylists()
	return p.Clone(), nil
}

// validateTrack reports [models.Track.Validate] failures as a [ValidationError].
func validateTrack(t models.Track) error {
	var invalid *models.InvalidTrackError
	if errors.As(t.Validate(), &invalid) {
		return &ValidationError{Field: "track", Reason: invalid.Reason}
	}
	return nil
}

func fromAlbum(t models.Track, a models.Album) models.Track {
	if strings.TrimSpace(t.Album) == "" {
		t.Album = a.Name
	}
	if strings.TrimSpace(t.Artist) == "" {
		t.Artist = a.Artist
	}
	if strings.TrimSpace(t.Cover) == "" {
		t.Cover = a.Cover
	}
	return t
}
