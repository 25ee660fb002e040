package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/tocata/internal/formatter"
	"github.com/desertthunder/tocata/internal/models"
)

var (
	_ list.Item = sourceItem{}
	_ list.Item = trackItem{}
)

// sourceItem is a playable collection: the favorites or one playlist.
type sourceItem struct {
	name        string
	description string
	tracks      []models.Track
}

func favoritesSource(tracks []models.Track) sourceItem {
	return sourceItem{name: "♥ Favorites", tracks: tracks}
}

func playlistSource(p models.Playlist) sourceItem {
	return sourceItem{name: p.Name, description: p.Description, tracks: p.TrackRefs()}
}

func (i sourceItem) FilterValue() string { return i.name }
func (i sourceItem) Title() string       { return i.name }
func (i sourceItem) Description() string {
	refs := make([]models.PlaylistTrack, len(i.tracks))
	for n, t := range i.tracks {
		refs[n] = models.PlaylistTrack{Track: t}
	}
	desc := fmt.Sprintf("%d tracks • %s", len(i.tracks), formatter.TotalDuration(refs))
	if i.description != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.description)
	}
	return desc
}

// trackItem wraps [models.Track] with its position in the loaded list.
type trackItem struct {
	track    models.Track
	index    int
	playing  bool
	favorite bool
}

func (i trackItem) FilterValue() string { return i.track.Name }
func (i trackItem) Title() string {
	title := i.track.Name
	if i.favorite {
		title = fmt.Sprintf("%s %s", title, styles.heart.Render("♥"))
	}
	if i.playing {
		title = styles.playing.Render("▶ ") + title
	}
	return title
}
func (i trackItem) Description() string {
	desc := i.track.Artist
	if i.track.Album != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.track.Album)
	}
	if i.track.Duration != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.track.Duration)
	}
	return desc
}
