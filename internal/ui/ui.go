package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/tocata/internal/models"
	"github.com/desertthunder/tocata/internal/player"
	"github.com/desertthunder/tocata/internal/sequencer"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LibraryView ViewState = iota
	PlayerView
)

// Library is the part of the library store the TUI reads and toggles.
type Library interface {
	FavoriteTracks() []models.Track
	AllPlaylists() []models.Playlist
	ToggleFavorite(track models.Track) bool
	IsFavorite(name, artist, album string) bool
}

// Player is the playback surface driven by the TUI. [*player.Controller] implements it.
type Player interface {
	Load(tracks []models.Track)
	Play(i int) error
	Next() (bool, error)
	Previous() (bool, error)
	Stop()
	ToggleShuffle() bool
	CycleRepeat() sequencer.RepeatMode
	Snapshot() player.Snapshot
}

// Model represents the TUI application state.
type Model struct {
	ctx        context.Context
	view       ViewState
	library    Library
	player     Player
	updates    <-chan player.Snapshot
	width      int
	height     int
	sourceList list.Model
	trackList  list.Model
	source     *sourceItem
	tracks     []models.Track
	snapshot   player.Snapshot
	status     string
	err        error
	help       help.Model
	keys       keyMap
}

// NewModel creates a new TUI model. updates may be nil; see [SnapshotFeed].
func NewModel(ctx context.Context, lib Library, p Player, updates <-chan player.Snapshot) *Model {
	return &Model{
		ctx:        ctx,
		view:       LibraryView,
		library:    lib,
		player:     p,
		updates:    updates,
		sourceList: newList("Library", nil),
		trackList:  newList("", nil),
		snapshot:   p.Snapshot(),
		help:       help.New(),
		keys:       newKeyMap(),
	}
}

func newList(title string, items []list.Item) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowHelp(false)
	return l
}

// Init loads the library and starts listening for player changes.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadLibrary(), m.waitForSnapshot())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.sourceList.SetSize(msg.Width-4, msg.Height-8)
		m.trackList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case LibraryView:
			return m.handleLibraryKeys(msg)
		case PlayerView:
			return m.handlePlayerKeys(msg)
		}

	case Msg:
		switch msg.kind {
		case MsgLibraryLoaded:
			sources, _ := msg.data.([]sourceItem)
			items := make([]list.Item, len(sources))
			for i, s := range sources {
				items[i] = s
			}
			return m, m.sourceList.SetItems(items)

		case MsgSnapshot:
			m.snapshot, _ = msg.data.(player.Snapshot)
			return m, tea.Batch(m.refreshTracks(), m.waitForSnapshot())
		}
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case LibraryView:
		return m.renderLibrary()
	case PlayerView:
		return m.renderPlayer()
	default:
		return ""
	}
}

func (m *Model) handleLibraryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.sourceList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.sourceList, cmd = m.sourceList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		m.player.Stop()
		return m, tea.Quit
	case key.Matches(msg, m.keys.enter):
		if src, ok := m.sourceList.SelectedItem().(sourceItem); ok {
			return m, m.open(src)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.sourceList, cmd = m.sourceList.Update(msg)
	return m, cmd
}

func (m *Model) handlePlayerKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.trackList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.trackList, cmd = m.trackList.Update(msg)
		return m, cmd
	}

	m.err = nil
	m.status = ""

	switch {
	case key.Matches(msg, m.keys.quit):
		m.player.Stop()
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		if m.trackList.FilterState() == list.FilterApplied {
			m.trackList.ResetFilter()
			return m, nil
		}
		m.view = LibraryView
		return m, m.loadLibrary()
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.trackList.SelectedItem().(trackItem); ok {
			m.err = m.player.Play(item.index)
		}
	case key.Matches(msg, m.keys.next):
		_, m.err = m.player.Next()
	case key.Matches(msg, m.keys.prev):
		_, m.err = m.player.Previous()
	case key.Matches(msg, m.keys.stop):
		m.player.Stop()
	case key.Matches(msg, m.keys.shuffle):
		if m.player.ToggleShuffle() {
			m.status = "Shuffle on"
		} else {
			m.status = "Shuffle off"
		}
	case key.Matches(msg, m.keys.repeat):
		m.status = "Repeat " + m.player.CycleRepeat().String()
	case key.Matches(msg, m.keys.favorite):
		m.toggleFavorite()
	default:
		var cmd tea.Cmd
		m.trackList, cmd = m.trackList.Update(msg)
		return m, cmd
	}

	m.snapshot = m.player.Snapshot()
	return m, m.refreshTracks()
}

// open loads a source into the player and switches to the player view.
func (m *Model) open(src sourceItem) tea.Cmd {
	m.source = &src
	m.tracks = src.tracks
	m.player.Load(src.tracks)
	m.snapshot = m.player.Snapshot()
	m.trackList.Title = src.name
	m.trackList.ResetFilter()
	m.trackList.Select(0)
	m.view = PlayerView
	return m.refreshTracks()
}

// toggleFavorite flips the selected track, or the current one when nothing is selected.
func (m *Model) toggleFavorite() {
	var track *models.Track
	if item, ok := m.trackList.SelectedItem().(trackItem); ok {
		track = &item.track
	} else if m.snapshot.Track != nil {
		track = m.snapshot.Track
	}
	if track == nil {
		return
	}

	if m.library.ToggleFavorite(*track) {
		m.status = fmt.Sprintf("Added %s to favorites", track.Name)
	} else {
		m.status = fmt.Sprintf("Removed %s from favorites", track.Name)
	}
}

// refreshTracks rebuilds the track items so markers follow the player and favorites.
func (m *Model) refreshTracks() tea.Cmd {
	items := make([]list.Item, len(m.tracks))
	for i, t := range m.tracks {
		items[i] = trackItem{
			track:    t,
			index:    i,
			playing:  m.snapshot.State == player.StatePlaying && m.snapshot.Index == i,
			favorite: m.library.IsFavorite(t.Name, t.Artist, t.Album),
		}
	}
	return m.trackList.SetItems(items)
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case LibraryView:
		m.sourceList, cmd = m.sourceList.Update(msg)
	case PlayerView:
		m.trackList, cmd = m.trackList.Update(msg)
	}
	return m, cmd
}

func (m *Model) loadLibrary() tea.Cmd {
	return func() tea.Msg {
		sources := []sourceItem{favoritesSource(m.library.FavoriteTracks())}
		for _, p := range m.library.AllPlaylists() {
			sources = append(sources, playlistSource(p))
		}
		return libraryLoadedMsg(sources)
	}
}

func (m *Model) waitForSnapshot() tea.Cmd {
	if m.updates == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case snap, ok := <-m.updates:
			if !ok {
				return nil
			}
			return snapshotMsg(snap)
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m *Model) renderLibrary() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n%s\n\n%s", m.sourceList.View(), m.renderNowPlaying(), helpView)
}

func (m *Model) renderPlayer() string {
	helpKeys := []key.Binding{
		m.keys.enter, m.keys.next, m.keys.prev, m.keys.stop,
		m.keys.shuffle, m.keys.repeat, m.keys.favorite, m.keys.back, m.keys.quit,
	}
	helpView := m.help.ShortHelpView(helpKeys)

	var footer string
	switch {
	case m.err != nil:
		footer = styles.err.Render(fmt.Sprintf("Error: %v", m.err))
	case m.status != "":
		footer = styles.help.Render(m.status)
	}

	return fmt.Sprintf("%s\n%s\n%s\n\n%s", m.trackList.View(), m.renderNowPlaying(), footer, helpView)
}

func (m *Model) renderNowPlaying() string {
	s := m.snapshot

	var b strings.Builder
	if s.State == player.StatePlaying && s.Track != nil {
		b.WriteString(styles.ok.Render("▶ "))
		b.WriteString(fmt.Sprintf("%s - %s", s.Track.Artist, s.Track.Name))
		if s.Track.Duration != "" {
			b.WriteString(styles.help.Render(" (" + s.Track.Duration + ")"))
		}
		b.WriteString(fmt.Sprintf("  %d/%d", s.Index+1, s.Total))
	} else {
		b.WriteString(styles.warn.Render("■ stopped"))
	}

	shuffle := "off"
	if s.Shuffle {
		shuffle = "on"
	}
	b.WriteString("  ")
	b.WriteString(styles.badge.Render("shuffle " + shuffle))
	b.WriteString(" ")
	b.WriteString(styles.badge.Render("repeat " + s.Repeat))
	return b.String()
}
