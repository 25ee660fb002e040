package library

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tocata/internal/models"
	"github.com/desertthunder/tocata/internal/shared"
	"github.com/desertthunder/tocata/internal/storage"
)

const (
	FavoritesKey = "tocata:favorites"
	PlaylistsKey = "tocata:playlists"

	playlistIDPrefix = "pl-"
)

// Options configures a [Library]. Zero values select the defaults.
type Options struct {
	Logger *log.Logger      // defaults to [shared.NewLogger] on stderr
	Now    func() time.Time // defaults to [time.Now]
	NewID  func() string    // playlist track ids; defaults to [shared.GenerateID]
}

// Library is the favorites and playlists store.
//
// It is safe for concurrent use. Returned values are copies.
type Library struct {
	mu     sync.Mutex
	kv     storage.KV
	logger *log.Logger
	now    func() time.Time
	newID  func() string

	favorites []models.Favorite
	playlists []models.Playlist
	nextID    int

	lastErr error
}

// playlistsDocument is the persisted shape of the playlist collection.
type playlistsDocument struct {
	Playlists []models.Playlist `json:"playlists"`
	NextID    int               `json:"nextId"`
}

// New creates a [Library] backed by kv and loads any previously persisted state.
func New(kv storage.KV, opts Options) *Library {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = shared.GenerateID
	}

	l := &Library{
		kv:     kv,
		logger: opts.Logger,
		now:    opts.Now,
		newID:  opts.NewID,
		nextID: 1,
	}
	l.loadFavorites()
	l.loadPlaylists()
	return l
}

// LastPersistError returns the most recent storage failure, or nil once a later write succeeds.
func (l *Library) LastPersistError() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastErr
}

// ClearAll empties both collections and removes their persisted values.
func (l *Library) ClearAll() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.favorites = nil
	l.playlists = nil
	l.nextID = 1

	l.lastErr = nil
	for _, key := range []string{FavoritesKey, PlaylistsKey} {
		if err := l.kv.Remove(key); err != nil {
			l.fail(&PersistenceError{Op: "remove", Key: key, Err: err})
		}
	}
}

func (l *Library) loadFavorites() {
	raw, ok := l.read(FavoritesKey)
	if !ok {
		return
	}

	var favorites []models.Favorite
	if err := json.Unmarshal([]byte(raw), &favorites); err != nil {
		l.logger.Warn("ignoring corrupt favorites", "key", FavoritesKey, "error", err)
		return
	}

	seen := make(map[models.Identity]bool, len(favorites))
	for _, f := range favorites {
		id := f.Identity()
		f.ID = id.Key()
		if seen[id] {
			continue
		}
		seen[id] = true
		l.favorites = append(l.favorites, f)
	}
}

func (l *Library) loadPlaylists() {
	raw, ok := l.read(PlaylistsKey)
	if !ok {
		return
	}

	var doc playlistsDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		l.logger.Warn("ignoring corrupt playlists", "key", PlaylistsKey, "error", err)
		return
	}

	l.playlists = doc.Playlists
	l.nextID = max(doc.NextID, 1)

	// Keep the counter ahead of every stored id even if nextId was lost.
	for i, p := range l.playlists {
		if p.Tracks == nil {
			l.playlists[i].Tracks = []models.PlaylistTrack{}
		}
		if n, err := strconv.Atoi(strings.TrimPrefix(p.ID, playlistIDPrefix)); err == nil && n >= l.nextID {
			l.nextID = n + 1
		}
	}
}

// read fetches key, treating storage errors like a missing value.
func (l *Library) read(key string) (string, bool) {
	raw, ok, err := l.kv.Get(key)
	if err != nil {
		l.logger.Warn("starting empty", "error", &PersistenceError{Op: "read", Key: key, Err: err})
		return "", false
	}
	return raw, ok
}

func (l *Library) saveFavorites() {
	favorites := l.favorites
	if favorites == nil {
		favorites = []models.Favorite{}
	}
	l.write(FavoritesKey, favorites)
}

func (l *Library) savePlaylists() {
	playlists := l.playlists
	if playlists == nil {
		playlists = []models.Playlist{}
	}
	l.write(PlaylistsKey, playlistsDocument{Playlists: playlists, NextID: l.nextID})
}

// write serializes v under key. Callers hold l.mu.
func (l *Library) write(key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		l.fail(&PersistenceError{Op: "encode", Key: key, Err: err})
		return
	}
	if err := l.kv.Set(key, string(data)); err != nil {
		l.fail(&PersistenceError{Op: "write", Key: key, Err: err})
		return
	}
	l.lastErr = nil
}

func (l *Library) fail(err *PersistenceError) {
	l.lastErr = err
	l.logger.Error("changes kept in memory only", "error", err)
}

func (l *Library) playlistIndex(id string) int {
	for i, p := range l.playlists {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (l *Library) nextPlaylistID() string {
	id := fmt.Sprintf("%s%d", playlistIDPrefix, l.nextID)
	l.nextID++
	return id
}
