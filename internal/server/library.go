package server

import (
	"net/http"

	"github.com/desertthunder/tocata/internal/models"
)

// LibraryReader is the read side of the library store.
type LibraryReader interface {
	Favorites() []models.Favorite
	AllPlaylists() []models.Playlist
	GetPlaylist(id string) (models.Playlist, bool)
}

// LibraryHandler serves the favorites and playlists read-only.
type LibraryHandler struct {
	library LibraryReader
	mux     *http.ServeMux
}

// NewLibraryHandler creates a handler over lib.
func NewLibraryHandler(lib LibraryReader) *LibraryHandler {
	h := &LibraryHandler{library: lib, mux: http.NewServeMux()}
	h.mux.HandleFunc("GET /api/favorites", h.favorites)
	h.mux.HandleFunc("GET /api/playlists", h.playlists)
	h.mux.HandleFunc("GET /api/playlists/{id}", h.playlist)
	return h
}

// Routes returns the HTTP routes this handler serves.
func (h *LibraryHandler) Routes() []string {
	return []string{"/api/favorites", "/api/playlists", "/api/playlists/{id}"}
}

func (h *LibraryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *LibraryHandler) favorites(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.library.Favorites())
}

func (h *LibraryHandler) playlists(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.library.AllPlaylists())
}

func (h *LibraryHandler) playlist(w http.ResponseWriter, r *http.Request) {
	p, ok := h.library.GetPlaylist(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "playlist not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HealthHandler reports liveness.
type HealthHandler struct{}

func (HealthHandler) Routes() []string { return []string{"/health"} }

func (HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
