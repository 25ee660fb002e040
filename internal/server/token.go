package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"
)

// TokenResponse is the body served by [TokenHandler].
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// TokenHandler hands out catalog access tokens so clients never see the client secret.
// Implements the Handler interface for registration with a Router.
type TokenHandler struct {
	source oauth2.TokenSource
	logger *log.Logger
	now    func() time.Time
}

// NewTokenHandler creates a handler serving tokens from source, which should cache tokens
// (see [oauth2.ReuseTokenSource]).
func NewTokenHandler(source oauth2.TokenSource, logger *log.Logger) *TokenHandler {
	return &TokenHandler{source: source, logger: logger, now: time.Now}
}

// Routes returns the HTTP routes this handler serves.
func (h *TokenHandler) Routes() []string {
	return []string{"/api/token"}
}

// ServeHTTP writes the current access token and its remaining lifetime in seconds.
func (h *TokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	token, err := h.source.Token()
	if err != nil {
		h.logger.Error("failed to obtain access token", "error", err)
		writeError(w, http.StatusBadGateway, "failed to obtain access token")
		return
	}

	resp := TokenResponse{
		AccessToken: token.AccessToken,
		TokenType:   token.Type(),
	}
	if !token.Expiry.IsZero() {
		resp.ExpiresIn = max(int(token.Expiry.Sub(h.now()).Seconds()), 0)
	}

	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
