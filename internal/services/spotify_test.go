package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/desertthunder/tocata/internal/shared"
	tu "github.com/desertthunder/tocata/internal/testing"
	"golang.org/x/oauth2"
)

const albumJSON = `{
	"id": "alb1",
	"name": "Almoraima",
	"release_date": "1976-05-01",
	"total_tracks": 2,
	"artists": [{"id": "ar1", "name": "Paco de Lucía"}],
	"images": [{"url": "https://i.scdn.co/large", "height": 640, "width": 640}, {"url": "https://i.scdn.co/small", "height": 64, "width": 64}],
	"tracks": {"total": 2, "items": [
		{"id": "t1", "name": "Almoraima", "duration_ms": 220000, "preview_url": "https://p.scdn.co/1", "artists": [{"id": "ar1", "name": "Paco de Lucía"}]},
		{"id": "t2", "name": "Río Ancho", "duration_ms": 251500, "preview_url": null, "artists": [{"id": "ar1", "name": "Paco de Lucía"}]}
	]}
}`

// fakeSpotify serves the token endpoint and the catalog endpoints used in tests.
type fakeSpotify struct {
	server     *httptest.Server
	tokenCalls atomic.Int32
	lastQuery  atomic.Value
	status     atomic.Int32
}

func newFakeSpotify(t *testing.T) *fakeSpotify {
	t.Helper()

	f := &fakeSpotify{}
	mux := http.NewServeMux()

	mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		f.tokenCalls.Add(1)
		if err := r.ParseForm(); err != nil || r.Form.Get("grant_type") != "client_credentials" {
			http.Error(w, `{"error":"unsupported_grant_type"}`, http.StatusBadRequest)
			return
		}
		if id, secret, ok := r.BasicAuth(); !ok || id != "id" || secret != "secret" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"error":"invalid_client"}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"access_token":"tok-123","token_type":"Bearer","expires_in":3600}`)
	})

	api := func(body string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			f.lastQuery.Store(r.URL.RawQuery)
			if r.Header.Get("Authorization") != "Bearer tok-123" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			if code := f.status.Load(); code != 0 {
				w.WriteHeader(int(code))
				return
			}
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, body)
		}
	}

	mux.HandleFunc("GET /v1/albums/alb1", api(albumJSON))
	mux.HandleFunc("GET /v1/artists/ar1", api(`{"id":"ar1","name":"Paco de Lucía","genres":["flamenco"],"followers":{"total":1200},"popularity":61,"images":[]}`))
	mux.HandleFunc("GET /v1/artists/ar1/albums", api(`{"items":[{"id":"alb1","name":"Almoraima","release_date":"1976","artists":[{"name":"Paco de Lucía"}],"images":[]}],"total":1}`))
	mux.HandleFunc("GET /v1/artists/ar1/top-tracks", api(`{"tracks":[{"id":"t1","name":"Almoraima","duration_ms":220000,"preview_url":"https://p.scdn.co/1","artists":[{"name":"Paco de Lucía"}],"album":{"id":"alb1","name":"Almoraima","images":[{"url":"cover"}]}}]}`))
	mux.HandleFunc("GET /v1/search", api(`{
		"artists": {"items": [{"id":"ar1","name":"Paco de Lucía"}]},
		"albums": {"items": [{"id":"alb1","name":"Almoraima","artists":[{"name":"Paco de Lucía"}]}]},
		"tracks": {"items": [{"id":"t1","name":"Almoraima","duration_ms":1000,"album":{"id":"alb1","name":"Almoraima"}}]}
	}`))

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeSpotify) catalog(t *testing.T, secret string) *SpotifyCatalog {
	t.Helper()

	c, err := NewSpotifyCatalog(SpotifyOptions{
		ClientID:     "id",
		ClientSecret: secret,
		Market:       "ES",
		RateLimit:    1000,
		BaseURL:      f.server.URL + "/v1",
		TokenURL:     f.server.URL + "/token",
		HTTPClient:   f.server.Client(),
		Logger:       shared.NewLogger(io.Discard),
	})
	if err != nil {
		t.Fatalf("failed to create catalog: %v", err)
	}
	return c
}

func TestSpotifyCatalog(t *testing.T) {
	t.Run("NewSpotifyCatalog", func(t *testing.T) {
		t.Run("Missing Client ID", func(t *testing.T) {
			_, err := NewSpotifyCatalog(SpotifyOptions{ClientSecret: "secret"})
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})

		t.Run("Missing Client Secret", func(t *testing.T) {
			_, err := NewSpotifyCatalog(SpotifyOptions{ClientID: "id"})
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})

		t.Run("Defaults", func(t *testing.T) {
			c, err := NewSpotifyCatalog(SpotifyOptions{ClientID: "id", ClientSecret: "secret"})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if c.baseURL != spotifyBaseURL || c.market != defaultMarket {
				t.Errorf("unexpected defaults: %s %s", c.baseURL, c.market)
			}
			if c.httpClient.Timeout != defaultTimeout {
				t.Errorf("expected default timeout, got %v", c.httpClient.Timeout)
			}
			if c.Name() != "Spotify" {
				t.Errorf("expected name Spotify, got %s", c.Name())
			}
		})

		t.Run("From Config", func(t *testing.T) {
			cfg := shared.DefaultConfig()
			if _, err := NewSpotifyCatalogFromConfig(cfg, nil); !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected placeholder credentials to be rejected, got %v", err)
			}

			cfg.Credentials.Spotify.ClientID = "real"
			cfg.Credentials.Spotify.ClientSecret = "real"
			c, err := NewSpotifyCatalogFromConfig(cfg, shared.NewLogger(io.Discard))
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if c.market != cfg.Credentials.Spotify.Market {
				t.Errorf("expected market %s, got %s", cfg.Credentials.Spotify.Market, c.market)
			}
		})
	})

	t.Run("Album", func(t *testing.T) {
		f := newFakeSpotify(t)
		c := f.catalog(t, "secret")

		album, err := c.Album(context.Background(), "alb1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if album.Name != "Almoraima" || album.Year() != "1976" {
			t.Errorf("unexpected album %+v", album)
		}
		if len(album.Tracks) != 2 {
			t.Fatalf("expected 2 tracks, got %d", len(album.Tracks))
		}
		if album.Tracks[0].Album != "Almoraima" || Cover(album.Tracks[0].Images) != "https://i.scdn.co/large" {
			t.Errorf("expected nested tracks to inherit album fields, got %+v", album.Tracks[0])
		}
		if album.Tracks[1].PreviewURL != "" {
			t.Errorf("expected empty preview for null, got %q", album.Tracks[1].PreviewURL)
		}
		if q := f.lastQuery.Load().(string); !strings.Contains(q, "market=ES") {
			t.Errorf("expected market in query, got %s", q)
		}

		model := album.Model()
		if model.Artist != "Paco de Lucía" || model.Cover != "https://i.scdn.co/large" {
			t.Errorf("unexpected model %+v", model)
		}
		if model.Tracks[0].Duration != "3:40" || model.Tracks[1].Duration != "4:11" {
			t.Errorf("unexpected durations %s %s", model.Tracks[0].Duration, model.Tracks[1].Duration)
		}
		if model.Tracks[0].AudioFile != "https://p.scdn.co/1" {
			t.Errorf("expected preview as audio file, got %q", model.Tracks[0].AudioFile)
		}
	})

	t.Run("Artist", func(t *testing.T) {
		f := newFakeSpotify(t)
		c := f.catalog(t, "secret")

		artist, err := c.Artist(context.Background(), "ar1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if artist.Followers != 1200 || artist.Genres[0] != "flamenco" {
			t.Errorf("unexpected artist %+v", artist)
		}

		albums, err := c.ArtistAlbums(context.Background(), "ar1", 500)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(albums) != 1 || albums[0].ID != "alb1" {
			t.Errorf("unexpected albums %+v", albums)
		}
		if q := f.lastQuery.Load().(string); !strings.Contains(q, "limit=50") {
			t.Errorf("expected limit clamped to 50, got %s", q)
		}

		top, err := c.ArtistTopTracks(context.Background(), "ar1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(top) != 1 || top[0].AlbumID != "alb1" || Cover(top[0].Images) != "cover" {
			t.Errorf("unexpected top tracks %+v", top)
		}
	})

	t.Run("Missing Ids", func(t *testing.T) {
		c := newFakeSpotify(t).catalog(t, "secret")
		ctx := context.Background()

		if _, err := c.Album(ctx, ""); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("Album: expected ErrMissingArgument, got %v", err)
		}
		if _, err := c.Artist(ctx, ""); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("Artist: expected ErrMissingArgument, got %v", err)
		}
		if _, err := c.ArtistAlbums(ctx, "", 5); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("ArtistAlbums: expected ErrMissingArgument, got %v", err)
		}
		if _, err := c.ArtistTopTracks(ctx, ""); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("ArtistTopTracks: expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("Search", func(t *testing.T) {
		f := newFakeSpotify(t)
		c := f.catalog(t, "secret")

		result, err := c.Search(context.Background(), "  paco ", -4, nil, 0)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(result.Artists) != 1 || len(result.Albums) != 1 || len(result.Tracks) != 1 {
			t.Errorf("unexpected result %+v", result)
		}

		q := f.lastQuery.Load().(string)
		for _, want := range []string{"q=paco", "type=artist%2Calbum%2Ctrack", "offset=0", "limit=20"} {
			if !strings.Contains(q, want) {
				t.Errorf("expected %s in query %s", want, q)
			}
		}

		t.Run("Subset Of Types", func(t *testing.T) {
			if _, err := c.Search(context.Background(), "paco", 10, []string{"album"}, 5); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			q := f.lastQuery.Load().(string)
			if !strings.Contains(q, "type=album&") && !strings.HasSuffix(q, "type=album") {
				t.Errorf("expected single type in query %s", q)
			}
		})

		t.Run("Invalid Arguments", func(t *testing.T) {
			if _, err := c.Search(context.Background(), "   ", 0, nil, 0); !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument for empty query, got %v", err)
			}
			if _, err := c.Search(context.Background(), "x", 0, []string{"genre"}, 0); !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument for unknown type, got %v", err)
			}
		})
	})

	t.Run("Token Reuse", func(t *testing.T) {
		f := newFakeSpotify(t)
		c := f.catalog(t, "secret")

		var refreshed int
		c.SetTokenRefreshCallback(func(*oauth2.Token) { refreshed++ })

		for range 3 {
			if _, err := c.Artist(context.Background(), "ar1"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		}
		if got := f.tokenCalls.Load(); got != 1 {
			t.Errorf("expected a single token request, got %d", got)
		}
		if refreshed != 1 {
			t.Errorf("expected callback once, got %d", refreshed)
		}

		token, err := c.TokenSource().Token()
		if err != nil || token.AccessToken != "tok-123" {
			t.Errorf("unexpected token %v %v", token, err)
		}
	})

	t.Run("Errors", func(t *testing.T) {
		t.Run("Rejected Credentials", func(t *testing.T) {
			c := newFakeSpotify(t).catalog(t, "wrong")
			_, err := c.Artist(context.Background(), "ar1")
			if !errors.Is(err, shared.ErrAuthFailed) {
				t.Errorf("expected ErrAuthFailed, got %v", err)
			}
		})

		tests := []struct {
			status int
			want   error
		}{
			{http.StatusUnauthorized, shared.ErrAuthFailed},
			{http.StatusTooManyRequests, shared.ErrServiceUnavailable},
			{http.StatusBadGateway, shared.ErrServiceUnavailable},
			{http.StatusNotFound, shared.ErrAPIRequest},
		}
		for _, tt := range tests {
			t.Run(fmt.Sprintf("Status %d", tt.status), func(t *testing.T) {
				f := newFakeSpotify(t)
				c := f.catalog(t, "secret")
				f.status.Store(int32(tt.status))

				_, err := c.Album(context.Background(), "alb1")
				if !errors.Is(err, tt.want) {
					t.Errorf("expected %v, got %v", tt.want, err)
				}
			})
		}

		t.Run("Transport Failure", func(t *testing.T) {
			c, err := NewSpotifyCatalog(SpotifyOptions{
				ClientID:     "id",
				ClientSecret: "secret",
				HTTPClient:   &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused"))},
				Logger:       shared.NewLogger(io.Discard),
			})
			if err != nil {
				t.Fatalf("failed to create catalog: %v", err)
			}

			_, err = c.Artist(context.Background(), "ar1")
			if err == nil || !strings.Contains(err.Error(), "connection refused") {
				t.Errorf("expected transport error, got %v", err)
			}
		})

		t.Run("Cancelled Context", func(t *testing.T) {
			c := newFakeSpotify(t).catalog(t, "secret")
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			if _, err := c.Artist(ctx, "ar1"); err == nil {
				t.Error("expected error for cancelled context")
			}
		})

		t.Run("Malformed Body", func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == "/token" {
					w.Header().Set("Content-Type", "application/json")
					json.NewEncoder(w).Encode(map[string]any{"access_token": "x", "token_type": "Bearer"})
					return
				}
				io.WriteString(w, "{not json")
			}))
			defer srv.Close()

			c, err := NewSpotifyCatalog(SpotifyOptions{
				ClientID: "id", ClientSecret: "secret",
				BaseURL: srv.URL, TokenURL: srv.URL + "/token",
				HTTPClient: srv.Client(), Logger: shared.NewLogger(io.Discard),
			})
			if err != nil {
				t.Fatalf("failed to create catalog: %v", err)
			}
			if _, err := c.Artist(context.Background(), "ar1"); err == nil || !strings.Contains(err.Error(), "decode") {
				t.Errorf("expected decode error, got %v", err)
			}
		})
	})
}

func TestModels(t *testing.T) {
	t.Run("Track Model", func(t *testing.T) {
		track := Track{
			Name:       "Entre Dos Aguas",
			Artists:    []string{"Paco de Lucía", "Ramón de Algeciras"},
			Album:      "Fuente y Caudal",
			DurationMS: 352000,
			PreviewURL: "p.mp3",
		}

		m := track.Model()
		if m.Artist != "Paco de Lucía, Ramón de Algeciras" {
			t.Errorf("expected joined artists, got %q", m.Artist)
		}
		if m.Duration != "5:52" {
			t.Errorf("expected 5:52, got %s", m.Duration)
		}
		if m.Cover != "" {
			t.Errorf("expected empty cover, got %q", m.Cover)
		}
	})

	t.Run("Year", func(t *testing.T) {
		for date, want := range map[string]string{"1976-05-01": "1976", "1981": "1981", "": ""} {
			if got := (Album{ReleaseDate: date}).Year(); got != want {
				t.Errorf("Year(%q) = %q, want %q", date, got, want)
			}
		}
	})

	t.Run("Catalog Interface", func(t *testing.T) {
		var _ Catalog = &SpotifyCatalog{}
	})
}
