package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/tocata/internal/models"
	"github.com/desertthunder/tocata/internal/player"
	"github.com/desertthunder/tocata/internal/services"
	"github.com/desertthunder/tocata/internal/shared"
	"github.com/desertthunder/tocata/internal/storage"
	tu "github.com/desertthunder/tocata/internal/testing"
	"github.com/urfave/cli/v3"
)

// mockCatalog serves a single artist with two albums.
type mockCatalog struct{}

func previewTrack(album, name string) services.Track {
	return services.Track{
		ID:         album + "-" + name,
		Name:       name,
		Artists:    []string{"Camarón"},
		Album:      album,
		DurationMS: 185000,
		PreviewURL: "https://p.scdn.co/mp3-preview/" + name,
	}
}

var mockAlbums = map[string]*services.Album{
	"leyenda": {ID: "leyenda", Name: "La Leyenda del Tiempo", Artists: []string{"Camarón"}, ReleaseDate: "1979-01-01", TotalTracks: 2, Tracks: []services.Track{
		previewTrack("La Leyenda del Tiempo", "Volando Voy"),
		previewTrack("La Leyenda del Tiempo", "La Tarara"),
	}},
	"gitano": {ID: "gitano", Name: "Soy Gitano", Artists: []string{"Camarón"}, ReleaseDate: "1989", TotalTracks: 1, Tracks: []services.Track{
		previewTrack("Soy Gitano", "Soy Gitano"),
	}},
}

func (mockCatalog) Search(ctx context.Context, query string, offset int, types []string, limit int) (*services.SearchResult, error) {
	if query == "nothing" {
		return &services.SearchResult{}, nil
	}
	return &services.SearchResult{
		Artists: []services.Artist{{ID: "camaron", Name: "Camarón de la Isla"}},
		Albums:  []services.Album{*mockAlbums["leyenda"]},
		Tracks:  []services.Track{previewTrack("Soy Gitano", "Soy Gitano"), {Name: "Rare Take", Artists: []string{"Camarón"}}},
	}, nil
}

func (mockCatalog) Album(ctx context.Context, id string) (*services.Album, error) {
	if a, ok := mockAlbums[id]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("%w: status 404", shared.ErrAPIRequest)
}

func (mockCatalog) Artist(ctx context.Context, id string) (*services.Artist, error) {
	return &services.Artist{ID: id, Name: "Camarón de la Isla", Genres: []string{"flamenco"}, Followers: 100}, nil
}

func (mockCatalog) ArtistAlbums(ctx context.Context, id string, limit int) ([]services.Album, error) {
	return []services.Album{{ID: "leyenda", Name: "La Leyenda del Tiempo"}, {ID: "gitano", Name: "Soy Gitano"}}, nil
}

func (mockCatalog) ArtistTopTracks(ctx context.Context, id string) ([]services.Track, error) {
	return []services.Track{previewTrack("Soy Gitano", "Soy Gitano"), previewTrack("X", "Como el Agua")}, nil
}

// endingDeck finishes every track as soon as it starts.
type endingDeck struct {
	played []string
}

func (d *endingDeck) Attach(track models.Track, onEnd func()) error {
	d.played = append(d.played, track.Name)
	go onEnd()
	return nil
}

func (d *endingDeck) Detach() error { return nil }

type testEnv struct {
	runner *Runner
	out    *bytes.Buffer
	store  *storage.Memory
}

func newTestEnv(t *testing.T, catalog services.Catalog) *testEnv {
	t.Helper()
	out := &bytes.Buffer{}
	store := storage.NewMemory()
	r := NewRunner(RunnerOpts{
		Catalog: catalog,
		Store:   store,
		Logger:  shared.NewLogger(io.Discard),
		Output:  out,
	})
	return &testEnv{runner: r, out: out, store: store}
}

// run executes a CLI invocation and returns what it printed.
func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	e.out.Reset()
	app := &cli.Command{Name: "tocata", Commands: e.runner.register(), Writer: io.Discard, ErrWriter: io.Discard}
	err := app.Run(context.Background(), append([]string{"tocata"}, args...))
	return e.out.String(), err
}

func (e *testEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, args...)
	if err != nil {
		t.Fatalf("%s: %v", strings.Join(args, " "), err)
	}
	return out
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			store := storage.NewMemory()
			deck := player.SilentDeck{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				ConfigPath: "/test/path/config.toml",
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				Catalog:    mockCatalog{},
				Store:      store,
				Deck:       deck,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.catalog == nil {
				t.Error("expected catalog to be set")
			}
			if runner.store != store {
				t.Error("expected store to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})
			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil httpClient uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{HTTPClient: nil})
			if runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if result := output.String(); result != expected {
				t.Errorf("expected %q, got %q", expected, result)
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			// channels cannot be marshaled to JSON
			err := runner.writeJSON(make(chan int), false)
			if err == nil || !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if result := output.String(); result != "hello world" {
				t.Errorf("expected 'hello world', got %q", result)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		want := []string{"setup", "favorites", "playlists", "catalog", "import", "play", "tui", "serve", "reset"}
		if len(commands) != len(want) {
			t.Fatalf("expected %d commands, got %d", len(want), len(commands))
		}
		for i, cmd := range commands {
			if cmd == nil || cmd.Name != want[i] {
				t.Errorf("command %d: expected %s, got %+v", i, want[i], cmd)
			}
		}
	})

	t.Run("lib", func(t *testing.T) {
		t.Run("opens once", func(t *testing.T) {
			env := newTestEnv(t, nil)
			first, err := env.runner.lib()
			if err != nil {
				t.Fatal(err)
			}
			second, _ := env.runner.lib()
			if first != second {
				t.Error("expected the same library instance")
			}
		})

		t.Run("opens the configured backend", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Storage.Driver = "file"
			config.Storage.Dir = t.TempDir()
			runner := NewRunner(RunnerOpts{Config: config, Logger: shared.NewLogger(io.Discard)})
			defer runner.Close()

			lib, err := runner.lib()
			if err != nil {
				t.Fatal(err)
			}
			if _, err := lib.CreatePlaylist("Disk", ""); err != nil {
				t.Fatal(err)
			}
			tu.AssertFileExists(t, filepath.Join(config.Storage.Dir, "tocata:playlists.json"))
		})

		t.Run("unknown driver", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Storage.Driver = "floppy"
			runner := NewRunner(RunnerOpts{Config: config, Logger: shared.NewLogger(io.Discard)})

			_, err := runner.lib()
			if !errors.Is(err, shared.ErrPersistence) {
				t.Errorf("expected persistence error, got %v", err)
			}
		})
	})

	t.Run("requireCatalog", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		if err := runner.requireCatalog(); !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected missing credentials, got %v", err)
		}
	})
}

func TestPlaylistCommands(t *testing.T) {
	env := newTestEnv(t, mockCatalog{})

	out := env.mustRun(t, "playlists", "create", "--description", "summer", "Road Trip")
	if !strings.Contains(out, "ID: pl-1") {
		t.Fatalf("unexpected create output %q", out)
	}

	env.mustRun(t, "playlists", "add-track", "--name", "Entre Dos Aguas", "--artist", "Paco de Lucía", "--audio", "a.mp3", "--duration", "5:52", "pl-1")
	out = env.mustRun(t, "playlists", "add-track", "--name", "Entre Dos Aguas", "--artist", "Paco de Lucía", "--audio", "a.mp3", "pl-1")
	if !strings.Contains(out, "already in the playlist") {
		t.Errorf("expected duplicate notice, got %q", out)
	}

	out = env.mustRun(t, "playlists", "add-album", "--album-id", "leyenda", "pl-1")
	if !strings.Contains(out, "Added 2 of 2 tracks") {
		t.Errorf("unexpected add-album output %q", out)
	}

	out = env.mustRun(t, "playlists", "list")
	if !strings.Contains(out, "Road Trip") || !strings.Contains(out, "Tracks: 3") {
		t.Errorf("unexpected list output %q", out)
	}

	out = env.mustRun(t, "playlists", "show", "--json", "pl-1")
	var shown models.Playlist
	if err := json.Unmarshal([]byte(out), &shown); err != nil {
		t.Fatalf("show --json: %v", err)
	}
	if len(shown.Tracks) != 3 || shown.Description != "summer" {
		t.Errorf("unexpected playlist %+v", shown)
	}

	env.mustRun(t, "playlists", "rename", "--name", "Road Trip 2", "pl-1")
	out = env.mustRun(t, "playlists", "show", "pl-1")
	if !strings.Contains(out, "Road Trip 2") {
		t.Errorf("rename not applied: %q", out)
	}

	env.mustRun(t, "playlists", "remove-track", "pl-1", shown.Tracks[0].ID)
	out = env.mustRun(t, "playlists", "export", "--format", "text", "pl-1")
	if !strings.Contains(out, "Tracks: 2") {
		t.Errorf("unexpected export %q", out)
	}

	t.Run("errors", func(t *testing.T) {
		tests := []struct {
			name string
			args []string
			want error
		}{
			{"show unknown", []string{"playlists", "show", "pl-9"}, shared.ErrPlaylistNotFound},
			{"show missing id", []string{"playlists", "show"}, shared.ErrMissingArgument},
			{"create blank", []string{"playlists", "create", "  "}, shared.ErrInvalidInput},
			{"rename nothing", []string{"playlists", "rename", "pl-1"}, shared.ErrMissingArgument},
			{"remove unknown track", []string{"playlists", "remove-track", "pl-1", "nope"}, shared.ErrTrackNotFound},
			{"unknown album", []string{"playlists", "add-album", "--album-id", "nope", "pl-1"}, shared.ErrAPIRequest},
			{"bad format", []string{"playlists", "export", "--format", "pdf", "pl-1"}, shared.ErrInvalidArgument},
			{"delete unknown", []string{"playlists", "delete", "pl-9"}, shared.ErrPlaylistNotFound},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if _, err := env.run(t, tt.args...); !errors.Is(err, tt.want) {
					t.Errorf("expected %v, got %v", tt.want, err)
				}
			})
		}
	})

	t.Run("export to files", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "road.json")
		env.mustRun(t, "playlists", "export", "--format", "json", "--output", path, "pl-1")
		tu.AssertFileExists(t, path)

		all := filepath.Join(dir, "all")
		out := env.mustRun(t, "playlists", "export", "--all", "--format", "csv", "--dir", all)
		if !strings.Contains(out, "Exported: 1/1") {
			t.Errorf("unexpected bulk output %q", out)
		}
		tu.AssertFileExists(t, filepath.Join(all, "pl-1_tracks.csv"))
		tu.AssertFileExists(t, filepath.Join(all, "export_manifest.json"))
	})

	env.mustRun(t, "playlists", "delete", "pl-1")
	out = env.mustRun(t, "playlists", "list")
	if !strings.Contains(out, "No playlists yet") {
		t.Errorf("expected empty list, got %q", out)
	}
}

func TestFavoriteCommands(t *testing.T) {
	env := newTestEnv(t, nil)
	track := []string{"--name", "Soy Gitano", "--artist", "Camarón", "--album", "Soy Gitano", "--audio", "b.mp3"}

	out := env.mustRun(t, append([]string{"favorites", "add"}, track...)...)
	if !strings.Contains(out, "Added Soy Gitano") {
		t.Errorf("unexpected add output %q", out)
	}
	out = env.mustRun(t, append([]string{"favorites", "add"}, track...)...)
	if !strings.Contains(out, "already a favorite") {
		t.Errorf("unexpected duplicate output %q", out)
	}

	out = env.mustRun(t, "favorites", "list", "--json")
	var favs []models.Favorite
	if err := json.Unmarshal([]byte(out), &favs); err != nil {
		t.Fatalf("list --json: %v", err)
	}
	if len(favs) != 1 {
		t.Fatalf("expected 1 favorite, got %d", len(favs))
	}

	out = env.mustRun(t, append([]string{"favorites", "toggle"}, track...)...)
	if !strings.Contains(out, "removed from favorites") {
		t.Errorf("unexpected toggle output %q", out)
	}
	out = env.mustRun(t, append([]string{"favorites", "toggle"}, track...)...)
	if !strings.Contains(out, "now a favorite") {
		t.Errorf("unexpected toggle output %q", out)
	}

	out = env.mustRun(t, "favorites", "export", "--format", "markdown")
	if !strings.Contains(out, "# Favorites") {
		t.Errorf("unexpected export %q", out)
	}

	out = env.mustRun(t, "favorites", "remove", "--name", "Soy Gitano", "--artist", "Camarón", "--album", "Soy Gitano")
	if !strings.Contains(out, "Removed Soy Gitano") {
		t.Errorf("unexpected remove output %q", out)
	}
	out = env.mustRun(t, "favorites", "remove", "--name", "Soy Gitano", "--artist", "Camarón", "--album", "Soy Gitano")
	if !strings.Contains(out, "is not a favorite") {
		t.Errorf("unexpected remove output %q", out)
	}

	env.mustRun(t, append([]string{"favorites", "add"}, track...)...)
	out = env.mustRun(t, "favorites", "clear")
	if !strings.Contains(out, "Cleared 1 favorites") {
		t.Errorf("unexpected clear output %q", out)
	}
	if v, ok, _ := env.store.Get("tocata:favorites"); !ok || v != "[]" {
		t.Errorf("expected persisted empty list, got %q (present=%v)", v, ok)
	}

	t.Run("invalid track", func(t *testing.T) {
		_, err := env.run(t, "playlists", "create", "X")
		if err != nil {
			t.Fatal(err)
		}
		_, err = env.run(t, "playlists", "add-track", "--name", "  ", "--audio", "x.mp3", "pl-1")
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected invalid input, got %v", err)
		}
	})
}

func TestCatalogCommands(t *testing.T) {
	env := newTestEnv(t, mockCatalog{})

	out := env.mustRun(t, "catalog", "search", "camaron")
	for _, want := range []string{"Artists:", "Camarón de la Isla", "La Leyenda del Tiempo (1979)", "3:05", "(no preview)"} {
		if !strings.Contains(out, want) {
			t.Errorf("search output missing %q:\n%s", want, out)
		}
	}

	out = env.mustRun(t, "catalog", "search", "nothing")
	if !strings.Contains(out, "No results") {
		t.Errorf("unexpected empty search output %q", out)
	}

	out = env.mustRun(t, "catalog", "album", "leyenda")
	if !strings.Contains(out, "Volando Voy") || !strings.Contains(out, "2 tracks") {
		t.Errorf("unexpected album output %q", out)
	}

	out = env.mustRun(t, "catalog", "artist", "--json", "camaron")
	var artist struct {
		Artist    services.Artist  `json:"artist"`
		Albums    []services.Album `json:"albums"`
		TopTracks []services.Track `json:"top_tracks"`
	}
	if err := json.Unmarshal([]byte(out), &artist); err != nil {
		t.Fatalf("artist --json: %v", err)
	}
	if len(artist.Albums) != 2 || len(artist.TopTracks) != 2 {
		t.Errorf("unexpected artist document %+v", artist)
	}

	t.Run("without credentials", func(t *testing.T) {
		env := newTestEnv(t, nil)
		if _, err := env.run(t, "catalog", "search", "x"); !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected missing credentials, got %v", err)
		}
	})
}

func TestImportCommands(t *testing.T) {
	env := newTestEnv(t, mockCatalog{})

	out := env.mustRun(t, "import", "album", "--new", "Camarón", "leyenda", "gitano")
	if !strings.Contains(out, "Import Complete!") || !strings.Contains(out, "Added: 3") {
		t.Errorf("unexpected import output %q", out)
	}

	out = env.mustRun(t, "import", "top-tracks", "--playlist", "pl-1", "camaron")
	if !strings.Contains(out, "Added: 1") || !strings.Contains(out, "Skipped: 1") {
		t.Errorf("unexpected top-tracks output %q", out)
	}

	out = env.mustRun(t, "import", "discography", "--new", "All", "camaron")
	if !strings.Contains(out, "Added: 3") {
		t.Errorf("unexpected discography output %q", out)
	}

	out, err := env.run(t, "import", "album", "--new", "Broken", "nope")
	if err == nil {
		t.Error("expected an error when every album fails")
	}
	if !strings.Contains(out, "nope:") {
		t.Errorf("failed album should be listed: %q", out)
	}

	if _, err := env.run(t, "import", "album", "--new", "Empty"); !errors.Is(err, shared.ErrMissingArgument) {
		t.Errorf("expected missing argument, got %v", err)
	}
}

func TestPlayCommand(t *testing.T) {
	t.Run("plays to the end", func(t *testing.T) {
		env := newTestEnv(t, nil)
		deck := &endingDeck{}
		env.runner.deck = deck

		env.mustRun(t, "playlists", "create", "Road Trip")
		env.mustRun(t, "playlists", "add-track", "--name", "One", "--audio", "1.mp3", "pl-1")
		env.mustRun(t, "playlists", "add-track", "--name", "Two", "--audio", "2.mp3", "pl-1")

		out := env.mustRun(t, "play", "--playlist", "pl-1")
		if !strings.Contains(out, "[1/2]") || !strings.Contains(out, "[2/2]") || !strings.Contains(out, "End of Road Trip") {
			t.Errorf("unexpected play output %q", out)
		}
		if strings.Join(deck.played, ",") != "One,Two" {
			t.Errorf("unexpected play order %v", deck.played)
		}
	})

	t.Run("cancelled context stops", func(t *testing.T) {
		env := newTestEnv(t, nil)
		env.runner.deck = player.SilentDeck{}
		env.mustRun(t, "favorites", "add", "--name", "One", "--audio", "1.mp3")

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		app := &cli.Command{Name: "tocata", Commands: env.runner.register(), Writer: io.Discard}
		if err := app.Run(ctx, []string{"tocata", "play"}); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(env.out.String(), "Stopped") {
			t.Errorf("expected stop message, got %q", env.out.String())
		}
	})

	t.Run("errors", func(t *testing.T) {
		env := newTestEnv(t, nil)
		env.runner.deck = &endingDeck{}

		if _, err := env.run(t, "play"); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected empty favorites error, got %v", err)
		}
		if _, err := env.run(t, "play", "--playlist", "pl-4"); !errors.Is(err, shared.ErrPlaylistNotFound) {
			t.Errorf("expected playlist not found, got %v", err)
		}
		if _, err := env.run(t, "play", "--repeat", "forever"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected invalid repeat, got %v", err)
		}

		env.mustRun(t, "favorites", "add", "--name", "One", "--audio", "1.mp3")
		if _, err := env.run(t, "play", "--start", "5"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected out of range error, got %v", err)
		}
	})
}

func TestSetupAndReset(t *testing.T) {
	t.Run("setup config", func(t *testing.T) {
		env := newTestEnv(t, nil)
		path := filepath.Join(t.TempDir(), "config.toml")

		out := env.mustRun(t, "setup", "config", "--config", path)
		if !strings.Contains(out, "Wrote") {
			t.Errorf("unexpected output %q", out)
		}
		tu.AssertFileExists(t, path)

		out = env.mustRun(t, "setup", "config", "--config", path)
		if !strings.Contains(out, "already exists") {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("setup database", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.Storage.Path = filepath.Join(t.TempDir(), "tocata.db")
		out := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Config: config, Logger: shared.NewLogger(io.Discard), Output: out})
		defer runner.Close()

		app := &cli.Command{Name: "tocata", Commands: runner.register(), Writer: io.Discard}
		if err := app.Run(context.Background(), []string{"tocata", "setup", "database"}); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(out.String(), "Storage ready (sqlite") || !strings.Contains(out.String(), "Schema version: 0") || !strings.Contains(out.String(), "Playlists: 0") {
			t.Errorf("unexpected output %q", out.String())
		}
		tu.AssertFileExists(t, config.Storage.Path)
	})

	t.Run("reset", func(t *testing.T) {
		env := newTestEnv(t, nil)
		env.mustRun(t, "playlists", "create", "Gone")

		if _, err := env.run(t, "reset"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected confirmation error, got %v", err)
		}
		env.mustRun(t, "reset", "--yes")
		if _, ok, _ := env.store.Get("tocata:playlists"); ok {
			t.Error("expected playlists key removed")
		}
		out := env.mustRun(t, "playlists", "list")
		if !strings.Contains(out, "No playlists yet") {
			t.Errorf("unexpected list after reset %q", out)
		}
	})
}

func TestServeCommand(t *testing.T) {
	runner := NewRunner(RunnerOpts{Store: storage.NewMemory(), Logger: shared.NewLogger(io.Discard), Output: io.Discard})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	app := &cli.Command{Name: "tocata", Commands: runner.register(), Writer: io.Discard}
	if err := app.Run(ctx, []string{"tocata", "serve", "--port", "0"}); err != nil {
		t.Fatalf("serve returned %v", err)
	}
}
