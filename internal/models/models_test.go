package models

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/tocata/internal/shared"
)

func TestNormalize(t *testing.T) {
	tc := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "only whitespace", input: " \t\n ", want: ""},
		{name: "mixed case", input: "SoNg TiTlE", want: "song-title"},
		{name: "extra whitespace", input: "  Song   Title  ", want: "song-title"},
		{name: "tabs and newlines", input: "a\tb\nc", want: "a-b-c"},
		{name: "unicode", input: "Canción  Número Ünö", want: "canción-número-ünö"},
		{name: "already normalized", input: "rock-en-español", want: "rock-en-español"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIdentity(t *testing.T) {
	t.Run("equal tuples ignore other fields", func(t *testing.T) {
		a := Track{Name: "Clocks", Artist: "Coldplay", Album: "A Rush of Blood", Duration: "5:07"}
		b := Track{Name: " clocks ", Artist: "COLDPLAY", Album: "a  rush of blood", Duration: "0:00", Cover: "x.jpg"}

		if a.Identity() != b.Identity() {
			t.Errorf("expected equal identities, got %+v and %+v", a.Identity(), b.Identity())
		}
	})

	t.Run("Key joins with underscore", func(t *testing.T) {
		key := IdentityOf("Clocks", "Coldplay", "A Rush of Blood").Key()
		if key != "coldplay_a-rush-of-blood_clocks" {
			t.Errorf("unexpected key %q", key)
		}
	})

	t.Run("NewFavorite derives id", func(t *testing.T) {
		now := time.Now()
		fav := NewFavorite(Track{Name: "Yellow", Artist: "Coldplay", Album: "Parachutes"}, now)
		if fav.ID != "coldplay_parachutes_yellow" {
			t.Errorf("unexpected favorite id %q", fav.ID)
		}
		if !fav.AddedAt.Equal(now) {
			t.Error("expected addedAt to be preserved")
		}
	})
}

func TestNormalizeTrack(t *testing.T) {
	t.Run("fills defaults", func(t *testing.T) {
		got := NormalizeTrack(Track{Name: "  Intro ", AudioFile: "intro.mp3"})

		if got.Name != "Intro" {
			t.Errorf("expected trimmed name, got %q", got.Name)
		}
		if got.Artist != UnknownField || got.Album != UnknownField {
			t.Errorf("expected unknown artist/album, got %q/%q", got.Artist, got.Album)
		}
		if got.Duration != DefaultDuration {
			t.Errorf("expected default duration, got %q", got.Duration)
		}
	})

	t.Run("keeps provided values", func(t *testing.T) {
		in := Track{Name: "A", Artist: "B", Album: "C", AudioFile: "a.mp3", Duration: "3:10", Cover: "c.jpg"}
		if got := NormalizeTrack(in); got != in {
			t.Errorf("expected %+v, got %+v", in, got)
		}
	})
}

func TestTrackValidate(t *testing.T) {
	tc := []struct {
		name    string
		track   Track
		wantErr bool
	}{
		{name: "valid", track: Track{Name: "A", AudioFile: "a.mp3"}},
		{name: "missing name", track: Track{AudioFile: "a.mp3"}, wantErr: true},
		{name: "blank name", track: Track{Name: "   ", AudioFile: "a.mp3"}, wantErr: true},
		{name: "missing audio", track: Track{Name: "A"}, wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.track.Validate()
			if tt.wantErr && !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}

	t.Run("reason names the missing field", func(t *testing.T) {
		var invalid *InvalidTrackError
		if !errors.As(Track{Name: "A"}.Validate(), &invalid) {
			t.Fatal("expected an InvalidTrackError")
		}
		if !strings.Contains(invalid.Reason, "audio reference") {
			t.Errorf("unexpected reason %q", invalid.Reason)
		}
	})
}

func TestPlaylist(t *testing.T) {
	t.Run("Clone is independent", func(t *testing.T) {
		p := Playlist{ID: "pl-1", Tracks: []PlaylistTrack{{Track: Track{Name: "A"}, ID: "t1"}}}
		c := p.Clone()
		c.Tracks[0].Name = "changed"

		if p.Tracks[0].Name != "A" {
			t.Error("mutating the clone changed the original")
		}
	})

	t.Run("JSON shape is flat", func(t *testing.T) {
		pt := PlaylistTrack{Track: Track{Name: "A", AudioFile: "a.mp3"}, ID: "t1"}
		data, err := json.Marshal(pt)
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		if !strings.Contains(string(data), `"audioFile":"a.mp3"`) || !strings.Contains(string(data), `"id":"t1"`) {
			t.Errorf("unexpected JSON %s", data)
		}
	})

	t.Run("SameRecording compares raw fields", func(t *testing.T) {
		a := Track{Name: "A", Artist: "B", Album: "C", AudioFile: "a.mp3"}
		b := a
		b.Cover = "other.jpg"
		if !a.SameRecording(b) {
			t.Error("expected same recording when only cover differs")
		}
		b.AudioFile = "b.mp3"
		if a.SameRecording(b) {
			t.Error("different audio reference should be a different recording")
		}
	})
}
