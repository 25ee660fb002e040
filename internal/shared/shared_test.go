package shared

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestFormatDuration(t *testing.T) {
	tc := []struct {
		name    string
		seconds int
		want    string
	}{
		{name: "zero", seconds: 0, want: "0:00"},
		{name: "under a minute", seconds: 7, want: "0:07"},
		{name: "minutes and seconds", seconds: 215, want: "3:35"},
		{name: "over an hour", seconds: 3725, want: "62:05"},
		{name: "negative clamps", seconds: -4, want: "0:00"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDuration(tt.seconds); got != tt.want {
				t.Errorf("FormatDuration(%d) = %v, want %v", tt.seconds, got, tt.want)
			}
		})
	}

	if got := FormatDurationMS(215_999); got != "3:35" {
		t.Errorf("FormatDurationMS truncates milliseconds, got %s", got)
	}
}

func TestLoggers(t *testing.T) {
	t.Run("NewLogger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := WithLogger(NewLogger(&buf), "component", "test")
		logger.Info("hello")

		if !strings.Contains(buf.String(), "component=test") {
			t.Errorf("expected child logger fields in output, got %q", buf.String())
		}
	})

	t.Run("NewFileLogger", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "tocata.log")
		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("NewFileLogger failed: %v", err)
		}
		logger.Info("written")
	})
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	if a == "" || a == b {
		t.Errorf("expected distinct non-empty ids, got %q and %q", a, b)
	}
}

func TestBrowserCommand(t *testing.T) {
	tests := []struct {
		goos string
		want string
	}{
		{"darwin", "open https://example.com"},
		{"linux", "xdg-open https://example.com"},
		{"windows", "cmd /c start https://example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			argv, err := browserCommand(tt.goos, "https://example.com")
			if err != nil {
				t.Fatal(err)
			}
			if got := strings.Join(argv, " "); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}

	t.Run("unsupported", func(t *testing.T) {
		if _, err := browserCommand("plan9", "x"); !errors.Is(err, ErrServiceUnavailable) {
			t.Errorf("expected unsupported platform error, got %v", err)
		}
	})

	t.Run("launcher table is not mutated", func(t *testing.T) {
		browserCommand("windows", "a")
		browserCommand("windows", "b")
		if len(browserCommands["windows"]) != 3 {
			t.Errorf("launcher table changed: %v", browserCommands["windows"])
		}
	})
}
