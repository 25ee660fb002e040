package player

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tocata/internal/models"
	"github.com/desertthunder/tocata/internal/shared"
)

// DefaultCommand plays a URL or file without a window and exits when done.
const DefaultCommand = "ffplay -nodisp -autoexit -loglevel quiet"

// ExecDeck plays each track by running an external player process.
//
// The track's audio reference is appended as the final argument.
type ExecDeck struct {
	name   string
	args   []string
	logger *log.Logger

	mu  sync.Mutex
	cmd *exec.Cmd
}

// NewExecDeck resolves the player binary named by command.
func NewExecDeck(command string, logger *log.Logger) (*ExecDeck, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		fields = strings.Fields(DefaultCommand)
	}

	path, err := exec.LookPath(fields[0])
	if err != nil {
		return nil, fmt.Errorf("%s not found in PATH: %w", fields[0], err)
	}

	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &ExecDeck{name: path, args: fields[1:], logger: logger}, nil
}

func (d *ExecDeck) Attach(track models.Track, onEnd func()) error {
	if track.AudioFile == "" {
		return fmt.Errorf("%w: %q has no audio reference", shared.ErrInvalidInput, track.Name)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()

	cmd := exec.Command(d.name, append(append([]string(nil), d.args...), track.AudioFile)...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start player: %w", err)
	}
	d.cmd = cmd

	go func() {
		err := cmd.Wait()

		d.mu.Lock()
		current := d.cmd == cmd
		if current {
			d.cmd = nil
		}
		d.mu.Unlock()

		if !current {
			return
		}
		if err != nil {
			d.logger.Warn("player exited", "track", track.Name, "error", err)
		}
		if onEnd != nil {
			onEnd()
		}
	}()
	return nil
}

func (d *ExecDeck) Detach() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stopLocked()
}

// Close stops any running player process.
func (d *ExecDeck) Close() error {
	return d.Detach()
}

func (d *ExecDeck) stopLocked() error {
	if d.cmd == nil {
		return nil
	}
	cmd := d.cmd
	d.cmd = nil
	if err := cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("failed to stop player: %w", err)
	}
	return nil
}

// SilentDeck logs track changes without producing audio. Tracks never end on their own.
type SilentDeck struct {
	Logger *log.Logger
}

func (d SilentDeck) Attach(track models.Track, _ func()) error {
	if d.Logger != nil {
		d.Logger.Info("now playing (silent)", "track", track.Name, "audio", track.AudioFile)
	}
	return nil
}

func (SilentDeck) Detach() error { return nil }
