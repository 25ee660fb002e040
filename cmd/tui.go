package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/tocata/internal/player"
	"github.com/desertthunder/tocata/internal/sequencer"
	"github.com/desertthunder/tocata/internal/shared"
	"github.com/desertthunder/tocata/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal player.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	repeat, err := sequencer.ParseRepeatMode(r.config.Player.Repeat)
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/tocata-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	lib, err := r.lib()
	if err != nil {
		return err
	}
	deck, err := r.newDeck(cmd.Bool("silent"))
	if err != nil {
		return err
	}
	if execDeck, ok := deck.(*player.ExecDeck); ok {
		defer execDeck.Close()
	}

	updates, onChange := ui.SnapshotFeed(16)
	ctrl := player.New(deck, player.Options{
		Logger:   r.logger,
		Repeat:   repeat,
		Shuffle:  r.config.Player.Shuffle,
		OnChange: onChange,
	})

	model := ui.NewModel(ctx, lib, ctrl, updates)
	p := tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return lib.LastPersistError()
}
