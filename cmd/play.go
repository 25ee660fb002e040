package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/tocata/internal/library"
	"github.com/desertthunder/tocata/internal/models"
	"github.com/desertthunder/tocata/internal/player"
	"github.com/desertthunder/tocata/internal/sequencer"
	"github.com/desertthunder/tocata/internal/shared"
	"github.com/urfave/cli/v3"
)

// newDeck returns the injected deck, a [player.SilentDeck] when silent is set,
// or an [player.ExecDeck] for the configured command.
func (r *Runner) newDeck(silent bool) (player.Deck, error) {
	if r.deck != nil {
		return r.deck, nil
	}
	if silent {
		return player.SilentDeck{Logger: r.logger}, nil
	}
	command := r.config.Player.Command
	if command == "" {
		command = player.DefaultCommand
	}
	deck, err := player.NewExecDeck(command, r.logger)
	if err != nil {
		return nil, fmt.Errorf("%w: %v (use --silent to play without audio)", shared.ErrServiceUnavailable, err)
	}
	return deck, nil
}

// sourceTracks resolves a playlist ID, or the favorites when id is empty.
func (r *Runner) sourceTracks(lib *library.Library, id string) (string, []models.Track, error) {
	if id == "" {
		return "Favorites", lib.FavoriteTracks(), nil
	}
	p, ok := lib.GetPlaylist(id)
	if !ok {
		return "", nil, &library.NotFoundError{Kind: "playlist", ID: id}
	}
	return p.Name, p.TrackRefs(), nil
}

// Play plays a collection on the audio deck until it ends or ctx is cancelled.
func (r *Runner) Play(ctx context.Context, cmd *cli.Command) error {
	repeatFlag := cmd.String("repeat")
	if repeatFlag == "" {
		repeatFlag = r.config.Player.Repeat
	}
	repeat, err := sequencer.ParseRepeatMode(repeatFlag)
	if err != nil {
		return err
	}

	lib, err := r.lib()
	if err != nil {
		return err
	}
	name, tracks, err := r.sourceTracks(lib, cmd.String("playlist"))
	if err != nil {
		return err
	}
	if len(tracks) == 0 {
		return fmt.Errorf("%w: %s has no tracks", shared.ErrInvalidInput, name)
	}

	deck, err := r.newDeck(cmd.Bool("silent"))
	if err != nil {
		return err
	}
	if execDeck, ok := deck.(*player.ExecDeck); ok {
		defer execDeck.Close()
	}

	stopped := make(chan struct{}, 1)
	ctrl := player.New(deck, player.Options{
		Logger:  r.logger,
		Repeat:  repeat,
		Shuffle: cmd.Bool("shuffle") || r.config.Player.Shuffle,
		OnChange: func(s player.Snapshot) {
			if s.State == player.StatePlaying && s.Track != nil {
				r.writePlain("▶ [%d/%d] %s - %s (%s)\n", s.Index+1, s.Total, s.Track.Artist, s.Track.Name, s.Track.Duration)
				return
			}
			select {
			case stopped <- struct{}{}:
			default:
			}
		},
	})

	r.writePlain("Playing %s (%d tracks, repeat %s)\n", name, len(tracks), repeat)
	ctrl.Load(tracks)
	<-stopped // Load publishes a stopped snapshot

	if err := ctrl.Play(cmd.Int("start")); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		ctrl.Stop()
		r.writePlain("■ Stopped\n")
		return nil
	case <-stopped:
		if err := ctrl.Err(); err != nil {
			return err
		}
		r.writePlain("■ End of %s\n", name)
		return nil
	}
}
