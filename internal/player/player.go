// package player drives a [Deck] through a track list using the sequencer.
//
// The [Controller] owns the only [Deck]: starting a track always detaches the
// previous one first, and end-of-track notifications from a detached track are
// discarded so listeners never leak across track changes.
package player

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tocata/internal/models"
	"github.com/desertthunder/tocata/internal/sequencer"
	"github.com/desertthunder/tocata/internal/shared"
)

// PlaybackState represents the current state of the player
type PlaybackState string

const (
	StateStopped PlaybackState = "stopped"
	StatePlaying PlaybackState = "playing"
)

// Deck is an audio output that plays one track at a time.
type Deck interface {
	// Attach starts track. onEnd must be called, from another goroutine, when playback finishes on its own.
	Attach(track models.Track, onEnd func()) error
	// Detach stops the current track and drops its onEnd listener.
	Detach() error
}

// Options configures a [Controller].
type Options struct {
	Logger   *log.Logger
	Shuffler sequencer.Shuffler // nil uses the math/rand global source
	Repeat   sequencer.RepeatMode
	Shuffle  bool
	// OnChange is called after every state change. Calls never overlap and arrive in
	// the order the changes were made, from whichever goroutine made the change.
	// It must not call back into the Controller.
	OnChange func(Snapshot)
}

// Snapshot is a point-in-time view of the controller for render surfaces.
type Snapshot struct {
	State    PlaybackState   `json:"state"`
	Track    *models.Track   `json:"track,omitempty"`
	Index    int             `json:"index"`
	Total    int             `json:"total"`
	Shuffle  bool            `json:"shuffle"`
	Repeat   string          `json:"repeat"`
	Sequence sequencer.State `json:"sequence"`
}

// Controller sequences playback of a track list on a [Deck].
type Controller struct {
	mu       sync.Mutex
	notifyMu sync.Mutex
	deck     Deck
	rng      sequencer.Shuffler
	logger   *log.Logger
	onChange func(Snapshot)

	tracks   []models.Track
	seq      sequencer.State
	state    PlaybackState
	session  uint64
	lastFail error
}

// New creates a controller with an empty track list.
func New(deck Deck, opts Options) *Controller {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	seq := sequencer.New(0)
	seq.Repeat = opts.Repeat
	seq.Shuffle = opts.Shuffle

	return &Controller{
		deck:     deck,
		rng:      opts.Shuffler,
		logger:   opts.Logger,
		onChange: opts.OnChange,
		seq:      seq,
		state:    StateStopped,
	}
}

// Load replaces the track list, stopping whatever is playing.
//
// Shuffle and repeat settings carry over; the shuffle permutation is regenerated.
func (c *Controller) Load(tracks []models.Track) {
	c.mu.Lock()
	c.detachLocked()
	c.tracks = append([]models.Track(nil), tracks...)
	c.seq = sequencer.Reload(c.seq, len(c.tracks), c.rng)
	c.logger.Debug("loaded tracks", "count", len(c.tracks), "shuffle", c.seq.Shuffle)
	c.unlockAndNotify()
}

// Play starts the track at index i of the loaded list.
func (c *Controller) Play(i int) error {
	c.mu.Lock()
	if i < 0 || i >= len(c.tracks) {
		c.mu.Unlock()
		return fmt.Errorf("%w: track index %d out of range [0, %d)", shared.ErrInvalidArgument, i, len(c.tracks))
	}
	err := c.playLocked(i)
	c.unlockAndNotify()
	return err
}

// Next advances in the active order. It reports false, and stops, at the end of the list.
func (c *Controller) Next() (bool, error) {
	return c.step(sequencer.Next)
}

// Previous steps back in the active order. It reports false, and stops, before the start of the list.
func (c *Controller) Previous() (bool, error) {
	return c.step(sequencer.Previous)
}

// Ended handles a track finishing on its own: it advances, replays under repeat-one,
// or stops at the end of the list.
func (c *Controller) Ended() (bool, error) {
	return c.step(sequencer.Next)
}

func (c *Controller) step(move func(sequencer.State) int) (bool, error) {
	c.mu.Lock()
	played, err := c.stepLocked(move)
	c.unlockAndNotify()
	return played, err
}

func (c *Controller) stepLocked(move func(sequencer.State) int) (bool, error) {
	i := move(c.seq)
	if i == sequencer.End {
		c.detachLocked()
		return false, nil
	}
	err := c.playLocked(i)
	return err == nil, err
}

// Stop detaches the current track, keeping its position for a later [Controller.Next].
func (c *Controller) Stop() {
	c.mu.Lock()
	c.detachLocked()
	c.unlockAndNotify()
}

// ToggleShuffle flips shuffle and returns the new setting.
func (c *Controller) ToggleShuffle() bool {
	c.mu.Lock()
	if c.seq.Shuffle {
		c.seq = sequencer.DisableShuffle(c.seq)
	} else {
		c.seq = sequencer.EnableShuffle(c.seq, c.rng)
	}
	on := c.seq.Shuffle
	c.unlockAndNotify()
	return on
}

// CycleRepeat advances none → all → one → none and returns the new mode.
func (c *Controller) CycleRepeat() sequencer.RepeatMode {
	c.mu.Lock()
	c.seq = sequencer.AdvanceRepeatMode(c.seq)
	mode := c.seq.Repeat
	c.unlockAndNotify()
	return mode
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Tracks returns a copy of the loaded list.
func (c *Controller) Tracks() []models.Track {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Track(nil), c.tracks...)
}

// Err returns the last deck failure, if any.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastFail
}

func (c *Controller) playLocked(i int) error {
	c.detachLocked()

	c.session++
	session := c.session
	track := c.tracks[i]
	c.seq = c.seq.WithCurrent(i)

	if err := c.deck.Attach(track, func() { c.endedFrom(session) }); err != nil {
		c.lastFail = err
		c.logger.Error("failed to start track", "track", track.Name, "error", err)
		return fmt.Errorf("failed to play %q: %w", track.Name, err)
	}

	c.lastFail = nil
	c.state = StatePlaying
	c.logger.Info("playing", "track", track.Name, "artist", track.Artist, "index", i)
	return nil
}

func (c *Controller) detachLocked() {
	if c.state != StatePlaying {
		return
	}
	c.session++
	c.state = StateStopped
	if err := c.deck.Detach(); err != nil {
		c.logger.Warn("failed to detach track", "error", err)
	}
}

// endedFrom ignores notifications from a track that has since been replaced.
// The check and the advance share one critical section so a concurrent Stop wins.
func (c *Controller) endedFrom(session uint64) {
	c.mu.Lock()
	if session != c.session || c.state != StatePlaying {
		c.mu.Unlock()
		return
	}
	c.state = StateStopped
	_, err := c.stepLocked(sequencer.Next)
	c.unlockAndNotify()

	if err != nil {
		c.logger.Error("failed to advance", "error", err)
	}
}

func (c *Controller) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:    c.state,
		Index:    sequencer.NoCurrent,
		Total:    len(c.tracks),
		Shuffle:  c.seq.Shuffle,
		Repeat:   c.seq.Repeat.String(),
		Sequence: c.seq,
	}
	if c.seq.HasCurrent() {
		t := c.tracks[c.seq.Current]
		snap.Track = &t
		snap.Index = c.seq.Current
	}
	return snap
}

// unlockAndNotify releases c.mu and publishes the state it guarded. notifyMu is
// taken before c.mu is released, so callbacks run one at a time and in the
// order the changes were made.
func (c *Controller) unlockAndNotify() {
	snap := c.snapshotLocked()
	c.notifyMu.Lock()
	c.mu.Unlock()
	defer c.notifyMu.Unlock()

	if c.onChange != nil {
		c.onChange(snap)
	}
}
