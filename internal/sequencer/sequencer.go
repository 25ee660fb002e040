// Package sequencer derives the next and previous track index of a play order.
//
// A [State] is a plain value: the natural order, an optional shuffled
// permutation of it, the shuffle flag, the [RepeatMode] and the index of the
// playing track. [Next] and [Previous] never modify the state they are given;
// the mode-changing functions return an updated copy.
//
// When no valid index exists under the active mode the functions return [End].
// End is a normal control-flow value, not an error: callers decide whether it
// means "stop playback".
package sequencer

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/desertthunder/tocata/internal/shared"
)

// End signals that no next or previous track exists.
const End = -1

// NoCurrent marks a state with no playing track.
const NoCurrent = -1

// RepeatMode represents the repeat behavior
type RepeatMode int

const (
	RepeatNone RepeatMode = iota
	RepeatAll
	RepeatOne
)

func (m RepeatMode) String() string {
	switch m {
	case RepeatAll:
		return "all"
	case RepeatOne:
		return "one"
	default:
		return "none"
	}
}

// ParseRepeatMode parses "none", "all" or "one" (case-insensitive, empty means none).
func ParseRepeatMode(s string) (RepeatMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "off":
		return RepeatNone, nil
	case "all":
		return RepeatAll, nil
	case "one":
		return RepeatOne, nil
	default:
		return RepeatNone, fmt.Errorf("%w: repeat mode %q", shared.ErrInvalidArgument, s)
	}
}

// Shuffler permutes n elements through swap. [*rand.Rand] satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

type globalShuffler struct{}

func (globalShuffler) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }

// State is the transient playback-order state for one loaded track list.
type State struct {
	Ordered  []int      `json:"orderedIndexes"`
	Shuffled []int      `json:"shuffledIndexes,omitempty"`
	Shuffle  bool       `json:"isShuffleOn"`
	Repeat   RepeatMode `json:"repeatMode"`
	Current  int        `json:"currentIndex"`
}

// New returns the state for a freshly loaded list of n tracks.
func New(n int) State {
	if n < 0 {
		n = 0
	}
	ordered := make([]int, n)
	for i := range ordered {
		ordered[i] = i
	}
	return State{Ordered: ordered, Current: NoCurrent}
}

// Reload resets the state for a new list of n tracks, keeping the shuffle and repeat settings.
//
// The permutation is regenerated when shuffle is on.
func Reload(s State, n int, rng Shuffler) State {
	next := New(n)
	next.Repeat = s.Repeat
	if s.Shuffle {
		next = EnableShuffle(next, rng)
	}
	return next
}

// Len returns the number of tracks in the list.
func (s State) Len() int { return len(s.Ordered) }

// HasCurrent reports whether a track is playing.
func (s State) HasCurrent() bool {
	return s.Current >= 0 && s.Current < len(s.Ordered)
}

// WithCurrent returns a copy pointing at index i; out-of-range indexes are ignored.
func (s State) WithCurrent(i int) State {
	if i < 0 || i >= len(s.Ordered) {
		return s
	}
	s.Current = i
	return s
}

// Order returns the traversal order under the active shuffle setting.
func (s State) Order() []int {
	if s.Shuffle && len(s.Shuffled) == len(s.Ordered) {
		return s.Shuffled
	}
	return s.Ordered
}

// position returns the position of the current index inside order, or -1.
func (s State) position(order []int) int {
	if !s.HasCurrent() {
		return -1
	}
	for pos, idx := range order {
		if idx == s.Current {
			return pos
		}
	}
	return -1
}

// Next computes the index to play after the current one.
//
// With no playing track it returns the first index of the active order.
func Next(s State) int {
	order := s.Order()
	if len(order) == 0 {
		return End
	}

	if !s.HasCurrent() {
		return order[0]
	}

	if s.Repeat == RepeatOne {
		return s.Current
	}

	pos := s.position(order)
	if pos < 0 {
		return End
	}

	if pos+1 < len(order) {
		return order[pos+1]
	}
	if s.Repeat == RepeatAll {
		return order[0]
	}
	return End
}

// Previous computes the index to play before the current one.
//
// With no playing track there is nothing to go back to and it returns [End].
func Previous(s State) int {
	order := s.Order()
	if len(order) == 0 || !s.HasCurrent() {
		return End
	}

	if s.Repeat == RepeatOne {
		return s.Current
	}

	pos := s.position(order)
	if pos < 0 {
		return End
	}

	if pos-1 >= 0 {
		return order[pos-1]
	}
	if s.Repeat == RepeatAll {
		return order[len(order)-1]
	}
	return End
}

// EnableShuffle turns shuffle on with a fresh uniformly random permutation of all indexes.
//
// If a track is playing it is swapped to the front of the permutation, so
// stepping forward continues with tracks that have not just been heard.
// A nil rng uses the package-level source.
func EnableShuffle(s State, rng Shuffler) State {
	if rng == nil {
		rng = globalShuffler{}
	}

	perm := make([]int, len(s.Ordered))
	copy(perm, s.Ordered)
	rng.Shuffle(len(perm), func(i, j int) {
		perm[i], perm[j] = perm[j], perm[i]
	})

	if s.HasCurrent() {
		for i, idx := range perm {
			if idx == s.Current {
				perm[0], perm[i] = perm[i], perm[0]
				break
			}
		}
	}

	s.Shuffled = perm
	s.Shuffle = true
	return s
}

// DisableShuffle turns shuffle off and drops the permutation; natural order resumes from the current index.
func DisableShuffle(s State) State {
	s.Shuffle = false
	s.Shuffled = nil
	return s
}

// AdvanceRepeatMode cycles the repeat mode none → all → one → none.
func AdvanceRepeatMode(s State) State {
	switch s.Repeat {
	case RepeatNone:
		s.Repeat = RepeatAll
	case RepeatAll:
		s.Repeat = RepeatOne
	default:
		s.Repeat = RepeatNone
	}
	return s
}
