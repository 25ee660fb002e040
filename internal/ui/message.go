package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/tocata/internal/player"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgLibraryLoaded MsgKind = iota
	MsgSnapshot
)

// libraryLoadedMsg is the constructor for [MsgLibraryLoaded]
func libraryLoadedMsg(sources []sourceItem) Msg {
	return Msg{kind: MsgLibraryLoaded, data: sources}
}

// snapshotMsg is the constructor for [MsgSnapshot]
func snapshotMsg(snap player.Snapshot) Msg {
	return Msg{kind: MsgSnapshot, data: snap}
}

// SnapshotFeed returns a buffered channel for [NewModel] and an OnChange callback
// for [player.Options] that feeds it. The callback drops snapshots when the
// buffer is full; the next one always carries the full state.
func SnapshotFeed(size int) (<-chan player.Snapshot, func(player.Snapshot)) {
	ch := make(chan player.Snapshot, size)
	return ch, func(s player.Snapshot) {
		select {
		case ch <- s:
		default:
		}
	}
}
