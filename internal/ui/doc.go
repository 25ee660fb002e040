// Package ui implements an interactive terminal player using bubbletea's Elm architecture.
//
// The TUI has two views:
//  1. [LibraryView] : Browse the favorites and every playlist
//  2. [PlayerView] : Play a collection with next/previous, shuffle, repeat and favorite toggles
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Player state changes (including tracks that end on their own) flow through a channel fed by [SnapshotFeed].
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
