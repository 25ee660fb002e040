// Package models defines the library entities shared by the store, the sequencer-driven player and the render surfaces.
//
// The package contains two groups of types:
//
// 1. Track references: the plain record every other type is built from
//   - [Track] : name, artist, album, audio reference, display duration and cover
//   - [Identity] : the normalized (artist, album, name) triple used for deduplication
//   - [Album] : a named group of tracks as delivered by the catalog
//
// 2. Persisted entities: stored by the library as JSON
//   - [Favorite] : a track plus addedAt and an identity-derived id
//   - [Playlist] : an ordered, named collection of [PlaylistTrack] entries
//
// External records enter through [NormalizeTrack], which applies defaults exactly once.
// [Normalize] is total: it accepts any string, including empty and non-ASCII input.
package models
