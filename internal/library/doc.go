// package library implements the persisted favorites and playlists store.
//
// A [Library] keeps its collections in memory and writes them through to a
// [storage.KV] after every mutation, one JSON document per collection:
//
//	tocata:favorites  -> [Favorite, ...]
//	tocata:playlists  -> {"playlists": [Playlist, ...], "nextId": n}
//
// Storage faults never fail an operation. They are logged as [PersistenceError]
// and the in-memory state stays authoritative for the rest of the session.
package library
