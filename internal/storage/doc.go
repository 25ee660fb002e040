// Package storage implements the synchronous string key-value port the library persists through.
//
// Every backend implements [KV]:
//   - [Memory] : process-local map, used by tests and the "memory" driver
//   - [Dir] : one JSON file per key inside a directory, written atomically via rename
//   - [SQLite] : a single kv table in a SQLite database managed by the embedded migrations
//   - [Redis] : plain string keys in a Redis database, shared between machines
//
// [Open] selects a backend from [shared.StorageConfig]. Values are opaque strings;
// the library decides the encoding (JSON). A missing key is reported as ok=false, never as an error.
package storage
