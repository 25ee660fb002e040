// Package server provides HTTP routing, middleware, and the credential proxy handlers.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Credential Proxy
//
// [TokenHandler] serves GET /api/token with a client-credentials access token, so a
// browser player can call the catalog directly without holding the client secret.
// Tokens come from a caching [oauth2.TokenSource]; the handler never requests a new
// token while the cached one is valid.
//
// # Library Routes
//
// [LibraryHandler] exposes favorites and playlists read-only as JSON. Mutations stay
// in the CLI and TUI, which share the same store.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
