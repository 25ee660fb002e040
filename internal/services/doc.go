// Package services defines the [Catalog] interface for music metadata providers and implements it for Spotify.
//
// # Catalog Interface
//
// The library and player only consume plain records ([Artist], [Album], [Track]).
// [Track.Model] and [Album.Model] convert them into library track references,
// using the preview URL as the audio reference and formatting durations as m:ss.
//
// # Spotify Implementation
//
// [SpotifyCatalog] authenticates with the OAuth2 client-credentials grant, so no
// user login is needed. Tokens are cached and refreshed by [oauth2.ReuseTokenSource];
// the same source backs the credential proxy in the server package.
//
// Requests are paced by a [rate.Limiter] shared by every call on the catalog.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrMissingCredentials] : client id or secret not configured
//   - [shared.ErrAuthFailed] : token request rejected or HTTP 401
//   - [shared.ErrServiceUnavailable] : HTTP 429 or 5xx
//   - [shared.ErrAPIRequest] : any other failed request
//   - [shared.ErrInvalidArgument] : empty query or unknown search type
//
// Errors are returned to the caller without retry.
package services
