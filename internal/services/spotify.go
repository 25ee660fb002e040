// Spotify Web API implementation of [Catalog]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tocata/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"
)

const (
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	defaultMarket    = "US"
	defaultRateLimit = 5.0
	defaultTimeout   = 15 * time.Second
)

// SearchTypes lists the result kinds accepted by [SpotifyCatalog.Search].
var SearchTypes = []string{"artist", "album", "track"}

type followers struct {
	Total int `json:"total"`
}

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Genres     []string       `json:"genres"`
	Followers  followers      `json:"followers"`
	Popularity int            `json:"popularity"`
	Images     []SpotifyImage `json:"images"`
	URI        string         `json:"uri"`
}

// SpotifyTrack represents a Spotify track. Album is empty for tracks nested in an album response.
type SpotifyTrack struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Artists    []SpotifyArtist `json:"artists"`
	Album      *SpotifyAlbum   `json:"album,omitempty"`
	DurationMS int             `json:"duration_ms"`
	PreviewURL *string         `json:"preview_url"`
	Explicit   bool            `json:"explicit"`
	URI        string          `json:"uri"`
}

type albumTracks struct {
	Items []SpotifyTrack `json:"items"`
	Total int            `json:"total"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Artists     []SpotifyArtist `json:"artists"`
	ReleaseDate string          `json:"release_date"`
	TotalTracks int             `json:"total_tracks"`
	Images      []SpotifyImage  `json:"images"`
	Tracks      albumTracks     `json:"tracks"`
	URI         string          `json:"uri"`
}

// spotifyPage is a paginated list of items.
type spotifyPage[T any] struct {
	Items  []T     `json:"items"`
	Total  int     `json:"total"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
	Next   *string `json:"next"`
}

type spotifySearch struct {
	Artists spotifyPage[SpotifyArtist] `json:"artists"`
	Albums  spotifyPage[SpotifyAlbum]  `json:"albums"`
	Tracks  spotifyPage[SpotifyTrack]  `json:"tracks"`
}

// SpotifyOptions configures a [SpotifyCatalog]. Zero values select the defaults.
type SpotifyOptions struct {
	ClientID     string
	ClientSecret string
	Market       string
	RateLimit    float64       // requests per second
	Timeout      time.Duration // per request
	BaseURL      string
	TokenURL     string
	HTTPClient   *http.Client // base client for token and API requests
	Logger       *log.Logger
}

// SpotifyCatalog implements [Catalog] against the Spotify Web API.
type SpotifyCatalog struct {
	baseURL    string
	market     string
	httpClient *http.Client
	tokens     *refreshableTokenSource
	limiter    *rate.Limiter
	logger     *log.Logger
}

// NewSpotifyCatalog creates a catalog authenticated with the client-credentials grant.
//
// No request is made until the first call.
func NewSpotifyCatalog(opts SpotifyOptions) (*SpotifyCatalog, error) {
	if opts.ClientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}
	if opts.ClientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}
	if opts.BaseURL == "" {
		opts.BaseURL = spotifyBaseURL
	}
	if opts.TokenURL == "" {
		opts.TokenURL = spotifyTokenURL
	}
	if opts.Market == "" {
		opts.Market = defaultMarket
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = defaultRateLimit
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	ctx := context.Background()
	if opts.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, opts.HTTPClient)
	}

	config := &clientcredentials.Config{
		ClientID:     opts.ClientID,
		ClientSecret: opts.ClientSecret,
		TokenURL:     opts.TokenURL,
	}

	logger := opts.Logger.With("service", "spotify")
	tokens := &refreshableTokenSource{
		source: oauth2.ReuseTokenSource(nil, config.TokenSource(ctx)),
		callback: func(t *oauth2.Token) {
			logger.Debug("fetched access token", "expires", t.Expiry.Format(time.RFC3339))
		},
	}

	client := oauth2.NewClient(ctx, tokens)
	client.Timeout = opts.Timeout

	return &SpotifyCatalog{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		market:     opts.Market,
		httpClient: client,
		tokens:     tokens,
		limiter:    rate.NewLimiter(rate.Limit(opts.RateLimit), 1),
		logger:     logger,
	}, nil
}

// NewSpotifyCatalogFromConfig builds a catalog from the [credentials.spotify] and [catalog] config sections.
func NewSpotifyCatalogFromConfig(cfg *shared.Config, logger *log.Logger) (*SpotifyCatalog, error) {
	if !cfg.Credentials.Spotify.Configured() {
		return nil, fmt.Errorf("%w: set [credentials.spotify] or SPOTIFY_CLIENT_ID/SPOTIFY_CLIENT_SECRET", shared.ErrMissingCredentials)
	}
	return NewSpotifyCatalog(SpotifyOptions{
		ClientID:     cfg.Credentials.Spotify.ClientID,
		ClientSecret: cfg.Credentials.Spotify.ClientSecret,
		Market:       cfg.Credentials.Spotify.Market,
		RateLimit:    cfg.Catalog.RateLimit,
		Timeout:      time.Duration(cfg.Catalog.TimeoutSeconds) * time.Second,
		Logger:       logger,
	})
}

// Name returns the provider name.
func (s *SpotifyCatalog) Name() string {
	return "Spotify"
}

// TokenSource exposes the cached client-credentials token source.
func (s *SpotifyCatalog) TokenSource() oauth2.TokenSource {
	return s.tokens
}

// SetTokenRefreshCallback sets a function called whenever a new access token is fetched.
func (s *SpotifyCatalog) SetTokenRefreshCallback(callback func(*oauth2.Token)) {
	s.tokens.setCallback(callback)
}

// doRequest performs a paced, authenticated GET against the Spotify API.
func (s *SpotifyCatalog) doRequest(ctx context.Context, endpoint string, query url.Values, result any) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	apiURL := s.baseURL + endpoint
	if len(query) > 0 {
		apiURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	s.logger.Debug("request", "endpoint", endpoint)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return fmt.Errorf("%w: token request rejected: %v", shared.ErrAuthFailed, err)
		}
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: spotify API status %d", shared.ErrAuthFailed, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return fmt.Errorf("%w: spotify API status %d", shared.ErrServiceUnavailable, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: spotify API status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Search queries artists, albums and tracks.
func (s *SpotifyCatalog) Search(ctx context.Context, query string, offset int, types []string, limit int) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query is empty", shared.ErrInvalidArgument)
	}
	if len(types) == 0 {
		types = SearchTypes
	}
	for _, t := range types {
		if !isSearchType(t) {
			return nil, fmt.Errorf("%w: unknown search type %q", shared.ErrInvalidArgument, t)
		}
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("type", strings.Join(types, ","))
	params.Set("limit", strconv.Itoa(clampLimit(limit, 20)))
	params.Set("offset", strconv.Itoa(max(offset, 0)))
	params.Set("market", s.market)

	var response spotifySearch
	if err := s.doRequest(ctx, "/search", params, &response); err != nil {
		return nil, err
	}

	result := &SearchResult{}
	for _, a := range response.Artists.Items {
		result.Artists = append(result.Artists, convertArtist(a))
	}
	for _, a := range response.Albums.Items {
		result.Albums = append(result.Albums, convertAlbum(a))
	}
	for _, t := range response.Tracks.Items {
		result.Tracks = append(result.Tracks, convertTrack(t, nil))
	}
	return result, nil
}

// Album retrieves an album and its first page of tracks.
func (s *SpotifyCatalog) Album(ctx context.Context, id string) (*Album, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: album id", shared.ErrMissingArgument)
	}

	params := url.Values{}
	params.Set("market", s.market)

	var sa SpotifyAlbum
	if err := s.doRequest(ctx, "/albums/"+url.PathEscape(id), params, &sa); err != nil {
		return nil, err
	}

	album := convertAlbum(sa)
	for _, t := range sa.Tracks.Items {
		album.Tracks = append(album.Tracks, convertTrack(t, &sa))
	}
	return &album, nil
}

// Artist retrieves an artist by ID.
func (s *SpotifyCatalog) Artist(ctx context.Context, id string) (*Artist, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: artist id", shared.ErrMissingArgument)
	}

	var sa SpotifyArtist
	if err := s.doRequest(ctx, "/artists/"+url.PathEscape(id), nil, &sa); err != nil {
		return nil, err
	}

	artist := convertArtist(sa)
	return &artist, nil
}

// ArtistAlbums lists albums and singles by the artist.
func (s *SpotifyCatalog) ArtistAlbums(ctx context.Context, id string, limit int) ([]Album, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: artist id", shared.ErrMissingArgument)
	}

	params := url.Values{}
	params.Set("include_groups", "album,single")
	params.Set("limit", strconv.Itoa(clampLimit(limit, 20)))
	params.Set("market", s.market)

	var response spotifyPage[SpotifyAlbum]
	if err := s.doRequest(ctx, "/artists/"+url.PathEscape(id)+"/albums", params, &response); err != nil {
		return nil, err
	}

	albums := make([]Album, 0, len(response.Items))
	for _, a := range response.Items {
		albums = append(albums, convertAlbum(a))
	}
	return albums, nil
}

// ArtistTopTracks lists the artist's top tracks in the configured market.
func (s *SpotifyCatalog) ArtistTopTracks(ctx context.Context, id string) ([]Track, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: artist id", shared.ErrMissingArgument)
	}

	params := url.Values{}
	params.Set("market", s.market)

	var response struct {
		Tracks []SpotifyTrack `json:"tracks"`
	}
	if err := s.doRequest(ctx, "/artists/"+url.PathEscape(id)+"/top-tracks", params, &response); err != nil {
		return nil, err
	}

	tracks := make([]Track, 0, len(response.Tracks))
	for _, t := range response.Tracks {
		tracks = append(tracks, convertTrack(t, nil))
	}
	return tracks, nil
}

func convertImages(images []SpotifyImage) []Image {
	out := make([]Image, len(images))
	for i, img := range images {
		out[i] = Image{URL: img.URL, Height: img.Height, Width: img.Width}
	}
	return out
}

func artistNames(artists []SpotifyArtist) []string {
	names := make([]string, len(artists))
	for i, a := range artists {
		names[i] = a.Name
	}
	return names
}

func convertArtist(a SpotifyArtist) Artist {
	return Artist{
		ID:         a.ID,
		Name:       a.Name,
		Genres:     a.Genres,
		Followers:  a.Followers.Total,
		Popularity: a.Popularity,
		Images:     convertImages(a.Images),
	}
}

func convertAlbum(a SpotifyAlbum) Album {
	return Album{
		ID:          a.ID,
		Name:        a.Name,
		Artists:     artistNames(a.Artists),
		ReleaseDate: a.ReleaseDate,
		TotalTracks: a.TotalTracks,
		Images:      convertImages(a.Images),
	}
}

// convertTrack maps a track; parent supplies album fields for tracks nested in an album response.
func convertTrack(t SpotifyTrack, parent *SpotifyAlbum) Track {
	album := t.Album
	if album == nil {
		album = parent
	}

	track := Track{
		ID:         t.ID,
		Name:       t.Name,
		Artists:    artistNames(t.Artists),
		DurationMS: t.DurationMS,
	}
	if t.PreviewURL != nil {
		track.PreviewURL = *t.PreviewURL
	}
	if album != nil {
		track.Album = album.Name
		track.AlbumID = album.ID
		track.Images = convertImages(album.Images)
	}
	return track
}

func isSearchType(t string) bool {
	for _, st := range SearchTypes {
		if t == st {
			return true
		}
	}
	return false
}

func clampLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	return min(limit, 50)
}
