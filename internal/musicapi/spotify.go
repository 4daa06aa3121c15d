package musicapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"moodplaylist/internal/models"
)

// SpotifyClient talks to the Spotify Web API using the client-credentials flow.
type SpotifyClient struct {
	credentials clientcredentials.Config
	apiBaseURL  string
	httpClient  *http.Client
}

// NewSpotifyClient creates a new Spotify API client.
func NewSpotifyClient(cfg Config) *SpotifyClient {
	cfg = cfg.withDefaults()
	return &SpotifyClient{
		credentials: clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
		apiBaseURL: strings.TrimRight(cfg.APIBaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
	}
}

// Spotify API response structures. Only the album link of each track is read.
type spotifySearchResponse struct {
	Tracks *spotifyTracksPage `json:"tracks"`
}

type spotifyTracksPage struct {
	Items []spotifyTrack `json:"items"`
}

type spotifyTrack struct {
	Album *spotifyAlbum `json:"album"`
}

type spotifyAlbum struct {
	ExternalURLs spotifyExternalURLs `json:"external_urls"`
}

type spotifyExternalURLs struct {
	Spotify string `json:"spotify"`
}

// Authenticate exchanges the client credentials for a fresh access token.
func (c *SpotifyClient) Authenticate(ctx context.Context) (AccessToken, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	tok, err := c.credentials.Token(ctx)
	if err != nil {
		return AccessToken{}, fmt.Errorf("%w: %w", ErrAuthentication, err)
	}
	if tok.AccessToken == "" {
		return AccessToken{}, fmt.Errorf("%w: empty access token", ErrAuthentication)
	}

	return AccessToken{
		Value:     tok.AccessToken,
		TokenType: tok.Type(),
		Expiry:    tok.Expiry,
	}, nil
}

// Search queries the track catalog using the mood label and returns the album
// link of every track, in response order.
func (c *SpotifyClient) Search(ctx context.Context, mood models.Mood, token AccessToken) ([]string, error) {
	params := url.Values{
		"q":     []string{mood.String()},
		"type":  []string{"track"},
		"limit": []string{strconv.Itoa(SearchLimit)},
	}

	var result spotifySearchResponse
	if err := c.doRequest(ctx, "search", params, token, &result); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogQuery, err)
	}

	if result.Tracks == nil {
		return nil, fmt.Errorf("%w: response has no tracks", ErrCatalogQuery)
	}

	refs := make([]string, 0, len(result.Tracks.Items))
	for i, st := range result.Tracks.Items {
		if st.Album == nil {
			return nil, fmt.Errorf("%w: track %d has no album", ErrCatalogQuery, i)
		}
		refs = append(refs, st.Album.ExternalURLs.Spotify)
	}

	return refs, nil
}

// GeneratePlaylist authenticates, searches for the mood and returns an
// unpersisted playlist.
func (c *SpotifyClient) GeneratePlaylist(ctx context.Context, mood models.Mood) (models.Playlist, error) {
	logger := zerolog.Ctx(ctx)
	start := time.Now()

	token, err := c.Authenticate(ctx)
	if err != nil {
		return models.Playlist{}, err
	}

	refs, err := c.Search(ctx, mood, token)
	if err != nil {
		return models.Playlist{}, err
	}

	logger.Debug().
		Str("mood", mood.String()).
		Int("tracks", len(refs)).
		Dur("duration_ms", time.Since(start)).
		Msg("catalog search completed")

	return models.Playlist{Mood: mood, TrackURIs: refs}, nil
}

// doRequest performs an authenticated GET against the Web API.
func (c *SpotifyClient) doRequest(ctx context.Context, endpoint string, params url.Values, token AccessToken, result interface{}) error {
	apiURL := c.apiBaseURL + "/v1/" + endpoint
	if len(params) > 0 {
		apiURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token.Value)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("spotify api error: %s - %s", resp.Status, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

