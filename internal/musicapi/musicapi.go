package musicapi

import (
	"errors"
	"time"
)

// SearchLimit is the number of tracks requested per mood search.
const SearchLimit = 10

const (
	DefaultTokenURL       = "https://accounts.spotify.com/api/token"
	DefaultAPIBaseURL     = "https://api.spotify.com"
	DefaultRequestTimeout = 30 * time.Second
)

var (
	// ErrAuthentication signals the client-credentials exchange failed.
	ErrAuthentication = errors.New("catalog authentication failed")
	// ErrCatalogQuery signals the search request failed or returned an unusable body.
	ErrCatalogQuery = errors.New("catalog query failed")
)

// Config holds configuration for the catalog client.
type Config struct {
	ClientID     string
	ClientSecret string

	// TokenURL and APIBaseURL default to the public Spotify endpoints.
	TokenURL   string
	APIBaseURL string

	RequestTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.TokenURL == "" {
		c.TokenURL = DefaultTokenURL
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = DefaultAPIBaseURL
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	return c
}

// AccessToken is a short-lived bearer credential. It is used for a single
// generation and never cached or persisted.
type AccessToken struct {
	Value     string
	TokenType string
	Expiry    time.Time
}

// String keeps the bearer value out of logs and error messages.
func (t AccessToken) String() string {
	return "[redacted]"
}

// GoString mirrors String for %#v.
func (t AccessToken) GoString() string {
	return "musicapi.AccessToken{[redacted]}"
}
