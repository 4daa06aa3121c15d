package store

import (
	"context"
	"errors"
	"fmt"

	"moodplaylist/internal/models"
)

var (
	// ErrPersistence signals the backing store rejected or failed a write or read.
	ErrPersistence = errors.New("persistence failure")
	// ErrPlaylistNotFound is returned when no playlist has the requested id.
	ErrPlaylistNotFound = errors.New("playlist not found")
)

// PlaylistStore persists generated playlists. SavePlaylist assigns a fresh
// identifier on every call; there is no upsert.
type PlaylistStore interface {
	SavePlaylist(ctx context.Context, playlist models.Playlist) (models.Playlist, error)
	GetPlaylist(ctx context.Context, id string) (models.Playlist, error)
	Ping(ctx context.Context) error
	Close() error
}

func persistenceError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}

// cloneURIs copies the list and never returns nil so an empty playlist is
// stored and rendered as an empty list.
func cloneURIs(uris []string) []string {
	out := make([]string, len(uris))
	copy(out, uris)
	return out
}
