package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"moodplaylist/internal/models"
)

// MemoryStore keeps playlists in process memory. Contents are lost on restart.
type MemoryStore struct {
	mu        sync.RWMutex
	playlists map[string]models.Playlist
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{playlists: make(map[string]models.Playlist)}
}

// SavePlaylist stores a copy under a new random id.
func (s *MemoryStore) SavePlaylist(_ context.Context, playlist models.Playlist) (models.Playlist, error) {
	saved := models.Playlist{
		ID:        uuid.NewString(),
		Mood:      playlist.Mood,
		TrackURIs: cloneURIs(playlist.TrackURIs),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.playlists[saved.ID] = saved

	return clonePlaylist(saved), nil
}

// GetPlaylist returns a playlist by id.
func (s *MemoryStore) GetPlaylist(_ context.Context, id string) (models.Playlist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	playlist, ok := s.playlists[id]
	if !ok {
		return models.Playlist{}, ErrPlaylistNotFound
	}
	return clonePlaylist(playlist), nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }

func clonePlaylist(p models.Playlist) models.Playlist {
	p.TrackURIs = cloneURIs(p.TrackURIs)
	return p
}
