package playlists

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"moodplaylist/internal/models"
)

// Catalog produces an unpersisted playlist for a mood.
type Catalog interface {
	GeneratePlaylist(ctx context.Context, mood models.Mood) (models.Playlist, error)
}

// Store captures the persistence needs for playlist generation.
type Store interface {
	SavePlaylist(ctx context.Context, playlist models.Playlist) (models.Playlist, error)
}

// Service coordinates mood playlist generation.
type Service interface {
	Generate(ctx context.Context, mood models.Mood) (models.Playlist, error)
	GenerateByName(ctx context.Context, name string) (models.Playlist, error)
}

type service struct {
	catalog Catalog
	store   Store
}

// New constructs a Service backed by the provided Catalog and Store.
func New(catalog Catalog, store Store) Service {
	return &service{catalog: catalog, store: store}
}

// Generate fetches tracks for the mood and persists the result. A failure at
// any step aborts the rest; nothing is retried.
func (s *service) Generate(ctx context.Context, mood models.Mood) (models.Playlist, error) {
	if err := ctx.Err(); err != nil {
		return models.Playlist{}, err
	}
	if !mood.Valid() {
		return models.Playlist{}, models.ErrMoodNotFound
	}

	playlist, err := s.catalog.GeneratePlaylist(ctx, mood)
	if err != nil {
		return models.Playlist{}, fmt.Errorf("generate playlist: %w", err)
	}

	saved, err := s.store.SavePlaylist(ctx, playlist)
	if err != nil {
		return models.Playlist{}, fmt.Errorf("save playlist: %w", err)
	}

	zerolog.Ctx(ctx).Info().
		Str("playlist_id", saved.ID).
		Str("mood", saved.Mood.String()).
		Int("tracks", len(saved.TrackURIs)).
		Msg("playlist generated")

	return saved, nil
}

func (s *service) GenerateByName(ctx context.Context, name string) (models.Playlist, error) {
	mood, err := models.ParseMood(name)
	if err != nil {
		return models.Playlist{}, err
	}
	return s.Generate(ctx, mood)
}
