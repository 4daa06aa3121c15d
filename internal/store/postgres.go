package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/lib/pq"

	"moodplaylist/internal/models"
)

// PostgresStore persists playlists in the playlists table.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore sets up a PostgresStore using the provided database handle.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// OpenPostgres establishes a connection through the pgx driver and retries
// until the instance responds.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	const (
		pingTimeout    = 5 * time.Second
		maxWait        = 30 * time.Second
		initialBackoff = 500 * time.Millisecond
		maxBackoff     = 5 * time.Second
	)

	deadline := time.Now().Add(maxWait)
	backoff := initialBackoff
	var lastErr error

	for {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		lastErr = db.PingContext(pingCtx)
		cancel()

		if lastErr == nil {
			return db, nil
		}
		if ctx.Err() != nil || time.Now().After(deadline) {
			break
		}

		time.Sleep(backoff)
		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}

	_ = db.Close()
	return nil, fmt.Errorf("ping database: %w", lastErr)
}

// SavePlaylist inserts a new row and returns the playlist with its generated id.
func (s *PostgresStore) SavePlaylist(ctx context.Context, playlist models.Playlist) (models.Playlist, error) {
	uris := cloneURIs(playlist.TrackURIs)

	var id string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO playlists (mood, track_uris)
		VALUES ($1, $2)
		RETURNING id::text
	`, playlist.Mood.String(), pq.Array(uris)).Scan(&id)
	if err != nil {
		return models.Playlist{}, persistenceError("insert playlist", err)
	}

	return models.Playlist{ID: id, Mood: playlist.Mood, TrackURIs: uris}, nil
}

// GetPlaylist returns a single playlist by id.
func (s *PostgresStore) GetPlaylist(ctx context.Context, id string) (models.Playlist, error) {
	var (
		playlist models.Playlist
		mood     string
		uris     []string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id::text, mood, track_uris
		FROM playlists
		WHERE id = $1
	`, id).Scan(&playlist.ID, &mood, pq.Array(&uris))
	if errors.Is(err, sql.ErrNoRows) || isInvalidTextRepresentation(err) {
		return models.Playlist{}, ErrPlaylistNotFound
	}
	if err != nil {
		return models.Playlist{}, persistenceError("get playlist", err)
	}

	playlist.Mood = models.Mood(mood)
	playlist.TrackURIs = cloneURIs(uris)
	return playlist, nil
}

// Ping verifies the database is reachable.
func (s *PostgresStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return persistenceError("ping", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// isInvalidTextRepresentation matches ids that are not valid UUIDs.
func isInvalidTextRepresentation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "22P02"
	}
	return false
}
