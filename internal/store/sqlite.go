package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"moodplaylist/internal/models"
)

// SQLiteStore implements PlaylistStore using an embedded SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS playlists (
		id         TEXT PRIMARY KEY,
		mood       TEXT NOT NULL,
		track_uris TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_playlists_created ON playlists(created_at DESC);
	`)
	return err
}

// SavePlaylist inserts a new row keyed by a ULID.
func (s *SQLiteStore) SavePlaylist(ctx context.Context, playlist models.Playlist) (models.Playlist, error) {
	uris := cloneURIs(playlist.TrackURIs)
	encoded, err := json.Marshal(uris)
	if err != nil {
		return models.Playlist{}, persistenceError("encode track uris", err)
	}

	id := ulid.Make().String()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO playlists (id, mood, track_uris, created_at)
		VALUES (?, ?, ?, ?)
	`, id, playlist.Mood.String(), string(encoded), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return models.Playlist{}, persistenceError("insert playlist", err)
	}

	return models.Playlist{ID: id, Mood: playlist.Mood, TrackURIs: uris}, nil
}

// GetPlaylist returns a single playlist by id.
func (s *SQLiteStore) GetPlaylist(ctx context.Context, id string) (models.Playlist, error) {
	var (
		mood    string
		encoded string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT mood, track_uris FROM playlists WHERE id = ?
	`, id).Scan(&mood, &encoded)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Playlist{}, ErrPlaylistNotFound
	}
	if err != nil {
		return models.Playlist{}, persistenceError("get playlist", err)
	}

	var uris []string
	if err := json.Unmarshal([]byte(encoded), &uris); err != nil {
		return models.Playlist{}, persistenceError("decode track uris", err)
	}

	return models.Playlist{ID: id, Mood: models.Mood(mood), TrackURIs: cloneURIs(uris)}, nil
}

// Ping verifies the database file is usable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return persistenceError("ping", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
