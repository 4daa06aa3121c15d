package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"
	"unicode/utf8"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"moodplaylist/internal/models"
	"moodplaylist/internal/musicapi"
	"moodplaylist/internal/store"
)

// DefaultPlaylistRoute is the path template used when none is configured.
const DefaultPlaylistRoute = "/playlists/{mood}"

// ErrInvalidRequestInput marks requests that could not be decoded.
var ErrInvalidRequestInput = errors.New("invalid request input")

type inputError struct {
	reason string
}

func (e *inputError) Error() string { return ErrInvalidRequestInput.Error() + ": " + e.reason }

func (e *inputError) Unwrap() error { return ErrInvalidRequestInput }

// PlaylistService generates and persists mood playlists.
type PlaylistService interface {
	Generate(ctx context.Context, mood models.Mood) (models.Playlist, error)
}

// HealthChecker reports whether a backing dependency is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Server wires HTTP handlers to the underlying services.
type Server struct {
	playlists PlaylistService
	health    HealthChecker
	route     string
}

// New configures a Server. An empty route falls back to DefaultPlaylistRoute
// and a nil health checker always reports healthy.
func New(playlists PlaylistService, health HealthChecker, route string) *Server {
	if route == "" {
		route = DefaultPlaylistRoute
	}
	return &Server{playlists: playlists, health: health, route: route}
}

// Routes exposes the HTTP handlers.
func (s *Server) Routes() http.Handler {
	r := mux.NewRouter().UseEncodedPath()

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc(s.route, s.handleGeneratePlaylist).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Message: "Not found", Status: http.StatusNotFound})
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Message: "Method not allowed", Status: http.StatusMethodNotAllowed})
	})

	return r
}

type errorResponse struct {
	Message string   `json:"message"`
	Status  int      `json:"status"`
	Details []string `json:"details,omitempty"`
}

type playlistResponse struct {
	ID        *string  `json:"id"`
	Mood      string   `json:"mood"`
	TrackURIs []string `json:"trackUris"`
}

func newPlaylistResponse(p models.Playlist) playlistResponse {
	resp := playlistResponse{
		Mood:      p.Mood.String(),
		TrackURIs: p.TrackURIs,
	}
	if p.Persisted() {
		id := p.ID
		resp.ID = &id
	}
	if resp.TrackURIs == nil {
		resp.TrackURIs = []string{}
	}
	return resp
}

func (s *Server) handleGeneratePlaylist(w http.ResponseWriter, r *http.Request) {
	token, err := decodePathSegment(mux.Vars(r)["mood"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	mood, err := models.ParseMood(token)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	playlist, err := s.playlists.Generate(r.Context(), mood)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newPlaylistResponse(playlist))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.health.Ping(ctx); err != nil {
			zerolog.Ctx(r.Context()).Warn().Err(err).Msg("health check failed")
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodePathSegment unescapes a raw path segment and requires valid UTF-8.
func decodePathSegment(raw string) (string, error) {
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return "", &inputError{reason: "malformed mood path segment"}
	}
	if !utf8.ValidString(decoded) {
		return "", &inputError{reason: "mood is not valid UTF-8"}
	}
	return decoded, nil
}

// writeError is the single place errors are translated into HTTP responses.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	resp := errorResponse{Status: http.StatusInternalServerError, Message: "Internal server error"}

	var inErr *inputError
	switch {
	case errors.As(err, &inErr):
		resp.Status = http.StatusBadRequest
		resp.Message = "Invalid request input: " + inErr.reason
		resp.Details = []string{inErr.reason}
	case errors.Is(err, models.ErrMoodNotFound):
		resp.Status = http.StatusNotFound
		resp.Message = "Mood not found"
	case errors.Is(err, musicapi.ErrAuthentication):
		resp.Message = "Failed to authenticate with the music catalog"
	case errors.Is(err, musicapi.ErrCatalogQuery):
		resp.Message = "Failed to query the music catalog"
	case errors.Is(err, store.ErrPersistence):
		resp.Message = "Failed to store playlist"
	}

	logger := zerolog.Ctx(r.Context())
	if resp.Status >= http.StatusInternalServerError {
		logger.Error().Err(err).Int("status", resp.Status).Msg("request failed")
	} else {
		logger.Warn().Err(err).Int("status", resp.Status).Msg("request rejected")
	}

	writeJSON(w, resp.Status, resp)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
