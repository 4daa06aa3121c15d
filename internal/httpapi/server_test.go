package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"moodplaylist/internal/models"
	"moodplaylist/internal/musicapi"
	"moodplaylist/internal/store"
)

type stubPlaylistService struct {
	trackURIs []string
	err       error

	calls    int
	lastMood models.Mood
}

func (s *stubPlaylistService) Generate(_ context.Context, mood models.Mood) (models.Playlist, error) {
	s.calls++
	s.lastMood = mood
	if s.err != nil {
		return models.Playlist{}, s.err
	}
	return models.Playlist{
		ID:        "pl-" + strconv.Itoa(s.calls),
		Mood:      mood,
		TrackURIs: s.trackURIs,
	}, nil
}

type stubHealth struct {
	err error
}

func (h stubHealth) Ping(context.Context) error { return h.err }

func doRequest(t *testing.T, handler http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestGeneratePlaylistSuccess(t *testing.T) {
	svc := &stubPlaylistService{trackURIs: []string{"u1", "u2", "u3"}}
	handler := New(svc, nil, "").Routes()

	rec := doRequest(t, handler, http.MethodGet, "/playlists/happy")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}

	body := decodeBody[playlistResponse](t, rec)
	if body.ID == nil || *body.ID != "pl-1" {
		t.Fatalf("unexpected id %v", body.ID)
	}
	if body.Mood != "happy" {
		t.Fatalf("expected mood happy, got %q", body.Mood)
	}
	if strings.Join(body.TrackURIs, ",") != "u1,u2,u3" {
		t.Fatalf("unexpected track uris %v", body.TrackURIs)
	}
}

func TestGeneratePlaylistMoodIsCaseInsensitive(t *testing.T) {
	svc := &stubPlaylistService{}
	handler := New(svc, nil, "").Routes()

	rec := doRequest(t, handler, http.MethodGet, "/playlists/HaPpY")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.lastMood != models.MoodHappy {
		t.Fatalf("expected canonical mood, got %q", svc.lastMood)
	}
}

func TestGeneratePlaylistUnknownMood(t *testing.T) {
	svc := &stubPlaylistService{}
	handler := New(svc, nil, "").Routes()

	rec := doRequest(t, handler, http.MethodGet, "/playlists/euphoric")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	body := decodeBody[errorResponse](t, rec)
	if body.Message != "Mood not found" || body.Status != http.StatusNotFound {
		t.Fatalf("unexpected body %+v", body)
	}
	if svc.calls != 0 {
		t.Fatalf("service must not be called for unknown moods")
	}
}

func TestGeneratePlaylistInvalidEncoding(t *testing.T) {
	svc := &stubPlaylistService{}
	handler := New(svc, nil, "").Routes()

	rec := doRequest(t, handler, http.MethodGet, "/playlists/%FF")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	body := decodeBody[errorResponse](t, rec)
	if !strings.HasPrefix(body.Message, "Invalid request input") {
		t.Fatalf("unexpected message %q", body.Message)
	}
	if len(body.Details) != 1 {
		t.Fatalf("expected one detail, got %v", body.Details)
	}
	if svc.calls != 0 {
		t.Fatalf("service must not be called for malformed input")
	}
}

func TestGeneratePlaylistEmptyResult(t *testing.T) {
	handler := New(&stubPlaylistService{}, nil, "").Routes()

	rec := doRequest(t, handler, http.MethodGet, "/playlists/sad")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"trackUris":[]`) {
		t.Fatalf("expected empty array, got %s", rec.Body.String())
	}
}

func TestGeneratePlaylistTwiceYieldsDistinctIDs(t *testing.T) {
	handler := New(&stubPlaylistService{trackURIs: []string{"u1"}}, nil, "").Routes()

	first := decodeBody[playlistResponse](t, doRequest(t, handler, http.MethodGet, "/playlists/relaxed"))
	second := decodeBody[playlistResponse](t, doRequest(t, handler, http.MethodGet, "/playlists/relaxed"))

	if first.ID == nil || second.ID == nil || *first.ID == *second.ID {
		t.Fatalf("expected distinct ids, got %v and %v", first.ID, second.ID)
	}
}

func TestGeneratePlaylistErrorMapping(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "authentication",
			err:         fmt.Errorf("generate playlist: %w: %w", musicapi.ErrAuthentication, errors.New("401")),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Failed to authenticate with the music catalog",
		},
		{
			name:        "catalog query",
			err:         fmt.Errorf("generate playlist: %w", musicapi.ErrCatalogQuery),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Failed to query the music catalog",
		},
		{
			name:        "persistence",
			err:         fmt.Errorf("save playlist: %w", store.ErrPersistence),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Failed to store playlist",
		},
		{
			name:        "mood from service",
			err:         models.ErrMoodNotFound,
			wantStatus:  http.StatusNotFound,
			wantMessage: "Mood not found",
		},
		{
			name:        "unexpected",
			err:         errors.New("something odd"),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Internal server error",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			handler := New(&stubPlaylistService{err: tc.err}, nil, "").Routes()

			rec := doRequest(t, handler, http.MethodGet, "/playlists/focused")
			if rec.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, rec.Code)
			}
			body := decodeBody[errorResponse](t, rec)
			if body.Message != tc.wantMessage || body.Status != tc.wantStatus {
				t.Fatalf("unexpected body %+v", body)
			}
		})
	}
}

func TestCustomRoute(t *testing.T) {
	svc := &stubPlaylistService{}
	handler := New(svc, nil, "/api/moods/{mood}/playlist").Routes()

	if rec := doRequest(t, handler, http.MethodGet, "/api/moods/romantic/playlist"); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on custom route, got %d", rec.Code)
	}
	if rec := doRequest(t, handler, http.MethodGet, "/playlists/romantic"); rec.Code != http.StatusNotFound {
		t.Fatalf("expected default route to be unmounted, got %d", rec.Code)
	}
}

func TestRouterFallbacks(t *testing.T) {
	handler := New(&stubPlaylistService{}, nil, "").Routes()

	rec := doRequest(t, handler, http.MethodGet, "/nope")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if body := decodeBody[errorResponse](t, rec); body.Status != http.StatusNotFound {
		t.Fatalf("unexpected body %+v", body)
	}

	rec = doRequest(t, handler, http.MethodPost, "/playlists/happy")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		health     HealthChecker
		wantStatus int
	}{
		{name: "no checker", wantStatus: http.StatusOK},
		{name: "healthy store", health: stubHealth{}, wantStatus: http.StatusOK},
		{name: "store down", health: stubHealth{err: errors.New("down")}, wantStatus: http.StatusServiceUnavailable},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			handler := New(&stubPlaylistService{}, tc.health, "").Routes()
			rec := doRequest(t, handler, http.MethodGet, "/health")
			if rec.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, rec.Code)
			}
		})
	}
}
