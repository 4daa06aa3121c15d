package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"moodplaylist/internal/app/playlists"
	"moodplaylist/internal/musicapi"
	"moodplaylist/internal/store"
)

// catalogServer fakes the token and search endpoints of the music catalog.
type catalogServer struct {
	mu          sync.Mutex
	tokenStatus int
	items       int
	searches    int
}

func (c *catalogServer) start(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/token", func(w http.ResponseWriter, r *http.Request) {
		c.mu.Lock()
		status := c.tokenStatus
		c.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if status != 0 {
			w.WriteHeader(status)
			fmt.Fprint(w, `{"error":"invalid_client"}`)
			return
		}
		fmt.Fprint(w, `{"access_token":"tok","token_type":"Bearer","expires_in":3600}`)
	})
	mux.HandleFunc("/v1/search", func(w http.ResponseWriter, r *http.Request) {
		c.mu.Lock()
		c.searches++
		n := c.items
		c.mu.Unlock()

		items := make([]string, 0, n)
		for i := 1; i <= n; i++ {
			items = append(items, fmt.Sprintf(`{"album":{"external_urls":{"spotify":"https://open.spotify.com/album/%d"}}}`, i))
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"tracks":{"items":[%s]}}`, strings.Join(items, ","))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newPipeline(t *testing.T, catalog *catalogServer) (http.Handler, *store.MemoryStore) {
	t.Helper()
	srv := catalog.start(t)

	client := musicapi.NewSpotifyClient(musicapi.Config{
		ClientID:     "id",
		ClientSecret: "secret",
		TokenURL:     srv.URL + "/api/token",
		APIBaseURL:   srv.URL,
	})
	mem := store.NewMemoryStore()
	return New(playlists.New(client, mem), mem, "").Routes(), mem
}

func TestPipelineGeneratesAndPersists(t *testing.T) {
	handler, mem := newPipeline(t, &catalogServer{items: 3})

	rec := doRequest(t, handler, http.MethodGet, "/playlists/happy")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody[playlistResponse](t, rec)
	if body.ID == nil {
		t.Fatal("expected persisted id")
	}
	if len(body.TrackURIs) != 3 || body.TrackURIs[0] != "https://open.spotify.com/album/1" {
		t.Fatalf("unexpected track uris %v", body.TrackURIs)
	}

	stored, err := mem.GetPlaylist(context.Background(), *body.ID)
	if err != nil {
		t.Fatalf("playlist not persisted: %v", err)
	}
	if strings.Join(stored.TrackURIs, ",") != strings.Join(body.TrackURIs, ",") {
		t.Fatalf("stored %v differs from response %v", stored.TrackURIs, body.TrackURIs)
	}
}

func TestPipelineAuthenticationFailure(t *testing.T) {
	catalog := &catalogServer{tokenStatus: http.StatusUnauthorized, items: 3}
	handler, _ := newPipeline(t, catalog)

	rec := doRequest(t, handler, http.MethodGet, "/playlists/happy")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if body := decodeBody[errorResponse](t, rec); body.Message != "Failed to authenticate with the music catalog" {
		t.Fatalf("unexpected message %q", body.Message)
	}

	catalog.mu.Lock()
	defer catalog.mu.Unlock()
	if catalog.searches != 0 {
		t.Fatalf("search must not run after failed authentication")
	}
}

func TestPipelineEmptySearch(t *testing.T) {
	handler, _ := newPipeline(t, &catalogServer{})

	rec := doRequest(t, handler, http.MethodGet, "/playlists/sad")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody[playlistResponse](t, rec)
	if body.ID == nil || len(body.TrackURIs) != 0 || body.TrackURIs == nil {
		t.Fatalf("unexpected body %+v", body)
	}
}
