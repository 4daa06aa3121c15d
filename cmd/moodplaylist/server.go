package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"moodplaylist/internal/app/playlists"
	"moodplaylist/internal/config"
	"moodplaylist/internal/http/middleware"
	"moodplaylist/internal/httpapi"
	"moodplaylist/internal/musicapi"
	"moodplaylist/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig((*config.Config).Validate)
		if err != nil {
			return err
		}
		logger := newLogger(cfg)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		playlistStore, err := openStore(ctx, cfg.Storage)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer playlistStore.Close()

		server := &http.Server{
			Addr:              cfg.Server.Addr(),
			Handler:           newHTTPHandler(cfg, logger, playlistStore),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info().
				Str("addr", server.Addr).
				Str("storage", cfg.Storage.Driver).
				Str("route", cfg.Routes.GeneratePlaylist).
				Msg("API listening")
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		logger.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func newPlaylistService(cfg *config.Config, playlistStore store.PlaylistStore) playlists.Service {
	client := musicapi.NewSpotifyClient(musicapi.Config{
		ClientID:       cfg.Catalog.ClientID,
		ClientSecret:   cfg.Catalog.ClientSecret,
		TokenURL:       cfg.Catalog.TokenURL,
		APIBaseURL:     cfg.Catalog.APIURL,
		RequestTimeout: cfg.Catalog.Timeout,
	})
	return playlists.New(client, playlistStore)
}

func newHTTPHandler(cfg *config.Config, logger zerolog.Logger, playlistStore store.PlaylistStore) http.Handler {
	api := httpapi.New(newPlaylistService(cfg, playlistStore), playlistStore, cfg.Routes.GeneratePlaylist)

	var handler http.Handler = api.Routes()
	handler = middleware.CORS(cfg.CORS.AllowedOrigins)(handler)
	handler = middleware.Recovery()(handler)
	handler = middleware.RequestLogging(logger)(handler)
	return handler
}
