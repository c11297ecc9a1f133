package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mm-mmFrank/TheAudioApp/internal/adapters/httpapi"
	"github.com/mm-mmFrank/TheAudioApp/internal/app"
	"github.com/mm-mmFrank/TheAudioApp/internal/config"
	"github.com/mm-mmFrank/TheAudioApp/internal/core"
	"github.com/mm-mmFrank/TheAudioApp/internal/spotify"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if os.Getenv("LOG_DEBUG") != "" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load config")
	}

	store := app.NewSessionStore()
	registry := app.NewParticipantRegistry()
	cache := app.NewStateCache()
	hub := core.NewHub()
	router := app.NewEventRouter(store, registry, cache, hub)
	search := spotify.New(cfg.Spotify.ClientID, cfg.Spotify.ClientSecret)
	if !search.Configured() {
		log.Warn().Msg("Spotify credentials not set, search serves demo tracks")
	}

	r := httpapi.SetupRouter(ctx, cfg, router, search)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("Studio server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}
