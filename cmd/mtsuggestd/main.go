package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/translatewiki/mtsuggest"
	"github.com/translatewiki/mtsuggest/internal/config"
	"github.com/translatewiki/mtsuggest/wikiparse"
)

const (
	readHeaderTimeout      = 15 * time.Second
	readTimeout            = 15 * time.Second
	writeTimeout           = 30 * time.Second
	idleTimeout            = 30 * time.Second
	serverShutdownDeadline = 5 * time.Second
)

func main() {
	log := newLogger()
	if err := run(log); err != nil {
		log.Fatal().Err(err).Msg("mtsuggestd exited with an error")
	}
}

func run(log zerolog.Logger) error {
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	prov, err := buildProvider(cfg)
	if err != nil {
		return fmt.Errorf("constructing provider: %w", err)
	}

	pipeline := mtsuggest.New(wikiparse.Parse, prov, mtsuggest.WithLogger(log))
	srv := NewServer(pipeline, cfg.DefaultSourceLocale, log)

	httpServer := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.ServerAddr).Msg("listening")
		serverErrors <- httpServer.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), serverShutdownDeadline)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
	}

	return nil
}
