package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fgeck/pinet/internal/api"
	"github.com/fgeck/pinet/internal/config"
	"github.com/fgeck/pinet/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the API server",
	Long: `Run the pinet API server. Configuration is read from a dotenv file
(--env-file, or ./.env when present) merged with the process environment.
API_KEY is required; the server refuses to start without it.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		log.Error().Err(err).Msg("failed to load config")
		return err
	}

	log.Info().
		Int("port", cfg.Port).
		Str("wol_broadcast", cfg.WOL.BroadcastIP).
		Msg("configuration loaded, PiNet API starting up")

	// Set up context with signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Warn().Str("signal", sig.String()).Msg("received signal, shutting down")
		cancel()
	}()

	server := api.New(*cfg, log.Logger)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server failed")
			return err
		}
	case <-ctx.Done():
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("graceful shutdown failed")
			return err
		}
	}

	log.Info().Msg("server stopped")
	return nil
}

// loadConfig resolves configuration for serve and validate: an explicit
// --env-file must exist, an implicit ./.env is used when present, and the
// process environment alone is the fallback.
func loadConfig() (*models.ServerConfig, error) {
	parser := config.NewParser()

	if envFile != "" {
		return parser.LoadFile(envFile)
	}

	if _, err := os.Stat(".env"); err == nil {
		return parser.LoadFile(".env")
	}

	return parser.Load()
}
