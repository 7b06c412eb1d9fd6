package main

import (
	"encoding/json"
	"fmt"
	"io"

	"digital-key-store/internal/app"
	"digital-key-store/internal/config"
	"digital-key-store/internal/logger"
	"digital-key-store/internal/repository"
	"digital-key-store/internal/service"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// cliConfig is the subset of the server configuration the read-only
// commands need. Mail credentials are only required by verify.
type cliConfig struct {
	Log        config.Log
	Storage    config.Storage `envPrefix:"STORAGE_"`
	UploadsDir string         `env:"UPLOADS_DIR" envDefault:"uploads"`
}

type session struct {
	store   repository.DocumentStore
	orders  service.OrderService
	logger  *zap.Logger
	jsonOut bool
}

// openSession wires the same repositories and service the server uses.
// withMail loads the full configuration so verified keys are sent.
func openSession(cmd *cobra.Command, withMail bool) (*session, error) {
	_ = godotenv.Load()

	cfg := &cliConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	notifier := service.NewNotifier()
	if withMail {
		full, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
		notifier = app.NewNotifier(full)
	}

	zl, err := logger.NewZapLog(config.Log{Level: cfg.Log.Level, Format: "console"})
	if err != nil {
		return nil, err
	}

	store, err := app.OpenStore(&cfg.Storage)
	if err != nil {
		return nil, err
	}

	repos := app.NewRepositories(store)
	if err := repos.Init(cmd.Context(), cfg.Storage.SeedFile, zl); err != nil {
		store.Close()
		return nil, err
	}

	proofRepo, err := repository.NewProofRepository(cfg.UploadsDir)
	if err != nil {
		store.Close()
		return nil, err
	}

	jsonOut, _ := cmd.Flags().GetBool("json")

	return &session{
		store:   store,
		orders:  service.NewOrderService(repos.Inventory, repos.Orders, proofRepo, notifier, zl),
		logger:  zl,
		jsonOut: jsonOut,
	}, nil
}

func (s *session) Close() error {
	s.orders.WaitNotifications()
	_ = s.logger.Sync()
	return s.store.Close()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
