package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"digital-key-store/internal/app"
	"digital-key-store/internal/config"
	"digital-key-store/internal/logger"
	"digital-key-store/internal/repository"
	"digital-key-store/internal/server"
	"digital-key-store/internal/service"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	zl, err := logger.NewZapLog(cfg.Log)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer zl.Sync()

	if err := run(cfg, zl); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, zl *zap.Logger) error {
	ctx := context.Background()

	store, err := app.OpenStore(&cfg.Storage)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	repos := app.NewRepositories(store)
	if err := repos.Init(ctx, cfg.Storage.SeedFile, zl); err != nil {
		return fmt.Errorf("init store: %w", err)
	}

	proofRepo, err := repository.NewProofRepository(cfg.UploadsDir)
	if err != nil {
		return err
	}

	orderService := service.NewOrderService(
		repos.Inventory,
		repos.Orders,
		proofRepo,
		app.NewNotifier(cfg),
		zl,
	)

	opts := server.Options{
		UploadsDir: cfg.UploadsDir,
		PublicDir:  cfg.PublicDir,
	}
	if cfg.AdminGateEnabled() {
		if cfg.Admin.JWTSecret == "" {
			cfg.Admin.JWTSecret = randomSecret()
			zl.Warn("ADMIN_JWT_SECRET not set, tokens will not survive a restart")
		}
		opts.AuthService = service.NewAuthService(&cfg.Admin)
	} else {
		zl.Warn("ADMIN_PASSWORD_HASH not set, admin routes are open")
	}

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	// Init HTTP server
	srv := server.NewServer(orderService, opts, zl)

	errCh := make(chan error, 1)
	zl.Info("starting HTTP server",
		zap.String("addr", serverAddr),
		zap.String("storage", cfg.Storage.Driver),
		zap.String("environment", cfg.Environment.Name),
	)
	go func() {
		if err := srv.Start(serverAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-sigChan:
		zl.Info("signal received, starting graceful shutdown", zap.String("signal", sig.String()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("HTTP server shutdown error", zap.Error(err))
	}
	orderService.WaitNotifications()

	zl.Info("shutdown complete")
	return nil
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}
