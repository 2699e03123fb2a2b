package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/cohorttools/cohort-tools-api/internal/config"
	"github.com/cohorttools/cohort-tools-api/internal/crypto"
	"github.com/cohorttools/cohort-tools-api/internal/logging"
	"github.com/cohorttools/cohort-tools-api/internal/repository"
	"github.com/cohorttools/cohort-tools-api/internal/router"
)

const connectTimeout = 15 * time.Second

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logging.New(cfg.LogLevel))

	hasher, err := crypto.NewHasher(crypto.HasherConfig{
		Algorithm: cfg.HashAlgorithm,
		Argon2: crypto.HashParams{
			Memory:      cfg.Argon2MemoryKiB,
			Iterations:  cfg.Argon2Iterations,
			Parallelism: cfg.Argon2Parallelism,
		},
		BcryptCost: cfg.BcryptCost,
	})
	if err != nil {
		slog.Error("invalid password hashing configuration", "error", err)
		os.Exit(1)
	}

	tokens, err := crypto.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		slog.Error("invalid token configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	store, err := repository.Open(ctx, cfg)
	cancel()
	if err != nil {
		slog.Error("store unavailable", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              cfg.Address(),
		Handler:           router.New(router.Deps{Store: store, Hasher: hasher, Tokens: tokens}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server starting",
			"port", cfg.Port,
			"env", cfg.Env,
			"store", cfg.StoreDriver,
			"hash", hasher.Algorithm(),
			"token_ttl", tokens.TTL().String(),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel = context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced shutdown", "error", err)
	}
	if err := store.Close(ctx); err != nil {
		slog.Error("closing store", "error", err)
	}

	slog.Info("server stopped")
}
