package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/mgbet/betbook/internal/config"
	"github.com/mgbet/betbook/internal/core"
	"github.com/mgbet/betbook/internal/logging"
	"github.com/mgbet/betbook/internal/store"
	"github.com/mgbet/betbook/internal/web"
)

func main() {
	// Local development convenience; in production the environment is the
	// source of truth and no .env file exists.
	_ = godotenv.Overload()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting bet tracker", "config", cfg.String())

	ctx := context.Background()

	creds, err := cfg.Sheets.Credentials()
	if err != nil {
		slog.Error("credentials error", "error", err)
		os.Exit(1)
	}

	sheetsStore, err := store.NewSheetsStore(ctx, creds, cfg.Sheets.SpreadsheetID)
	if err != nil {
		slog.Error("sheets client error", "error", err)
		os.Exit(1)
	}

	cached := store.NewReadCache(sheetsStore, cfg.Cache.ReadTTL)

	service := core.NewService(cached, core.Tables{
		Singles: cfg.Sheets.SinglesTable,
		Parlays: cfg.Sheets.ParlaysTable,
	})

	server := web.NewServer(service, cfg)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	case sig := <-stop:
		slog.Info("shutting down", "signal", sig.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("stopped")
}
