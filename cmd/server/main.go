package main

import (
	"aperturelab/internal/app"
	"aperturelab/internal/config"
	"aperturelab/internal/platform/logger"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()
	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to start", "error", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           a.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server starting",
			"addr", srv.Addr,
			"flagBackend", cfg.FlagBackend,
			"mongo", cfg.MongoURI != "",
			"redis", cfg.RedisURI != "",
			"autoAdvance", cfg.AutoAdvance,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe", "error", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}
	if err := a.Close(shutdownCtx); err != nil {
		log.Error("failed to release resources", "error", err)
	}

	log.Info("server exited")
}
