/*
Package main is the entry point for the SkillSwap server.

It is responsible for loading configuration, initializing the global logging system,
connecting to the database, wiring the match engine and the presence hub, setting up
the HTTP server, and gracefully handling operating system interrupt signals
(SIGINT, SIGTERM) to ensure a smooth server shutdown.
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skillswap/internal/app/advice"
	"skillswap/internal/app/db"
	"skillswap/internal/app/hub"
	"skillswap/internal/app/match"
	"skillswap/internal/app/social"
	"skillswap/internal/app/store"
	"skillswap/internal/configs"
	"skillswap/internal/handler"
	"skillswap/internal/pkg/logx"
)

func main() {
	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	logx.InitGlobalLogger(cfg.Environment == "development")
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Str("advice_model", cfg.AdviceModel).
		Msg("Configuration loaded successfully")

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to the database and apply migrations
	pool, err := db.NewPool(cfg.DatabaseDSN)
	if err != nil {
		logx.Fatal(err, "Failed to initialize database")
	}
	defer pool.Close()

	st := store.New(pool)

	// Wire the match engine
	adviceClient := advice.NewClient(cfg.AdviceAPIURL, cfg.AdviceAPIKey, cfg.AdviceModel, cfg.AdviceTimeout)
	engine := match.NewEngine(st, adviceClient, cfg.Match)

	// Wire the presence hub
	registry := hub.NewMemoryRegistry()
	presenceHub := hub.NewHub(registry)

	deps := &handler.AppDeps{
		Config:      cfg,
		Store:       st,
		Engine:      engine,
		Hub:         presenceHub,
		Connections: social.NewConnectionService(st, st, presenceHub),
		Messages:    social.NewMessageService(st, st, presenceHub),
	}

	// Setup HTTP server and routes
	router := handler.Router(deps)

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("SkillSwap Server starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 5 seconds.
	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Fatal(err, "Server forced to shutdown")
	}

	presenceHub.Shutdown()

	logx.Info("Server gracefully stopped.")
}
