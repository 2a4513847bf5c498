package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hravatar/interview-gateway/internal/api"
	"github.com/hravatar/interview-gateway/internal/asr"
	"github.com/hravatar/interview-gateway/internal/config"
	"github.com/hravatar/interview-gateway/internal/evidence"
	"github.com/hravatar/interview-gateway/internal/interview"
	"github.com/hravatar/interview-gateway/internal/observability"
	"github.com/hravatar/interview-gateway/internal/report"
	"github.com/hravatar/interview-gateway/internal/resume"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		// Use fmt for fatal errors before logger is initialized
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	observability.InitLogger(cfg.LogLevel, cfg.LogPretty)
	logger := observability.GetLogger()

	logger.Info().
		Str("port", cfg.Port).
		Str("deepgram_model", cfg.DeepgramModel).
		Str("default_language", cfg.DefaultLanguage).
		Str("log_level", cfg.LogLevel).
		Bool("metrics_enabled", cfg.MetricsEnabled).
		Msg("Interview Gateway Service starting")

	// Skill catalog, optionally extended from a YAML overlay
	catalog, err := evidence.LoadCatalog(cfg.SkillCatalogPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.SkillCatalogPath).Msg("Failed to load skill catalog")
	}
	logger.Info().Int("skills", len(catalog.Skills())).Msg("Skill catalog loaded")

	state := interview.NewState()
	transcriber := asr.NewDeepgramTranscriber(cfg)
	extractor := evidence.NewExtractor(catalog)
	renderer := report.NewFileRenderer(cfg.ReportsDir)

	server := api.NewServer(cfg, state, transcriber, extractor, resume.StubParser{}, renderer)

	// Create HTTP server with timeouts. WebSocket connections are
	// hijacked on upgrade, so the read/write timeouts only govern the
	// plain HTTP endpoints.
	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info().
			Str("port", cfg.Port).
			Str("endpoint", fmt.Sprintf("ws://localhost:%s/audio", cfg.Port)).
			Msg("Server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited gracefully")
}
