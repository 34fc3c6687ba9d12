package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sereneai/chat-gateway/internal/chat"
	"github.com/sereneai/chat-gateway/internal/completion"
	"github.com/sereneai/chat-gateway/internal/config"
	"github.com/sereneai/chat-gateway/internal/observability"
	"github.com/sereneai/chat-gateway/internal/recognize"
	"github.com/sereneai/chat-gateway/internal/server"
	"github.com/sereneai/chat-gateway/internal/session"
	"github.com/sereneai/chat-gateway/internal/speak"
	"github.com/sereneai/chat-gateway/internal/tts"
	"github.com/sereneai/chat-gateway/internal/voices"
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
		Str("model", cfg.OpenAIModel).
		Bool("speech_input", cfg.SpeechAvailable()).
		Bool("metrics_enabled", cfg.MetricsEnabled).
		Msg("Chat Gateway Service starting")

	// Conversation state, seeded with the system prompt
	store := chat.NewStore(cfg.SystemPrompt)

	// Event stream: appends trigger page re-renders, alerts surface dialogs
	hub := server.NewEventHub()
	store.Subscribe(func(msgs []chat.Message) { hub.Broadcast(server.AppendEvent(msgs)) })

	// Vendor clients
	completer := completion.NewClient(cfg)
	synth := tts.NewElevenLabsClient(cfg)

	// Speech output: remote synthesis with local platform fallback
	catalog := voices.NewCatalog(voices.NewPlatformLister())
	speaker := speak.NewSpeaker(cfg, synth, speak.NewPlatformPlayer(), speak.NewPlatformEngine(), catalog)

	// Session wiring
	sess := session.New(store, completer, speaker, func(msg string) {
		hub.Broadcast(server.AlertEvent(msg))
	})
	sess.AttachListener(recognize.NewListener(recognize.FromConfig(cfg), sess.AutoSend))

	// HTTP routes
	mux := http.NewServeMux()
	server.New(sess, synth, hub, cfg.SpeechAvailable()).Register(mux)

	// Health check endpoint
	mux.HandleFunc("/health", observability.HealthCheckHandler())

	// Readiness checks validate configuration without spending vendor quota
	checks := map[string]observability.HealthCheckFunc{
		"completion": func(ctx context.Context) (bool, error) {
			if cfg.OpenAIAPIKey == "" {
				return false, fmt.Errorf("completion credential missing")
			}
			return true, nil
		},
		"tts": func(ctx context.Context) (bool, error) {
			if cfg.ElevenLabsAPIKey == "" {
				return false, fmt.Errorf("tts credential missing")
			}
			return true, nil
		},
	}
	if cfg.SpeechAvailable() {
		checks["recognition"] = func(ctx context.Context) (bool, error) {
			return true, nil
		}
	}
	mux.HandleFunc("/ready", observability.ReadinessHandler(checks))

	// Metrics endpoint (Prometheus)
	if cfg.MetricsEnabled {
		mux.Handle("/metrics", promhttp.Handler())
		logger.Info().Msg("Prometheus metrics enabled at /metrics")
	}

	// Create HTTP server with timeouts. Write timeout is generous because
	// /api/chat waits on the completion vendor.
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		pageURL := cfg.BaseURL
		if pageURL == "" {
			pageURL = fmt.Sprintf("http://localhost:%s", cfg.Port)
		}
		logger.Info().
			Str("port", cfg.Port).
			Str("page", pageURL).
			Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	// Let any in-flight vocalization finish
	sess.Wait()

	logger.Info().Msg("Server exited gracefully")
}
