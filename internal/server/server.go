// Package server orchestrates all components: database, COMMS client,
// agents, WebSocket hub, and the HTTP API.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	nats "github.com/nats-io/nats.go"

	"github.com/globaltrade/platform/internal/config"
	"github.com/globaltrade/platform/internal/realtime"
	"github.com/globaltrade/platform/pkg/agents"
	"github.com/globaltrade/platform/pkg/comms"
	"github.com/globaltrade/platform/pkg/db"
	"github.com/globaltrade/platform/pkg/events"
	"github.com/globaltrade/platform/pkg/llm"
)

const logPrefix = "server:server"

// Server is the trade platform orchestrator.
type Server struct {
	cfg        *config.Config
	nc         *nats.Conn
	pool       *pgxpool.Pool
	httpServer *http.Server
	manager    *agents.Manager
}

// Run starts the server, blocks until shutdown signal, then cleans up.
func Run() error {
	// Setup structured logging
	var logLevel slog.Level
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("%s - failed to load config: %w", logPrefix, err)
	}

	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info(fmt.Sprintf("%s - Starting globaltrade platform", logPrefix))

	if err := cfg.ValidateForServe(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := &Server{cfg: cfg}

	// Step 1: Connect to database
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("%s - failed to connect to database: %w", logPrefix, err)
	}
	s.pool = pool

	// Step 1b: Run migrations if enabled
	if cfg.RunMigrations {
		migrationSQL, err := db.LoadMigrationFiles(cfg.MigrationPath)
		if err != nil {
			pool.Close()
			return fmt.Errorf("%s - failed to load migrations: %w", logPrefix, err)
		}
		if err := db.RunMigrations(ctx, pool, migrationSQL); err != nil {
			pool.Close()
			return fmt.Errorf("%s - failed to run migrations: %w", logPrefix, err)
		}
	}
	repo := db.NewRepository(pool)

	// Step 2: Connect to COMMS. An empty COMMS_URL disables event publishing.
	var publisher events.EventPublisher = &events.NoOpPublisher{}
	if cfg.COMMSURL != "" {
		nc, err := comms.Connect(cfg.COMMSURL, cfg.COMMSName)
		if err != nil {
			pool.Close()
			return fmt.Errorf("%s - failed to connect to COMMS: %w", logPrefix, err)
		}
		s.nc = nc
		publisher = events.NewCommsPublisher(nc, &events.CommsPublisherOpts{
			MessageSubject:  cfg.MessageEventSubject,
			ResearchSubject: cfg.ResearchEventSubject,
		})
		slog.Info(fmt.Sprintf("%s - Event publishing enabled via %s", logPrefix, cfg.COMMSURL))
	} else {
		slog.Info(fmt.Sprintf("%s - COMMS_URL not set, event publishing disabled", logPrefix))
	}

	// Step 3: LLM client and agents
	llmClient := llm.NewClient(llm.Config{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.OpenAIModel,
	})
	manager := agents.NewManager(llmClient)
	manager.Start()
	s.manager = manager

	// Step 4: WebSocket hub and handler
	hub := realtime.NewHub()
	voice := &realtime.VoicePipeline{
		Transcriber: llmClient,
		Speaker:     llmClient,
		Translator:  manager,
	}
	wsHandler := realtime.NewHandler(hub, repo, manager, publisher, voice)

	// Step 5: HTTP server
	api := NewAPI(cfg, repo, manager, publisher, wsHandler.ServeWS)
	httpAddr := cfg.HTTPAddr
	if httpAddr == "" {
		httpAddr = fmt.Sprintf(":%d", cfg.HTTPPort)
	}
	s.httpServer = &http.Server{
		Addr:              httpAddr,
		Handler:           api.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		slog.Info(fmt.Sprintf("%s - HTTP server listening on %s", logPrefix, httpAddr))
		if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error(fmt.Sprintf("%s - HTTP server error: %v", logPrefix, err))
		}
	}()

	slog.Info(fmt.Sprintf("%s - Platform is ready", logPrefix))

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info(fmt.Sprintf("%s - Received signal %s, shutting down", logPrefix, sig))

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	s.httpServer.Shutdown(shutdownCtx)
	manager.Stop()
	if s.nc != nil {
		s.nc.Drain()
	}
	pool.Close()

	slog.Info(fmt.Sprintf("%s - Shutdown complete", logPrefix))
	return nil
}
