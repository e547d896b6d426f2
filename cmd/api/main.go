package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"aprende/internal/config"
	"aprende/internal/contextutil"
	"aprende/internal/http"
	"aprende/internal/llm"
	"aprende/internal/realtime"
	"aprende/internal/render"
	"aprende/internal/service"
	"aprende/internal/storage"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.Level(),
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.Level().String(), "format", cfg.LogFormat)

	if err := run(cfg, logger); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := storage.Open(ctx, storage.Options{
		URL:             cfg.DatabaseURL,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = db.Close()
	}()

	if err := db.Migrate(ctx); err != nil {
		return err
	}
	slog.Info("Database initialized", "dialect", db.Dialect())

	// Create repository instances
	vocabularyRepo := storage.NewVocabularyRepo(db)
	messageRepo := storage.NewMessageRepo(db)

	// Create LLM client (external service layer)
	llmClient, err := llm.New(llm.Config{
		Provider: cfg.LLMProvider,
		APIKey:   cfg.LLMAPIKey(),
		Model:    cfg.LLMModelName,
		BaseURL:  cfg.LLMBaseURL,
		Timeout:  cfg.LLMTimeout,
	})
	if err != nil {
		return err
	}
	if cfg.LLMAPIKey() == "" && cfg.LLMBaseURL == "" {
		slog.Warn("No API key configured for LLM provider", "provider", cfg.LLMProvider)
	}
	slog.Info("LLM client initialized", "provider", cfg.LLMProvider, "model", cfg.LLMModelName)

	hub := realtime.NewHub(vocabularyRepo, realtime.Options{
		SendBuffer:     cfg.WSSendBuffer,
		AllowedOrigins: cfg.Origins(),
	})

	var bridge *realtime.PGBridge
	if db.Dialect() == storage.DialectPostgres {
		bridge = realtime.NewPGBridge(db.Source().DSN, db.SQL(), hub)
		hub.SetPublisher(bridge)
		slog.Info("Cross-instance vocabulary updates enabled", "channel", realtime.NotifyChannel, "instance", bridge.InstanceID())
	}

	chatService := service.NewChatService(llmClient, vocabularyRepo, messageRepo, hub, render.NewRenderer())
	vocabularyService := service.NewVocabularyService(vocabularyRepo, hub)

	// Create router with dependencies
	router := http.NewRouter(&http.Deps{
		ChatService:       chatService,
		VocabularyService: vocabularyService,
		DB:                db,
		WebSocket:         nethttp.HandlerFunc(hub.ServeWS),
		AllowedOrigins:    cfg.Origins(),
		StaticDir:         cfg.StaticDir,
		ShowErrorDetails:  cfg.IsDevelopment(),
	})

	server := &nethttp.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Chat turns wait on the LLM.
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  2 * time.Minute,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return hub.Run(contextutil.WithLogger(gctx, logger.With("component", "realtime")))
	})

	if bridge != nil {
		g.Go(func() error {
			return bridge.Listen(contextutil.WithLogger(gctx, logger.With("component", "pgnotify")))
		})
	}

	g.Go(func() error {
		slog.Info("Starting API server", "addr", server.Addr, "env", cfg.AppEnv)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down API server", "timeout", cfg.ShutdownTimeout)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
