package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"oneiro/internal/config"
	"oneiro/internal/domain/repositories"
	"oneiro/internal/handler"
	"oneiro/internal/interpreter"
	"oneiro/internal/middleware"
	"oneiro/internal/repository/kv"
	"oneiro/internal/service"
	"oneiro/internal/store"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
	)

	// Open storage: postgres when a DSN is configured, local sqlite
	// otherwise.
	ctx := context.Background()
	var (
		kvStore    repositories.KV
		closeStore func() error
	)
	if cfg.DatabaseURL != "" {
		pg, err := kv.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to open postgres storage: %v", err)
		}
		kvStore = pg
		closeStore = pg.Close
		logger.Info("storage ready", "backend", "postgres")
	} else {
		sq, err := kv.OpenSQLite(cfg.DatabasePath)
		if err != nil {
			log.Fatalf("Failed to open sqlite storage: %v", err)
		}
		kvStore = sq
		closeStore = sq.Close
		logger.Info("storage ready", "backend", "sqlite", "path", cfg.DatabasePath)
	}
	defer closeStore()

	// Load fallback rule tables
	rules, err := interpreter.LoadRules()
	if err != nil {
		log.Fatalf("Failed to load rule tables: %v", err)
	}

	// Wire interpretation pipeline
	geminiClient := interpreter.NewGeminiClient(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.GeminiModel)
	generator := interpreter.NewGenerator(geminiClient, interpreter.NewFallbackEngine(rules), logger)
	if cfg.GeminiAPIKey == "" {
		logger.Warn("GEMINI_API_KEY not set, interpretation requests will fail until configured")
	}

	// Wire store, service and handlers
	dreamStore := store.New(kvStore, logger)
	dreamService := service.NewDreamService(dreamStore, generator, logger)
	dreamHandler := handler.NewDreamHandler(dreamService, logger)
	interpretationHandler := handler.NewInterpretationHandler(dreamService, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", dreamHandler.HealthCheck)

	// Dream routes; fixed paths must come before the {id} route
	mux.HandleFunc("GET /api/dreams", dreamHandler.ListDreams)
	mux.HandleFunc("POST /api/dreams", dreamHandler.CreateDream)
	mux.HandleFunc("GET /api/dreams/timeline", dreamHandler.Timeline)
	mux.HandleFunc("GET /api/dreams/stats", dreamHandler.Stats)
	mux.HandleFunc("GET /api/dreams/{id}", dreamHandler.GetDream)
	mux.HandleFunc("PATCH /api/dreams/{id}", dreamHandler.UpdateDream)
	mux.HandleFunc("DELETE /api/dreams/{id}", dreamHandler.DeleteDream)

	// Interpretation routes
	mux.HandleFunc("POST /api/dreams/{id}/interpretation", interpretationHandler.InterpretDream)
	mux.HandleFunc("POST /api/interpretations/preview", interpretationHandler.Preview)

	// Build middleware chain; applied in reverse order (they wrap each other)
	var root http.Handler = mux
	root = middleware.Recovery(logger)(root)
	root = middleware.RequestID()(root)

	// CORS - outermost so OPTIONS pre-flight requests are handled first
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
	})
	root = corsHandler.Handler(root)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // interpretation calls can be slow
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
