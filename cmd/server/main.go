// @title EvidenceLens API
// @version 1.0
// @description Structured analysis of research documents with follow-up chat and media generation.
// @BasePath /api/v1
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"evidencelens/internal/analysis"
	"evidencelens/internal/chat"
	"evidencelens/internal/config"
	"evidencelens/internal/encoder"
	"evidencelens/internal/gemini"
	"evidencelens/internal/generator"
	"evidencelens/internal/handler"
	"evidencelens/internal/logger"
	"evidencelens/internal/port"
	"evidencelens/internal/repository/postgres"
	"evidencelens/internal/router"
	"evidencelens/internal/service"
	s3storage "evidencelens/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	zl := logger.New(&cfg.Log)
	defer func() { _ = zl.Sync() }()
	zap.ReplaceGlobals(zl)

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	analysisRepo := postgres.NewAnalysisRepo(db)
	turnRepo := postgres.NewChatTurnRepo(db)

	// Initialize storage; archiving is optional
	var archive port.SourceArchive
	if cfg.S3.Bucket != "" {
		archive, err = s3storage.NewSourceArchive(&cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 archive: %w", err)
		}
	} else {
		zl.Info("source archive disabled; no bucket configured")
	}

	// Initialize the model client and core components
	if !cfg.Gemini.HasCredential() {
		zl.Warn("gemini API key is not set; analysis, chat and media endpoints will fail")
	}
	geminiClient := gemini.NewClient(&cfg.Gemini, zl.Named("gemini"))
	enc := encoder.New(cfg.Upload.MaxFileBytes(), zl.Named("encoder"))
	analyzer := analysis.NewAnalyzer(geminiClient, enc, analysis.ModelsFromConfig(&cfg.Gemini), zl.Named("analysis"))
	chatManager := chat.NewManager(geminiClient, cfg.Gemini.ChatModel, zl.Named("chat"))
	gen := generator.New(geminiClient, generator.ModelsFromConfig(&cfg.Gemini), zl.Named("generator"))

	// Initialize services
	analysisSvc := service.NewAnalysisService(analyzer, analysisRepo, archive, chatManager, cfg.Upload.MaxFiles, zl.Named("analysis_service"))
	chatSvc := service.NewChatService(chatManager, analysisRepo, turnRepo, zl.Named("chat_service"))
	mediaSvc := service.NewMediaService(gen, enc, analysisRepo)

	// Setup router
	r := router.Setup(router.Handlers{
		Analysis: handler.NewAnalysisHandler(analysisSvc),
		Chat:     handler.NewChatHandler(chatSvc),
		Media:    handler.NewMediaHandler(mediaSvc),
		Health:   handler.NewHealthHandler(db, geminiClient),
	}, cfg.CORS.AllowedOrigins, cfg.Upload.MaxFileBytes(), zl)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		zl.Info("server starting", zap.String("addr", cfg.Server.Port), zap.String("environment", cfg.Server.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		zl.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}
