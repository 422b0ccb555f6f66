// @title Declarant API
// @version 1.0
// @description Drafts Chinese import customs declarations from four trade documents.
// @BasePath /api/v1
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "declarant/docs"
	"declarant/internal/config"
	"declarant/internal/handler"
	"declarant/internal/logger"
	"declarant/internal/parser"
	_ "declarant/internal/parser/claude"
	_ "declarant/internal/parser/gemini"
	_ "declarant/internal/parser/openai"
	_ "declarant/internal/parser/vertex"
	"declarant/internal/router"
	"declarant/internal/service"
	"declarant/internal/textextract"
	"declarant/internal/xlsxexport"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	zl, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = zl.Sync() }()
	zap.ReplaceGlobals(zl)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Extraction oracle. A missing credential keeps the server up so the
	// UI can still collect documents; analysis then fails with a
	// configuration message and /readyz reports unavailable.
	oracle, err := parser.NewOracle(&cfg.Parser)
	if err != nil {
		zl.Error("extraction oracle not configured",
			zap.String("provider", cfg.Parser.Provider),
			zap.Strings("available", parser.Providers()),
			zap.Error(err),
		)
		oracle = parser.Unavailable(err)
	} else {
		zl.Info("extraction oracle configured",
			zap.String("provider", cfg.Parser.Provider),
			zap.String("model", cfg.Parser.DefaultModel),
			logger.Credential("api_key", cfg.Parser.APIKey),
		)
	}
	if c, ok := oracle.(io.Closer); ok {
		defer func() { _ = c.Close() }()
	}

	// Initialize services
	extractor := textextract.New(zl)
	extractionSvc := service.NewExtractionService(oracle, service.ExtractionConfig{
		MaxInputChars: cfg.Parser.MaxInputChars,
	}, zl)
	sessions := service.NewSessionManager(extractor, extractionSvc, xlsxexport.NewEmitter(nil), service.SessionConfig{
		IdleTTL:        cfg.Session.IdleTTL,
		SweepInterval:  cfg.Session.SweepInterval,
		AnalyzeTimeout: cfg.Session.AnalyzeTimeout,
		ExtractTimeout: cfg.Ingest.ExtractTimeout,
	}, zl)
	defer sessions.Close()

	janitorCtx, stopJanitor := context.WithCancel(ctx)
	defer stopJanitor()
	go sessions.RunJanitor(janitorCtx)

	// Initialize handlers
	sessionH := handler.NewSessionHandler(sessions, cfg.Upload.MaxBytes())
	healthH := handler.NewHealthHandler(oracle, cfg.Parser.Provider)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup router
	r := router.Setup(zl, cfg.CORS.AllowedOrigins, sessionH, healthH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		zl.Info("server starting", zap.String("addr", cfg.Server.Port), zap.String("env", cfg.Server.Environment))
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
	}

	zl.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
