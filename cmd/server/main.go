// Package main runs the clip-stitching HTTP server with streaming progress
// responses and graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/clipstitch/backend/config"
	"github.com/clipstitch/backend/internal/clips"
	"github.com/clipstitch/backend/internal/execx"
	"github.com/clipstitch/backend/internal/jobs"
	"github.com/clipstitch/backend/internal/media"
	"github.com/clipstitch/backend/internal/middleware"
	"github.com/clipstitch/backend/pkg/response"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	if err := os.MkdirAll(cfg.Storage.OutputDir, 0755); err != nil {
		logger.Fatal("create output dir", zap.Error(err))
	}
	if cfg.Storage.TempDir != "" {
		if err := os.MkdirAll(cfg.Storage.TempDir, 0755); err != nil {
			logger.Fatal("create temp dir", zap.Error(err))
		}
	}

	registry := jobs.NewRegistry(cfg.Jobs.Retention, logger)
	janitor := jobs.NewJanitor(registry, cfg.Jobs.EvictInterval, logger)

	runner := execx.NewRunner(cfg.Media.ToolTimeout, logger)
	resolver := media.NewResolver(cfg.Media.YtDlpBin, runner, logger)
	transcoder := media.NewTranscoder(cfg.Media.FFmpegBin, runner, logger)

	orchestrator := clips.NewOrchestrator(resolver, transcoder, registry,
		cfg.Storage.OutputDir, cfg.Storage.TempDir, logger)
	clipHandler := clips.NewHandler(orchestrator, logger)
	downloadHandler := jobs.NewHandler(registry, cfg.Jobs.DeleteAfterDownload, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.POST("/process", clipHandler.Process)
		api.GET("/download/:id", downloadHandler.Download)
	}

	// Frontend build output for everything else; index.html fallback.
	router.NoRoute(staticHandler(cfg.Storage.StaticDir))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	janitorCtx, janitorCancel := context.WithCancel(context.Background())
	defer janitorCancel()
	go janitor.Run(janitorCtx)
	logger.Info("job janitor started",
		zap.Duration("interval", cfg.Jobs.EvictInterval),
		zap.Duration("retention", cfg.Jobs.Retention))

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	janitorCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

// staticHandler serves files from dir, falling back to index.html for
// client-side routes. API paths never fall through to the frontend.
func staticHandler(dir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			response.NotFound(c, "not found")
			return
		}
		reqPath := filepath.Join(dir, filepath.Clean("/"+c.Request.URL.Path))
		if info, err := os.Stat(reqPath); err == nil && !info.IsDir() {
			c.File(reqPath)
			return
		}
		c.File(filepath.Join(dir, "index.html"))
	}
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
