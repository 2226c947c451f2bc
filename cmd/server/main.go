package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"videoadmin-backend-go/internal/config"
	httpapi "videoadmin-backend-go/internal/http"
	"videoadmin-backend-go/internal/logging"
	"videoadmin-backend-go/internal/services"
	"videoadmin-backend-go/internal/store"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	st, err := store.Open(cfg.DataPath, cfg.BackupDir)
	if err != nil {
		logger.Fatal("store open failed", zap.String("path", cfg.DataPath), zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := services.NewMetricsHub()
	go hub.Run(ctx)

	ring := services.NewMetricsRing(500)
	go metricsLoop(ctx, cfg, hub, ring)

	server := httpapi.NewServer(st, cfg, logger, hub, ring)
	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: server.Router(),
	}

	go func() {
		logger.Info("listening", zap.String("addr", cfg.Addr), zap.String("data", cfg.DataPath))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)
	<-stop
	cancel()
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	_ = httpServer.Shutdown(ctxShutdown)
	logger.Info("shutdown complete")
}

func metricsLoop(ctx context.Context, cfg config.Config, hub *services.MetricsHub, ring *services.MetricsRing) {
	ticker := time.NewTicker(time.Duration(cfg.MetricsSampleSeconds) * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			sample := services.CaptureMetrics(cfg.MetricsDiskPath)
			ring.Add(sample)
			hub.Broadcast(sample)
		case <-ctx.Done():
			return
		}
	}
}
