package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"peerblind/internal/bootstrap"
	"peerblind/internal/config"
	"peerblind/internal/observability/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	logger := logging.NewJSONLogger("reviewworker", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.NewWorkerApp(cfg, logger)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	metricsServer := &http.Server{
		Addr:    ":" + cfg.WorkerMetricsPort,
		Handler: app.Metrics.Handler(),
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	logger.Info("worker subscribed", "subject", cfg.NATSSubject, "metrics_port", cfg.WorkerMetricsPort)
	err = app.Queue.SubscribeReviewRequested(ctx, func(handlerCtx context.Context, studentID string) error {
		generateCtx, cancel := context.WithTimeout(handlerCtx, 10*time.Minute)
		defer cancel()

		app.Metrics.StartStudent()
		start := time.Now()
		genErr := app.AIReviews.GenerateForStudent(generateCtx, studentID)
		app.Metrics.FinishStudent("reviewworker", time.Since(start), genErr)
		return genErr
	})
	if err != nil {
		log.Fatalf("worker subscribe error: %v", err)
	}
}
