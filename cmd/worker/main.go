package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/campuscare/support-triage/internal/bootstrap"
	"github.com/campuscare/support-triage/internal/config"
	"github.com/campuscare/support-triage/internal/core/domain"
	"github.com/campuscare/support-triage/internal/observability/logging"
	"github.com/campuscare/support-triage/internal/observability/metrics"
)

func main() {
	cfg := config.Load()
	logging.NewJSONLogger("worker", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	workerMetrics := metrics.NewWorkerMetrics("worker")
	metricsServer := &http.Server{
		Addr:    ":" + cfg.WorkerMetricsPort,
		Handler: workerMetrics.Handler(),
	}
	go func() {
		log.Printf("worker metrics listening on :%s", cfg.WorkerMetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("worker metrics server error: %v", err)
		}
	}()

	log.Printf("worker subscribed to %s", cfg.NATSSubject)
	err = app.Queue.SubscribeTriageRequests(ctx, func(handlerCtx context.Context, req domain.TriageRequest) error {
		workerMetrics.StartRequest()
		start := time.Now()
		if !req.PublishedAt.IsZero() {
			workerMetrics.ObserveQueueLag("worker", time.Since(req.PublishedAt))
		}

		recordCtx, cancel := context.WithTimeout(handlerCtx, 30*time.Second)
		defer cancel()

		_, recordErr := app.AuditUC.RecordTriageRequest(recordCtx, req)
		workerMetrics.FinishRequest("worker", time.Since(start), recordErr)
		return recordErr
	})
	if err != nil {
		log.Fatalf("worker subscribe error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("worker metrics shutdown error: %v", err)
	}
}
