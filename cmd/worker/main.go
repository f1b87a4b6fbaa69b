package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eixo/medical-scribe/internal/bootstrap"
	"github.com/eixo/medical-scribe/internal/config"
	"github.com/eixo/medical-scribe/internal/observability/logging"
	"github.com/eixo/medical-scribe/internal/observability/metrics"
)

const serviceName = "worker"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config_load_failed", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logging.NewJSONLogger(serviceName, cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	workerMetrics := metrics.NewWorkerMetrics(serviceName)
	app, err := bootstrap.New(ctx, cfg,
		bootstrap.WithAnalysisObserver(workerMetrics),
		bootstrap.WithDependencyObserver(workerMetrics),
	)
	if err != nil {
		slog.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	metricsServer := &http.Server{
		Addr:              ":" + cfg.WorkerMetricsPort,
		Handler:           metricsMux(workerMetrics),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		slog.Info("worker_metrics_listening", "port", cfg.WorkerMetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("worker_metrics_failed", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	timeout := time.Duration(cfg.WorkerProcessTimeoutSeconds) * time.Second
	slog.Info("worker_subscribing", "subject", cfg.NATSSubject, "queue_group", cfg.NATSQueueGroup, "timeout", timeout.String())

	err = app.Queue.SubscribeConsultationIngested(ctx, func(handlerCtx context.Context, consultationID string) error {
		start := time.Now()
		if c, err := app.Repo.GetByID(handlerCtx, consultationID); err == nil {
			workerMetrics.ObserveQueueLag(serviceName, start.Sub(c.CreatedAt))
		}

		workerMetrics.StartConsultation()
		processCtx, cancel := context.WithTimeout(handlerCtx, timeout)
		defer cancel()

		err := app.ProcessUC.ProcessByID(processCtx, consultationID)
		workerMetrics.FinishConsultation(serviceName, time.Since(start), err)
		return err
	})
	if err != nil {
		slog.Error("worker_subscribe_failed", "error", err)
		os.Exit(1)
	}
}

func metricsMux(m *metrics.WorkerMetrics) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", m.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	return mux
}
