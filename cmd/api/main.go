package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	httpadapter "github.com/kirillkom/support-assistant/internal/adapters/http"
	"github.com/kirillkom/support-assistant/internal/bootstrap"
	"github.com/kirillkom/support-assistant/internal/config"
	"github.com/kirillkom/support-assistant/internal/core/session"
	"github.com/kirillkom/support-assistant/internal/observability/logging"
	"github.com/kirillkom/support-assistant/internal/observability/metrics"
)

const serviceName = "api"

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := logging.NewJSONLogger(serviceName, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	serverMetrics := metrics.NewHTTPServerMetrics(serviceName)
	chatMetrics := metrics.NewChatMetrics(serviceName, serverMetrics.Registry())

	chat := httpadapter.NewChatHandler(
		app.Intake,
		app.QueryUC,
		app.Generator,
		session.Config{
			TopK:        cfg.RAGTopK,
			CallTimeout: cfg.SessionCallTimeout,
			StartDelay:  cfg.ContactFlowStartDelay,
			QueueSize:   cfg.SessionQueueSize,
		},
		logger,
		chatMetrics,
	)

	router := httpadapter.NewRouter(
		app.IngestUC,
		app.Docs,
		app.QueryUC,
		app.AdminUC,
		chat,
		serverMetrics,
		logger,
		httpadapter.Options{
			Service:        serviceName,
			RateLimitRPS:   cfg.APIRateLimitRPS,
			RateLimitBurst: cfg.APIRateLimitBurst,
			MaxConcurrent:  cfg.APIMaxConcurrent,
		},
	)

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("api_listening", "port", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("api_server_failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("api_shutdown_failed", "error", err)
	}
}
