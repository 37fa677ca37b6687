package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/joao-fontenele/produce-storefront/internal/config"
	"github.com/joao-fontenele/produce-storefront/internal/domain"
	"github.com/joao-fontenele/produce-storefront/internal/messaging"
	"github.com/joao-fontenele/produce-storefront/internal/telemetry"
	"github.com/joao-fontenele/produce-storefront/internal/worker"
)

const groupID = "notification-worker"

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load("worker", "")
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if !cfg.KafkaEnabled() {
		logger.Error("KAFKA_BROKERS environment variable is required")
		os.Exit(1)
	}

	if cfg.NotifyServiceURL == "" {
		logger.Error("NOTIFY_SERVICE_URL environment variable is required")
		os.Exit(1)
	}

	if cfg.OrdersServiceURL == "" {
		logger.Error("ORDERS_SERVICE_URL environment variable is required")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, cfg.ServiceName, "0.1.0", cfg.OTLPEndpoint)
	if err != nil {
		logger.Error("failed to initialize tracer", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracer(context.Background()) }()

	notifications := worker.NewNotificationHandler(cfg.NotifyServiceURL, cfg.OrdersServiceURL,
		telemetry.NewHTTPClient(10*time.Second), logger)

	created := messaging.NewConsumer(cfg.KafkaBrokers, domain.TopicOrderCreated, groupID+"."+domain.TopicOrderCreated, logger)
	defer func() { _ = created.Close() }()

	statusChanged := messaging.NewConsumer(cfg.KafkaBrokers, domain.TopicOrderStatusChanged, groupID+"."+domain.TopicOrderStatusChanged, logger)
	defer func() { _ = statusChanged.Close() }()

	logger.Info("starting notification worker", "brokers", cfg.KafkaBrokers)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return created.Consume(gctx, notifications.HandleOrderCreated) })
	g.Go(func() error { return statusChanged.Consume(gctx, notifications.HandleStatusChanged) })

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("consumer error", "error", err)
		os.Exit(1)
	}
	logger.Info("consumers stopped")
}
