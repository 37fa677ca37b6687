package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joao-fontenele/produce-storefront/internal/catalog"
	"github.com/joao-fontenele/produce-storefront/internal/config"
	"github.com/joao-fontenele/produce-storefront/internal/domain"
	"github.com/joao-fontenele/produce-storefront/internal/latency"
	"github.com/joao-fontenele/produce-storefront/internal/messaging"
	"github.com/joao-fontenele/produce-storefront/internal/orders"
	"github.com/joao-fontenele/produce-storefront/internal/seed"
	"github.com/joao-fontenele/produce-storefront/internal/telemetry"
)

// defaultLatency is the delay before order creation and lookups.
const defaultLatency = 1500 * time.Millisecond

func main() {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load("orders", "8081", config.WithSimulatedLatency(defaultLatency))
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	metricsHandler, shutdownTelemetry, err := telemetry.Setup(ctx, cfg.ServiceName, "0.1.0", cfg.OTLPEndpoint)
	if err != nil {
		logger.Error("failed to initialize telemetry", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTelemetry(ctx) }()

	data, err := seed.Load(cfg.SeedFile)
	if err != nil {
		logger.Error("failed to load seed data", "error", err)
		os.Exit(1)
	}

	var publishers orders.Publishers
	if cfg.KafkaEnabled() {
		created := messaging.NewProducer(cfg.KafkaBrokers, domain.TopicOrderCreated)
		defer func() { _ = created.Close() }()
		statusChanged := messaging.NewProducer(cfg.KafkaBrokers, domain.TopicOrderStatusChanged)
		defer func() { _ = statusChanged.Close() }()

		publishers = orders.Publishers{Created: created, StatusChanged: statusChanged}
		logger.Info("publishing order events", "brokers", cfg.KafkaBrokers)
	}

	store := orders.NewOrderStore(data.Orders)
	service, err := orders.NewService(store, catalog.NewCatalogRepository(data.Products), publishers, logger)
	if err != nil {
		logger.Error("failed to create orders service", "error", err)
		os.Exit(1)
	}

	handler := orders.NewHandler(service, latency.New(cfg.SimulatedLatency, cfg.LatencyJitter), logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /orders", telemetry.WithHTTPRoute(handler.HandleList))
	mux.HandleFunc("POST /orders", telemetry.WithHTTPRoute(handler.HandleCreate))
	mux.HandleFunc("GET /orders/{id}", telemetry.WithHTTPRoute(handler.HandleGet))
	mux.HandleFunc("GET /orders/{id}/tracking", telemetry.WithHTTPRoute(handler.HandleTrack))
	mux.HandleFunc("PATCH /orders/{id}/status", telemetry.WithHTTPRoute(handler.HandleUpdateStatus))
	mux.HandleFunc("GET /track", telemetry.WithHTTPRoute(handler.HandleTrack))
	mux.Handle("GET /metrics", metricsHandler)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      telemetry.NewHandler(mux, cfg.ServiceName),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting orders service", "port", cfg.Port, "seeded_orders", store.Count())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
