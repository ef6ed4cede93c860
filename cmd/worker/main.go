package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/will-me-me/tripilyInventory-backend/internal/messaging"
	"github.com/will-me-me/tripilyInventory-backend/internal/telemetry"
	"github.com/will-me-me/tripilyInventory-backend/internal/worker"
)

func main() {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, "worker", "0.1.0")
	if err != nil {
		logger.Error("failed to initialize tracer", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracer(ctx) }()

	_, shutdownMeter, err := telemetry.InitMeterProvider("worker", "0.1.0")
	if err != nil {
		logger.Error("failed to initialize meter", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownMeter(ctx) }()

	kafkaBrokers := os.Getenv("KAFKA_BROKERS")
	if kafkaBrokers == "" {
		logger.Error("KAFKA_BROKERS environment variable is required")
		os.Exit(1)
	}
	brokers := strings.Split(kafkaBrokers, ",")

	placedConsumer := messaging.NewConsumer(brokers, messaging.TopicOrderPlaced, "inventory-worker")
	defer func() { _ = placedConsumer.Close() }()

	statusConsumer := messaging.NewConsumer(brokers, messaging.TopicOrderStatus, "inventory-worker")
	defer func() { _ = statusConsumer.Close() }()

	handler, err := worker.NewOrderEventHandler(logger)
	if err != nil {
		logger.Error("failed to create event handler", "error", err)
		os.Exit(1)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop
		logger.Info("shutting down")
		cancel()
	}()

	logger.Info("starting inventory worker", "brokers", brokers)

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		return placedConsumer.Consume(gctx, worker.DiscardInvalid(logger, handler.HandleOrderPlaced))
	})
	g.Go(func() error {
		return statusConsumer.Consume(gctx, worker.DiscardInvalid(logger, handler.HandleStatusChanged))
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("consumers stopped")
			return
		}
		logger.Error("consumer error", "error", err)
		os.Exit(1)
	}
}
