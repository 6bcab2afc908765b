package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/akylbek/payment-system/payment-failover/internal/api"
	"github.com/akylbek/payment-system/payment-failover/internal/config"
	"github.com/akylbek/payment-system/payment-failover/internal/gateway"
	"github.com/akylbek/payment-system/payment-failover/internal/interfaces"
	"github.com/akylbek/payment-system/payment-failover/internal/orchestrator"
	"github.com/akylbek/payment-system/payment-failover/internal/repository"
	"github.com/akylbek/payment-system/payment-failover/internal/sentinel"
	"github.com/akylbek/payment-system/payment-failover/internal/telemetry"
)

const serviceName = "payment-failover"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize telemetry
	if err := telemetry.InitTelemetry(serviceName, telemetry.Options{
		LogLevel:     cfg.LogLevel,
		OTLPEndpoint: cfg.OTLPEndpoint,
	}); err != nil {
		panic(fmt.Sprintf("Failed to initialize telemetry: %v", err))
	}
	defer telemetry.Shutdown(context.Background())

	telemetry.Logger.Info("Starting payment failover server")

	stats := newStatsRepository(cfg)

	// Failover event sinks
	sinks := sentinel.Fanout{sentinel.NewClient(cfg.SentinelEndpoint, cfg.SentinelAPIKey, cfg.SentinelTimeout)}

	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := sentinel.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kafkaPublisher.Close()
		sinks = append(sinks, kafkaPublisher)
		telemetry.Logger.Info("Kafka failover sink enabled", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	}

	if cfg.NatsURL != "" {
		natsPublisher, err := sentinel.NewNATSPublisher(cfg.NatsURL, cfg.NatsSubject)
		if err != nil {
			telemetry.Logger.Fatal("Failed to connect to NATS", zap.Error(err))
		}
		defer natsPublisher.Close()
		sinks = append(sinks, natsPublisher)
		telemetry.Logger.Info("NATS failover sink enabled", zap.String("subject", cfg.NatsSubject))
	}

	var reporter interfaces.EventReporter = sinks
	var dispatcher *sentinel.Dispatcher
	if cfg.SentinelSync {
		telemetry.Logger.Info("Sentinel reporting is synchronous, failover responses wait for delivery")
	} else {
		dispatcher = sentinel.NewDispatcher(sinks, cfg.SentinelWorkers, cfg.SentinelQueueSize, cfg.SentinelTimeout)
		dispatcher.Start()
		reporter = dispatcher
	}

	orch, err := orchestrator.New(newGateways(cfg), reporter, stats, orchestrator.WithReportTimeout(cfg.SentinelTimeout))
	if err != nil {
		telemetry.Logger.Fatal("Failed to create orchestrator", zap.Error(err))
	}

	r := api.NewRouter(orch, stats)

	// Setup HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	// Start server in goroutine
	go func() {
		telemetry.Logger.Info("Payment server starting",
			zap.String("port", cfg.Port),
			zap.String("primary_gateway", orch.Primary()),
			zap.String("sentinel_endpoint", cfg.SentinelEndpoint),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			telemetry.Logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	telemetry.Logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		telemetry.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	if dispatcher != nil {
		if err := dispatcher.Close(ctx); err != nil {
			telemetry.Logger.Warn("Pending failover events were not delivered", zap.Error(err))
		}
	}

	telemetry.Logger.Info("Server exited")
}

func newGateways(cfg *config.Config) []interfaces.Gateway {
	gwCfgs := cfg.Gateways()
	gateways := []interfaces.Gateway{
		gateway.NewPrimary(gwCfgs[0].Name, gwCfgs[0].Latency, gwCfgs[0].FailureRate, gwCfgs[0].FailureMessage),
		gateway.NewSecondary(gwCfgs[1].Name, gwCfgs[1].Latency, gwCfgs[1].FailureRate, gwCfgs[1].FailureMessage),
	}

	if !cfg.BreakerEnabled {
		return gateways
	}

	settings := gateway.BreakerSettings{
		MaxConsecutiveFailures: cfg.BreakerMaxFailures,
		OpenTimeout:            cfg.BreakerOpenTimeout,
	}
	for i, gw := range gateways {
		gateways[i] = gateway.NewBreaker(gw, settings)
	}
	return gateways
}

func newStatsRepository(cfg *config.Config) interfaces.StatsRepository {
	if cfg.RedisAddr == "" {
		telemetry.Logger.Info("REDIS_ADDR not set, keeping gateway stats in memory")
		return repository.NewMemoryStatsRepository()
	}

	// Connect to Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		telemetry.Logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}

	return repository.NewStatsRepository(redisClient)
}
