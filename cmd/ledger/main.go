package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/dkaz/retail-ledger/internal/ledger"
	httpDelivery "github.com/dkaz/retail-ledger/internal/ledger/delivery/http"
	"github.com/dkaz/retail-ledger/internal/ledger/usecase/command"
	"github.com/dkaz/retail-ledger/kafka"
	"github.com/dkaz/retail-ledger/pkg/logger"
	"github.com/dkaz/retail-ledger/pkg/tracing"
)

func main() {
	// Initialize logger
	serviceName := getEnv("OTEL_SERVICE_NAME", "ledger-service")
	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"
	logger.Init(serviceName, isDevelopment)

	logLevel := getEnv("LOG_LEVEL", "info")
	logger.SetLevel(logLevel)

	logger.Logger.Info().
		Str("service", serviceName).
		Str("environment", getEnv("ENVIRONMENT", "development")).
		Str("log_level", logLevel).
		Msg("Starting ledger service")

	// Initialize tracing
	tp, err := tracing.InitTracer(serviceName)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize tracer")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracing.Shutdown(ctx, tp); err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to shut down tracer")
		}
	}()

	// Kafka publisher is optional; without brokers the ledger runs
	// standalone and sale events stay local.
	var publisher command.EventPublisher
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		p, err := kafka.NewPublisher(strings.Split(brokers, ","))
		if err != nil {
			logger.Logger.Warn().Err(err).Msg("Kafka unavailable, continuing without event publishing")
		} else {
			publisher = p
			defer p.Close()
		}
	}

	refreshInterval := getDurationEnv("REFRESH_INTERVAL", 5*time.Second)

	// Initialize handler and refresher with Wire DI over one shared ledger
	handler, refresher, err := ledger.InitializeService(publisher, refreshInterval)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize service")
	}

	// Start the dashboard read cycle on its own goroutine
	refreshCtx, stopRefresher := context.WithCancel(context.Background())
	defer stopRefresher()
	go refresher.Run(refreshCtx)

	// Start HTTP server
	httpPort := getEnv("HTTP_PORT", "8080")
	server := buildHTTPServer(handler, httpPort)

	go func() {
		logger.Logger.Info().
			Str("port", httpPort).
			Str("metrics_endpoint", "/metrics").
			Dur("refresh_interval", refreshInterval).
			Msg("HTTP server started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down server...")
	stopRefresher()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Logger.Error().Err(err).Msg("Forced shutdown")
	}
}

func buildHTTPServer(handler *httpDelivery.LedgerHandler, port string) *http.Server {
	router := mux.NewRouter()

	router.Use(httpDelivery.RecoveryMiddleware)
	router.Use(httpDelivery.LoggingMiddleware)
	router.Use(httpDelivery.MetricsMiddleware)
	router.Use(func(next http.Handler) http.Handler {
		return httpDelivery.TracingMiddleware("ledger-http-request", next)
	})

	handler.RegisterRoutes(router)
	handler.RegisterHealthCheck(router)

	router.Handle("/metrics", promhttp.Handler())

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return &http.Server{
		Addr:    ":" + port,
		Handler: c.Handler(router),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		logger.Logger.Warn().Str("key", key).Str("value", value).Msg("Invalid duration, using default")
	}
	return fallback
}
