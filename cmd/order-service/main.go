package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/fjod/go_order/internal/cart"
	"github.com/fjod/go_order/internal/catalog"
	"github.com/fjod/go_order/internal/events"
	h "github.com/fjod/go_order/internal/http"
	"github.com/fjod/go_order/internal/payment"
	"github.com/fjod/go_order/internal/repository"
	"github.com/fjod/go_order/internal/service"
	"github.com/fjod/go_order/internal/telemetry"
)

type Config struct {
	HTTPPort        string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration

	CatalogDBPath         string
	CatalogMigrationsPath string

	MongoURI    string
	MongoDBName string
	RedisAddr   string

	OrdersDB repository.Credentials

	KafkaBrokers []string
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,

		CatalogDBPath:         getEnv("CATALOG_DB_PATH", "catalog.db"),
		CatalogMigrationsPath: getEnv("CATALOG_MIGRATIONS_PATH", "internal/catalog/migrations"),

		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName: getEnv("MONGO_DB_NAME", "cartdb"),
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),

		OrdersDB: repository.Credentials{
			Host:              getEnv("ORDERS_DB_HOST", "localhost"),
			Port:              getEnvInt("ORDERS_DB_PORT", 5432),
			User:              getEnv("ORDERS_DB_USER", "postgres"),
			Password:          getEnv("ORDERS_DB_PASSWORD", "postgres"),
			DBName:            getEnv("ORDERS_DB_NAME", "ordersdb"),
			MigrationsDirPath: getEnv("ORDERS_MIGRATIONS_PATH", "internal/repository/migrations"),
		},

		KafkaBrokers: splitNonEmpty(getEnv("KAFKA_BROKERS", "")),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func main() {
	cfg := loadConfig()
	logger := telemetry.NewLogger(slog.LevelInfo)
	ctx := context.Background()

	// Catalog: SQLite store, doubles as the inventory guard.
	catalogRepo, err := catalog.NewRepository(cfg.CatalogDBPath)
	if err != nil {
		logger.Error("failed to open catalog database", "error", err)
		os.Exit(1)
	}
	defer catalogRepo.Close()
	if err := catalogRepo.RunMigrations(cfg.CatalogMigrationsPath); err != nil {
		logger.Error("failed to run catalog migrations", "error", err)
		os.Exit(1)
	}

	// Cart: MongoDB store behind a Redis read-through cache.
	mongoDB, err := cart.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		logger.Error("failed to connect to mongodb", "error", err)
		os.Exit(1)
	}
	cartStore := cart.NewMongoStore(mongoDB)
	if err := cartStore.CreateIndexes(ctx); err != nil {
		logger.Error("failed to create cart indexes", "error", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	carts := cart.NewService(cartStore, cart.NewRedisCache(redisClient), logger)

	// Orders: Postgres repository.
	orderRepo, err := repository.NewRepository(&cfg.OrdersDB)
	if err != nil {
		logger.Error("failed to connect to orders database", "error", err)
		os.Exit(1)
	}
	defer orderRepo.Close()
	if err := orderRepo.RunMigrations(&cfg.OrdersDB); err != nil {
		logger.Error("failed to run orders migrations", "error", err)
		os.Exit(1)
	}

	// Events: Kafka when brokers are configured, otherwise dropped.
	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := events.NewKafkaPublisher(cfg.KafkaBrokers...)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	}

	registry := payment.NewRegistry(payment.NewSimulatedGateway(time.Now().UnixNano(), nil), logger)
	orderService := service.NewOrderService(
		carts, catalogRepo, catalogRepo, orderRepo, registry, publisher, logger)

	// HTTP gateway
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(h.RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	ordersHandler := h.NewOrdersHandler(orderService, cfg.RequestTimeout)
	ordersHandler.Register(r)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: r,
	}

	go func() {
		logger.Info("order service listening", "port", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down order service")
	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	logger.Info("order service stopped")
}
