package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/retrorack/storefront/internal/cart"
	"github.com/retrorack/storefront/internal/catalog"
	"github.com/retrorack/storefront/internal/checkout"
	"github.com/retrorack/storefront/internal/db"
	"github.com/retrorack/storefront/internal/events"
	h "github.com/retrorack/storefront/internal/http"
	"github.com/retrorack/storefront/internal/kvstore"
	"github.com/retrorack/storefront/internal/wishlist"
)

type Config struct {
	HTTPPort        string
	SQLitePath      string
	MigrationsPath  string
	RedisAddr       string
	RedisPassword   string
	KafkaBrokers    []string
	KVBackend       string
	Currency        string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		SQLitePath:      getEnv("SQLITE_PATH", "storefront.db"),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "migrations"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		KafkaBrokers:    strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		KVBackend:       getEnv("KV_BACKEND", "sqlite"),
		Currency:        getEnv("CURRENCY", "EUR"),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// SQLite holds the catalog, checkout sessions and (by default) the
	// cart/wishlist key-value entries.
	database, err := db.Open(cfg.SQLitePath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations(database, cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Printf("SQLite ready at %s", cfg.SQLitePath)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("Redis connection failed:", err)
	}
	log.Printf("Redis ping succeeded")

	var kv kvstore.Store
	switch cfg.KVBackend {
	case "redis":
		kv = kvstore.NewRedisStore(redisClient)
	default:
		kv = kvstore.NewSQLiteStore(database)
	}

	cartStore := cart.New(ctx, kv)
	wishlistStore := wishlist.New(ctx, kv)
	log.Printf("Stores seeded: %d cart line(s), %d wishlist item(s)",
		len(cartStore.Snapshot().Items), wishlistStore.Snapshot().ItemCount())

	catalogService := catalog.NewService(
		catalog.NewRepository(database),
		catalog.NewRedisCache(redisClient),
	)

	publisher := checkout.NewKafkaPublisher(cfg.KafkaBrokers...)
	defer publisher.Close()

	checkoutService := checkout.NewService(
		checkout.NewRepository(database),
		cartStore,
		checkout.WithBreaker(checkout.SimulatedClient{}),
		publisher,
		cfg.Currency,
	)
	go checkoutService.Run(ctx)

	consumer := events.NewConsumer(cartStore, cfg.KafkaBrokers...)
	go consumer.Run(ctx)
	defer consumer.Close()

	router := h.NewRouter(
		h.NewCartHandler(cartStore, catalogService, cfg.RequestTimeout),
		h.NewWishlistHandler(wishlistStore, catalogService, cfg.RequestTimeout),
		h.NewProductHandler(catalogService, cfg.RequestTimeout),
		h.NewCheckoutHandler(checkoutService, cfg.RequestTimeout),
		cfg.RequestTimeout,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Storefront listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
