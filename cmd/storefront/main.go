package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"

	"github.com/fjod/go_cart/storefront/internal/api"
	"github.com/fjod/go_cart/storefront/internal/cache"
	"github.com/fjod/go_cart/storefront/internal/cartcount"
	"github.com/fjod/go_cart/storefront/internal/category"
	"github.com/fjod/go_cart/storefront/internal/checkout"
	h "github.com/fjod/go_cart/storefront/internal/http"
	"github.com/fjod/go_cart/storefront/internal/postcode"
	"github.com/fjod/go_cart/storefront/internal/publisher"
	"github.com/fjod/go_cart/storefront/internal/repository"
	"github.com/fjod/go_cart/storefront/internal/session"
	"github.com/fjod/go_cart/storefront/internal/wishlist"
	"github.com/fjod/go_cart/storefront/pkg/logger"
)

type Config struct {
	HTTPPort           string        `yaml:"http_port"`
	BackendURL         string        `yaml:"backend_url"`
	PostcodeURL        string        `yaml:"postcode_url"`
	LogLevel           string        `yaml:"log_level"`
	RequestTimeout     time.Duration `yaml:"request_timeout"`
	BackendTimeout     time.Duration `yaml:"backend_timeout"`
	ShutdownTimeout    time.Duration `yaml:"shutdown_timeout"`
	MaxRequestBodySize int64         `yaml:"max_request_body_size"`
	RedisAddr          string        `yaml:"redis_addr"`
	RedisPassword      string        `yaml:"redis_password"`
	DraftTTL           time.Duration `yaml:"draft_ttl"`
	SessionTTL         time.Duration `yaml:"session_ttl"`
	DBDriver           string        `yaml:"db_driver"`
	DBDSN              string        `yaml:"db_dsn"`
	MigrationsPath     string        `yaml:"migrations_path"`
	KafkaBrokers       []string      `yaml:"kafka_brokers"`
}

func loadConfig() (*Config, error) {
	cfg := &Config{
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		BackendURL:         getEnv("BACKEND_URL", "http://localhost:8081"),
		PostcodeURL:        getEnv("POSTCODE_API_URL", postcode.DefaultBaseURL),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		RequestTimeout:     30 * time.Second,
		BackendTimeout:     10 * time.Second,
		ShutdownTimeout:    10 * time.Second,
		MaxRequestBodySize: 1 << 20, // 1MB
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		DraftTTL:           getEnvDuration("DRAFT_TTL", time.Hour),
		SessionTTL:         getEnvDuration("SESSION_TTL", 24*time.Hour),
		DBDriver:           getEnv("DB_DRIVER", repository.DriverSQLite),
		DBDSN:              getEnv("DB_DSN", "file:storefront.db?_pragma=busy_timeout(5000)"),
		MigrationsPath:     getEnv("MIGRATIONS_PATH", "internal/repository/migrations"),
	}
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	// STOREFRONT_CONFIG overrides the environment with a YAML file.
	if path := os.Getenv("STOREFRONT_CONFIG"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	log.Printf("invalid %s=%q, using %s", key, value, defaultValue)
	return defaultValue
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	appLog := logger.New("storefront", cfg.LogLevel)

	// Session manager is created after the client, so the 401 hook goes
	// through a variable.
	var manager *session.Manager
	client := api.NewClient(cfg.BackendURL,
		api.WithTimeout(cfg.BackendTimeout),
		api.WithLogger(appLog),
		api.WithUnauthorizedHandler(func(ctx context.Context) {
			if manager != nil {
				manager.HandleUnauthorized(ctx)
			}
		}),
	)

	var (
		sessionStore session.Store
		drafts       cache.Cache[checkout.Draft]
		postcodes    cache.Cache[postcode.Address]
	)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatal("Redis connection failed:", err)
		}
		log.Printf("Redis ping succeeded")
		sessionStore = session.NewRedisStore(redisClient, cfg.SessionTTL)
		drafts = cache.NewRedisCache[checkout.Draft](redisClient, "checkout:draft:", cfg.DraftTTL)
		postcodes = cache.NewRedisCache[postcode.Address](redisClient, "postcode:", 24*time.Hour)
	} else {
		log.Printf("REDIS_ADDR not set, keeping sessions and drafts in memory")
		sessionStore = session.NewMemoryStore()
		drafts = cache.NewMemoryCache[checkout.Draft](cfg.DraftTTL)
		postcodes = cache.NewMemoryCache[postcode.Address](24 * time.Hour)
	}

	manager = session.NewManager(client, sessionStore, appLog, session.WithDefaultTTL(cfg.SessionTTL))

	tracker := cartcount.NewTracker(client, appLog)
	defer tracker.Attach(manager)()
	toggler := wishlist.NewToggler(client)
	defer toggler.Attach(manager)()
	categories := category.NewStore(client)

	lookup := postcode.NewClient(cfg.PostcodeURL,
		postcode.WithCache(postcodes),
		postcode.WithLogger(appLog),
	)

	cred := &repository.Credentials{
		Driver:            cfg.DBDriver,
		DSN:               cfg.DBDSN,
		MigrationsDirPath: cfg.MigrationsPath,
	}
	repo, err := repository.NewRepository(cred)
	if err != nil {
		log.Fatalf("Failed to open receipts database: %v", err)
	}
	defer repo.Close()
	if err := repo.RunMigrations(cred); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Printf("Receipts database ready (%s)", cfg.DBDriver)

	pollCtx, stopPoller := context.WithCancel(context.Background())
	defer stopPoller()
	var poller *publisher.OutboxPoller
	if len(cfg.KafkaBrokers) > 0 {
		poller = publisher.NewOutboxPoller(repo, publisher.NewKafkaWriter(cfg.KafkaBrokers...), appLog)
		go poller.Run(pollCtx)
		log.Printf("Publishing receipts to %s via %v", publisher.TopicCheckoutCompleted, cfg.KafkaBrokers)
	}

	svc := checkout.NewCheckoutService(
		drafts,
		checkout.NewCartHandler(client, cfg.BackendTimeout),
		checkout.NewProfileHandler(client, cfg.BackendTimeout),
		checkout.NewWalletHandler(client, cfg.BackendTimeout),
		checkout.NewOrderHandler(client, cfg.BackendTimeout),
		checkout.WithReceipts(repo),
		checkout.WithCartBadge(tracker),
		checkout.WithLogger(appLog),
	)

	router := h.NewRouter(h.RouterConfig{
		RequestTimeout:     cfg.RequestTimeout,
		MaxRequestBodySize: cfg.MaxRequestBodySize,
		Resolver:           manager,
		Log:                appLog,
	}, h.Handlers{
		Sessions: h.NewSessionHandler(manager, cfg.BackendTimeout, appLog),
		Catalog:  h.NewCatalogHandler(client, categories, cfg.BackendTimeout, appLog),
		Cart:     h.NewCartHandler(tracker, cfg.BackendTimeout, appLog),
		Wishlist: h.NewWishlistHandler(toggler, cfg.BackendTimeout, appLog),
		Postcode: h.NewPostcodeHandler(lookup, cfg.BackendTimeout, appLog),
		// Checkout actions fan out to several backend calls.
		Checkout: h.NewCheckoutHandler(svc, cfg.RequestTimeout, appLog),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Storefront starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}
	stopPoller()
	if poller != nil {
		if err := poller.Close(); err != nil {
			log.Printf("failed to close kafka writer: %v", err)
		}
	}

	log.Println("server exited")
}
