package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"

	"github.com/shenikar/crisis_mesh/internal/ai"
	"github.com/shenikar/crisis_mesh/internal/config"
	v1 "github.com/shenikar/crisis_mesh/internal/handler/http/v1"
	"github.com/shenikar/crisis_mesh/internal/metrics"
	"github.com/shenikar/crisis_mesh/internal/repository"
	"github.com/shenikar/crisis_mesh/internal/repository/memstore"
	"github.com/shenikar/crisis_mesh/internal/service"
	"github.com/shenikar/crisis_mesh/internal/webhook"
	"github.com/shenikar/crisis_mesh/pkg/logger"
	"github.com/shenikar/crisis_mesh/pkg/postgres"
	redisclient "github.com/shenikar/crisis_mesh/pkg/redis"
	"github.com/sirupsen/logrus"

	_ "github.com/shenikar/crisis_mesh/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Crisis Mesh API
// @version 1.0
// @description Incident intake, classification and volunteer dispatch.
// @host localhost:8080
// @BasePath /api/v1
func runMigrations(cfg *config.Config, log *logrus.Logger) error {
	log.Info("Running database migrations...")

	migrationURL := cfg.DatabaseURL
	if !strings.HasPrefix(migrationURL, "pgx5://") {
		migrationURL = strings.Replace(migrationURL, "postgres://", "pgx5://", 1)
	}

	m, err := migrate.New(
		"file://migrations",
		migrationURL,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Database migrations applied successfully")
	return nil
}

// newClassifier подключает внешний классификатор, если задан ключ
func newClassifier(cfg *config.Config, log *logrus.Logger, m *metrics.Metrics) *ai.Adapter {
	gemini := ai.NewGeminiClient(cfg.AIAPIKey, cfg.AIModel, cfg.AIBaseURL, cfg.AITimeout)
	if !gemini.Enabled() {
		log.Info("AI_API_KEY is not set, using keyword classification only")
		return ai.NewAdapter(nil, cfg.AITimeout, log, m)
	}
	log.WithField("model", cfg.AIModel).Info("External classification enabled")
	return ai.NewAdapter(gemini, cfg.AITimeout, log, m)
}

func main() {
	// Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	// Контекст для graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(registry)

	// Redis необязателен: без него нет кеша и очереди оповещений
	var redisClient *goredis.Client
	if cfg.RedisEnabled {
		redisClient, err = redisclient.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err != nil {
			log.WithError(err).Warn("Redis unavailable, continuing without cache and alert queue")
		} else {
			defer redisClient.Close()
			log.Info("Successfully connected to Redis")
		}
	}

	// Инициализация издателя вебхуков
	var publisher webhook.WebhookPublisher
	if redisClient != nil {
		publisher = webhook.NewRedisWebhookPublisher(redisClient)
		webhookWorker := webhook.NewWebhookWorker(redisClient, log, cfg)
		webhookWorker.Start(ctx)
	} else {
		publisher = webhook.NewDirectPublisher(webhook.NewSender(log, cfg), log)
	}

	// Инициализация хранилища
	var incidentRepo service.IncidentRepository
	if cfg.DatabaseURL != "" {
		if err := runMigrations(cfg, log); err != nil {
			log.Fatalf("Failed to run database migrations: %v", err)
		}

		dbpool, err := postgres.NewPostgresDB(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to connect to PostgreSQL: %v", err)
		}
		defer dbpool.Close()
		log.Info("Successfully connected to PostgreSQL")

		incidentRepo = repository.NewIncidentRepository(dbpool, redisClient, cfg.CacheTTL)
	} else {
		log.Warn("DATABASE_URL is not set, incidents are kept in memory")
		incidentRepo = memstore.New(memstore.DemoVolunteers()...)
	}

	// Инициализация сервисов
	incidentService := service.NewIncidentService(incidentRepo, newClassifier(cfg, log, appMetrics), publisher, log, cfg, appMetrics)
	defer incidentService.Close()

	// Инициализация хэндлеров
	handler := v1.NewHandler(incidentService, log, cfg)

	// Настройка Gin роутера
	router := gin.Default()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// Добавление маршрута для Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Запуск HTTP-сервера
	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)

	srv := &http.Server{
		Addr:              serverAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Запуск сервера в горутине
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Error starting HTTP server: %v", err)
		}
	}()
	log.Infof("HTTP server started on port %s", cfg.HTTPPort)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Received shutdown signal, shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}

	log.Info("Server gracefully stopped")
}
