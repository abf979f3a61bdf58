package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"

	"github.com/yourusername/kuiz-api/internal/config"
	"github.com/yourusername/kuiz-api/internal/domain/entity"
	"github.com/yourusername/kuiz-api/internal/domain/repository"
	"github.com/yourusername/kuiz-api/internal/handler"
	"github.com/yourusername/kuiz-api/internal/logger"
	"github.com/yourusername/kuiz-api/internal/middleware"
	pgRepo "github.com/yourusername/kuiz-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/kuiz-api/internal/repository/redis"
	"github.com/yourusername/kuiz-api/internal/service"
	ws "github.com/yourusername/kuiz-api/internal/websocket"
	"github.com/yourusername/kuiz-api/pkg/auth"
	"github.com/yourusername/kuiz-api/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", configPath).Msg("Failed to load config")
	}
	logger.Init(cfg.Log.Level, cfg.Log.Pretty)
	gin.SetMode(cfg.Server.Mode)

	// Инициализируем подключение к PostgreSQL и применяем миграции
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString(), cfg.Server.Mode == gin.DebugMode)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	if err := database.MigrateDB(db, "migrations"); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get sql.DB")
	}

	healthChecks := map[string]handler.HealthCheck{"postgres": sqlDB.PingContext}

	// Redis необязателен: без него каталог работает без кеша
	var cacheRepo repository.CacheRepository
	var redisClient redis.UniversalClient
	if cfg.Redis.Enabled() {
		redisClient, err = database.NewUniversalRedisClient(cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		repo, err := redisRepo.NewCacheRepo(redisClient)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize CacheRepo")
		}
		cacheRepo = repo
		healthChecks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
		log.Info().Msg("Redis cache enabled")
	} else {
		log.Info().Msg("Redis is not configured, quiz cache disabled")
	}

	// Инициализируем репозитории
	adminRepo := pgRepo.NewAdminRepo(db)
	userRepo := pgRepo.NewUserRepo(db)
	quizRepo := pgRepo.NewQuizRepo(db)
	questionRepo := pgRepo.NewQuestionRepo(db)
	attemptRepo := pgRepo.NewQuizAttemptRepo(db)

	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiration(), cfg.JWT.Issuer)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize JWT service")
	}

	var notifier service.AccountNotifier = service.NoopAccountNotifier{}
	if cfg.Email.Enabled {
		resendService, err := service.NewResendEmailService(cfg.Email.ResendAPIKey, cfg.Email.From, cfg.Email.LoginURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize email service")
		}
		notifier = resendService
	}

	// Контекст для фоновых горутин
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := ws.NewHub()
	go hub.Run(ctx)

	// Инициализируем сервисы
	composition := service.CompositionPolicy{
		Enforce:      cfg.Quiz.Composition.Enforce,
		MaxQuestions: cfg.Quiz.Composition.MaxQuestions,
		PerDifficulty: map[entity.Difficulty]int{
			entity.DifficultyEasy:   cfg.Quiz.Composition.Easy,
			entity.DifficultyMedium: cfg.Quiz.Composition.Medium,
			entity.DifficultyHard:   cfg.Quiz.Composition.Hard,
		},
	}
	adminService := service.NewAdminService(adminRepo, jwtService, cfg.Auth.BcryptCost)
	userService := service.NewUserService(userRepo, adminRepo, jwtService, notifier, cfg.Auth.BcryptCost)
	quizService := service.NewQuizService(quizRepo, questionRepo, attemptRepo, cacheRepo, service.CatalogConfig{
		AvailableQuestionCount: cfg.Quiz.AvailableQuestionCount,
		CacheTTL:               time.Duration(cfg.Quiz.CacheTTLSeconds) * time.Second,
		Composition:            composition,
	})
	attemptService := service.NewAttemptService(quizRepo, questionRepo, attemptRepo, hub)

	// Настраиваем маршрутизатор
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), logger.GinLogger())

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.CORS.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.CORS.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}
	router.Use(cors.New(corsConfig))

	handler.RegisterRoutes(router, middleware.NewAuthMiddleware(jwtService), handler.Routes(handler.Handlers{
		Admin:   handler.NewAdminHandler(adminService),
		User:    handler.NewUserHandler(userService),
		Quiz:    handler.NewQuizHandler(quizService),
		Attempt: handler.NewAttemptHandler(attemptService),
		WS:      handler.NewWSHandler(hub, quizService, cfg.CORS.AllowedOrigins),
		Health:  handler.NewHealthHandler(healthChecks),
	}))

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	// Останавливаем хаб, клиенты лидерборда получают close
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Warn().Err(err).Msg("Error closing Redis client")
		}
	}
	if err := sqlDB.Close(); err != nil {
		log.Warn().Err(err).Msg("Error closing database")
	}

	log.Info().Msg("Server exited properly")
}
