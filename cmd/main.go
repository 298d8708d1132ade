package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	redisAdapter "github.com/dev-bsvit/blog-gpt5/internal/adapter/cache/redis"
	"github.com/dev-bsvit/blog-gpt5/internal/adapter/email"
	mongoAdapter "github.com/dev-bsvit/blog-gpt5/internal/adapter/mongo"
	natsAdapter "github.com/dev-bsvit/blog-gpt5/internal/adapter/nats"
	"github.com/dev-bsvit/blog-gpt5/internal/adapter/storage/s3"
	"github.com/dev-bsvit/blog-gpt5/internal/config"
	"github.com/dev-bsvit/blog-gpt5/internal/handler"
	"github.com/dev-bsvit/blog-gpt5/internal/platform/metrics"
	"github.com/dev-bsvit/blog-gpt5/internal/router"
	"github.com/dev-bsvit/blog-gpt5/internal/usecase"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	configPath := "config.yaml"
	if cp := os.Getenv("CONFIG_PATH"); cp != "" {
		configPath = cp
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapConfig := zap.NewProductionConfig()
	logger, err := zapConfig.Build()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logger.Sync()

	if cfg.Auth.JWTSecret == "" {
		logger.Fatal("BLOG_AUTH_JWT_SECRET is required")
	}

	logger.Info("Configuration loaded successfully!",
		zap.String("http_port", cfg.HTTP.Port),
		zap.String("mongo_database", cfg.Mongo.Database),
	)

	mongoClient, err := mongoAdapter.NewMongoDBConnection(&cfg.Mongo)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err = mongoClient.Disconnect(context.TODO()); err != nil {
			logger.Error("Failed to disconnect MongoDB", zap.Error(err))
		}
	}()
	logger.Info("Successfully connected to MongoDB!")

	if err := mongoAdapter.EnsureIndexes(context.Background(), mongoClient, cfg.Mongo.Database); err != nil {
		logger.Fatal("Failed to ensure mongo indexes", zap.Error(err))
	}

	articleRepo := mongoAdapter.NewArticleMongoRepository(mongoClient, cfg.Mongo.Database)
	commentRepo := mongoAdapter.NewCommentMongoRepository(mongoClient, cfg.Mongo.Database)
	likeRepo := mongoAdapter.NewLikeMongoRepository(mongoClient, cfg.Mongo.Database)
	bookmarkRepo := mongoAdapter.NewBookmarkMongoRepository(mongoClient, cfg.Mongo.Database)
	subscriptionRepo := mongoAdapter.NewSubscriptionMongoRepository(mongoClient, cfg.Mongo.Database)

	redisClient, err := redisAdapter.NewRedisClient(&cfg.Redis, logger)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	cacheRepo := redisAdapter.NewRedisCacheRepository(redisClient, logger)

	publisher, err := natsAdapter.NewNATSPublisher(&cfg.NATS, logger)
	if err != nil {
		logger.Fatal("Failed to connect to NATS", zap.Error(err))
	}
	defer publisher.Close()

	blobStorage, err := s3.NewS3Storage(&cfg.Storage, logger)
	if err != nil {
		logger.Fatal("Failed to initialize blob storage", zap.Error(err))
	}

	emailSender := email.NewGomailSender(&cfg.SMTP)

	articleUC := usecase.NewArticleUseCase(
		articleRepo, commentRepo, likeRepo, bookmarkRepo, subscriptionRepo,
		cacheRepo, publisher, emailSender, cfg.Redis.ListTTL, logger,
	)
	commentUC := usecase.NewCommentUseCase(commentRepo, articleRepo, logger)
	interactionUC := usecase.NewInteractionUseCase(
		articleRepo, likeRepo, bookmarkRepo, subscriptionRepo, publisher, logger,
	)

	metricsManager := metrics.NewMetricsManager("blog")

	handlers := router.Handlers{
		Article:     handler.NewArticleHandler(articleUC, logger),
		Comment:     handler.NewCommentHandler(commentUC, logger),
		Interaction: handler.NewInteractionHandler(interactionUC, metricsManager, logger),
		User:        handler.NewUserHandler(articleUC, interactionUC, logger),
		Upload:      handler.NewUploadHandler(blobStorage, logger),
	}

	srv := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      router.New(handlers, cfg.Auth.JWTSecret, cfg.HTTP.CORSOrigins, metricsManager, logger),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", zap.Error(err))
	}
	logger.Info("HTTP server stopped.")
}
