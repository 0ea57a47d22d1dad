package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/Mahmoudramadan21/14.LinkUp-sub003/internal/cache"
	"github.com/Mahmoudramadan21/14.LinkUp-sub003/internal/config"
	"github.com/Mahmoudramadan21/14.LinkUp-sub003/internal/db"
	"github.com/Mahmoudramadan21/14.LinkUp-sub003/internal/handlers"
	"github.com/Mahmoudramadan21/14.LinkUp-sub003/internal/identity"
	"github.com/Mahmoudramadan21/14.LinkUp-sub003/internal/middleware"
	"github.com/Mahmoudramadan21/14.LinkUp-sub003/internal/notifications"
	"github.com/Mahmoudramadan21/14.LinkUp-sub003/internal/observability"
	"github.com/Mahmoudramadan21/14.LinkUp-sub003/internal/repositories"
	"github.com/Mahmoudramadan21/14.LinkUp-sub003/internal/telemetry"
	"github.com/Mahmoudramadan21/14.LinkUp-sub003/internal/uploads"
	"github.com/Mahmoudramadan21/14.LinkUp-sub003/internal/ws"
)

const serviceName = "linkup-realtime"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if cfg.Environment == "development" {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	shutdownTracer, err := observability.InitTracer(ctx, serviceName, cfg.OTLPEndpoint)
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer func() {
		if err := shutdownTracer(ctx); err != nil {
			logger.Warn("tracer shutdown failed", zap.Error(err))
		}
	}()

	database, err := db.Connect(cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("failed to connect to db", zap.Error(err))
	}
	defer database.Close()

	redisCache, err := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}

	uploader, err := uploads.NewMinioService(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
	if err != nil {
		logger.Fatal("failed to init uploads", zap.Error(err))
	}

	publisher := observability.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, logger)
	observability.SetPublisher(publisher)
	defer publisher.Close()

	auditEmitter := telemetry.NewAuditEmitter(publisher, "audit.realtime", serviceName, cfg.Environment, logger)

	resolver := identity.NewJWTResolver(cfg.JWTSecret)

	userRepo := repositories.NewUserRepo(database)
	conversationRepo := repositories.NewConversationRepo(database)
	messageRepo := repositories.NewMessageRepo(database)
	notificationRepo := repositories.NewNotificationRepo(database)

	hub := ws.NewHub(logger)
	presence := ws.NewPresenceTracker(hub, userRepo, logger)
	router := ws.NewConversationRouter(conversationRepo, messageRepo, uploader, hub, logger)
	typing := ws.NewTypingBroadcaster(conversationRepo, hub, logger)
	receipts := ws.NewReadReceiptAggregator(messageRepo, hub, logger)
	gateway := ws.NewGateway(hub, presence, resolver, userRepo, conversationRepo, router, typing, receipts, auditEmitter, logger)

	notificationService := notifications.NewService(notificationRepo, redisCache, hub, logger)
	notificationHandler := handlers.NewNotificationHandler(notificationService, logger)

	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(otelgin.Middleware(serviceName))
	engine.Use(observability.HTTPMetricsMiddleware())

	engine.GET("/ws", gateway.Handle)
	engine.POST("/internal/notifications", middleware.AuthMiddleware(resolver), notificationHandler.Create)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	handlers.RegisterDebugRoutes(engine, auditEmitter, cfg.DebugRoutes)

	logger.Info("realtime service listening", zap.String("port", cfg.Port))
	if err := engine.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
