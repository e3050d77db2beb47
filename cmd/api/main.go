package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/sailors-platform/sailor-api/internal/config"
	"github.com/sailors-platform/sailor-api/internal/database"
	"github.com/sailors-platform/sailor-api/internal/handler"
	"github.com/sailors-platform/sailor-api/internal/middleware"
	"github.com/sailors-platform/sailor-api/internal/models"
	"github.com/sailors-platform/sailor-api/internal/repository"
	"github.com/sailors-platform/sailor-api/internal/router"
	"github.com/sailors-platform/sailor-api/internal/service"
	cloud "github.com/sailors-platform/sailor-api/pkg/cloudinary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.SupportRequest{},
		&models.SupportComment{},
		&models.AdminNotification{},
		&models.ActivityLog{},
		&models.User{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Redis and NATS back submission dedupe and cross-node notification
	// fan-out. Both degrade to single-node behaviour when unconfigured.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	} else {
		logger.Warn().Msg("redis not configured, submission dedupe disabled")
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL, cfg.AppName)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	} else {
		logger.Warn().Msg("nats not configured, notification fan-out limited to redis")
	}

	var signer handler.Signer
	if cfg.CloudinaryCloudName != "" {
		cloudService, err := cloud.New(cloud.Config{
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
			Folder:    cfg.CloudinaryUploadFolder,
		}, logger)
		if err != nil {
			log.Fatalf("failed to create cloudinary client: %v", err)
		}
		signer = cloudService
	} else {
		logger.Warn().Msg("cloudinary not configured, upload signatures disabled")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	supportRepo := repository.NewSupportRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)
	userRepo := repository.NewUserRepository(db)

	notificationService := service.NewAdminNotificationService(notificationRepo, redisClient, cfg.EventChannelBase, natsConn, validate, logger)
	alerter := service.NewNotificationAlerter(notificationService)
	mailer := service.NewLogMailer(cfg.SupportInboxEmail, logger)
	supportService := service.NewSupportService(supportRepo, redisClient, validate, mailer, alerter, cfg.SupportDedupeTTL, logger)
	activityService := service.NewActivityService(activityRepo, logger)
	adminUserService := service.NewAdminUserService(userRepo, validate, activityService, logger)

	supportHandler := handler.NewSupportHandler(supportService, logger)
	adminSupportHandler := handler.NewAdminSupportHandler(supportService, logger)
	adminNotificationHandler := handler.NewAdminNotificationHandler(notificationService, logger, cfg.StreamKeepAlive)
	adminActivityHandler := handler.NewAdminActivityHandler(activityService, logger)
	adminUserHandler := handler.NewAdminUserHandler(adminUserService, logger)
	uploadHandler := handler.NewUploadHandler(signer, validate, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		SupportHandler:           supportHandler,
		AdminSupportHandler:      adminSupportHandler,
		AdminNotificationHandler: adminNotificationHandler,
		AdminActivityHandler:     adminActivityHandler,
		AdminUserHandler:         adminUserHandler,
		UploadHandler:            uploadHandler,
	})

	streamCtx, stopStream := context.WithCancel(context.Background())
	defer stopStream()
	notificationService.Start(streamCtx)

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
