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
	"github.com/rs/zerolog"

	"github.com/sanad-app/sanad-go-api/internal/config"
	"github.com/sanad-app/sanad-go-api/internal/database"
	"github.com/sanad-app/sanad-go-api/internal/handler"
	"github.com/sanad-app/sanad-go-api/internal/middleware"
	"github.com/sanad-app/sanad-go-api/internal/models"
	"github.com/sanad-app/sanad-go-api/internal/repository"
	"github.com/sanad-app/sanad-go-api/internal/router"
	"github.com/sanad-app/sanad-go-api/internal/service"
	cloud "github.com/sanad-app/sanad-go-api/pkg/cloudinary"
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
		&models.Student{},
		&models.Grade{},
		&models.Behavior{},
		&models.Alert{},
		&models.TreatmentPlan{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	natsConn, err := database.ConnectNATS(cfg.NATSURL)
	if err != nil {
		logger.Warn().Err(err).Msg("nats unavailable, alert fanout runs in-process only")
		natsConn = nil
	} else {
		defer natsConn.Close()
	}

	uploader, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create cloudinary client: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	studentRepo := repository.NewStudentRepository(db)
	gradeRepo := repository.NewGradeRepository(db)
	behaviorRepo := repository.NewBehaviorRepository(db)
	alertRepo := repository.NewAlertRepository(db)
	planRepo := repository.NewPlanRepository(db)

	rosterService := service.NewRosterService(studentRepo, gradeRepo, behaviorRepo, cfg.ScoreMaxima, validate, logger)
	analysisService := service.NewAnalysisService(studentRepo, gradeRepo, behaviorRepo, redisClient, cfg.OverviewCacheTTL, logger)
	planService := service.NewPlanService(studentRepo, gradeRepo, behaviorRepo, planRepo, validate, logger)
	alertService := service.NewAlertService(studentRepo, gradeRepo, behaviorRepo, alertRepo, natsConn, cfg.AlertDedupWindow, logger)
	uploadService := service.NewUploadService(uploader, studentRepo, cfg.PhotoMaxSizeMB, logger)
	seedService := service.NewSeedService(studentRepo, gradeRepo, behaviorRepo, cfg.SeedEnabled && !cfg.IsProduction(), cfg.SeedToken, logger)

	studentHandler := handler.NewStudentHandler(rosterService, logger)
	analysisHandler := handler.NewAnalysisHandler(analysisService, logger)
	planHandler := handler.NewPlanHandler(planService, logger)
	alertHandler := handler.NewAlertHandler(alertService, 30*time.Second, logger)
	uploadHandler := handler.NewUploadHandler(uploadService, logger)
	seedHandler := handler.NewSeedHandler(seedService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		StudentHandler:  studentHandler,
		AnalysisHandler: analysisHandler,
		PlanHandler:     planHandler,
		AlertHandler:    alertHandler,
		UploadHandler:   uploadHandler,
		SeedHandler:     seedHandler,
		JWTMiddleware:   middleware.JWTProtected(cfg.JWTSecret),
	})

	runCtx, stopConsumers := context.WithCancel(context.Background())
	defer stopConsumers()
	alertService.Start(runCtx)

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
