package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dosada05/gameet/config"
	"github.com/Dosada05/gameet/db"
	"github.com/Dosada05/gameet/handlers"
	"github.com/Dosada05/gameet/live"
	"github.com/Dosada05/gameet/middleware"
	"github.com/Dosada05/gameet/repositories"
	api "github.com/Dosada05/gameet/routes"
	"github.com/Dosada05/gameet/services"
	"github.com/Dosada05/gameet/storage"
	"github.com/Dosada05/gameet/utils"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
)

func newFileStore(ctx context.Context, cfg *config.Config) (storage.FileStore, error) {
	switch cfg.StorageDriver {
	case config.StorageDriverS3:
		return storage.NewS3Store(ctx, storage.S3StoreConfig{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			BucketName:      cfg.S3Bucket,
		})
	default:
		return storage.NewDiskStore(cfg.UploadDir)
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort), slog.String("storage", cfg.StorageDriver))

	appCtx, stopApp := context.WithCancel(context.Background())
	defer stopApp()

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	if cfg.MigrateOnStart {
		version, err := db.Migrate(dbConn)
		if err != nil {
			logger.Error("failed to apply migrations", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("database migrated", slog.Uint64("version", uint64(version)))
	}

	fileStore, err := newFileStore(appCtx, cfg)
	if err != nil {
		logger.Error("failed to initialize file storage", slog.Any("error", err))
		os.Exit(1)
	}
	if obj, err := fileStore.Open(appCtx, cfg.DefaultAvatar); err != nil {
		logger.Warn("default avatar file is missing from storage", slog.String("key", cfg.DefaultAvatar), slog.Any("error", err))
	} else {
		obj.Body.Close()
	}

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	photoRepo := repositories.NewPostgresPhotoRepository(dbConn)
	eventRepo := repositories.NewPostgresEventRepository(dbConn)
	gameRepo := repositories.NewPostgresGameRepository(dbConn)
	tagRepo := repositories.NewPostgresTagRepository(dbConn)
	participantRepo := repositories.NewPostgresParticipantRepository(dbConn)
	reviewRepo := repositories.NewPostgresReviewRepository(dbConn)
	transactor := repositories.NewTransactor(dbConn)
	logger.Info("repositories initialized")

	if _, err := photoRepo.Ensure(appCtx, cfg.DefaultAvatar); err != nil {
		logger.Error("failed to ensure default avatar photo", slog.Any("error", err))
		os.Exit(1)
	}

	wsHub := live.NewHub(logger)
	go wsHub.Run(appCtx)
	logger.Info("websocket hub started")

	userService := services.NewUserService(transactor, userRepo, participantRepo, reviewRepo, photoRepo, fileStore, cfg.DefaultAvatar, logger)
	eventService := services.NewEventService(transactor, eventRepo, participantRepo, reviewRepo, photoRepo, fileStore, cfg.DefaultAvatar, wsHub, logger)
	participantService := services.NewParticipantService(eventRepo, userRepo, participantRepo, wsHub)
	reviewService := services.NewReviewService(eventRepo, participantRepo, reviewRepo, wsHub)
	gameService := services.NewGameService(transactor, gameRepo, tagRepo, photoRepo, fileStore, cfg.DefaultAvatar, logger)
	tagService := services.NewTagService(tagRepo, gameRepo)
	photoService := services.NewPhotoService(photoRepo, fileStore, cfg.DefaultAvatar, logger)
	dashboardService := services.NewDashboardService(userRepo, eventRepo, gameRepo, reviewRepo, photoRepo)
	logger.Info("services initialized")

	sweeper := services.NewPhotoSweeper(photoRepo, fileStore, cfg.DefaultAvatar, cfg.PhotoSweepGrace, logger)
	if err := sweeper.Start(cfg.PhotoSweepSchedule); err != nil {
		logger.Error("failed to start photo sweeper", slog.Any("error", err))
		os.Exit(1)
	}
	defer sweeper.Stop()
	logger.Info("photo sweeper scheduled", slog.String("schedule", cfg.PhotoSweepSchedule), slog.Duration("grace", cfg.PhotoSweepGrace))

	tokens := utils.NewTokenManager(cfg.JWTSecretKey, cfg.JWTTTL)
	loginLimiter := middleware.NewRateLimiter(cfg.LoginRatePerMinute, logger)
	loginLimiter.StartCleanup(appCtx, time.Minute)

	router := chi.NewRouter()
	api.SetupRoutes(router, api.Dependencies{
		Logger:       logger,
		Auth:         middleware.NewAuthenticator(tokens, userService, logger),
		LoginLimiter: loginLimiter,
		CORSOrigins:  cfg.CORSAllowedOrigins,
		User:         handlers.NewUserHandler(userService, tokens),
		Event:        handlers.NewEventHandler(eventService),
		Participant:  handlers.NewParticipantHandler(participantService),
		Review:       handlers.NewReviewHandler(reviewService),
		Game:         handlers.NewGameHandler(gameService),
		Tag:          handlers.NewTagHandler(tagService),
		Photo:        handlers.NewPhotoHandler(photoService),
		Dashboard:    handlers.NewDashboardHandler(dashboardService),
		WebSocket:    handlers.NewWebSocketHandler(wsHub, eventService, cfg.CORSAllowedOrigins),
		Health:       handlers.NewHealthHandler(dbConn),
	})
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			stopApp()
			os.Exit(1)
		}
		logger.Info("server stopped")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
		} else {
			logger.Info("server shutdown complete")
		}
	}

	stopApp()
	logger.Info("application exited")
}
