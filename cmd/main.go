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

	"github.com/Dosada05/auction-system/config"
	"github.com/Dosada05/auction-system/db"
	"github.com/Dosada05/auction-system/handlers"
	"github.com/Dosada05/auction-system/live"
	"github.com/Dosada05/auction-system/repositories"
	api "github.com/Dosada05/auction-system/routes"
	"github.com/Dosada05/auction-system/services"
	"github.com/Dosada05/auction-system/storage"
	"github.com/Dosada05/auction-system/utils"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
)

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	// Хранилище состояния: Postgres, если задан DATABASE_URL, иначе память
	// (demo-режим, состояние живёт до перезапуска процесса).
	var stateRepo repositories.StateRepository
	if cfg.DatabaseURL != "" {
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
		stateRepo = repositories.NewPostgresStateRepository(dbConn)
		logger.Info("database connection established")
	} else {
		stateRepo = repositories.NewMemoryStateRepository()
		logger.Warn("DATABASE_URL is empty, using in-memory state store")
	}

	// Инициализация загрузчика файлов (Cloudflare R2). Без конфигурации
	// медиа-эндпоинты отвечают 501, остальной аукцион работает.
	var uploader storage.FileUploader
	if cfg.R2Configured() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Warn("Cloudflare R2 is not configured, media uploads disabled")
	}

	// Инициализация WebSocket Hub
	wsHub := live.NewHub()
	go wsHub.Run()
	logger.Info("WebSocket Hub started")

	// Пароль оператора хэшируется один раз на старте.
	operatorHash, err := utils.HashPassword(cfg.OperatorPassword)
	if err != nil {
		logger.Error("failed to hash operator password", slog.Any("error", err))
		os.Exit(1)
	}

	// Инициализация сервисов
	jwtSecret := []byte(cfg.JWTSecretKey)
	authService := services.NewAuthService(cfg.OperatorUsername, operatorHash, jwtSecret)
	setupService := services.NewSetupService(stateRepo)
	mediaService := services.NewMediaService(uploader)
	logger.Info("Services initialized")

	// Движок аукциона: засеваем демо-набор при пустом хранилище и ставим
	// игрока под курсором на блок.
	engine := live.NewEngine(live.EngineConfig{
		Store:        stateRepo,
		Hub:          wsHub,
		Logger:       logger,
		TickInterval: live.DefaultTickInterval,
	})
	bootCtx, cancelBoot := context.WithTimeout(context.Background(), 10*time.Second)
	if err := setupService.EnsureDefaults(bootCtx); err != nil {
		cancelBoot()
		logger.Error("failed to seed default auction state", slog.Any("error", err))
		os.Exit(1)
	}
	if err := engine.Reload(bootCtx); err != nil {
		cancelBoot()
		logger.Error("failed to load auction state", slog.Any("error", err))
		os.Exit(1)
	}
	cancelBoot()
	defer engine.Stop()
	logger.Info("Auction engine started")

	// Инициализация обработчиков HTTP
	authHandler := handlers.NewAuthHandler(authService)
	setupHandler := handlers.NewSetupHandler(setupService, engine)
	auctionHandler := handlers.NewAuctionHandler(engine)
	mediaHandler := handlers.NewMediaHandler(mediaService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, engine)
	logger.Info("HTTP handlers initialized")

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		authHandler,
		setupHandler,
		auctionHandler,
		mediaHandler,
		webSocketHandler,
		jwtSecret,
	)
	logger.Info("Routes configured")

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		} else {
			logger.Info("server stopped gracefully")
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		} else {
			logger.Info("server shutdown complete")
		}
	}
	logger.Info("application exited")
}
