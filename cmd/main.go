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

	"github.com/go-chi/chi/v5"

	"github.com/Dosada05/chess-portal/config"
	"github.com/Dosada05/chess-portal/db"
	"github.com/Dosada05/chess-portal/handlers"
	"github.com/Dosada05/chess-portal/middleware"
	"github.com/Dosada05/chess-portal/notifications"
	"github.com/Dosada05/chess-portal/payment"
	"github.com/Dosada05/chess-portal/repositories"
	api "github.com/Dosada05/chess-portal/routes"
	"github.com/Dosada05/chess-portal/services"
	"github.com/Dosada05/chess-portal/session"
	"github.com/Dosada05/chess-portal/storage"
)

const janitorInterval = 10 * time.Minute // How often idle sessions are purged

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort), slog.String("backend", cfg.BackendURL))

	appCtx, stopApp := context.WithCancel(context.Background())
	defer stopApp()

	// Хранилище сессий: postgres, если задан DATABASE_URL, иначе память процесса
	var (
		kv     session.KeyValue
		purger session.Purger
	)
	if cfg.DatabaseURL != "" {
		dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second, logger)
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
		if err := repositories.EnsureSessionSchema(appCtx, dbConn); err != nil {
			logger.Error("failed to prepare session schema", slog.Any("error", err))
			os.Exit(1)
		}
		sessionStore := repositories.NewPostgresSessionRepository(dbConn, cfg.SessionKey)
		kv, purger = sessionStore, sessionStore
		logger.Info("postgres session store initialized")
	} else {
		memory := session.NewMemoryKV()
		kv, purger = memory, memory
		logger.Warn("DATABASE_URL not set, sessions are kept in memory")
	}

	// Выгрузка составов в Cloudflare R2 (опционально)
	var rosterUploader storage.FileUploader
	r2Config := storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	}
	if r2Config.Complete() {
		rosterUploader, err = storage.NewCloudflareR2Uploader(appCtx, r2Config)
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Info("R2 is not configured, roster export disabled")
	}

	// Инициализация WebSocket Hub
	hub := notifications.NewHub(logger)
	go hub.Run(appCtx)
	logger.Info("notification hub started")

	// Клиент бэкенда и репозитории
	client, err := repositories.NewClient(cfg.BackendURL, cfg.BackendTimeout)
	if err != nil {
		logger.Error("failed to create backend client", slog.Any("error", err))
		os.Exit(1)
	}
	userRepo := repositories.NewHTTPUserRepository(client)
	locationRepo := repositories.NewHTTPLocationRepository(client)
	tournamentRepo := repositories.NewHTTPTournamentRepository(client)
	enrollmentRepo := repositories.NewHTTPEnrollmentRepository(client)
	photoRepo := repositories.NewHTTPPhotoRepository(client)
	logger.Info("Repositories initialized")

	// Инициализация сервисов
	processor := payment.NewSimulated(cfg.PaymentProcessingDelay, cfg.PaymentConfirmDelay, logger)
	workspaces := services.NewWorkspaces(locationRepo, hub, logger)

	authService := services.NewAuthService(userRepo, locationRepo, workspaces, logger)
	formService := services.NewFormService(locationRepo, tournamentRepo, logger)
	dashboardService := services.NewDashboardService(tournamentRepo, enrollmentRepo, time.Now, logger)
	tournamentService := services.NewTournamentService(tournamentRepo, rosterUploader, time.Now, logger)
	enrollmentService := services.NewEnrollmentService(enrollmentRepo, processor, time.Now, logger)
	profileService := services.NewProfileService(userRepo, locationRepo, photoRepo, logger)
	logger.Info("Services initialized")

	// Уборка простаивающих сессий: workspace в памяти и записи хранилища
	go func() {
		ticker := time.NewTicker(janitorInterval)
		defer ticker.Stop()
		logger.Info("session janitor started", slog.Duration("interval", janitorInterval))

		for {
			select {
			case <-appCtx.Done():
				return
			case <-ticker.C:
				dropped := workspaces.DiscardIdle(cfg.SessionIdle)
				purged, purgeErr := purger.DeleteStale(appCtx, cfg.SessionIdle)
				if purgeErr != nil {
					logger.Error("Janitor: failed to purge sessions", slog.Any("error", purgeErr))
				}
				if dropped > 0 || purged > 0 {
					logger.Info("Janitor: idle sessions removed", slog.Int("workspaces", dropped), slog.Int64("stored", purged))
				}
			}
		}
	}()

	// Инициализация обработчиков HTTP
	handlerSet := api.Handlers{
		Auth:      handlers.NewAuthHandler(authService, hub, logger),
		Forms:     handlers.NewFormHandler(formService, tournamentService, hub, logger),
		Organizer: handlers.NewOrganizerHandler(dashboardService, tournamentService, hub, logger),
		Player:    handlers.NewPlayerHandler(dashboardService, enrollmentService, hub, logger),
		Profile:   handlers.NewProfileHandler(profileService, hub, logger),
		WebSocket: handlers.NewWebSocketHandler(hub, cfg.AllowedOrigins, logger),
	}
	sessions := middleware.NewSessions(cfg.SessionSecret, kv, workspaces, cfg.SecureCookies, logger)
	logger.Info("HTTP handlers initialized")

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(router, sessions, cfg.AllowedOrigins, handlerSet)
	logger.Info("Routes configured")

	// WriteTimeout покрывает оплату (обработка + подтверждение) и медленный бэкенд
	writeTimeout := 10*time.Second + cfg.BackendTimeout + cfg.PaymentProcessingDelay + cfg.PaymentConfirmDelay

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: writeTimeout,
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
			stopApp()
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		// websocket соединения Shutdown не ждёт, их закрывает hub
		stopApp()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
