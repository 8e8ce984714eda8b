package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/yukikurage/albaranes-api/internal/auth"
	"github.com/yukikurage/albaranes-api/internal/config"
	"github.com/yukikurage/albaranes-api/internal/constants"
	"github.com/yukikurage/albaranes-api/internal/database"
	"github.com/yukikurage/albaranes-api/internal/handlers"
	"github.com/yukikurage/albaranes-api/internal/middleware"
	"github.com/yukikurage/albaranes-api/internal/repository"
	"github.com/yukikurage/albaranes-api/internal/services"
	"github.com/yukikurage/albaranes-api/internal/storage"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			logrus.Fatalf("Failed to load configuration: %v", err)
		}

		logger := newLogger(cfg)
		gin.SetMode(cfg.GinMode)

		if err := database.Connect(cfg); err != nil {
			logger.Fatalf("Failed to connect to database: %v", err)
		}
		db := database.GetDB()
		if err := database.MigrateDatabase(db); err != nil {
			logger.Fatalf("Failed to run migrations: %v", err)
		}

		store, err := newStore(cmd.Context(), cfg)
		if err != nil {
			logger.Fatalf("Failed to initialize storage: %v", err)
		}

		// Setup session middleware with Redis
		redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
		sessionStore, err := redisStore.NewStore(10, "tcp", redisAddr, "", []byte(cfg.SessionSecret))
		if err != nil {
			logger.Fatalf("Failed to create Redis store: %v", err)
		}
		sessionStore.Options(sessions.Options{
			Path:     "/",
			MaxAge:   86400 * 7,
			HttpOnly: true,
			Secure:   cfg.GinMode == gin.ReleaseMode,
			SameSite: http.SameSiteLaxMode,
		})

		// Repositories
		userRepo := repository.NewUserRepository(db)
		albaranRepo := repository.NewAlbaranRepository(db)

		// Services
		tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
		clientService := services.NewClientService(repository.NewClientRepository(db))
		projectService := services.NewProjectService(repository.NewProjectRepository(db), clientService)
		albaranService := services.NewAlbaranService(albaranRepo, clientService, projectService)
		signingService := services.NewSigningService(albaranService, albaranRepo, store, storage.NewArtifacts(cfg.ArtifactsDir))

		r := gin.New()
		r.Use(
			middleware.RequestID(),
			middleware.Logger(logger),
			gin.Recovery(),
			sessions.Sessions(constants.SessionCookieName, sessionStore),
		)

		handlers.Routes{
			Auth:      handlers.NewAuthHandler(services.NewAuthService(userRepo), tokens),
			Clients:   handlers.NewClientHandler(clientService),
			Projects:  handlers.NewProjectHandler(projectService),
			Albaranes: handlers.NewAlbaranHandler(albaranService, signingService),
			Tokens:    tokens,
			Users:     userRepo,
		}.Register(r)

		server := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			logger.Infof("Server starting on %s", cfg.HTTPAddr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Fatalf("Failed to start server: %v", err)
			}
		}()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		logger.Info("Shutting down server...")
		if err := server.Shutdown(ctx); err != nil {
			logger.Fatalf("Server shutdown failed: %v", err)
		}
		logger.Info("Server shutdown complete")
	},
}

func newLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.StandardLogger()
	if cfg.GinMode == gin.ReleaseMode {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

func newStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.StorageDriver {
	case config.StorageMinIO:
		return storage.NewMinIOStore(ctx, cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOBucket, cfg.MinIOUseSSL)
	case config.StoragePinata:
		return storage.NewPinataStore(cfg.PinataAPIURL, cfg.PinataGatewayURL, cfg.PinataJWT), nil
	default:
		logrus.Warn("Using in-memory storage; signed documents will not survive a restart")
		return storage.NewMemoryStore(), nil
	}
}
