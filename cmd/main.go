package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	accountcmd "github.com/eaglebank/account-service/internal/command"
	"github.com/eaglebank/account-service/internal/config"
	"github.com/eaglebank/account-service/internal/database"
	"github.com/eaglebank/account-service/internal/events"
	"github.com/eaglebank/account-service/internal/handler"
	"github.com/eaglebank/account-service/internal/middleware"
	accountqry "github.com/eaglebank/account-service/internal/query"
	redisClient "github.com/eaglebank/account-service/internal/redis"
	"github.com/eaglebank/account-service/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.SetLevel(cfg.LogLevel)
	log.SetFormatter(&log.JSONFormatter{})

	ctx := context.Background()

	db, err := database.Open(ctx, cfg.DatabaseURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	repo := repository.NewPostgresAccountRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		log.Fatalf("Failed to initialise schema: %v", err)
	}

	// Account events go to Redis only when an address is configured.
	var publisher accountcmd.EventPublisher = events.NopPublisher{}
	if cfg.RedisAddr != "" {
		redis, err := redisClient.NewClient(ctx, cfg.RedisAddr, "", 0)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redis.Close()
		publisher = events.NewPublisher(redis.Client)
		log.WithField("stream", events.AccountEventsStream).Info("Publishing account events to Redis")
	}

	commandSvc := accountcmd.NewAccountCommandService(repo, publisher)
	querySvc := accountqry.NewAccountQueryService(repo)
	accountHandler := handler.NewAccountHandler(commandSvc, querySvc)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORS())

	router.GET("/health", handler.Health)
	router.GET("/", handler.Index)
	handler.RegisterRoutes(router, accountHandler)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Graceful shutdown
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		log.Info("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("Shutdown did not complete")
		}
	}()

	log.Infof("Account service starting on port %s", cfg.Port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
	<-stopped
	log.Info("Server stopped")
}
