package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"venuebooking/internal/config"
	"venuebooking/internal/database"
	"venuebooking/internal/notification"
	"venuebooking/internal/repository"
	"venuebooking/internal/server"
)

func main() {
	config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Printf("db close: %v", err)
		}
	}()

	if err := repository.Migrate(db, cfg.Statuses.Approved().Label); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	var rdb *redis.Client
	if cfg.CacheEnabled {
		if rdb = config.NewRedisClient(); rdb != nil {
			defer func() { _ = rdb.Close() }()
		}
	}

	var publisher notification.Publisher
	if cfg.RabbitMQURL != "" {
		async := notification.NewAsyncPublisher(
			notification.NewAMQPPublisher(cfg.RabbitMQURL, cfg.PublishTimeout),
			256,
			cfg.PublishTimeout,
		)
		defer async.Close()
		publisher = async
	}

	if cfg.AppEnv == "prod" || cfg.AppEnv == "production" || cfg.AppEnv == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	app, err := server.New(server.Options{
		Config:    cfg,
		DB:        db,
		Redis:     rdb,
		Publisher: publisher,
	})
	if err != nil {
		log.Fatalf("server: %v", err)
	}
	defer app.Hub.Close()

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("http server listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("http shutdown: %v", err)
	}
}
