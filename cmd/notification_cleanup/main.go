package main

import (
	"context"
	"log"
	"time"

	"venuebooking/internal/config"
	"venuebooking/internal/database"
	"venuebooking/internal/repository"
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
	defer func() { _ = database.Close(db) }()

	cutoff := time.Now().AddDate(0, 0, -cfg.NotificationRetentionDays)
	n, err := repository.NewNotificationRepository(db).DeleteReadBefore(context.Background(), cutoff)
	if err != nil {
		log.Fatalf("cleanup notifications failed: %v", err)
	}

	log.Printf("notification cleanup completed: deleted=%d cutoff=%s", n, cutoff.Format(time.RFC3339))
}
