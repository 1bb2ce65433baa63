package main

import (
	"context"
	"log"

	"golang.org/x/crypto/bcrypt"

	"venuebooking/internal/config"
	"venuebooking/internal/database"
	"venuebooking/internal/domain"
	jwtsvc "venuebooking/internal/pkg/jwt"
	"venuebooking/internal/repository"
)

type seedUser struct {
	email    string
	password string
	role     string
	name     string
}

var users = []seedUser{
	{"admin@reservas.local", "admin123", "administrador", "Administrador"},
	{"supervisor@reservas.local", "super123", "supervisor", "Supervisora de escenarios"},
	{"ana@reservas.local", "user123", "usuario", "Ana Gómez"},
	{"carlos@reservas.local", "user123", "usuario", "Carlos Ruiz"},
}

var venues = []domain.Venue{
	{Name: "Coliseo Mayor", Location: "Calle 10 # 4-20", Capacity: 2000, Active: true},
	{Name: "Cancha Sintética Norte", Location: "Carrera 15 # 80-11", Capacity: 300, Active: true},
	{Name: "Piscina Olímpica", Location: "Avenida 6 # 23-50", Capacity: 500, Active: true},
	{Name: "Estadio Antiguo", Location: "Calle 1 # 1-01", Capacity: 8000, Active: false},
}

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

	log.Println("Running migrations...")
	if err := repository.Migrate(db, cfg.Statuses.Approved().Label); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	// Cleanup old data (children first)
	log.Println("Cleaning old data...")
	for _, table := range []string{"notifications", "reservation_status_history", "reservations", "venue_day_locks", "venues", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			log.Fatalf("cleanup %s: %v", table, err)
		}
	}

	ctx := context.Background()
	userRepo := repository.NewUserRepository(db, cfg.Roles)
	venueRepo := repository.NewVenueRepository(db)
	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)

	log.Println("Creating users...")
	for _, su := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte(su.password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("hash password for %s: %v", su.email, err)
		}
		u := &domain.User{
			Email:        su.email,
			PasswordHash: string(hash),
			Role:         su.role,
			Name:         su.name,
			Active:       true,
		}
		if err := userRepo.Create(ctx, u); err != nil {
			log.Fatalf("create user %s: %v", su.email, err)
		}

		role, _ := cfg.Roles.Normalize(u.Role)
		token, err := j.GenerateToken(u.ID, string(role))
		if err != nil {
			log.Fatalf("token for %s: %v", su.email, err)
		}
		log.Printf("user id=%d email=%s role=%s token=%s", u.ID, u.Email, role, token)
	}

	log.Println("Creating venues...")
	for i := range venues {
		v := venues[i]
		if err := venueRepo.Create(ctx, &v); err != nil {
			log.Fatalf("create venue %s: %v", v.Name, err)
		}
		log.Printf("venue id=%d name=%q active=%t", v.ID, v.Name, v.Active)
	}

	log.Printf("seed completed: users=%d venues=%d", len(users), len(venues))
}
