// Package server wires repositories, services and handlers into the API router.
package server

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"venuebooking/internal/config"
	"venuebooking/internal/middleware"
	"venuebooking/internal/modules/availability"
	notificationhttp "venuebooking/internal/modules/notification"
	"venuebooking/internal/modules/reservation"
	"venuebooking/internal/notification"
	jwtsvc "venuebooking/internal/pkg/jwt"
	"venuebooking/internal/repository"
)

type Options struct {
	Config *config.Config
	DB     *gorm.DB
	// Redis enables the free-hours cache when non-nil.
	Redis *redis.Client
	// Publisher enables the email sink when non-nil.
	Publisher notification.Publisher
}

type App struct {
	Router     *gin.Engine
	Hub        *notification.Hub
	Dispatcher *notification.Dispatcher
	JWT        *jwtsvc.Service
}

func New(opts Options) (*App, error) {
	cfg, db := opts.Config, opts.DB
	approved := cfg.Statuses.Approved().Label

	userRepo := repository.NewUserRepository(db, cfg.Roles)
	venueRepo := repository.NewVenueRepository(db)
	reservationRepo := repository.NewReservationRepository(db, approved)
	notificationRepo := repository.NewNotificationRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)

	// Post-commit sinks; the websocket hub is always on.
	hub := notification.NewHub()
	dispatcher := notification.NewDispatcher(hub)

	var freeHoursCache *availability.FreeHoursCache
	if opts.Redis != nil {
		freeHoursCache = availability.NewFreeHoursCache(opts.Redis, cfg.FreeHoursCacheTTL)
		dispatcher.Register(freeHoursCache)
	}

	if opts.Publisher != nil {
		mailer, err := notification.NewMailer(opts.Publisher, cfg.EmailQueue, userRepo, cfg.AppBaseURL)
		if err != nil {
			return nil, fmt.Errorf("mailer: %w", err)
		}
		dispatcher.Register(mailer)
	} else {
		log.Printf("mailer disabled: no publisher configured")
	}

	availabilityService := availability.NewService(reservationRepo, venueRepo, cfg.Slots, freeHoursCache)
	reservationService := reservation.NewService(
		reservationRepo,
		availabilityService,
		venueRepo,
		userRepo,
		cfg.Statuses,
		dispatcher,
		cfg.ReservationCodeAttempts,
	)

	availabilityHandler := availability.NewHandler(availabilityService)
	reservationHandler := reservation.NewHandler(reservationService)
	notificationHandler := notificationhttp.NewHandler(notificationRepo)
	wsHandler := notification.NewWSHandler(hub, j)

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorLogger())
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "online": hub.OnlineCount()})
	})

	v1 := r.Group("/api/v1")
	{
		// websocket authenticates with ?token=
		wsHandler.RegisterRoutes(v1)

		protected := v1.Group("")
		protected.Use(middleware.JWTAuth(j), middleware.ResolveRole(userRepo))
		{
			availabilityHandler.RegisterRoutes(protected)
			reservationHandler.RegisterRoutes(protected)
			notificationHandler.RegisterRoutes(protected)
		}
	}

	return &App{
		Router:     r,
		Hub:        hub,
		Dispatcher: dispatcher,
		JWT:        j,
	}, nil
}
