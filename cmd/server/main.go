package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"eventbook/internal/config"
	"eventbook/internal/database"
	"eventbook/internal/handler"
	"eventbook/internal/middleware"
	"eventbook/internal/queue"
	"eventbook/internal/repository"
	"eventbook/internal/router"
	queue_publisher "eventbook/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using process environment")
	}

	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: without it the catalog cache and the auth rate
	// limiter silently turn into pass-throughs.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, cache and rate limiting disabled")
	}

	// Repositories
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	eventRepo := repository.NewEventRepo(db)
	bookingRepo := repository.NewBookingRepo(db)

	// Handlers
	authHandler := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	catalogHandler := handler.NewCatalogHandler(categoryRepo, eventRepo)
	bookingHandler := handler.NewBookingHandler(bookingRepo, eventRepo, queue_publisher.New())

	e := echo.New()
	e.HideBanner = true

	router.RegisterRoutes(e)
	router.RegisterCatalog(e, catalogHandler, middleware.ResponseCache(config.LoadCacheConfig(), rdb))
	router.RegisterAuth(e, authHandler, cfg.JWTSecret, middleware.RateLimit(config.LoadRateLimitConfig(), rdb))
	router.RegisterBookings(e, bookingHandler, cfg.JWTSecret)

	// Background consumer appends confirmed bookings to logs/booking.log.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
