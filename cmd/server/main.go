package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/santhokumarp/salonhub/internal/booking"
	"github.com/santhokumarp/salonhub/internal/config"
	"github.com/santhokumarp/salonhub/internal/database"
	"github.com/santhokumarp/salonhub/internal/handler"
	appmw "github.com/santhokumarp/salonhub/internal/middleware"
	"github.com/santhokumarp/salonhub/internal/queue"
	"github.com/santhokumarp/salonhub/internal/repository"
	"github.com/santhokumarp/salonhub/internal/router"
	"github.com/santhokumarp/salonhub/internal/scheduler"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient() // nil when Redis is unreachable

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	services := repository.NewServiceRepo(db)
	schedule := repository.NewScheduleRepo(db)
	slots := repository.NewSlotRepo(db)
	cart := repository.NewCartRepo(db)
	bookings := repository.NewBookingRepo(db)

	gen := scheduler.NewGenerator(schedule, slots, bookings, rdb, cfg.WindowDays)
	engine := &booking.Engine{
		Slots:      slots,
		Schedule:   schedule,
		Bookings:   bookings,
		Cart:       cart,
		TaxPercent: cfg.TaxPercent,
	}
	lifecycle := &booking.Lifecycle{Slots: slots, Bookings: bookings}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	// The first sweep runs before the listener comes up so the window is
	// already populated; Start returns once the timer loop is launched.
	gen.Start(ctx, time.Duration(cfg.SweepEveryMin)*time.Minute)
	go func() {
		if err := queue.StartDecisionConsumer(); err != nil {
			log.Printf("decision consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true

	cacheMW := appmw.ResponseCache(config.LoadCacheConfig(), rdb)
	limitMW := appmw.RateLimit(config.LoadRateLimitConfig(), rdb)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	catalogH := handler.NewCatalogHandler(services)
	slotsH := handler.NewSlotsHandler(cfg, slots, schedule)
	cartH := handler.NewCartHandler(cart, services, cfg.TaxPercent)
	checkoutH := handler.NewCheckoutHandler(engine, lifecycle, bookings, services)
	scheduleH := handler.NewScheduleHandler(schedule, slots, gen)
	adminBookingH := handler.NewAdminBookingHandler(lifecycle, bookings)

	router.RegisterRoutes(e)
	router.RegisterPublic(e, catalogH, slotsH, cacheMW)
	router.RegisterAuth(e, authH, cfg.JWTSecret, limitMW)
	router.RegisterCustomer(e, cartH, checkoutH, cfg.JWTSecret, limitMW)
	router.RegisterAdmin(e, scheduleH, adminBookingH, catalogH, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
