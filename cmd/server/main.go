package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/uniseats/lecture-seat-reservation/internal/catalog"
	"github.com/uniseats/lecture-seat-reservation/internal/config"
	"github.com/uniseats/lecture-seat-reservation/internal/database"
	"github.com/uniseats/lecture-seat-reservation/internal/handler"
	"github.com/uniseats/lecture-seat-reservation/internal/mailer"
	"github.com/uniseats/lecture-seat-reservation/internal/queue"
	"github.com/uniseats/lecture-seat-reservation/internal/repository"
	"github.com/uniseats/lecture-seat-reservation/internal/router"
	"github.com/uniseats/lecture-seat-reservation/internal/service"
)

func main() {
	// .env is a dev convenience; in production the environment is set by
	// the process manager.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := database.Migrate(ctx, db); err != nil {
		cancel()
		log.Fatalf("migrate: %v", err)
	}
	cancel()

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.Fatalf("load catalog: %v", err)
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable, rate limiting and response cache disabled")
	}

	m := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom, cfg.SMTPUser, cfg.SMTPPass, cfg.Dev())
	go queue.StartLoginMailConsumer(m)
	go queue.StartRegistrationLogConsumer()

	ledger := repository.NewRegistrationRepo(db)
	svc := service.New(cat, ledger, service.Options{
		AdminWindowDays: cfg.AdminWindowDays,
		Publish:         service.PublishRegistrationRecorded,
	})

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	router.Register(e, cfg, rdb,
		handler.NewAuthHandler(cfg, cat, m),
		handler.NewReservationHandler(svc, cat),
		handler.NewQuizHandler(cat, repository.NewQuizRepo(db)),
	)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
