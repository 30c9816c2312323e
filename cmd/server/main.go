package main // Entry point package

import (
	"context"
	"log"
	"os"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/user-directory-api/internal/config"
	"github.com/iliyamo/user-directory-api/internal/handler"
	"github.com/iliyamo/user-directory-api/internal/queue"
	"github.com/iliyamo/user-directory-api/internal/repository"
	"github.com/iliyamo/user-directory-api/internal/router"
	"github.com/iliyamo/user-directory-api/internal/service"
)

func main() {
	cfg := config.Load()

	// The directory is constructed here and handed down by reference;
	// nothing else in the process owns user state.
	users := repository.NewUserRepo()
	if cfg.SeedUsers {
		users.Seed(context.Background(), cfg.BcryptCost)
		log.Printf("seeded default users")
	}

	// Optional collaborators: both degrade to nil when unreachable.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting disabled")
	}
	var events handler.EventPublisher
	if os.Getenv("AUTH_EVENTS_ENABLED") != "false" {
		events = service.NewQueuePublisher()
		go queue.StartAuthEventConsumer()
	}

	e := echo.New()
	e.HideBanner = true

	authHandler := handler.NewAuthHandler(cfg, users, events)
	userHandler := handler.NewUserHandler(cfg, users)
	router.Register(e, cfg, authHandler, userHandler, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
