// Package webapi exposes the ledger over HTTP using Fiber. Handlers
// resolve the caller identity from the JWT, translate the request into a
// service call and map domain errors onto RFC 9457 problem responses.
package webapi

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/moneybuddy/ledger/pkg/config"
	"github.com/moneybuddy/ledger/pkg/exchange"
	"github.com/moneybuddy/ledger/pkg/service/auth"
	"github.com/moneybuddy/ledger/pkg/service/directory"
	"github.com/moneybuddy/ledger/pkg/service/ledger"
	userservice "github.com/moneybuddy/ledger/pkg/service/user"
)

// Deps bundles the services the API serves.
type Deps struct {
	Ledger    *ledger.Service
	Directory *directory.Service
	User      *userservice.Service
	Auth      *auth.Service
	Converter exchange.Converter
	Config    *config.App
	Logger    *slog.Logger
}

// NewApp builds the Fiber application with all routes registered.
func NewApp(deps Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			status := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			}
			return ErrorResponseJSON(c, status, "Internal Server Error", err.Error())
		},
	})

	app.Use(limiter.New(limiter.Config{
		Max:        deps.Config.RateLimit.MaxRequests,
		Expiration: deps.Config.RateLimit.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return ErrorResponseJSON(c, fiber.StatusTooManyRequests, "Too Many Requests", "Rate limit exceeded")
		},
	}))
	app.Use(recover.New())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("App is working! 🚀")
	})

	AuthRoutes(app, deps)
	UserRoutes(app, deps)
	AccountRoutes(app, deps)
	RateRoutes(app, deps)

	return app
}
