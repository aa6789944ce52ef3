// Package server assembles the Fiber app: middleware, routes and the shared
// error handling.
package server

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/xid"

	"cardforge/internal/auth"
	"cardforge/internal/config"
	"cardforge/internal/http/handlers"
	"cardforge/internal/infra/logging"
	"cardforge/internal/infra/ratelimit"
	"cardforge/internal/render"
	"cardforge/internal/store"
)

// Deps carries everything the app needs; main constructs them once at startup.
type Deps struct {
	Config   config.Config
	Store    *store.Store
	Renderer *render.Renderer
	Gate     *auth.Gate
}

// New creates and configures a new Fiber app instance.
func New(d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			msg := "Internal Server Error"

			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				msg = e.Message
			}

			logging.Warn("Request failed", "path", c.Path(), "status", code, "message", msg)

			return c.Status(code).JSON(fiber.Map{
				"error": fiber.Map{
					"code":    code,
					"message": msg,
				},
			})
		},
	})

	registerMiddleware(app)
	registerRoutes(app, d)

	// Ensure unknown paths return a JSON 404 as well.
	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Not Found")
	})

	return app
}

// registerRoutes mounts all route handlers to the app.
func registerRoutes(app *fiber.App, d Deps) {
	svc := handlers.NewCardService(d.Config, d.Store, d.Renderer, d.Gate)

	app.Get("/", svc.HandleIndex)
	app.Post("/", submitLimiter(d.Config), svc.HandleSubmit)
	app.Get("/cards/:filename", svc.HandleCard)
	app.Get("/admin", svc.HandleAdminForm)
	app.Post("/admin", svc.HandleAdminList)
	app.Post("/delete/:filename", svc.HandleDelete)
}

// registerMiddleware attaches global middleware to the app.
func registerMiddleware(app *fiber.App) {
	app.Use(cors.New())

	app.Use(requestid.New(requestid.Config{
		Generator: func() string {
			return xid.New().String()
		},
	}))

	app.Use(healthcheck.New())

	app.Use(func(c *fiber.Ctx) error {
		requestID := c.Get("X-Request-ID")
		if requestID == "" {
			requestID = c.GetRespHeader("X-Request-ID")
		}
		logging.Info("Incoming request", "method", c.Method(), "path", c.Path(), "request_id", requestID)
		return c.Next()
	})
}

// submitLimiter rate-limits card submissions per client when enabled.
func submitLimiter(cfg config.Config) fiber.Handler {
	if cfg.RateLimiter.UserLimit <= 0 {
		return func(c *fiber.Ctx) error {
			return c.Next()
		}
	}
	return limiter.New(limiter.Config{
		Max:               cfg.RateLimiter.UserLimit,
		Expiration:        cfg.RateLimiter.Interval,
		LimiterMiddleware: limiter.SlidingWindow{},
		Storage: ratelimit.NewStore(ratelimit.RedisConfig{
			Addr: cfg.RateLimiter.RedisAddr,
			DB:   cfg.RateLimiter.RedisDB,
		}),
		KeyGenerator: func(c *fiber.Ctx) string {
			sum := sha256.Sum256([]byte(c.IP() + c.Get("User-Agent")))
			return hex.EncodeToString(sum[:])
		},
		LimitReached: func(c *fiber.Ctx) error {
			logging.Warn("Rate limit exceeded", "ip", c.IP(), "path", c.Path())
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": fiber.Map{
					"code":    fiber.StatusTooManyRequests,
					"message": "Too Many Requests",
				},
			})
		},
	})
}
