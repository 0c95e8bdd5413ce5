// Package middleware holds the fiber middleware shared by every route.
package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Logging writes one access-log line per request.
func Logging() fiber.Handler {
	return logger.New(logger.Config{
		Format:     "${time} ${status} ${method} ${path}?${queryParams} ${latency}\n",
		TimeFormat: "2006/01/02 15:04:05",
	})
}

// Recover turns handler panics into 500 responses.
func Recover() fiber.Handler {
	return recover.New()
}

// CORS allows cross-origin GET requests from origin. It returns nil when
// origin is empty, meaning no CORS headers should be sent.
func CORS(origin string) fiber.Handler {
	if origin == "" {
		return nil
	}
	return cors.New(cors.Config{
		AllowOrigins: origin,
		AllowMethods: "GET,HEAD,OPTIONS",
	})
}

// Use installs Recover, Logging and, when origin is set, CORS on app.
func Use(app *fiber.App, corsOrigin string) {
	app.Use(Recover())
	app.Use(Logging())
	if h := CORS(corsOrigin); h != nil {
		app.Use(h)
	}
}
