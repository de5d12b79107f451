package main

import (
	"context"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"edeng/internal/config"
	"edeng/internal/http/handlers"
	applog "edeng/internal/log"
	"edeng/internal/repos"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	applog.Setup(cfg.LogFile)

	db, err := repos.Open(context.Background(), cfg.DBURL, cfg.DBName)
	if err != nil {
		log.Fatal(err)
	}

	deps := handlers.NewDeps(db, cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "something went wrong"})
		},
	})
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New(helmet.Config{
		ContentSecurityPolicy: "default-src 'self'; img-src 'self' data: https:; style-src 'self' 'unsafe-inline'",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.Origins(), ","),
		AllowCredentials: true,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Content-Type,Authorization",
	}))
	app.Use(handlers.SessionIdentity(deps.Auth))

	// ---------- Jewelry API ----------
	app.Get("/api/jewel", deps.JewelHandler.List)
	app.Post("/api/jewel", handlers.RequireUser(), deps.JewelHandler.Create)
	app.Put("/api/jewel", handlers.RequireUser(), deps.JewelHandler.Update)
	app.Post("/api/jewel/decrease", deps.JewelHandler.Decrease)
	app.Get("/api/jewel/:jewelId", deps.JewelHandler.Get)
	app.Delete("/api/jewel/:jewelId", handlers.RequireUser(), deps.JewelHandler.Delete)

	// ---------- Users API ----------
	app.Post("/api/auth/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many attempts, try again later"})
		},
	}), deps.AuthHandler.Login)
	app.Post("/api/auth/signup", deps.AuthHandler.Signup)
	app.Post("/api/auth/logout", deps.AuthHandler.Logout)
	app.Get("/api/auth/:userId", deps.AuthHandler.GetUser)
	app.Put("/api/user", handlers.RequireUser(), deps.AuthHandler.UpdateUser)

	// ---------- YPAY ----------
	app.Post("/api/ypay/payment", deps.YpayHandler.Payment)
	app.Post("/api/ypay/document", deps.YpayHandler.Document)
	app.Post("/api/ypay/notify-admin", deps.YpayHandler.NotifyAdmin)

	// ---------- Static SPA ----------
	app.Static("/", cfg.PublicDir)
	app.Use(func(c *fiber.Ctx) error {
		// SPA fallback: any unmatched route serves the index.
		return c.SendFile(filepath.Join(cfg.PublicDir, "index.html"))
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
