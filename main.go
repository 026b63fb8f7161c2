package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smart-delivery/config"
	"smart-delivery/database"
	"smart-delivery/database/seeders"
	"smart-delivery/logger"
	"smart-delivery/routes"
	"smart-delivery/types"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Invalid configuration:", err)
		os.Exit(1)
	}
	logger.Init(logger.FileOptions{
		Dir:        cfg.Log.Dir,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   true,
	}, logger.ParseLevel(cfg.Log.Level))

	app := fiber.New(fiber.Config{
		ReadBufferSize:  32768, // 32KB read buffer
		WriteBufferSize: 32768, // 32KB write buffer
		ReadTimeout:     time.Second * 30,
		WriteTimeout:    time.Second * 30,
		BodyLimit:       1 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(types.ErrorResponse{
				Message: err.Error(),
				Status:  code,
			})
		},
	})

	db, err := database.InitDB()
	if err != nil {
		logger.Error("Failed to connect to the database", err)
		os.Exit(1)
	}
	if err := seeders.SeedAdmin(db, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword); err != nil {
		logger.Error("Failed to seed admin account", err)
	}

	services, err := routes.NewServices(db, cfg)
	if err != nil {
		logger.Error("Failed to initialise services", err)
		os.Exit(1)
	}
	logger.Info("Carry-forward strategy: " + string(services.Ledger.Strategy))

	asyncLogger := logger.NewAsyncLogger(db)
	go asyncLogger.ProcessLog()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.FrontendURL,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: cfg.App.FrontendURL != "*",
	}))

	routes.SetupRoutes(app, db, services, asyncLogger)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		logger.Warning("Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Error("Server shutdown failed", err)
		}
	}()

	logger.Success("Server is running on " + cfg.Addr())
	if err := app.Listen(cfg.Addr()); err != nil {
		logger.Error("Server stopped", err)
	}

	asyncLogger.Close()
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
