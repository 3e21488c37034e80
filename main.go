package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"rack-wms/config"
	"rack-wms/controllers"
	"rack-wms/controllers/idgen"
	"rack-wms/database"
	"rack-wms/logger"
	"rack-wms/middleware"
	"rack-wms/migration"
	"rack-wms/routes"
	"rack-wms/scheduler"
	"rack-wms/services"
	"rack-wms/services/classifier"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()

	baseLogger := logger.Must(logger.New())
	defer baseLogger.Sync()
	appLog := logger.Named(baseLogger, "wms")

	idgen.Init(config.SnowflakeNode)

	// Pastikan database ada
	if err := database.EnsureDatabaseExists(config.DBName); err != nil {
		appLog.Fatal("failed to ensure database", zap.String("db", config.DBName), zap.Error(err))
	}

	db, err := database.Open(config.DBName, appLog)
	if err != nil {
		appLog.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := migration.Migrate(db); err != nil {
		appLog.Fatal("failed to auto migrate", zap.Error(err))
	}
	if err := database.RunSeeders(db); err != nil {
		appLog.Fatal("failed to seed master data", zap.Error(err))
	}

	resolver := classifier.NewFromConfig(logger.Named(baseLogger, "classifier"))
	appLog.Info("hazard classifier ready", zap.String("backend", resolver.Backend()))

	inventoryService := services.NewInventoryService(db, resolver, logger.Named(baseLogger, "inventory"), services.InventoryOptionsFromConfig())
	rackService := services.NewRackService(db, logger.Named(baseLogger, "racks"))

	app := fiber.New(fiber.Config{
		ErrorHandler: controllers.ErrorHandler(appLog),
		BodyLimit:    10 * 1024 * 1024,
	})
	config.SetupCORS(app)
	app.Use(middleware.RequestLogger(logger.Named(baseLogger, "http")))

	if config.JWTSecret == "" {
		appLog.Warn("JWT_SECRET is empty, API authentication is disabled")
	}
	routes.Setup(app, routes.Dependencies{
		DB:        db,
		Inventory: inventoryService,
		Racks:     rackService,
		JWTSecret: config.JWTSecret,
	})

	var digest *scheduler.Scheduler
	if config.AlertingEnabled() {
		alerter := services.NewLowStockAlerter(inventoryService, services.NewSMTPSender(),
			config.AlertFrom, config.AlertRecipients, logger.Named(baseLogger, "alerts"))
		digest = scheduler.New(config.LowStockCron, alerter, logger.Named(baseLogger, "scheduler"))
		if err := digest.Start(); err != nil {
			appLog.Fatal("failed to start scheduler", zap.Error(err))
		}
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit

		appLog.Info("shutting down")
		if digest != nil {
			digest.Stop()
		}
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			appLog.Error("shutdown failed", zap.Error(err))
		}
	}()

	appLog.Info("server starting", zap.String("port", config.APP_PORT), zap.String("routes", config.MAIN_ROUTES))
	if err := app.Listen(":" + config.APP_PORT); err != nil {
		appLog.Fatal("server stopped", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
