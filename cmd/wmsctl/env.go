package main

import (
	"fmt"

	"rack-wms/config"
	"rack-wms/controllers/idgen"
	"rack-wms/database"
	"rack-wms/logger"
	"rack-wms/migration"
	"rack-wms/services"
	"rack-wms/services/classifier"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type env struct {
	db        *gorm.DB
	log       *zap.Logger
	inventory *services.InventoryService
	racks     *services.RackService
}

// openEnv connects, migrates and builds the services the commands share.
func openEnv(flags *globalFlags) (*env, error) {
	config.LoadConfig()
	idgen.Init(config.SnowflakeNode)

	log, err := logger.New()
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	log = logger.Named(log, "wmsctl")

	var db *gorm.DB
	if flags.sqlite != "" {
		db, err = database.OpenSQLite(flags.sqlite, log)
	} else {
		if err := database.EnsureDatabaseExists(config.DBName); err != nil {
			return nil, err
		}
		db, err = database.Open(config.DBName, log)
	}
	if err != nil {
		return nil, err
	}
	if err := migration.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &env{
		db:        db,
		log:       log,
		inventory: services.NewInventoryService(db, classifier.NewFromConfig(log), log, services.InventoryOptionsFromConfig()),
		racks:     services.NewRackService(db, log),
	}, nil
}

func (e *env) Close() {
	if sqlDB, err := e.db.DB(); err == nil {
		sqlDB.Close()
	}
	_ = e.log.Sync()
}
