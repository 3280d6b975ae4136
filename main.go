package main

import (
	"log"

	"plateada-backend/config"
	"plateada-backend/internal/api"
	"plateada-backend/internal/database"
	"plateada-backend/internal/services"
	"plateada-backend/pkg/logger"

	"go.uber.org/zap"
)

// @title plateada-backend API
// @version 1.0
// @description Marketplace backend: expert directory, session lifecycle, credit ledger and ratings.

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := logger.InitLogger(&logger.Config{
		Level:      cfg.LogLevel,
		Filename:   cfg.LogFilename,
		MaxSize:    cfg.LogMaxSize,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAge,
		Compress:   cfg.LogCompress,
	}); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		logger.Log.Fatal("failed to connect database", zap.Error(err))
	}
	if err := database.ConnectRedis(cfg); err != nil {
		logger.Log.Fatal("failed to connect redis", zap.Error(err))
	}

	if err := database.Migrate(db); err != nil {
		logger.Log.Fatal("failed to migrate database", zap.Error(err))
	}

	if cfg.SeedDemoExperts {
		if _, err := services.SeedDemoExperts(); err != nil {
			logger.Log.Fatal("failed to seed demo experts", zap.Error(err))
		}
	}

	router := api.NewRouter(cfg)
	logger.Log.Info("server starting", zap.String("port", cfg.ServerPort))
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		logger.Log.Fatal("failed to run server", zap.Error(err))
	}
}
