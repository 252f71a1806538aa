package main

import (
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"propertyiq/server/config"
	"propertyiq/server/internal/api"
	"propertyiq/server/internal/prediction"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	// Load model artifacts; missing artifacts degrade to formula fallbacks
	registry := prediction.LoadRegistry(cfg.PriceModelPath(), cfg.AppreciationModelPath(), logger)
	logger.WithField("models_loaded", registry.LoadedModels()).Info("Model registry initialized")

	handler := api.NewHandler(cfg, registry, logger)

	router := gin.Default()
	router.Use(cors.Default())
	api.SetupRoutes(router, handler)

	logger.Infof("Starting server on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logger.WithError(err).Fatal("Server failed to start")
	}
}
