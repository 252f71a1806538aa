package api

import (
	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, handler *Handler) {
	router.GET("/health", handler.Health)
	router.POST("/predict", handler.Predict)
	router.POST("/comps", handler.Comps)
	router.POST("/investment-score", handler.InvestmentScore)
}
