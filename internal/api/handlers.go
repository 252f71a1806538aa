package api

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"propertyiq/server/config"
	"propertyiq/server/internal/comps"
	"propertyiq/server/internal/models"
	"propertyiq/server/internal/prediction"
	"propertyiq/server/internal/scoring"
)

type Handler struct {
	cfg       *config.Config
	logger    *logrus.Logger
	registry  *prediction.Registry
	estimator *prediction.Estimator
	comps     *comps.Generator
}

func NewHandler(cfg *config.Config, registry *prediction.Registry, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	return &Handler{
		cfg:       cfg,
		logger:    logger,
		registry:  registry,
		estimator: prediction.NewEstimator(registry, logger, nil),
		comps:     comps.NewGenerator(nil),
	}
}

// Health reports service liveness and which model artifacts loaded.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "healthy",
		"models_loaded": h.registry.LoadedModels(),
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
	})
}

// Predict returns a price estimate for the posted property, model-based when
// a price artifact is loaded and formula-based otherwise.
func (h *Handler) Predict(c *gin.Context) {
	var features models.PropertyFeatures
	if err := c.ShouldBindJSON(&features); err != nil {
		h.logger.WithError(err).Error("Failed to parse predict request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request parameters"})
		return
	}

	c.JSON(http.StatusOK, h.estimator.Predict(features))
}

// Comps returns synthetic comparable sales around the posted property.
func (h *Handler) Comps(c *gin.Context) {
	var req models.CompsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Failed to parse comps request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request parameters"})
		return
	}

	if req.Limit <= 0 {
		req.Limit = h.cfg.Comps.DefaultLimit
	}

	c.JSON(http.StatusOK, models.CompsResponse{
		PropertyID:  req.PropertyID,
		Comparables: h.comps.Generate(req),
		Methodology: comps.Methodology,
	})
}

// InvestmentScore computes the multi-factor investment breakdown.
func (h *Handler) InvestmentScore(c *gin.Context) {
	var req models.InvestmentScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Failed to parse investment score request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request parameters"})
		return
	}

	c.JSON(http.StatusOK, scoring.Calculate(req))
}
