package prediction

import (
	"os"

	"github.com/sirupsen/logrus"

	"propertyiq/server/internal/training"
)

// Model names reported by the health endpoint.
const (
	PriceModelName        = "price_predictor"
	AppreciationModelName = "appreciation_model"
)

// Registry holds the models loaded at startup. It is populated once and
// read-only afterwards, so concurrent handler reads need no locking.
type Registry struct {
	price        *training.PricePredictor
	appreciation *training.AppreciationPredictor
}

// LoadRegistry loads whatever model artifacts exist at the given paths.
// Missing or unreadable artifacts are logged and skipped; the service then
// serves the corresponding formula fallback instead of refusing to start.
func LoadRegistry(pricePath, appreciationPath string, logger *logrus.Logger) *Registry {
	r := &Registry{}

	if price, err := training.LoadPricePredictor(pricePath); err != nil {
		if !os.IsNotExist(err) {
			logger.WithError(err).WithField("path", pricePath).Error("Failed to load price model")
		}
		logger.WithField("path", pricePath).Info("Price model unavailable, using formula fallback")
	} else {
		r.price = price
		logger.WithFields(logrus.Fields{
			"path":    pricePath,
			"version": price.Version,
		}).Info("Loaded price model")
	}

	if appreciation, err := training.LoadAppreciationPredictor(appreciationPath); err != nil {
		if !os.IsNotExist(err) {
			logger.WithError(err).WithField("path", appreciationPath).Error("Failed to load appreciation model")
		}
		logger.WithField("path", appreciationPath).Info("Appreciation model unavailable")
	} else {
		r.appreciation = appreciation
		logger.WithFields(logrus.Fields{
			"path":    appreciationPath,
			"version": appreciation.Version,
		}).Info("Loaded appreciation model")
	}

	return r
}

// NewRegistry wires pre-built predictors, used by tests.
func NewRegistry(price *training.PricePredictor, appreciation *training.AppreciationPredictor) *Registry {
	return &Registry{price: price, appreciation: appreciation}
}

func (r *Registry) PricePredictor() *training.PricePredictor {
	return r.price
}

func (r *Registry) AppreciationPredictor() *training.AppreciationPredictor {
	return r.appreciation
}

// LoadedModels lists the loaded model names for the health endpoint. The
// slice is never nil so the response serializes as an empty array.
func (r *Registry) LoadedModels() []string {
	models := []string{}
	if r.price != nil {
		models = append(models, PriceModelName)
	}
	if r.appreciation != nil {
		models = append(models, AppreciationModelName)
	}
	return models
}
