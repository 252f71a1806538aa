package prediction

import (
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"propertyiq/server/internal/models"
	"propertyiq/server/internal/training"
)

// FallbackModelVersion tags responses produced by the formula path.
const FallbackModelVersion = "1.0.0"

// Estimator answers price predictions from the loaded model when available
// and from the price-per-sqft formula otherwise.
type Estimator struct {
	registry *Registry
	logger   *logrus.Logger

	mu  sync.Mutex
	rnd *rand.Rand
	now func() time.Time
}

// NewEstimator builds an estimator. A nil rnd falls back to a time-seeded
// source; tests inject a seeded one for deterministic forecasts.
func NewEstimator(registry *Registry, logger *logrus.Logger, rnd *rand.Rand) *Estimator {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Estimator{
		registry: registry,
		logger:   logger,
		rnd:      rnd,
		now:      time.Now,
	}
}

// Predict produces the full prediction response for a property.
func (e *Estimator) Predict(features models.PropertyFeatures) models.PredictionResponse {
	price, version := e.estimatePrice(features)
	margin := int(float64(price) * 0.10)

	return models.PredictionResponse{
		PropertyID:     features.PropertyID,
		PredictedPrice: price,
		ConfidenceInterval: models.ConfidenceInterval{
			Low:  price - margin,
			High: price + margin,
		},
		AppreciationForecast: e.stubAppreciationForecast(),
		FeatureImportance:    StaticFeatureImportance(),
		ModelVersion:         version,
	}
}

// FeatureVector engineers the fixed 8-element vector fed to the price model:
// sqft, bedrooms, bathrooms, property age, lot size, encoded property type,
// latitude, longitude.
func (e *Estimator) FeatureVector(features models.PropertyFeatures) []float64 {
	yearBuilt := 1990
	if features.YearBuilt != nil {
		yearBuilt = *features.YearBuilt
	}
	propertyAge := e.now().Year() - yearBuilt

	lotSize := features.Sqft * 2
	if features.LotSize != nil {
		lotSize = *features.LotSize
	}

	return []float64{
		float64(features.Sqft),
		float64(features.Bedrooms),
		features.Bathrooms,
		float64(propertyAge),
		float64(lotSize),
		float64(training.EncodePropertyType(features.PropertyType)),
		features.Latitude,
		features.Longitude,
	}
}

func (e *Estimator) estimatePrice(features models.PropertyFeatures) (int, string) {
	if model := e.registry.PricePredictor(); model != nil {
		predicted, _, _, err := model.Predict(e.FeatureVector(features))
		if err == nil {
			return int(predicted), model.Version
		}
		e.logger.WithError(err).WithField("property_id", features.PropertyID).
			Error("Price model prediction failed, using formula fallback")
	}

	return int(float64(features.Sqft) * BasePricePerSqft(features.PropertyType)), FallbackModelVersion
}

// stubAppreciationForecast draws uniformly from [3.0, 8.0). This is a labeled
// placeholder, not a model output: the trained appreciation artifact is not
// wired into the predict endpoint.
func (e *Estimator) stubAppreciationForecast() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return 3.0 + e.rnd.Float64()*5.0
}
