package prediction

import (
	"io"
	"math/rand"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propertyiq/server/internal/models"
	"propertyiq/server/internal/training"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func fallbackEstimator(seed int64) *Estimator {
	return NewEstimator(NewRegistry(nil, nil), testLogger(), rand.New(rand.NewSource(seed)))
}

func testFeatures() models.PropertyFeatures {
	return models.PropertyFeatures{
		PropertyID:   "prop-1",
		Sqft:         1500,
		Bedrooms:     3,
		Bathrooms:    2,
		PropertyType: "SINGLE_FAMILY",
		ZipCode:      "94110",
		Latitude:     37.7749,
		Longitude:    -122.4194,
	}
}

func TestPredictFallbackPrices(t *testing.T) {
	tests := []struct {
		propertyType string
		expected     int
	}{
		{"SINGLE_FAMILY", 375000},
		{"CONDO", 450000},
		{"TOWNHOUSE", 412500},
		{"MULTI_FAMILY", 300000},
		{"FARM", 375000},
	}

	e := fallbackEstimator(42)
	for _, tt := range tests {
		t.Run(tt.propertyType, func(t *testing.T) {
			features := testFeatures()
			features.PropertyType = tt.propertyType

			resp := e.Predict(features)
			assert.Equal(t, tt.expected, resp.PredictedPrice)
			assert.Equal(t, FallbackModelVersion, resp.ModelVersion)
		})
	}
}

func TestPredictConfidenceInterval(t *testing.T) {
	e := fallbackEstimator(42)
	resp := e.Predict(testFeatures())

	// Fallback band is ±10% of the predicted price.
	margin := int(float64(resp.PredictedPrice) * 0.10)
	assert.Equal(t, resp.PredictedPrice-margin, resp.ConfidenceInterval.Low)
	assert.Equal(t, resp.PredictedPrice+margin, resp.ConfidenceInterval.High)
}

func TestPredictAppreciationForecastRange(t *testing.T) {
	e := fallbackEstimator(7)
	for i := 0; i < 100; i++ {
		resp := e.Predict(testFeatures())
		assert.GreaterOrEqual(t, resp.AppreciationForecast, 3.0)
		assert.Less(t, resp.AppreciationForecast, 8.0)
	}
}

func TestPredictFeatureImportanceIsStatic(t *testing.T) {
	e := fallbackEstimator(42)
	resp := e.Predict(testFeatures())

	assert.Equal(t, StaticFeatureImportance(), resp.FeatureImportance)

	total := 0.0
	for _, v := range resp.FeatureImportance {
		total += v
	}
	assert.InDelta(t, 1.0, total, 1e-9)
}

func TestFeatureVector(t *testing.T) {
	e := fallbackEstimator(42)

	t.Run("Defaults applied", func(t *testing.T) {
		vector := e.FeatureVector(testFeatures())
		require.Len(t, vector, 8)
		assert.Equal(t, 1500.0, vector[0])
		assert.Equal(t, 3000.0, vector[4], "missing lot size defaults to 2x sqft")
		assert.Equal(t, 1.0, vector[5])
		age := vector[3]
		assert.Greater(t, age, 30.0, "missing year built defaults to 1990")
	})

	t.Run("Explicit values win", func(t *testing.T) {
		features := testFeatures()
		year := 2020
		lot := 9000
		features.YearBuilt = &year
		features.LotSize = &lot
		features.PropertyType = "CONDO"

		vector := e.FeatureVector(features)
		assert.Equal(t, 9000.0, vector[4])
		assert.Equal(t, 2.0, vector[5])
		assert.Less(t, vector[3], 10.0)
	})
}

func TestPredictUsesLoadedModel(t *testing.T) {
	rnd := rand.New(rand.NewSource(9))
	rows := make([]training.PropertyRow, 60)
	for i := range rows {
		sqft := 900 + rnd.Intn(2500)
		rows[i] = training.PropertyRow{
			Sqft:         sqft,
			Bedrooms:     2 + rnd.Intn(3),
			Bathrooms:    1 + float64(rnd.Intn(3))*0.5,
			PropertyType: "SINGLE_FAMILY",
			Latitude:     37 + rnd.Float64(),
			Longitude:    -122 + rnd.Float64(),
			Price:        sqft*300 + rnd.Intn(20000),
		}
	}

	model := training.NewPricePredictor()
	_, err := model.Fit(rows, training.FitOptions{ReferenceYear: 2026})
	require.NoError(t, err)

	e := NewEstimator(NewRegistry(model, nil), testLogger(), rand.New(rand.NewSource(1)))
	resp := e.Predict(testFeatures())

	assert.Equal(t, model.Version, resp.ModelVersion)

	want, _, _, err := model.Predict(e.FeatureVector(testFeatures()))
	require.NoError(t, err)
	assert.Equal(t, int(want), resp.PredictedPrice)
}

func TestRegistryLoadedModels(t *testing.T) {
	empty := NewRegistry(nil, nil)
	assert.NotNil(t, empty.LoadedModels())
	assert.Empty(t, empty.LoadedModels())
}

func TestLoadRegistryMissingArtifacts(t *testing.T) {
	registry := LoadRegistry("does/not/exist.json", "also/missing.json", testLogger())
	assert.Nil(t, registry.PricePredictor())
	assert.Nil(t, registry.AppreciationPredictor())
	assert.Empty(t, registry.LoadedModels())
}

func TestBasePricePerSqft(t *testing.T) {
	assert.Equal(t, 250.0, BasePricePerSqft("SINGLE_FAMILY"))
	assert.Equal(t, 300.0, BasePricePerSqft("CONDO"))
	assert.Equal(t, 250.0, BasePricePerSqft("HOUSEBOAT"))
}
