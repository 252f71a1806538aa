package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propertyiq/server/config"
	"propertyiq/server/internal/models"
	"propertyiq/server/internal/prediction"
)

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cfg := &config.Config{}
	cfg.Comps.DefaultLimit = 10

	handler := NewHandler(cfg, prediction.NewRegistry(nil, nil), logger)

	router := gin.New()
	SetupRoutes(router, handler)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status       string   `json:"status"`
		ModelsLoaded []string `json:"models_loaded"`
		Timestamp    string   `json:"timestamp"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "healthy", resp.Status)
	assert.NotNil(t, resp.ModelsLoaded, "must serialize as an array, not null")
	assert.Empty(t, resp.ModelsLoaded)
	assert.NotEmpty(t, resp.Timestamp)
}

func TestPredictEndpoint(t *testing.T) {
	router := testRouter(t)

	w := postJSON(t, router, "/predict", gin.H{
		"property_id":   "prop-1",
		"sqft":          1500,
		"bedrooms":      3,
		"bathrooms":     2,
		"property_type": "CONDO",
		"zip_code":      "94110",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.PredictionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "prop-1", resp.PropertyID)
	assert.Equal(t, 450000, resp.PredictedPrice, "condo fallback is 300/sqft")
	assert.Equal(t, resp.PredictedPrice-45000, resp.ConfidenceInterval.Low)
	assert.Equal(t, resp.PredictedPrice+45000, resp.ConfidenceInterval.High)
	assert.GreaterOrEqual(t, resp.AppreciationForecast, 3.0)
	assert.Less(t, resp.AppreciationForecast, 8.0)
	assert.Equal(t, prediction.StaticFeatureImportance(), resp.FeatureImportance)
	assert.Equal(t, prediction.FallbackModelVersion, resp.ModelVersion)
}

func TestPredictEndpointValidation(t *testing.T) {
	router := testRouter(t)

	tests := []struct {
		name string
		body gin.H
	}{
		{"Missing property id", gin.H{"sqft": 1500, "property_type": "CONDO", "zip_code": "94110"}},
		{"Zero sqft", gin.H{"property_id": "p", "sqft": 0, "property_type": "CONDO", "zip_code": "94110"}},
		{"Missing zip code", gin.H{"property_id": "p", "sqft": 1500, "property_type": "CONDO"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, router, "/predict", tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "Invalid request parameters")
		})
	}
}

func TestCompsEndpoint(t *testing.T) {
	router := testRouter(t)

	w := postJSON(t, router, "/comps", gin.H{
		"property_id":   "prop-2",
		"sqft":          1800,
		"bedrooms":      4,
		"bathrooms":     2.5,
		"property_type": "SINGLE_FAMILY",
		"latitude":      37.7749,
		"longitude":     -122.4194,
		"limit":         4,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.CompsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "prop-2", resp.PropertyID)
	assert.Len(t, resp.Comparables, 4)
	assert.Equal(t, "Distance-weighted similarity scoring", resp.Methodology)
	for i := 1; i < len(resp.Comparables); i++ {
		assert.GreaterOrEqual(t, resp.Comparables[i-1].Similarity, resp.Comparables[i].Similarity)
	}
}

func TestCompsEndpointDefaultLimit(t *testing.T) {
	router := testRouter(t)

	w := postJSON(t, router, "/comps", gin.H{
		"property_id":   "prop-3",
		"sqft":          1200,
		"property_type": "CONDO",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.CompsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Comparables, 10)
}

func TestCompsEndpointValidation(t *testing.T) {
	router := testRouter(t)

	w := postJSON(t, router, "/comps", gin.H{"property_id": "prop-4"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInvestmentScoreEndpoint(t *testing.T) {
	router := testRouter(t)

	w := postJSON(t, router, "/investment-score", gin.H{
		"property_id": "prop-5",
		"list_price":  300000,
		"sqft":        1500,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.InvestmentScoreResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, 60, resp.OverallScore)
	assert.Equal(t, 50, resp.AppreciationScore)
	assert.Equal(t, 90, resp.CashFlowScore)
	assert.Equal(t, 52, resp.RiskAdjustedScore)
	assert.Equal(t, "Medium-Low", resp.RiskLevel)
	assert.Equal(t, "Consider - Strong cash flow for income investors.", resp.Recommendation)
	assert.Equal(t, []string{"Excellent cash flow opportunity"}, resp.KeyFactors)
}

func TestInvestmentScoreEndpointWithMarketMetrics(t *testing.T) {
	router := testRouter(t)

	w := postJSON(t, router, "/investment-score", gin.H{
		"property_id":     "prop-6",
		"list_price":      300000,
		"sqft":            1500,
		"predicted_price": 330000,
		"market_metrics": gin.H{
			"appreciation_1y":    5.0,
			"days_on_market_avg": 20.0,
			"market_temperature": "HOT",
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.InvestmentScoreResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, 100, resp.AppreciationScore)
	assert.Equal(t, 65, resp.MarketMomentumScore)
	assert.Equal(t, 80, resp.LiquidityScore)
	assert.Equal(t, 30, resp.RiskScore)
	assert.Equal(t, "Low", resp.RiskLevel)
}

func TestInvestmentScoreEndpointValidation(t *testing.T) {
	router := testRouter(t)

	tests := []struct {
		name string
		body gin.H
	}{
		{"Missing list price", gin.H{"property_id": "p", "sqft": 1500}},
		{"Zero list price", gin.H{"property_id": "p", "list_price": 0, "sqft": 1500}},
		{"Missing sqft", gin.H{"property_id": "p", "list_price": 300000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, router, "/investment-score", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}
