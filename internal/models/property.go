package models

import "time"

// PropertyFeatures describes a property submitted for valuation.
type PropertyFeatures struct {
	PropertyID   string  `json:"property_id" binding:"required"`
	Sqft         int     `json:"sqft" binding:"required,gt=0"`
	Bedrooms     int     `json:"bedrooms" binding:"min=0"`
	Bathrooms    float64 `json:"bathrooms" binding:"min=0"`
	YearBuilt    *int    `json:"year_built"`
	LotSize      *int    `json:"lot_size"`
	PropertyType string  `json:"property_type" binding:"required"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	ZipCode      string  `json:"zip_code" binding:"required"`
}

// ConfidenceInterval is a symmetric band around a predicted price.
type ConfidenceInterval struct {
	Low  int `json:"low"`
	High int `json:"high"`
}

type PredictionResponse struct {
	PropertyID           string             `json:"property_id"`
	PredictedPrice       int                `json:"predicted_price"`
	ConfidenceInterval   ConfidenceInterval `json:"confidence_interval"`
	AppreciationForecast float64            `json:"appreciation_forecast"`
	FeatureImportance    map[string]float64 `json:"feature_importance"`
	ModelVersion         string             `json:"model_version"`
}

type CompsRequest struct {
	PropertyID   string  `json:"property_id" binding:"required"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Sqft         int     `json:"sqft" binding:"required,gt=0"`
	Bedrooms     int     `json:"bedrooms" binding:"min=0"`
	Bathrooms    float64 `json:"bathrooms" binding:"min=0"`
	PropertyType string  `json:"property_type" binding:"required"`
	Limit        int     `json:"limit"`
}

// ComparableSale is a synthetic comparable record. The generator perturbs the
// query attributes; none of these fields come from recorded sales.
type ComparableSale struct {
	Address    string    `json:"address"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	SoldPrice  int       `json:"sold_price"`
	SoldDate   time.Time `json:"sold_date"`
	Sqft       int       `json:"sqft"`
	Bedrooms   int       `json:"bedrooms"`
	Bathrooms  float64   `json:"bathrooms"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Distance   float64   `json:"distance"`
	Similarity float64   `json:"similarity"`
}

type CompsResponse struct {
	PropertyID  string           `json:"property_id"`
	Comparables []ComparableSale `json:"comparables"`
	Methodology string           `json:"methodology"`
}

// MarketMetrics carries optional local market conditions for scoring.
type MarketMetrics struct {
	Appreciation1Y    *float64 `json:"appreciation_1y"`
	DaysOnMarketAvg   *float64 `json:"days_on_market_avg"`
	MarketTemperature string   `json:"market_temperature"`
}

type InvestmentScoreRequest struct {
	PropertyID           string         `json:"property_id" binding:"required"`
	ListPrice            int            `json:"list_price" binding:"required,gt=0"`
	PredictedPrice       *int           `json:"predicted_price"`
	Sqft                 int            `json:"sqft" binding:"required,gt=0"`
	AppreciationForecast *float64       `json:"appreciation_forecast"`
	MarketMetrics        *MarketMetrics `json:"market_metrics"`
}

type InvestmentScoreResponse struct {
	OverallScore        int      `json:"overall_score"`
	AppreciationScore   int      `json:"appreciation_score"`
	CashFlowScore       int      `json:"cash_flow_score"`
	RiskAdjustedScore   int      `json:"risk_adjusted_score"`
	MarketMomentumScore int      `json:"market_momentum_score"`
	LiquidityScore      int      `json:"liquidity_score"`
	RiskScore           int      `json:"risk_score"`
	RiskLevel           string   `json:"risk_level"`
	Recommendation      string   `json:"recommendation"`
	KeyFactors          []string `json:"key_factors"`
}
