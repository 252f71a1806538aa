package scoring

import (
	"math"

	"propertyiq/server/internal/models"
)

// Component weights for the overall score.
const (
	weightAppreciation = 0.30
	weightCashFlow     = 0.25
	weightRiskAdjusted = 0.20
	weightMomentum     = 0.15
	weightLiquidity    = 0.10
)

// Monthly rent estimate per square foot used for the gross-yield calculation.
const rentPerSqftMonthly = 1.50

const defaultDaysOnMarket = 60

// Calculate derives the full investment score breakdown for a request.
func Calculate(req models.InvestmentScoreRequest) models.InvestmentScoreResponse {
	appreciation := AppreciationScore(req.ListPrice, req.PredictedPrice, req.AppreciationForecast)
	cashFlow := CashFlowScore(req.ListPrice, req.Sqft)
	momentum := MarketMomentumScore(req.MarketMetrics)
	liquidity := LiquidityScore(req.MarketMetrics)
	risk := RiskScore(req.MarketMetrics)

	riskAdjusted := int(float64(appreciation+cashFlow) / 2 * (1 - float64(risk)/200))

	overall := int(float64(appreciation)*weightAppreciation +
		float64(cashFlow)*weightCashFlow +
		float64(riskAdjusted)*weightRiskAdjusted +
		float64(momentum)*weightMomentum +
		float64(liquidity)*weightLiquidity)

	return models.InvestmentScoreResponse{
		OverallScore:        overall,
		AppreciationScore:   appreciation,
		CashFlowScore:       cashFlow,
		RiskAdjustedScore:   riskAdjusted,
		MarketMomentumScore: momentum,
		LiquidityScore:      liquidity,
		RiskScore:           risk,
		RiskLevel:           RiskLevel(risk),
		Recommendation:      Recommendation(overall, appreciation, cashFlow, risk),
		KeyFactors:          KeyFactors(appreciation, cashFlow, momentum, liquidity),
	}
}

// AppreciationScore starts at a neutral 50 and shifts with the model upside.
// When a forecast is also present the two signals are averaged; the blend is
// capped at 100 but deliberately not floored at 0, matching the historical
// formula. A forecast of exactly zero is treated as absent.
func AppreciationScore(listPrice int, predictedPrice *int, forecast *float64) int {
	score := 50.0

	if predictedPrice != nil && *predictedPrice != 0 && listPrice != 0 {
		upside := float64(*predictedPrice-listPrice) / float64(listPrice) * 100
		score = math.Min(100, math.Max(0, 50+upside*5))
	}

	if forecast != nil && *forecast != 0 {
		score = math.Min(100, float64(int((score+*forecast*5)/2)))
	}

	return int(score)
}

// CashFlowScore scores the estimated gross rental yield against the list price.
func CashFlowScore(listPrice, sqft int) int {
	estimatedRent := float64(sqft) * rentPerSqftMonthly
	annualRent := estimatedRent * 12
	grossYield := annualRent / float64(listPrice) * 100

	return minInt(100, int(grossYield*10))
}

func MarketMomentumScore(metrics *models.MarketMetrics) int {
	if metrics == nil {
		return 50
	}

	appreciation := 0.0
	if metrics.Appreciation1Y != nil {
		appreciation = *metrics.Appreciation1Y
	}
	return int(math.Min(100, math.Max(0, 50+appreciation*3)))
}

func LiquidityScore(metrics *models.MarketMetrics) int {
	if metrics == nil {
		return 50
	}

	daysOnMarket := float64(defaultDaysOnMarket)
	if metrics.DaysOnMarketAvg != nil {
		daysOnMarket = *metrics.DaysOnMarketAvg
	}
	return int(math.Max(0, 100-daysOnMarket))
}

// RiskScore maps the market-temperature label to a risk value; higher means
// riskier. Hot markets carry the least downside risk in this model.
func RiskScore(metrics *models.MarketMetrics) int {
	if metrics == nil {
		return 50
	}

	switch metrics.MarketTemperature {
	case "HOT":
		return 30
	case "WARM":
		return 40
	case "NEUTRAL":
		return 50
	case "COOL":
		return 60
	case "COLD":
		return 70
	default:
		return 50
	}
}

// RiskLevel converts a risk score to its label. Band boundaries are inclusive
// on the lower side.
func RiskLevel(risk int) string {
	switch {
	case risk <= 30:
		return "Low"
	case risk <= 50:
		return "Medium-Low"
	case risk <= 70:
		return "Medium"
	case risk <= 85:
		return "Medium-High"
	default:
		return "High"
	}
}

// Recommendation evaluates thresholds in strict priority order: the overall
// score wins before any sub-score is consulted.
func Recommendation(overall, appreciation, cashFlow, risk int) string {
	switch {
	case overall >= 80:
		return "Strong Buy - Excellent investment opportunity."
	case overall >= 65:
		return "Buy - Good investment potential."
	case overall >= 50:
		if appreciation > 70 {
			return "Consider - Strong appreciation potential for growth investors."
		}
		if cashFlow > 70 {
			return "Consider - Strong cash flow for income investors."
		}
		return "Hold - Average investment opportunity."
	case risk > 70:
		return "Avoid - High risk with below-average returns."
	default:
		return "Pass - Look for better alternatives."
	}
}

// KeyFactors appends a strong or weak descriptor per component; a score >= 70
// is strong, <= 30 is weak. Order is appreciation, cash flow, momentum,
// liquidity.
func KeyFactors(appreciation, cashFlow, momentum, liquidity int) []string {
	var factors []string

	if appreciation >= 70 {
		factors = append(factors, "Strong appreciation potential")
	} else if appreciation <= 30 {
		factors = append(factors, "Limited appreciation upside")
	}

	if cashFlow >= 70 {
		factors = append(factors, "Excellent cash flow opportunity")
	} else if cashFlow <= 30 {
		factors = append(factors, "Weak rental yield")
	}

	if momentum >= 70 {
		factors = append(factors, "Strong market momentum")
	} else if momentum <= 30 {
		factors = append(factors, "Declining market trend")
	}

	if liquidity >= 70 {
		factors = append(factors, "High market liquidity")
	} else if liquidity <= 30 {
		factors = append(factors, "Low market liquidity - longer hold times expected")
	}

	if len(factors) == 0 {
		return []string{"Average market conditions"}
	}
	return factors
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
