package training

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Metrics is the regression evaluation summary reported after a fit.
type Metrics struct {
	MAE  float64 `json:"mae"`
	RMSE float64 `json:"rmse"`
	R2   float64 `json:"r2"`
	MAPE float64 `json:"mape"`
}

func evaluate(actual, predicted []float64) Metrics {
	return Metrics{
		MAE:  meanAbsoluteError(actual, predicted),
		RMSE: rootMeanSquaredError(actual, predicted),
		R2:   rSquared(actual, predicted),
		MAPE: meanAbsolutePercentageError(actual, predicted),
	}
}

func meanAbsoluteError(actual, predicted []float64) float64 {
	if len(actual) == 0 {
		return 0
	}
	sum := 0.0
	for i := range actual {
		sum += math.Abs(actual[i] - predicted[i])
	}
	return sum / float64(len(actual))
}

func rootMeanSquaredError(actual, predicted []float64) float64 {
	if len(actual) == 0 {
		return 0
	}
	sum := 0.0
	for i := range actual {
		d := actual[i] - predicted[i]
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(actual)))
}

func rSquared(actual, predicted []float64) float64 {
	if len(actual) == 0 {
		return 0
	}
	meanActual := stat.Mean(actual, nil)
	ssRes := 0.0
	ssTot := 0.0
	for i := range actual {
		ssRes += (actual[i] - predicted[i]) * (actual[i] - predicted[i])
		ssTot += (actual[i] - meanActual) * (actual[i] - meanActual)
	}
	if ssTot == 0 {
		return 0
	}
	return 1 - ssRes/ssTot
}

// meanAbsolutePercentageError skips zero actuals to avoid division blowups.
func meanAbsolutePercentageError(actual, predicted []float64) float64 {
	count := 0
	sum := 0.0
	for i := range actual {
		if actual[i] == 0 {
			continue
		}
		sum += math.Abs((actual[i] - predicted[i]) / actual[i])
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count) * 100
}
