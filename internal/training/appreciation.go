package training

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"propertyiq/server/internal/gbdt"
)

// AppreciationPredictor forecasts 12-month appreciation from market
// indicators: a single boosted regressor behind a standard scaler.
type AppreciationPredictor struct {
	Version      string          `json:"version"`
	FeatureNames []string        `json:"feature_names"`
	Scaler       *StandardScaler `json:"scaler"`
	Model        *gbdt.Ensemble  `json:"model"`

	fitted bool
}

func NewAppreciationPredictor(featureNames []string) *AppreciationPredictor {
	return &AppreciationPredictor{
		Version:      ArtifactVersion,
		FeatureNames: append([]string(nil), featureNames...),
		Scaler:       &StandardScaler{},
		Model: gbdt.NewEnsemble(gbdt.Params{
			Rounds:       120,
			MaxDepth:     4,
			LearningRate: 0.03,
		}),
	}
}

// Fit trains on market indicator rows against historical appreciation rates.
func (a *AppreciationPredictor) Fit(features [][]float64, appreciation []float64, opts FitOptions) (Metrics, error) {
	if len(features) < 10 {
		return Metrics{}, fmt.Errorf("need at least 10 rows to fit, got %d", len(features))
	}
	if len(features) != len(appreciation) {
		return Metrics{}, errors.New("features and appreciation size mismatch")
	}
	opts = opts.withDefaults()

	trainX, trainY, testX, testY := trainTestSplit(features, appreciation, opts.TestSize, opts.Seed)

	if err := a.Scaler.Fit(trainX); err != nil {
		return Metrics{}, err
	}
	scaledTrain, err := a.Scaler.Transform(trainX)
	if err != nil {
		return Metrics{}, err
	}
	scaledTest, err := a.Scaler.Transform(testX)
	if err != nil {
		return Metrics{}, err
	}

	if err := a.Model.Fit(scaledTrain, trainY); err != nil {
		return Metrics{}, fmt.Errorf("failed to fit appreciation regressor: %w", err)
	}
	a.fitted = true

	predictions, err := a.Model.PredictBatch(scaledTest)
	if err != nil {
		return Metrics{}, err
	}
	return evaluate(testY, predictions), nil
}

// Predict returns the forecast appreciation percentage for a raw indicator
// vector in the FeatureNames order.
func (a *AppreciationPredictor) Predict(raw []float64) (float64, error) {
	if !a.fitted {
		return 0, ErrNotFitted
	}
	if len(raw) != len(a.FeatureNames) {
		return 0, fmt.Errorf("expected %d features, got %d", len(a.FeatureNames), len(raw))
	}

	scaled, err := a.Scaler.TransformRow(raw)
	if err != nil {
		return 0, err
	}
	return a.Model.Predict(scaled)
}

func (a *AppreciationPredictor) Save(path string) error {
	if !a.fitted {
		return ErrNotFitted
	}
	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to marshal appreciation artifact: %w", err)
	}
	return os.WriteFile(path, payload, 0o600)
}

func LoadAppreciationPredictor(path string) (*AppreciationPredictor, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var a AppreciationPredictor
	if err := json.Unmarshal(payload, &a); err != nil {
		return nil, fmt.Errorf("failed to parse appreciation artifact: %w", err)
	}
	if a.Scaler == nil || a.Model == nil || len(a.FeatureNames) == 0 {
		return nil, errors.New("appreciation artifact is incomplete")
	}
	a.Model.MarkFitted()
	a.fitted = true
	return &a, nil
}
