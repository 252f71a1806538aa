package training

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"propertyiq/server/internal/gbdt"
)

var ErrNotFitted = errors.New("predictor must be fitted before use")

const ArtifactVersion = "1.0.0"

// FitOptions control the train/test split. Zero values take the defaults.
type FitOptions struct {
	TestSize float64
	Seed     int64
	// ReferenceYear anchors the property-age feature; zero means the current
	// year.
	ReferenceYear int
}

func (o FitOptions) withDefaults() FitOptions {
	if o.TestSize <= 0 || o.TestSize >= 1 {
		o.TestSize = defaultTestSize
	}
	if o.Seed == 0 {
		o.Seed = defaultSeed
	}
	if o.ReferenceYear == 0 {
		o.ReferenceYear = time.Now().Year()
	}
	return o
}

// PricePredictor is a two-regressor ensemble for sale prices. The regressors
// are trained with different depth and shrinkage so their disagreement carries
// signal for the confidence band.
type PricePredictor struct {
	Version      string          `json:"version"`
	FeatureNames []string        `json:"feature_names"`
	Scaler       *StandardScaler `json:"scaler"`
	Primary      *gbdt.Ensemble  `json:"primary"`
	Secondary    *gbdt.Ensemble  `json:"secondary"`

	fitted bool
}

func NewPricePredictor() *PricePredictor {
	return &PricePredictor{
		Version:      ArtifactVersion,
		FeatureNames: append([]string(nil), PriceFeatureNames...),
		Scaler:       &StandardScaler{},
		Primary: gbdt.NewEnsemble(gbdt.Params{
			Rounds:       200,
			MaxDepth:     6,
			LearningRate: 0.05,
		}),
		Secondary: gbdt.NewEnsemble(gbdt.Params{
			Rounds:       200,
			MaxDepth:     4,
			LearningRate: 0.08,
		}),
	}
}

// Fit engineers features from the dataset rows, fits the scaler and both
// regressors on an 80/20 split, and reports held-out ensemble metrics.
func (p *PricePredictor) Fit(rows []PropertyRow, opts FitOptions) (Metrics, error) {
	if len(rows) < 10 {
		return Metrics{}, fmt.Errorf("need at least 10 rows to fit, got %d", len(rows))
	}
	opts = opts.withDefaults()

	features := make([][]float64, len(rows))
	targets := make([]float64, len(rows))
	for i, row := range rows {
		features[i] = row.Vector(opts.ReferenceYear)
		targets[i] = float64(row.Price)
	}

	trainX, trainY, testX, testY := trainTestSplit(features, targets, opts.TestSize, opts.Seed)

	if err := p.Scaler.Fit(trainX); err != nil {
		return Metrics{}, err
	}
	scaledTrain, err := p.Scaler.Transform(trainX)
	if err != nil {
		return Metrics{}, err
	}
	scaledTest, err := p.Scaler.Transform(testX)
	if err != nil {
		return Metrics{}, err
	}

	if err := p.Primary.Fit(scaledTrain, trainY); err != nil {
		return Metrics{}, fmt.Errorf("failed to fit primary regressor: %w", err)
	}
	if err := p.Secondary.Fit(scaledTrain, trainY); err != nil {
		return Metrics{}, fmt.Errorf("failed to fit secondary regressor: %w", err)
	}
	p.fitted = true

	primaryPred, err := p.Primary.PredictBatch(scaledTest)
	if err != nil {
		return Metrics{}, err
	}
	secondaryPred, err := p.Secondary.PredictBatch(scaledTest)
	if err != nil {
		return Metrics{}, err
	}

	ensemblePred := make([]float64, len(testY))
	for i := range testY {
		ensemblePred[i] = (primaryPred[i] + secondaryPred[i]) / 2
	}

	return evaluate(testY, ensemblePred), nil
}

// Predict averages both regressors for a raw (unscaled) feature vector in the
// FeatureNames order and derives a confidence band from their disagreement,
// floored at 5% of the prediction and widened by 1.5 on each side.
func (p *PricePredictor) Predict(raw []float64) (prediction, low, high float64, err error) {
	if !p.fitted {
		return 0, 0, 0, ErrNotFitted
	}
	if len(raw) != len(p.FeatureNames) {
		return 0, 0, 0, fmt.Errorf("expected %d features, got %d", len(p.FeatureNames), len(raw))
	}

	scaled, err := p.Scaler.TransformRow(raw)
	if err != nil {
		return 0, 0, 0, err
	}

	primary, err := p.Primary.Predict(scaled)
	if err != nil {
		return 0, 0, 0, err
	}
	secondary, err := p.Secondary.Predict(scaled)
	if err != nil {
		return 0, 0, 0, err
	}

	prediction = (primary + secondary) / 2
	disagreement := math.Abs(primary - secondary)
	uncertainty := math.Max(disagreement, prediction*0.05)

	return prediction, prediction - uncertainty*1.5, prediction + uncertainty*1.5, nil
}

// FeatureImportance averages normalized split gains from both regressors.
func (p *PricePredictor) FeatureImportance() (map[string]float64, error) {
	if !p.fitted {
		return nil, ErrNotFitted
	}

	primary := p.Primary.FeatureImportance()
	secondary := p.Secondary.FeatureImportance()

	importance := make(map[string]float64, len(p.FeatureNames))
	for i, name := range p.FeatureNames {
		importance[name] = (primary[i] + secondary[i]) / 2
	}
	return importance, nil
}

// Save writes the full artifact bundle (scaler, both regressors, feature
// names) as a single JSON file.
func (p *PricePredictor) Save(path string) error {
	if !p.fitted {
		return ErrNotFitted
	}
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal price artifact: %w", err)
	}
	return os.WriteFile(path, payload, 0o600)
}

// LoadPricePredictor restores a saved artifact. The result is read-only and
// safe for concurrent Predict calls.
func LoadPricePredictor(path string) (*PricePredictor, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var p PricePredictor
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("failed to parse price artifact: %w", err)
	}
	if p.Scaler == nil || p.Primary == nil || p.Secondary == nil || len(p.FeatureNames) == 0 {
		return nil, errors.New("price artifact is incomplete")
	}
	p.Primary.MarkFitted()
	p.Secondary.MarkFitted()
	p.fitted = true
	return &p, nil
}
