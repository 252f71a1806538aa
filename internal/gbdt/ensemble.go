package gbdt

import (
	"encoding/json"
	"errors"
	"os"
)

var ErrNotFitted = errors.New("ensemble is not fitted")

// Params are the boosting hyperparameters.
type Params struct {
	Rounds       int     `json:"rounds"`
	MaxDepth     int     `json:"max_depth"`
	LearningRate float64 `json:"learning_rate"`
	MinLeaf      int     `json:"min_leaf"`
}

// DefaultParams mirror the reference training configuration.
func DefaultParams() Params {
	return Params{
		Rounds:       200,
		MaxDepth:     6,
		LearningRate: 0.05,
		MinLeaf:      2,
	}
}

// Ensemble is a gradient-boosted stack of regression trees fit on squared
// error. Trees are grown on residuals and combined with shrinkage.
type Ensemble struct {
	Params       Params           `json:"params"`
	BasePredict  float64          `json:"base_predict"`
	Trees        []regressionTree `json:"trees"`
	FeatureCount int              `json:"feature_count"`

	fitted bool
}

func NewEnsemble(params Params) *Ensemble {
	defaults := DefaultParams()
	if params.Rounds <= 0 {
		params.Rounds = defaults.Rounds
	}
	if params.MaxDepth <= 0 {
		params.MaxDepth = defaults.MaxDepth
	}
	if params.LearningRate <= 0 {
		params.LearningRate = defaults.LearningRate
	}
	if params.MinLeaf <= 0 {
		params.MinLeaf = defaults.MinLeaf
	}
	return &Ensemble{Params: params}
}

// Fit trains the ensemble on the given feature matrix and targets.
func (e *Ensemble) Fit(features [][]float64, targets []float64) error {
	if len(features) == 0 || len(targets) == 0 {
		return errors.New("features or targets empty")
	}
	if len(features) != len(targets) {
		return errors.New("features and targets size mismatch")
	}

	e.FeatureCount = len(features[0])
	e.BasePredict = mean(targets)
	e.Trees = nil

	residuals := make([]float64, len(targets))
	for i, target := range targets {
		residuals[i] = target - e.BasePredict
	}

	for round := 0; round < e.Params.Rounds; round++ {
		tree := growTree(features, residuals, e.Params.MaxDepth, e.Params.MinLeaf)
		e.Trees = append(e.Trees, tree)

		improved := false
		for i, row := range features {
			step := e.Params.LearningRate * tree.predict(row)
			if step != 0 {
				improved = true
			}
			residuals[i] -= step
		}

		// A tree of zero steps means every split is exhausted.
		if !improved {
			break
		}
	}

	e.fitted = true
	return nil
}

// Predict returns the ensemble output for a single feature vector.
func (e *Ensemble) Predict(features []float64) (float64, error) {
	if !e.fitted {
		return 0, ErrNotFitted
	}
	if len(features) != e.FeatureCount {
		return 0, errors.New("feature vector length mismatch")
	}

	prediction := e.BasePredict
	for _, tree := range e.Trees {
		prediction += e.Params.LearningRate * tree.predict(features)
	}
	return prediction, nil
}

// PredictBatch predicts every row of the feature matrix.
func (e *Ensemble) PredictBatch(features [][]float64) ([]float64, error) {
	predictions := make([]float64, len(features))
	for i, row := range features {
		p, err := e.Predict(row)
		if err != nil {
			return nil, err
		}
		predictions[i] = p
	}
	return predictions, nil
}

// FeatureImportance sums split gains per feature across all trees and
// normalizes to 1.0. A zero slice means no splits were made.
func (e *Ensemble) FeatureImportance() []float64 {
	importance := make([]float64, e.FeatureCount)
	total := 0.0
	for _, tree := range e.Trees {
		for _, node := range tree.Nodes {
			if node.IsLeaf {
				continue
			}
			importance[node.FeatureIdx] += node.Gain
			total += node.Gain
		}
	}
	if total > 0 {
		for i := range importance {
			importance[i] /= total
		}
	}
	return importance
}

// Save writes the fitted ensemble to disk as JSON.
func (e *Ensemble) Save(path string) error {
	if !e.fitted {
		return ErrNotFitted
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o600)
}

// Load reads a previously saved ensemble from disk.
func (e *Ensemble) Load(path string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return e.UnmarshalBundle(payload)
}

// UnmarshalBundle restores an ensemble from its JSON form, used both for
// standalone files and for ensembles embedded in predictor artifacts.
func (e *Ensemble) UnmarshalBundle(payload []byte) error {
	if err := json.Unmarshal(payload, e); err != nil {
		return err
	}
	e.fitted = len(e.Trees) > 0
	return nil
}

// MarkFitted flags a deserialized ensemble as usable; callers restoring an
// artifact through encoding/json directly must invoke it before predicting.
func (e *Ensemble) MarkFitted() {
	e.fitted = len(e.Trees) > 0
}
