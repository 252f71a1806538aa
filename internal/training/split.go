package training

import (
	"math"
	"math/rand"
)

const (
	defaultTestSize = 0.2
	defaultSeed     = 42
)

// trainTestSplit shuffles the dataset with the given seed and carves off the
// trailing testSize fraction for evaluation.
func trainTestSplit(features [][]float64, targets []float64, testSize float64, seed int64) (trainX [][]float64, trainY []float64, testX [][]float64, testY []float64) {
	if testSize <= 0 || testSize >= 1 {
		testSize = defaultTestSize
	}

	rnd := rand.New(rand.NewSource(seed))
	indices := rnd.Perm(len(features))

	split := int(math.Round(float64(len(features)) * (1 - testSize)))
	for i, idx := range indices {
		if i < split {
			trainX = append(trainX, features[idx])
			trainY = append(trainY, targets[idx])
		} else {
			testX = append(testX, features[idx])
			testY = append(testY, targets[idx])
		}
	}
	return trainX, trainY, testX, testY
}
