// Package forest adapts the random forest ensemble learner to the core
// classifier port and owns the persisted model artifacts.
package forest

import (
	"fmt"

	randomforest "github.com/malaschitz/randomForest"
	"github.com/pocketlab/organic-scanner/internal/core"
)

// Classifier wraps a trained random forest behind the core.Classifier port.
type Classifier struct {
	forest *randomforest.Forest
}

// Fit trains a forest on the given feature matrix and class labels.
func Fit(features [][]float64, classes []int, trees int) *Classifier {
	f := &randomforest.Forest{}
	f.Data = randomforest.ForestData{X: features, Class: classes}
	f.Train(trees)
	return &Classifier{forest: f}
}

// Probabilities returns the per-class vote fractions for a sample.
func (c *Classifier) Probabilities(sample []float64) ([]float64, error) {
	if c == nil || c.forest == nil {
		return nil, fmt.Errorf("classifier is not trained")
	}
	if len(sample) != core.NumChannels {
		return nil, fmt.Errorf("classifier expects %d features, got %d", core.NumChannels, len(sample))
	}
	return c.forest.Vote(sample), nil
}
