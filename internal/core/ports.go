package core

import (
	"time"
)

// Classifier predicts a probability per class for a validated spectral
// sample. For the fruit model the indices follow the label encoder; for
// organic models index 0 is Non-Organic and index 1 is Organic.
type Classifier interface {
	Probabilities(sample []float64) ([]float64, error)
}

// ModelProvider loads and caches the persisted model artifacts.
type ModelProvider interface {
	// Load returns the model bundle, reading the artifacts from disk on
	// first use. Once a load has succeeded further calls are no-ops that
	// return the cached bundle.
	Load() (*ModelBundle, error)

	// Loaded reports whether the bundle is already in memory.
	Loaded() bool
}

// ResultCache caches scan results keyed by the input vector.
type ResultCache interface {
	Get(key string) (*Prediction, bool)
	Set(key string, result *Prediction, ttl time.Duration)
}
