package forest_test

import (
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/pocketlab/organic-scanner/internal/core"
	"github.com/pocketlab/organic-scanner/internal/forest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fitToyClassifier trains on two well-separated clusters: class 0 near 0.2
// and class 1 near 0.8 on every channel.
func fitToyClassifier(t *testing.T) *forest.Classifier {
	t.Helper()
	rng := rand.New(rand.NewSource(1))

	var features [][]float64
	var classes []int
	for i := 0; i < 80; i++ {
		center := 0.2
		class := 0
		if i%2 == 1 {
			center = 0.8
			class = 1
		}
		sample := make([]float64, core.NumChannels)
		for c := range sample {
			sample[c] = center + rng.NormFloat64()*0.03
		}
		features = append(features, sample)
		classes = append(classes, class)
	}

	return forest.Fit(features, classes, 20)
}

func lowSample() []float64 {
	return []float64{0.2, 0.2, 0.2, 0.2, 0.2, 0.2, 0.2, 0.2}
}

func TestClassifierProbabilities(t *testing.T) {
	model := fitToyClassifier(t)

	probs, err := model.Probabilities(lowSample())
	require.NoError(t, err)
	require.Len(t, probs, 2)
	assert.Greater(t, probs[0], probs[1], "low sample should vote class 0")

	sum := probs[0] + probs[1]
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestClassifierRejectsWrongFeatureCount(t *testing.T) {
	model := fitToyClassifier(t)
	_, err := model.Probabilities([]float64{0.2, 0.2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "8 features")
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	model := fitToyClassifier(t)
	encoder := &core.LabelEncoder{Classes: []string{"Low", "High"}}
	organic := map[string]*forest.Classifier{
		"Low":  model,
		"High": model,
	}

	require.NoError(t, forest.Save(dir, model, encoder, organic, zap.NewNop()))

	store := forest.NewStore(dir, zap.NewNop())
	assert.False(t, store.Loaded())

	bundle, err := store.Load()
	require.NoError(t, err)
	assert.True(t, store.Loaded())

	assert.Equal(t, encoder.Classes, bundle.Encoder.Classes)
	require.Len(t, bundle.Organic, 2)

	probs, err := bundle.Fruit.Probabilities(lowSample())
	require.NoError(t, err)
	require.Len(t, probs, 2)
	assert.Greater(t, probs[0], probs[1], "loaded model must predict like the original")

	// A second load is a no-op returning the cached bundle.
	again, err := store.Load()
	require.NoError(t, err)
	assert.Same(t, bundle, again)
}

func TestLoadMissingArtifacts(t *testing.T) {
	store := forest.NewStore(filepath.Join(t.TempDir(), "empty"), zap.NewNop())

	_, err := store.Load()
	require.Error(t, err)
	assert.Equal(t, core.KindModelUnavailable, core.KindOf(err))
	assert.Contains(t, err.Error(), "model artifact not found")
	assert.False(t, store.Loaded())
}
