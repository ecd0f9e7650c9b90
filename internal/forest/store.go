package forest

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	randomforest "github.com/malaschitz/randomForest"
	"github.com/pocketlab/organic-scanner/internal/core"
	"go.uber.org/zap"
)

// Artifact file names. The on-disk format (gob) is an implementation
// internal; only the three logical artifacts and their relationships are
// contractual.
const (
	fruitModelFile    = "fruit_model.gob"
	labelEncoderFile  = "label_encoder.gob"
	organicModelsFile = "organic_models.gob"
)

// Store loads the persisted model artifacts on first use and caches them
// for the lifetime of the process. It implements core.ModelProvider.
type Store struct {
	dir    string
	logger *zap.Logger

	mu     sync.Mutex
	bundle *core.ModelBundle
}

// NewStore creates a store rooted at dir.
func NewStore(dir string, logger *zap.Logger) *Store {
	return &Store{dir: dir, logger: logger}
}

// Load returns the cached bundle, reading the artifacts from disk on first
// use. A failed load is retried on the next call, so deploying artifacts
// does not require a restart.
func (s *Store) Load() (*core.ModelBundle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.bundle != nil {
		return s.bundle, nil
	}

	for _, name := range []string{fruitModelFile, labelEncoderFile, organicModelsFile} {
		path := filepath.Join(s.dir, name)
		if _, err := os.Stat(path); err != nil {
			return nil, core.NewModelUnavailableError(
				fmt.Sprintf("model artifact not found at %s", path), err)
		}
	}

	var fruitForest randomforest.Forest
	if err := readGob(filepath.Join(s.dir, fruitModelFile), &fruitForest); err != nil {
		return nil, core.NewInferenceError("failed to load fruit model", err)
	}

	var encoder core.LabelEncoder
	if err := readGob(filepath.Join(s.dir, labelEncoderFile), &encoder); err != nil {
		return nil, core.NewInferenceError("failed to load label encoder", err)
	}

	organicForests := make(map[string]*randomforest.Forest)
	if err := readGob(filepath.Join(s.dir, organicModelsFile), &organicForests); err != nil {
		return nil, core.NewInferenceError("failed to load organic models", err)
	}

	organic := make(map[string]core.Classifier, len(organicForests))
	for fruit, f := range organicForests {
		organic[fruit] = &Classifier{forest: f}
	}

	s.bundle = &core.ModelBundle{
		Fruit:   &Classifier{forest: &fruitForest},
		Encoder: &encoder,
		Organic: organic,
	}

	fruits := make([]string, 0, len(organic))
	for fruit := range organic {
		fruits = append(fruits, fruit)
	}
	s.logger.Info("Models loaded",
		zap.Strings("classes", encoder.Classes),
		zap.Strings("organic_models", fruits))

	return s.bundle, nil
}

// Loaded reports whether the bundle is already in memory.
func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bundle != nil
}

// Save persists the three artifacts to dir, creating it if necessary.
func Save(dir string, fruit *Classifier, encoder *core.LabelEncoder, organic map[string]*Classifier, logger *zap.Logger) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create model directory: %w", err)
	}

	if err := writeGob(filepath.Join(dir, fruitModelFile), fruit.forest); err != nil {
		return fmt.Errorf("failed to save fruit model: %w", err)
	}
	if err := writeGob(filepath.Join(dir, labelEncoderFile), encoder); err != nil {
		return fmt.Errorf("failed to save label encoder: %w", err)
	}

	organicForests := make(map[string]*randomforest.Forest, len(organic))
	for name, c := range organic {
		organicForests[name] = c.forest
	}
	if err := writeGob(filepath.Join(dir, organicModelsFile), organicForests); err != nil {
		return fmt.Errorf("failed to save organic models: %w", err)
	}

	logger.Info("Model artifacts saved", zap.String("dir", dir))
	return nil
}

func writeGob(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gob.NewEncoder(f).Encode(v)
}

func readGob(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gob.NewDecoder(f).Decode(v)
}
