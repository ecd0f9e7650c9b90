package core

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ScanService runs the two-stage inference pipeline: fruit classification
// followed by a fruit-specific organic classification.
type ScanService struct {
	models       ModelProvider
	cache        ResultCache
	logger       *zap.Logger
	cacheEnabled bool
	cacheTTL     time.Duration
}

// NewScanService creates a new scan service.
func NewScanService(
	models ModelProvider,
	cache ResultCache,
	logger *zap.Logger,
	cacheEnabled bool,
	cacheTTL time.Duration,
) *ScanService {
	return &ScanService{
		models:       models,
		cache:        cache,
		logger:       logger,
		cacheEnabled: cacheEnabled,
		cacheTTL:     cacheTTL,
	}
}

// Predict classifies a single spectral sample. Validation happens before
// any model is touched; values outside [0,1] are logged but accepted.
func (s *ScanService) Predict(ctx context.Context, sample []float64) (*Prediction, error) {
	if err := s.validate(sample); err != nil {
		return nil, err
	}

	key := cacheKey(sample)
	if s.cacheEnabled {
		if result, ok := s.cache.Get(key); ok {
			s.logger.Debug("Scan result served from cache", zap.String("fruit", result.Fruit))
			return result, nil
		}
	}

	bundle, err := s.models.Load()
	if err != nil {
		return nil, err
	}

	// Stage 1: fruit classification.
	fruitProbs, err := bundle.Fruit.Probabilities(sample)
	if err != nil {
		return nil, NewInferenceError("fruit classification failed", err)
	}
	class, fruitConfidence := argmax(fruitProbs)
	fruit, ok := bundle.Encoder.Decode(class)
	if !ok {
		return nil, NewInferenceError(fmt.Sprintf("label encoder has no class %d", class), nil)
	}

	// Stage 2: organic classification with the fruit-specific model.
	organicModel, ok := bundle.Organic[fruit]
	if !ok {
		return nil, NewInferenceError(fmt.Sprintf("no organic model found for fruit: %s", fruit), nil)
	}
	organicProbs, err := organicModel.Probabilities(sample)
	if err != nil {
		return nil, NewInferenceError("organic classification failed", err)
	}
	organicClass, organicConfidence := argmax(organicProbs)

	status := StatusNonOrganic
	if organicClass == 1 {
		status = StatusOrganic
	}

	result := &Prediction{
		Fruit:             fruit,
		OrganicStatus:     status,
		FruitConfidence:   round4(fruitConfidence),
		OrganicConfidence: round4(organicConfidence),
	}

	if s.cacheEnabled {
		s.cache.Set(key, result, s.cacheTTL)
	}

	return result, nil
}

// PredictRaw validates an untyped (JSON-shaped) vector and classifies it.
func (s *ScanService) PredictRaw(ctx context.Context, raw []any) (*Prediction, error) {
	sample, err := ParseSample(raw)
	if err != nil {
		return nil, err
	}
	return s.Predict(ctx, sample)
}

// PredictBatch classifies each sample independently. A failing sample
// yields an error item carrying its index; the batch never aborts, so the
// output length always equals the input length.
func (s *ScanService) PredictBatch(ctx context.Context, samples []any) []BatchItem {
	items := make([]BatchItem, 0, len(samples))
	for i, rawSample := range samples {
		raw, ok := rawSample.([]any)
		if !ok {
			items = append(items, BatchItem{
				SampleIndex: i,
				Error:       fmt.Sprintf("sample must be an array of %d numeric values", NumChannels),
			})
			continue
		}
		result, err := s.PredictRaw(ctx, raw)
		if err != nil {
			items = append(items, BatchItem{SampleIndex: i, Error: err.Error()})
			continue
		}
		items = append(items, BatchItem{SampleIndex: i, Prediction: result})
	}
	return items
}

func (s *ScanService) validate(sample []float64) error {
	if len(sample) != NumChannels {
		return NewValidationError(-1, "spectral_values must contain exactly %d values, got %d", NumChannels, len(sample))
	}
	if err := checkFinite(sample); err != nil {
		return err
	}
	if out := outOfRangeIndices(sample); len(out) > 0 {
		s.logger.Warn("Spectral values outside typical range [0,1], results may be unreliable",
			zap.Ints("indices", out))
	}
	return nil
}

func argmax(probs []float64) (int, float64) {
	best := 0
	for i, p := range probs {
		if p > probs[best] {
			best = i
		}
	}
	if len(probs) == 0 {
		return -1, 0
	}
	return best, probs[best]
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// cacheKey renders the sample as a stable string key.
func cacheKey(sample []float64) string {
	parts := make([]string, len(sample))
	for i, v := range sample {
		parts[i] = fmt.Sprintf("%.6f", v)
	}
	return strings.Join(parts, ",")
}
