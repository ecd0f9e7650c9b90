package training

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/pocketlab/organic-scanner/internal/config"
	"github.com/pocketlab/organic-scanner/internal/core"
	"github.com/pocketlab/organic-scanner/internal/forest"
	"go.uber.org/zap"
)

// Options control the fitting process.
type Options struct {
	Trees        int
	TestFraction float64
	Seed         int64
}

// Result holds the trained artifacts and their held-out accuracies.
type Result struct {
	Fruit           *forest.Classifier
	Encoder         *core.LabelEncoder
	Organic         map[string]*forest.Classifier
	FruitAccuracy   float64
	OrganicAccuracy map[string]float64
}

// Run loads the dataset, trains all models and persists the artifacts,
// using paths and options from configuration.
func Run(cfg *config.Config, logger *zap.Logger) error {
	table, err := Load(cfg.GetDataset().Path)
	if err != nil {
		return err
	}
	logger.Info("Dataset loaded",
		zap.String("path", cfg.GetDataset().Path),
		zap.Int("samples", len(table.Features)))

	trainingCfg := cfg.GetTraining()
	result, err := Train(table, Options{
		Trees:        trainingCfg.Trees,
		TestFraction: trainingCfg.TestFraction,
		Seed:         trainingCfg.Seed,
	}, logger)
	if err != nil {
		return err
	}

	return forest.Save(cfg.GetModels().Dir, result.Fruit, result.Encoder, result.Organic, logger)
}

// Train fits the multiclass fruit model and one binary organic model per
// fruit, evaluating each on a stratified held-out split.
func Train(table *Table, opts Options, logger *zap.Logger) (*Result, error) {
	rng := rand.New(rand.NewSource(opts.Seed))

	encoder := fitEncoder(table.Fruits)
	fruitModel, fruitAccuracy, err := trainFruitModel(table, encoder, opts, rng, logger)
	if err != nil {
		return nil, err
	}

	organic, organicAccuracy, err := trainOrganicModels(table, encoder, opts, rng, logger)
	if err != nil {
		return nil, err
	}

	return &Result{
		Fruit:           fruitModel,
		Encoder:         encoder,
		Organic:         organic,
		FruitAccuracy:   fruitAccuracy,
		OrganicAccuracy: organicAccuracy,
	}, nil
}

func fitEncoder(labels []string) *core.LabelEncoder {
	seen := make(map[string]bool)
	var classes []string
	for _, label := range labels {
		if !seen[label] {
			seen[label] = true
			classes = append(classes, label)
		}
	}
	sort.Strings(classes)
	return &core.LabelEncoder{Classes: classes}
}

func trainFruitModel(table *Table, encoder *core.LabelEncoder, opts Options, rng *rand.Rand, logger *zap.Logger) (*forest.Classifier, float64, error) {
	labels := make([]int, len(table.Fruits))
	for i, fruit := range table.Fruits {
		class := encoder.Encode(fruit)
		if class < 0 {
			return nil, 0, fmt.Errorf("unencodable fruit label: %s", fruit)
		}
		labels[i] = class
	}

	trainIdx, testIdx := stratifiedSplit(rng, labels, opts.TestFraction)
	model := forest.Fit(subset(table.Features, trainIdx), subsetInts(labels, trainIdx), opts.Trees)

	yTrue, yPred, err := evaluate(model, table.Features, labels, testIdx)
	if err != nil {
		return nil, 0, fmt.Errorf("fruit model evaluation failed: %w", err)
	}

	acc := accuracy(yTrue, yPred)
	logger.Info("Fruit model trained",
		zap.Float64("accuracy", acc),
		zap.Int("train_samples", len(trainIdx)),
		zap.Int("test_samples", len(testIdx)))
	logReport(logger, classificationReport(yTrue, yPred, len(encoder.Classes)), encoder.Classes)

	return model, acc, nil
}

func trainOrganicModels(table *Table, encoder *core.LabelEncoder, opts Options, rng *rand.Rand, logger *zap.Logger) (map[string]*forest.Classifier, map[string]float64, error) {
	models := make(map[string]*forest.Classifier, len(encoder.Classes))
	accuracies := make(map[string]float64, len(encoder.Classes))

	for _, fruit := range encoder.Classes {
		var features [][]float64
		var labels []int
		for i, f := range table.Fruits {
			if f != fruit {
				continue
			}
			features = append(features, table.Features[i])
			if table.Organic[i] {
				labels = append(labels, 1)
			} else {
				labels = append(labels, 0)
			}
		}
		if len(features) == 0 {
			return nil, nil, fmt.Errorf("no samples for fruit %s", fruit)
		}

		trainIdx, testIdx := stratifiedSplit(rng, labels, opts.TestFraction)
		model := forest.Fit(subset(features, trainIdx), subsetInts(labels, trainIdx), opts.Trees)

		yTrue, yPred, err := evaluate(model, features, labels, testIdx)
		if err != nil {
			return nil, nil, fmt.Errorf("organic model evaluation failed for %s: %w", fruit, err)
		}

		acc := accuracy(yTrue, yPred)
		logger.Info("Organic model trained",
			zap.String("fruit", fruit),
			zap.Float64("accuracy", acc),
			zap.Int("train_samples", len(trainIdx)),
			zap.Int("test_samples", len(testIdx)))
		logReport(logger, classificationReport(yTrue, yPred, 2), []string{core.StatusNonOrganic, core.StatusOrganic})

		models[fruit] = model
		accuracies[fruit] = acc
	}

	return models, accuracies, nil
}

func evaluate(model *forest.Classifier, features [][]float64, labels []int, testIdx []int) (yTrue, yPred []int, err error) {
	for _, i := range testIdx {
		probs, err := model.Probabilities(features[i])
		if err != nil {
			return nil, nil, err
		}
		best := 0
		for c, p := range probs {
			if p > probs[best] {
				best = c
			}
		}
		yTrue = append(yTrue, labels[i])
		yPred = append(yPred, best)
	}
	return yTrue, yPred, nil
}

func logReport(logger *zap.Logger, reports []ClassReport, names []string) {
	for c, r := range reports {
		logger.Info("Class report",
			zap.String("class", names[c]),
			zap.Float64("precision", r.Precision),
			zap.Float64("recall", r.Recall),
			zap.Float64("f1", r.F1),
			zap.Int("support", r.Support))
	}
}

func subset(rows [][]float64, idx []int) [][]float64 {
	out := make([][]float64, len(idx))
	for i, j := range idx {
		out[i] = rows[j]
	}
	return out
}

func subsetInts(values []int, idx []int) []int {
	out := make([]int, len(idx))
	for i, j := range idx {
		out[i] = values[j]
	}
	return out
}
