package dataset

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/pocketlab/organic-scanner/internal/core"
	"go.uber.org/zap"
)

// noiseStd is the standard deviation of the gaussian noise added to every
// channel of every synthetic sample.
const noiseStd = 0.025

// Base spectral signatures per fruit (8 channels, F1-F8). These represent
// normalized reflectance values from optical spectroscopy.
var fruitSignatures = map[string][core.NumChannels]float64{
	"Apple":  {0.45, 0.52, 0.58, 0.62, 0.55, 0.48, 0.42, 0.38},
	"Banana": {0.72, 0.78, 0.82, 0.85, 0.80, 0.75, 0.68, 0.62},
	"Tomato": {0.68, 0.42, 0.35, 0.38, 0.45, 0.52, 0.48, 0.44},
}

// Organic shift patterns per fruit. Organic produce shows slightly different
// reflectance due to soil nutrients, which gives the organic models a
// learnable signal.
var organicShifts = map[string][core.NumChannels]float64{
	"Apple":  {0.02, 0.03, 0.025, 0.02, 0.015, 0.02, 0.025, 0.03},
	"Banana": {0.015, 0.02, 0.025, 0.03, 0.025, 0.02, 0.015, 0.01},
	"Tomato": {0.025, 0.02, 0.015, 0.02, 0.025, 0.03, 0.028, 0.022},
}

// Row is one labeled synthetic spectral sample.
type Row struct {
	SampleID string
	Values   [core.NumChannels]float64
	Fruit    string
	Organic  string
}

// Fruits returns the supported fruit names in sorted order.
func Fruits() []string {
	fruits := make([]string, 0, len(fruitSignatures))
	for fruit := range fruitSignatures {
		fruits = append(fruits, fruit)
	}
	sort.Strings(fruits)
	return fruits
}

// Signature returns the base signature for a fruit, used by tests and the
// info endpoint example payload.
func Signature(fruit string) ([core.NumChannels]float64, bool) {
	sig, ok := fruitSignatures[fruit]
	return sig, ok
}

// Generate produces samplesPerCategory rows for every fruit and organic
// status combination, shuffled. Deterministic for a given seed.
func Generate(samplesPerCategory int, seed int64) []Row {
	rng := rand.New(rand.NewSource(seed))

	rows := make([]Row, 0, 2*samplesPerCategory*len(fruitSignatures))
	for _, fruit := range Fruits() {
		base := fruitSignatures[fruit]
		shift := organicShifts[fruit]

		for i := 0; i < samplesPerCategory; i++ {
			rows = append(rows, synthesize(rng, fruit, base, [core.NumChannels]float64{}, core.StatusNonOrganic, "NonOrg", i))
		}
		for i := 0; i < samplesPerCategory; i++ {
			rows = append(rows, synthesize(rng, fruit, base, shift, core.StatusOrganic, "Org", i))
		}
	}

	rng.Shuffle(len(rows), func(i, j int) {
		rows[i], rows[j] = rows[j], rows[i]
	})

	return rows
}

func synthesize(rng *rand.Rand, fruit string, base, shift [core.NumChannels]float64, status, tag string, id int) Row {
	row := Row{
		SampleID: fmt.Sprintf("%s_%s_%03d", fruit, tag, id),
		Fruit:    fruit,
		Organic:  status,
	}
	for c := 0; c < core.NumChannels; c++ {
		row.Values[c] = clip(base[c] + shift[c] + rng.NormFloat64()*noiseStd)
	}
	return row
}

func clip(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Header returns the CSV column names in file order.
func Header() []string {
	header := []string{"Sample_ID"}
	header = append(header, core.ChannelNames()...)
	return append(header, "Fruit", "Organic")
}

// WriteCSV writes the rows to path, creating parent directories as needed.
// Channel values are rounded to 6 decimals.
func WriteCSV(rows []Row, path string, logger *zap.Logger) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create dataset directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create dataset file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(Header()); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	record := make([]string, len(Header()))
	for _, row := range rows {
		record[0] = row.SampleID
		for c, v := range row.Values {
			record[1+c] = strconv.FormatFloat(v, 'f', 6, 64)
		}
		record[1+core.NumChannels] = row.Fruit
		record[2+core.NumChannels] = row.Organic
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	logger.Info("Dataset written",
		zap.String("path", path),
		zap.Int("samples", len(rows)))
	return nil
}
