// Package training implements the one-shot offline batch job that fits the
// fruit and organic classifiers from the synthetic dataset and persists the
// model artifacts. It is never invoked by the serving path.
package training

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/pocketlab/organic-scanner/internal/core"
)

// Table is the loaded dataset: one feature row per sample plus both labels.
type Table struct {
	Features [][]float64
	Fruits   []string
	Organic  []bool
}

// Load reads the dataset CSV and verifies that the 8 feature columns plus
// the fruit and organic label columns are present.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset file not found: %s (run the generate-dataset command first): %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		index[col] = i
	}

	required := append(core.ChannelNames(), "Fruit", "Organic")
	var missing []string
	for _, col := range required {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("dataset is missing required columns: %v", missing)
	}

	table := &Table{}
	for line := 2; ; line++ {
		record, err := r.Read()
		if err != nil {
			break
		}

		features := make([]float64, core.NumChannels)
		for c, name := range core.ChannelNames() {
			v, err := strconv.ParseFloat(record[index[name]], 64)
			if err != nil {
				return nil, fmt.Errorf("invalid value for %s on line %d: %w", name, line, err)
			}
			features[c] = v
		}

		table.Features = append(table.Features, features)
		table.Fruits = append(table.Fruits, record[index["Fruit"]])
		table.Organic = append(table.Organic, record[index["Organic"]] == core.StatusOrganic)
	}

	if len(table.Features) == 0 {
		return nil, fmt.Errorf("dataset %s contains no samples", path)
	}

	return table, nil
}
