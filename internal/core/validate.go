package core

import (
	"encoding/json"
	"math"
)

// ParseSample validates an untyped (JSON-shaped) spectral vector and
// converts it to a feature slice. It enforces arity, that every element is
// numeric, and that every value is finite; the returned error carries the
// index of the first offending element.
func ParseSample(raw []any) ([]float64, error) {
	if len(raw) != NumChannels {
		return nil, NewValidationError(-1, "spectral_values must contain exactly %d values, got %d", NumChannels, len(raw))
	}

	sample := make([]float64, NumChannels)
	for i, v := range raw {
		var f float64
		switch n := v.(type) {
		case float64:
			f = n
		case int:
			f = float64(n)
		case json.Number:
			parsed, err := n.Float64()
			if err != nil {
				return nil, NewValidationError(i, "value at index %d is not a valid number", i)
			}
			f = parsed
		default:
			return nil, NewValidationError(i, "all spectral values must be numeric, value at index %d is %T", i, v)
		}
		sample[i] = f
	}

	return sample, checkFinite(sample)
}

// checkFinite rejects NaN and infinite values.
func checkFinite(sample []float64) error {
	for i, v := range sample {
		if math.IsNaN(v) {
			return NewValidationError(i, "spectral_values contains NaN at index %d", i)
		}
		if math.IsInf(v, 0) {
			return NewValidationError(i, "spectral_values contains an infinite value at index %d", i)
		}
	}
	return nil
}

// outOfRangeIndices returns the indices of values outside the conventional
// [0,1] reflectance range. Such values are tolerated, never rejected.
func outOfRangeIndices(sample []float64) []int {
	var out []int
	for i, v := range sample {
		if v < 0 || v > 1 {
			out = append(out, i)
		}
	}
	return out
}
