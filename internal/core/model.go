package core

// NumChannels is the number of spectral reflectance channels (F1-F8) in a sample.
const NumChannels = 8

// Organic status literals returned by the predictor.
const (
	StatusOrganic    = "Organic"
	StatusNonOrganic = "Non-Organic"
)

// ChannelNames returns the spectral channel names in feature order.
func ChannelNames() []string {
	return []string{"F1", "F2", "F3", "F4", "F5", "F6", "F7", "F8"}
}

// Prediction is the result of a single two-stage scan.
type Prediction struct {
	Fruit             string  `json:"fruit"`
	OrganicStatus     string  `json:"organic_status"`
	FruitConfidence   float64 `json:"fruit_confidence"`
	OrganicConfidence float64 `json:"organic_confidence"`
}

// BatchItem is one entry of a batch prediction. Either the embedded
// Prediction or Error is set, never both.
type BatchItem struct {
	SampleIndex int `json:"sample_index"`
	*Prediction
	Error string `json:"error,omitempty"`
}

// LabelEncoder is a bijection between fruit names and the integer class
// indices used by the fruit classifier. Classes are sorted at fit time so
// the mapping is stable across runs.
type LabelEncoder struct {
	Classes []string
}

// Encode returns the class index for a fruit name, or -1 if unknown.
func (e *LabelEncoder) Encode(label string) int {
	for i, c := range e.Classes {
		if c == label {
			return i
		}
	}
	return -1
}

// Decode returns the fruit name for a class index.
func (e *LabelEncoder) Decode(class int) (string, bool) {
	if class < 0 || class >= len(e.Classes) {
		return "", false
	}
	return e.Classes[class], true
}

// ModelBundle holds the three model artifacts loaded for serving. It is
// immutable after load and safe for concurrent use.
type ModelBundle struct {
	Fruit   Classifier
	Encoder *LabelEncoder
	Organic map[string]Classifier
}
