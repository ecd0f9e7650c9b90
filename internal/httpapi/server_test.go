package httpapi_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pocketlab/organic-scanner/internal/adapters/cache"
	"github.com/pocketlab/organic-scanner/internal/config"
	"github.com/pocketlab/organic-scanner/internal/core"
	"github.com/pocketlab/organic-scanner/internal/dataset"
	"github.com/pocketlab/organic-scanner/internal/forest"
	"github.com/pocketlab/organic-scanner/internal/httpapi"
	"github.com/pocketlab/organic-scanner/internal/telemetry"
	"github.com/pocketlab/organic-scanner/internal/training"
)

// modelDir holds artifacts trained once for the whole package.
var modelDir string

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "organic-scanner-test-models-")
	if err != nil {
		panic(err)
	}
	modelDir = dir

	rows := dataset.Generate(60, 42)
	table := &training.Table{}
	for _, row := range rows {
		features := make([]float64, len(row.Values))
		copy(features, row.Values[:])
		table.Features = append(table.Features, features)
		table.Fruits = append(table.Fruits, row.Fruit)
		table.Organic = append(table.Organic, row.Organic == core.StatusOrganic)
	}

	result, err := training.Train(table, training.Options{
		Trees:        25,
		TestFraction: 0.2,
		Seed:         42,
	}, zap.NewNop())
	if err != nil {
		panic(err)
	}
	if err := forest.Save(modelDir, result.Fruit, result.Encoder, result.Organic, zap.NewNop()); err != nil {
		panic(err)
	}

	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

func newTestServer(t *testing.T, dir string) *httpapi.Server {
	t.Helper()

	v := config.NewEmptyViper()
	v.Set("models.dir", dir)
	cfg := config.NewFromViper(v)

	logger := zap.NewNop()
	metrics, err := telemetry.NewMetrics()
	require.NoError(t, err)

	store := forest.NewStore(dir, logger)
	resultCache := cache.NewMemoryCache(logger, time.Minute, time.Minute)
	svc := core.NewScanService(store, resultCache, logger, true, time.Minute)

	return httpapi.NewServer(cfg, logger, svc, store, metrics)
}

func doRequest(t *testing.T, server *httpapi.Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	server.Echo().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload
}

func TestScanClassifiesAppleSignature(t *testing.T) {
	server := newTestServer(t, modelDir)

	rec := doRequest(t, server, http.MethodPost, "/api/scan",
		`{"spectral_values":[0.45,0.52,0.58,0.62,0.55,0.48,0.42,0.38]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	payload := decode(t, rec)
	assert.Equal(t, true, payload["success"])

	data, ok := payload["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Apple", data["fruit"])
	assert.Contains(t, []any{core.StatusOrganic, core.StatusNonOrganic}, data["organic_status"])

	fruitConfidence, ok := data["fruit_confidence"].(float64)
	require.True(t, ok)
	assert.GreaterOrEqual(t, fruitConfidence, 0.0)
	assert.LessOrEqual(t, fruitConfidence, 1.0)

	organicConfidence, ok := data["organic_confidence"].(float64)
	require.True(t, ok)
	assert.GreaterOrEqual(t, organicConfidence, 0.0)
	assert.LessOrEqual(t, organicConfidence, 1.0)
}

func TestScanRejectsSevenValues(t *testing.T) {
	server := newTestServer(t, modelDir)

	rec := doRequest(t, server, http.MethodPost, "/api/scan",
		`{"spectral_values":[0.5,0.5,0.5,0.5,0.5,0.5,0.5]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	payload := decode(t, rec)
	assert.Equal(t, "Validation error", payload["error"])
	assert.Contains(t, payload["message"], "got 7")
}

func TestScanRejectsNonNumericValue(t *testing.T) {
	server := newTestServer(t, modelDir)

	rec := doRequest(t, server, http.MethodPost, "/api/scan",
		`{"spectral_values":[0.5,0.5,"invalid",0.5,0.5,0.5,0.5,0.5]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["message"], "index 2")
}

func TestScanRejectsMissingField(t *testing.T) {
	server := newTestServer(t, modelDir)

	rec := doRequest(t, server, http.MethodPost, "/api/scan", `{"values":[0.5]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing field", decode(t, rec)["error"])
}

func TestScanRejectsNonArrayField(t *testing.T) {
	server := newTestServer(t, modelDir)

	rec := doRequest(t, server, http.MethodPost, "/api/scan", `{"spectral_values":"0.5"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid data type", decode(t, rec)["error"])
}

func TestScanRejectsInvalidJSON(t *testing.T) {
	server := newTestServer(t, modelDir)

	rec := doRequest(t, server, http.MethodPost, "/api/scan", `{not json`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request", decode(t, rec)["error"])
}

func TestScanWithoutModels(t *testing.T) {
	server := newTestServer(t, t.TempDir())

	rec := doRequest(t, server, http.MethodPost, "/api/scan",
		`{"spectral_values":[0.45,0.52,0.58,0.62,0.55,0.48,0.42,0.38]}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	payload := decode(t, rec)
	assert.Equal(t, "Model not found", payload["error"])
	// Internal paths must not leak to clients.
	assert.NotContains(t, payload["message"], modelDir)
}

func TestScanBatchPartialSuccess(t *testing.T) {
	server := newTestServer(t, modelDir)

	rec := doRequest(t, server, http.MethodPost, "/api/scan/batch",
		`{"samples":[[0.45,0.52,0.58,0.62,0.55,0.48,0.42,0.38],[0.5,0.5,0.5],[0.72,0.78,0.82,0.85,0.80,0.75,0.68,0.62]]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	payload := decode(t, rec)
	assert.Equal(t, true, payload["success"])
	assert.Equal(t, float64(3), payload["count"])

	results, ok := payload["results"].([]any)
	require.True(t, ok)
	require.Len(t, results, 3)

	first := results[0].(map[string]any)
	assert.Equal(t, float64(0), first["sample_index"])
	assert.Equal(t, "Apple", first["fruit"])
	assert.NotContains(t, first, "error")

	second := results[1].(map[string]any)
	assert.Equal(t, float64(1), second["sample_index"])
	assert.Contains(t, second["error"], "got 3")
	assert.NotContains(t, second, "fruit")

	third := results[2].(map[string]any)
	assert.Equal(t, float64(2), third["sample_index"])
	assert.Equal(t, "Banana", third["fruit"])
}

func TestHealthWithModels(t *testing.T) {
	server := newTestServer(t, modelDir)

	rec := doRequest(t, server, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	payload := decode(t, rec)
	assert.Equal(t, "healthy", payload["status"])
	assert.Equal(t, true, payload["models_loaded"])
}

func TestHealthWithoutModels(t *testing.T) {
	server := newTestServer(t, t.TempDir())

	rec := doRequest(t, server, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	payload := decode(t, rec)
	assert.Equal(t, "unhealthy", payload["status"])
	assert.Equal(t, false, payload["models_loaded"])
	assert.NotEmpty(t, payload["error"])
}

func TestInfoListsSupportedFruits(t *testing.T) {
	server := newTestServer(t, modelDir)

	rec := doRequest(t, server, http.MethodGet, "/api/info", "")
	require.Equal(t, http.StatusOK, rec.Code)

	payload := decode(t, rec)
	assert.Equal(t, []any{"Apple", "Banana", "Tomato"}, payload["supported_fruits"])
	assert.Equal(t, []any{"F1", "F2", "F3", "F4", "F5", "F6", "F7", "F8"}, payload["spectral_channels"])
}

func TestRootEndpoint(t *testing.T) {
	server := newTestServer(t, modelDir)

	rec := doRequest(t, server, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)

	payload := decode(t, rec)
	assert.Equal(t, "online", payload["status"])
	assert.NotEmpty(t, payload["version"])
	assert.Contains(t, payload, "endpoints")
}

func TestUnknownRouteEnvelope(t *testing.T) {
	server := newTestServer(t, modelDir)

	rec := doRequest(t, server, http.MethodGet, "/api/nope", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	payload := decode(t, rec)
	assert.Equal(t, "Not found", payload["error"])
	assert.Equal(t, float64(http.StatusNotFound), payload["status"])
}

func TestWrongMethodEnvelope(t *testing.T) {
	server := newTestServer(t, modelDir)

	rec := doRequest(t, server, http.MethodGet, "/api/scan", "")
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "Method not allowed", decode(t, rec)["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	server := newTestServer(t, modelDir)

	// One scan so the request counter has a child to export.
	doRequest(t, server, http.MethodPost, "/api/scan",
		`{"spectral_values":[0.45,0.52,0.58,0.62,0.55,0.48,0.42,0.38]}`)

	rec := doRequest(t, server, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "organic_scanner_scan_requests_total")
	assert.Contains(t, rec.Body.String(), "organic_scanner_inference_duration_seconds")
}
