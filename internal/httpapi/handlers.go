package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pocketlab/organic-scanner/internal/core"
	"github.com/pocketlab/organic-scanner/internal/dataset"
	"go.uber.org/zap"
)

func (s *Server) handleRoot(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"message": s.cfg.Name + " is running",
		"status":  "online",
		"version": s.cfg.Version,
		"endpoints": map[string]string{
			"root":   "/",
			"health": "/api/health",
			"info":   "/api/info",
			"scan":   "/api/scan (POST)",
		},
	})
}

// handleScan runs a single two-stage scan. The transport re-validates the
// body shape before delegating so malformed requests never reach the
// predictor with surprising types.
func (s *Server) handleScan(c echo.Context) error {
	var payload map[string]json.RawMessage
	if err := json.NewDecoder(c.Request().Body).Decode(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, errorEnvelope{
			Error:   "Invalid request",
			Message: "Request body must be valid JSON",
		})
	}

	rawField, ok := payload["spectral_values"]
	if !ok {
		return c.JSON(http.StatusBadRequest, errorEnvelope{
			Error:   "Missing field",
			Message: `Request must include "spectral_values" field`,
		})
	}

	var values []any
	if err := json.Unmarshal(rawField, &values); err != nil || values == nil {
		return c.JSON(http.StatusBadRequest, errorEnvelope{
			Error:   "Invalid data type",
			Message: "spectral_values must be a list or array",
		})
	}

	start := time.Now()
	result, err := s.svc.PredictRaw(c.Request().Context(), values)
	s.metrics.ObserveScan(outcomeLabel(err), time.Since(start))
	if err != nil {
		return s.predictionError(c, err)
	}

	s.logger.Debug("Scan completed",
		zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
		zap.String("fruit", result.Fruit),
		zap.String("organic_status", result.OrganicStatus))

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"data":    result,
	})
}

// handleScanBatch scans a list of samples, reporting partial success per
// element rather than aborting the batch.
func (s *Server) handleScanBatch(c echo.Context) error {
	var payload map[string]json.RawMessage
	if err := json.NewDecoder(c.Request().Body).Decode(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, errorEnvelope{
			Error:   "Invalid request",
			Message: "Request body must be valid JSON",
		})
	}

	rawField, ok := payload["samples"]
	if !ok {
		return c.JSON(http.StatusBadRequest, errorEnvelope{
			Error:   "Missing field",
			Message: `Request must include "samples" field`,
		})
	}

	var samples []any
	if err := json.Unmarshal(rawField, &samples); err != nil || samples == nil {
		return c.JSON(http.StatusBadRequest, errorEnvelope{
			Error:   "Invalid data type",
			Message: "samples must be a list of spectral value arrays",
		})
	}

	start := time.Now()
	items := s.svc.PredictBatch(c.Request().Context(), samples)
	s.metrics.ObserveScan("batch", time.Since(start))

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"count":   len(items),
		"results": items,
	})
}

// handleHealth attempts a model load and reports service health.
func (s *Server) handleHealth(c echo.Context) error {
	if _, err := s.models.Load(); err != nil {
		s.metrics.ModelsLoaded.Set(0)
		return c.JSON(http.StatusInternalServerError, map[string]any{
			"status":        "unhealthy",
			"service":       s.cfg.Name,
			"models_loaded": false,
			"error":         err.Error(),
		})
	}

	s.metrics.ModelsLoaded.Set(1)
	return c.JSON(http.StatusOK, map[string]any{
		"status":        "healthy",
		"service":       s.cfg.Name,
		"models_loaded": true,
	})
}

// handleInfo returns the static API documentation payload.
func (s *Server) handleInfo(c echo.Context) error {
	exampleSignature, _ := dataset.Signature("Apple")
	exampleValues := exampleSignature[:]

	return c.JSON(http.StatusOK, map[string]any{
		"api":     s.cfg.Name,
		"version": s.cfg.Version,
		"endpoints": map[string]any{
			"/api/scan": map[string]any{
				"method":      "POST",
				"description": "Analyze spectral data to classify fruit and organic status",
				"input_format": map[string]string{
					"spectral_values": "Array of 8 numeric values representing spectral channels F1-F8",
				},
				"example_request": map[string]any{
					"spectral_values": exampleValues,
				},
				"example_response": map[string]any{
					"success": true,
					"data": core.Prediction{
						Fruit:             "Apple",
						OrganicStatus:     core.StatusOrganic,
						FruitConfidence:   0.95,
						OrganicConfidence: 0.87,
					},
				},
			},
			"/api/scan/batch": map[string]any{
				"method":      "POST",
				"description": "Analyze multiple spectral samples in one request",
			},
			"/api/health": map[string]any{
				"method":      "GET",
				"description": "Check API health and model availability",
			},
			"/api/info": map[string]any{
				"method":      "GET",
				"description": "Get API information and documentation",
			},
		},
		"supported_fruits":  dataset.Fruits(),
		"spectral_channels": core.ChannelNames(),
	})
}
