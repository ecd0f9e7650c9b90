package httpapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pocketlab/organic-scanner/internal/core"
	"go.uber.org/zap"
)

// errorEnvelope is the JSON error shape returned by every failure path.
type errorEnvelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Status  int    `json:"status,omitempty"`
}

// kindStatus maps predictor error kinds to HTTP status codes.
var kindStatus = map[core.ErrorKind]int{
	core.KindValidation:       http.StatusBadRequest,
	core.KindModelUnavailable: http.StatusInternalServerError,
	core.KindInference:        http.StatusInternalServerError,
	core.KindInternal:         http.StatusInternalServerError,
}

// predictionError translates a predictor failure into a response. Validation
// messages are safe to echo back; everything else gets a sanitized message
// with the detail logged server-side only.
func (s *Server) predictionError(c echo.Context, err error) error {
	kind := core.KindOf(err)
	status := kindStatus[kind]

	switch kind {
	case core.KindValidation:
		return c.JSON(status, errorEnvelope{
			Error:   "Validation error",
			Message: err.Error(),
		})
	case core.KindModelUnavailable:
		s.logger.Error("Model artifacts unavailable", zap.Error(err))
		return c.JSON(status, errorEnvelope{
			Error:   "Model not found",
			Message: "Machine learning models are not available. Please train models first.",
		})
	default:
		s.logger.Error("Prediction failed", zap.Error(err))
		return c.JSON(status, errorEnvelope{
			Error:   "Prediction error",
			Message: "An error occurred during prediction",
		})
	}
}

// outcomeLabel renders an error kind as a metrics label value.
func outcomeLabel(err error) string {
	if err == nil {
		return "success"
	}
	switch core.KindOf(err) {
	case core.KindValidation:
		return "validation_error"
	case core.KindModelUnavailable:
		return "model_unavailable"
	case core.KindInference:
		return "inference_error"
	default:
		return "internal_error"
	}
}

// handleHTTPError normalizes routing errors and recovered panics to the
// JSON envelope. Handler-level failures never reach it; they are translated
// by predictionError.
func (s *Server) handleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
	}

	var env errorEnvelope
	switch status {
	case http.StatusNotFound:
		env = errorEnvelope{
			Error:   "Not found",
			Message: "The requested resource does not exist",
			Status:  http.StatusNotFound,
		}
	case http.StatusMethodNotAllowed:
		env = errorEnvelope{
			Error:   "Method not allowed",
			Message: "The HTTP method is not allowed for this endpoint",
			Status:  http.StatusMethodNotAllowed,
		}
	default:
		s.logger.Error("Unhandled error",
			zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			zap.Error(err))
		status = http.StatusInternalServerError
		env = errorEnvelope{
			Error:   "Internal server error",
			Message: "An unexpected error occurred",
			Status:  http.StatusInternalServerError,
		}
	}

	if jsonErr := c.JSON(status, env); jsonErr != nil {
		s.logger.Error("Failed to write error response", zap.Error(jsonErr))
	}
}
