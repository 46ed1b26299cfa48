// Package handler provides HTTP request handlers for the development API
// server. Responses follow json-server conventions: bare JSON records and
// arrays, integer IDs, _page/_limit pagination and an X-Total-Count header.
package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/vyrodovalexey/restadmin/internal/model"
)

// Version is the application version.
const Version = "1.0.0"

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// HealthHandler serves GET /health.
type HealthHandler struct {
	responder
}

// NewHealthHandler creates a new HealthHandler instance.
func NewHealthHandler(logger *zap.Logger) *HealthHandler {
	return &HealthHandler{responder: responder{logger: logger}}
}

// ServeHTTP handles GET /health requests.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Version: Version,
	})
}

// responder writes JSON responses and logs encoding failures.
type responder struct {
	logger *zap.Logger
}

// writeJSON writes a JSON response with the given status code.
func (r responder) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(data); err != nil {
		r.logger.Error("failed to encode response", zap.Error(err))
	}
}

// writeError writes an error response with the given status code and message.
func (r responder) writeError(w http.ResponseWriter, status int, message string) {
	r.writeJSON(w, status, model.ErrorResponse{
		Code:    status,
		Message: message,
	})
}
