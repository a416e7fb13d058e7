package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/sponsorbridge/sponsorbridge/internal/validate"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("Failed to encode response", zap.Error(err))
	}
}

// writeError renders the flat {"error": ...} shape used by every failure
// response in the API.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeFieldErrors renders per-field validation failures. All failing fields
// are reported together rather than stopping at the first.
func writeFieldErrors(w http.ResponseWriter, fe validate.FieldErrors) {
	writeJSON(w, http.StatusBadRequest, map[string]validate.FieldErrors{"fieldErrors": fe})
}

// statusWriter captures the status code for request metrics.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
