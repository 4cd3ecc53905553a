package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// JSON writes v with the given status. Encoding failures are logged, not
// surfaced; the status line is already gone by then.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Error writes the standard error envelope. No stack traces or internal
// identifiers go out, only the message.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, errorResponse{Error: msg})
}

// ErrorDetails adds a diagnostics string to the envelope.
func ErrorDetails(w http.ResponseWriter, status int, msg, details string) {
	JSON(w, status, errorResponse{Error: msg, Details: details})
}
