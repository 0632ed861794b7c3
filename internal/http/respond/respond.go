package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Envelope is the standard API response wrapper used across handlers.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Details any    `json:"details,omitempty"`
}

// JSON writes a success response using the common envelope.
func JSON(w http.ResponseWriter, status int, data any) {
	write(w, status, Envelope{Success: true, Data: data})
}

// Error writes an error response with the shared envelope structure.
func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, Envelope{Success: false, Error: message})
}

// ErrorDetails writes an error response carrying per-item detail, as used by
// validation failures and bulk partial results.
func ErrorDetails(w http.ResponseWriter, status int, message string, details any) {
	write(w, status, Envelope{Success: false, Error: message, Details: details})
}

// Partial writes a multi-status response: the operation neither fully
// succeeded nor fully failed.
func Partial(w http.ResponseWriter, data any) {
	write(w, http.StatusMultiStatus, Envelope{Success: false, Data: data})
}

func write(w http.ResponseWriter, status int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("respond: encode payload failed", "error", err)
	}
}
