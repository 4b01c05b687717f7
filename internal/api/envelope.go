// Package api implements the dashboard's JSON REST surface.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Envelope is the uniform response wrapper used by every endpoint.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// respond writes a success envelope with the given status code.
func respond(w http.ResponseWriter, status int, data any) {
	writeEnvelope(w, status, Envelope{Success: true, Data: data})
}

// respondMessage writes a success envelope carrying a human-readable message
// and no data (delete confirmations).
func respondMessage(w http.ResponseWriter, status int, message string) {
	writeEnvelope(w, status, Envelope{Success: true, Message: message})
}

// respondError writes a failure envelope with the given status code.
func respondError(w http.ResponseWriter, status int, msg string) {
	writeEnvelope(w, status, Envelope{Success: false, Error: msg})
}

// respondStorageFault logs a storage-layer write failure and maps it to a
// generic 500. The underlying path and cause stay in the server log only.
func respondStorageFault(w http.ResponseWriter, err error) {
	slog.Error("storage fault", "error", err)
	respondError(w, http.StatusInternalServerError, "storage failure")
}

func writeEnvelope(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		slog.Warn("encode response", "error", err)
	}
}
