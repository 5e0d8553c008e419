package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type envelope map[string]any

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func fail(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{
		"success": false,
		"message": message,
	})
}
