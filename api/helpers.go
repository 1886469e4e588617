package api

import (
	"encoding/json"
	"net/http"
)

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response", "err", err)
	}
}

// writeMessage sends the `{"message": ...}` error body the clients surface
// directly in form UIs.
func writeMessage(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, map[string]string{"message": msg}, status)
}
