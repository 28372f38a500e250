package middleware

import (
	"encoding/json"
	"net/http"
)

// writeError answers with the same {"error":{"code","message"}} envelope the
// API handlers use, so clients see one error shape.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}
