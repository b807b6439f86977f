package handlers

import (
	"net/http"
)

// Health handles GET /health.
func Health(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
 writeJSON(w, http.StatusOK, map[string]string{
 "status": "ok",
 "version": version,
 })
	}
}
