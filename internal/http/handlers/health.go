package handlers

import (
	"net/http"
)

// Health answers liveness checks on /v1/healthz. It never calls the provider.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}
