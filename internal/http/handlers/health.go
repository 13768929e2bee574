package handlers

import (
	"context"
	"net/http"
	"time"
)

const timeFormat = time.RFC3339

// Health reports liveness and, when a pool is wired, storage reachability.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	if a.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := a.DB.Ping(ctx); err != nil {
			a.json(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
	}
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}
