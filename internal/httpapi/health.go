package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// ReadyzCheck probes one dependency the watcher cannot run without,
// typically the history store.
type ReadyzCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// Healthz reports process liveness only; it stays green while dependencies
// are down.
func Healthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}
}

// Readyz runs every check under one shared timeout and fails closed on the
// first broken dependency, naming it in the response.
func Readyz(timeout time.Duration, checks ...ReadyzCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		for _, c := range checks {
			if err := c.Check(ctx); err != nil {
				slog.Warn("readiness check failed", "check", c.Name, "err", err)
				http.Error(w, "not ready: "+c.Name, http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	}
}
