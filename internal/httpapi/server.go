package httpapi

import (
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires the watch daemon's operational endpoints: metrics,
// liveness and readiness.
func NewRouter(checks ...ReadyzCheck) *mux.Router {
	r := mux.NewRouter()
	r.Use(Logging)
	r.Handle("/metrics", promhttp.Handler())
	r.HandleFunc("/healthz", Healthz())
	r.HandleFunc("/readyz", Readyz(2*time.Second, checks...))
	return r
}
