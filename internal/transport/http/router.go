package http

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter assembles the full HTTP surface: the appointments API, liveness
// and the Prometheus endpoint, behind request-id, access-log and metrics
// middleware.
func NewRouter(h *AppointmentsHandler, log *slog.Logger, reg *prometheus.Registry) *mux.Router {
	r := mux.NewRouter()

	metrics := NewMetrics(reg)
	r.Use(WithRequestID)
	r.Use(WithAccessLog(log))
	r.Use(metrics.Middleware)

	h.Register(r)

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	return r
}
