package endpoints

import (
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/doodlesbykumbi/identity-intake/pkg/server"
)

// RegisterMetricsEndpoint exposes the Prometheus registry at /metrics
func RegisterMetricsEndpoint(s *server.Server) {
	s.Router.Handle("/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{})).Methods("GET")
}
