package endpoints

import (
	"github.com/doodlesbykumbi/identity-intake/pkg/server"
)

// RegisterAll registers all API endpoints on the server
func RegisterAll(srv *server.Server) {
	RegisterIntakeEndpoints(srv)
	RegisterStatusEndpoints(srv)
	RegisterMetricsEndpoint(srv)
}
