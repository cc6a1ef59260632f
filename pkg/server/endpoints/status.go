package endpoints

import (
	"net/http"
	"os"

	"github.com/doodlesbykumbi/identity-intake/pkg/server"
	"github.com/doodlesbykumbi/identity-intake/pkg/server/store"
)

// StatusResponse represents the response from /
type StatusResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// HealthResponse represents the response from /health
type HealthResponse struct {
	Database string `json:"database"`
}

// RegisterStatusEndpoints registers the status and health endpoints
func RegisterStatusEndpoints(s *server.Server) {
	// GET / - Status (no auth required)
	s.Router.HandleFunc("/", handleStatus()).Methods("GET")

	// GET /health - Record store connectivity
	s.Router.HandleFunc("/health", handleHealth(s.HealthStore)).Methods("GET")
}

func handleStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		version := os.Getenv("INTAKE_VERSION_DISPLAY")
		if version == "" {
			version = "0.1.0"
		}
		respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok", Version: version})
	}
}

func handleHealth(healthStore store.HealthStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := healthStore.CheckConnectivity(r.Context()); err != nil {
			respondWithJSON(w, http.StatusServiceUnavailable, HealthResponse{Database: "unavailable"})
			return
		}
		respondWithJSON(w, http.StatusOK, HealthResponse{Database: "ok"})
	}
}
