// Package server provides the HTTP server for the intake API.
//
// It uses gorilla/mux for routing. Requests pass through gorilla/handlers
// for the access log, panic recovery and CORS, then through the request id
// middleware.
//
// # Server Setup
//
//	srv := server.NewServer(cfg, intakeService, healthStore, registry, logger)
//	endpoints.RegisterAll(srv)
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Endpoints
//
// API endpoints are registered via the endpoints subpackage:
//
//   - POST /process_text - extract, store and relay identity text
//   - GET / - service status
//   - GET /health - record store connectivity
//   - GET /metrics - Prometheus metrics
package server
