package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/doodlesbykumbi/identity-intake/pkg/config"
	"github.com/doodlesbykumbi/identity-intake/pkg/intake"
	"github.com/doodlesbykumbi/identity-intake/pkg/server/middleware"
	"github.com/doodlesbykumbi/identity-intake/pkg/server/store"
)

const (
	readTimeout = 15 * time.Second

	// writeMargin is the time allowed for everything in a request except
	// the relay session.
	writeMargin = 15 * time.Second
)

// WriteTimeout returns the response deadline for cfg. The notification is
// sent before the response is written, so the deadline must outlast a full
// relay session or a stored record is answered with a dropped connection.
func WriteTimeout(cfg *config.IntakeConfig) time.Duration {
	return cfg.MailTimeout + writeMargin
}

// IntakeProcessor handles one identity-text submission
type IntakeProcessor interface {
	Process(ctx context.Context, sub intake.Submission) (*intake.Result, error)
}

type Server struct {
	Config      *config.IntakeConfig
	Intake      IntakeProcessor
	HealthStore store.HealthStore
	Gatherer    prometheus.Gatherer
	Logger      *zap.Logger
	Router      *mux.Router
	srv         *http.Server
}

func NewServer(
	cfg *config.IntakeConfig,
	processor IntakeProcessor,
	healthStore store.HealthStore,
	gatherer prometheus.Gatherer,
	logger *zap.Logger,
) *Server {
	return NewServerWithAccessLog(cfg, processor, healthStore, gatherer, logger, os.Stdout)
}

// NewServerWithAccessLog is NewServer with the access log written to w.
func NewServerWithAccessLog(
	cfg *config.IntakeConfig,
	processor IntakeProcessor,
	healthStore store.HealthStore,
	gatherer prometheus.Gatherer,
	logger *zap.Logger,
	accessLog io.Writer,
) *Server {
	router := mux.NewRouter()
	router.Use(middleware.RequestID)

	cors := handlers.CORS(
		handlers.AllowedOrigins(cfg.CORSAllowedOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", middleware.RequestIDHeader}),
		handlers.ExposedHeaders([]string{middleware.RequestIDHeader, "X-Notification-Status"}),
	)

	handler := handlers.LoggingHandler(accessLog,
		handlers.RecoveryHandler(handlers.PrintRecoveryStack(false))(cors(router)),
	)

	srv := &http.Server{
		Handler:      handler,
		Addr:         cfg.BindAddress + ":" + cfg.Port,
		WriteTimeout: WriteTimeout(cfg),
		ReadTimeout:  readTimeout,
	}

	return &Server{
		Config:      cfg,
		Intake:      processor,
		HealthStore: healthStore,
		Gatherer:    gatherer,
		Logger:      logger,
		Router:      router,
		srv:         srv,
	}
}

// Handler returns the fully wrapped handler, as served by Start.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return s.srv.Addr
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

// StartWithListener serves on an already bound listener.
func (s *Server) StartWithListener(l net.Listener) error {
	return s.srv.Serve(l)
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
