package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/doodlesbykumbi/identity-intake/pkg/audit"
	"github.com/doodlesbykumbi/identity-intake/pkg/config"
	"github.com/doodlesbykumbi/identity-intake/pkg/intake"
	"github.com/doodlesbykumbi/identity-intake/pkg/logging"
	"github.com/doodlesbykumbi/identity-intake/pkg/metrics"
	"github.com/doodlesbykumbi/identity-intake/pkg/notify"
	"github.com/doodlesbykumbi/identity-intake/pkg/server"
	"github.com/doodlesbykumbi/identity-intake/pkg/server/endpoints"
)

const shutdownTimeout = 10 * time.Second

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the intake server",
	Long: `Run the intake server.

Configuration is read from intake.yml in INTAKE_CONFIG_PATH and from the
environment. The person_data table is created on startup when missing.

Mail credentials (EMAIL_USER, EMAIL_PASS, TO_EMAIL) are optional. Without
them records are stored and no email is sent.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
			os.Exit(1)
		}

		if cmd.Flags().Changed("port") {
			cfg.Port, _ = cmd.Flags().GetString("port")
		}
		if cmd.Flags().Changed("bind-address") {
			cfg.BindAddress, _ = cmd.Flags().GetString("bind-address")
		}

		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
			os.Exit(1)
		}

		level, err := logging.ParseLevel(cfg.LogLevel)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Unable to build logger: %v\n", err)
			os.Exit(1)
		}
		logger := logging.NewWithLevel(level, cfg.LogFormat, zapcore.Lock(os.Stdout))
		defer func() { _ = logger.Sync() }()
		defer zap.ReplaceGlobals(logger)()

		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		auditLog := audit.NewLogger()
		auditLog.SetEnabled(cfg.AuditEnabled)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go watchLogLevel(ctx, cfg.ConfigFilePath(), level, logger)

		s, err := buildServer(ctx, cfg, logger, reg, auditLog)
		if err != nil {
			logger.Fatal("unable to start", zap.Error(err))
		}

		if err := serve(ctx, s, logger); err != nil {
			logger.Fatal("server stopped", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringP("port", "p", "8080", "server listen port (overrides PORT)")
	serverCmd.Flags().StringP("bind-address", "b", "0.0.0.0", "server bind address (overrides BIND_ADDRESS)")
}

// buildServer wires the record store, notifier and intake service into an
// HTTP server with every endpoint registered.
func buildServer(
	ctx context.Context,
	cfg *config.IntakeConfig,
	logger *zap.Logger,
	reg *prometheus.Registry,
	auditLog *audit.Logger,
) (*server.Server, error) {
	records, err := newRecordBackend(cfg)
	if err != nil {
		return nil, err
	}
	if err := records.EnsureSchema(ctx); err != nil {
		return nil, err
	}

	mail := cfg.Mail()
	if !mail.Configured() {
		logger.Warn("email credentials are not set, notifications will be skipped",
			zap.Strings("missing", mail.Missing()))
	}
	notifier := notify.New(mail, notify.WithLogger(logger))

	svc := intake.NewService(records, notifier,
		intake.WithLogger(logger),
		intake.WithMetrics(metrics.New(reg)),
		intake.WithAudit(auditLog),
	)

	s := server.NewServer(cfg, svc, records, reg, logger)
	endpoints.RegisterAll(s)
	return s, nil
}

// serve runs s until ctx is cancelled, then drains in-flight requests.
func serve(ctx context.Context, s *server.Server, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("running server", zap.String("address", s.Addr()))
		errCh <- s.Start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

// watchLogLevel applies log_level changes from the config file while the
// server runs. Other attributes need a restart.
func watchLogLevel(ctx context.Context, path string, level zap.AtomicLevel, logger *zap.Logger) {
	err := config.Watch(ctx, path, func(c *config.IntakeConfig) {
		lvl, err := zapcore.ParseLevel(c.LogLevel)
		if err != nil {
			logger.Warn("ignoring invalid log level", zap.String("log_level", c.LogLevel))
			return
		}
		if lvl != level.Level() {
			level.SetLevel(lvl)
			logger.Info("log level changed", zap.Stringer("level", lvl))
		}
	}, func(err error) {
		logger.Warn("config reload failed", zap.Error(err))
	})
	if err != nil {
		logger.Debug("config file is not watched", zap.Error(err))
	}
}
