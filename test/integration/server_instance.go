package integration

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/doodlesbykumbi/identity-intake/pkg/audit"
	"github.com/doodlesbykumbi/identity-intake/pkg/config"
	"github.com/doodlesbykumbi/identity-intake/pkg/intake"
	"github.com/doodlesbykumbi/identity-intake/pkg/metrics"
	"github.com/doodlesbykumbi/identity-intake/pkg/notify"
	"github.com/doodlesbykumbi/identity-intake/pkg/server"
	"github.com/doodlesbykumbi/identity-intake/pkg/server/endpoints"
	"github.com/doodlesbykumbi/identity-intake/pkg/server/store"
	gormstore "github.com/doodlesbykumbi/identity-intake/pkg/server/store/gorm"
	"github.com/doodlesbykumbi/identity-intake/pkg/server/store/sqlite"
)

// portCounter is used to allocate unique ports for binary mode servers
var portCounter int32 = 19000

// ServerConfig holds per-scenario settings for a test server
type ServerConfig struct {
	// Mail is empty when the scenario runs without credentials
	Mail config.Mail
}

// unreachableRelay returns mail settings whose relay refuses connections.
func unreachableRelay() config.Mail {
	return config.Mail{
		User:     "intake@example.com",
		Password: config.Secret("app-password"),
		To:       "records@example.com",
		Host:     "127.0.0.1",
		Port:     1,
		Timeout:  2 * time.Second,
	}
}

// ServerInstance represents a running intake server for a single scenario
type ServerInstance struct {
	Server        *server.Server
	ServerURL     string
	DatabasePath  string
	cancel        context.CancelFunc
	listener      net.Listener
	serverProcess *exec.Cmd
}

// StartServer starts a server for one scenario in the suite's mode.
func StartServer(tc *TestContext, cfg ServerConfig) (*ServerInstance, error) {
	dbPath, err := tc.NewDatabasePath()
	if err != nil {
		return nil, err
	}
	if tc.InlineMode {
		return startInlineServerInstance(tc, dbPath, cfg)
	}
	return startBinaryServerInstance(tc, dbPath, cfg)
}

func intakeConfig(tc *TestContext, dbPath string, cfg ServerConfig) *config.IntakeConfig {
	return &config.IntakeConfig{
		BindAddress:        "127.0.0.1",
		Port:               "0",
		DatabaseDriver:     tc.Driver,
		DatabasePath:       dbPath,
		DatabaseURL:        config.Secret(tc.DatabaseURL),
		MailUser:           cfg.Mail.User,
		MailPassword:       cfg.Mail.Password,
		MailTo:             cfg.Mail.To,
		MailHost:           cfg.Mail.Host,
		MailPort:           cfg.Mail.Port,
		MailTimeout:        cfg.Mail.Timeout,
		LogLevel:           "info",
		LogFormat:          "json",
		CORSAllowedOrigins: []string{"*"},
	}
}

// startInlineServerInstance starts an in-process server
func startInlineServerInstance(tc *TestContext, dbPath string, cfg ServerConfig) (*ServerInstance, error) {
	intakeCfg := intakeConfig(tc, dbPath, cfg)

	var records interface {
		store.RecordStore
		store.HealthStore
	}
	if tc.Driver == config.DriverPostgres {
		records = gormstore.NewPostgresRecordStore(tc.DatabaseURL, false)
	} else {
		records = sqlite.NewRecordStore(dbPath)
	}

	ctx, cancel := context.WithCancel(context.Background())
	if err := records.EnsureSchema(ctx); err != nil {
		cancel()
		return nil, err
	}

	auditLog := audit.NewLogger()
	auditLog.SetWriter(io.Discard)
	reg := prometheus.NewRegistry()

	svc := intake.NewService(records, notify.New(intakeCfg.Mail()),
		intake.WithMetrics(metrics.New(reg)),
		intake.WithAudit(auditLog),
	)

	s := server.NewServerWithAccessLog(intakeCfg, svc, records, reg, zap.NewNop(), io.Discard)
	endpoints.RegisterAll(s)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create listener: %w", err)
	}

	instance := &ServerInstance{
		Server:       s,
		ServerURL:    "http://" + listener.Addr().String(),
		DatabasePath: dbPath,
		cancel:       cancel,
		listener:     listener,
	}

	go func() {
		_ = s.StartWithListener(listener)
	}()

	if err := waitForServer(instance.ServerURL, 10*time.Second); err != nil {
		instance.Stop()
		return nil, fmt.Errorf("server failed to become ready: %w", err)
	}

	return instance, nil
}

// startBinaryServerInstance starts a server using the intakectl binary
func startBinaryServerInstance(tc *TestContext, dbPath string, cfg ServerConfig) (*ServerInstance, error) {
	port := strconv.Itoa(int(atomic.AddInt32(&portCounter, 1)))

	ctx, cancel := context.WithCancel(context.Background())

	cmd := exec.CommandContext(ctx, tc.BinaryPath, "server", "-b", "127.0.0.1", "-p", port)
	cmd.Env = append(os.Environ(),
		"INTAKE_CONFIG_PATH="+tc.tempDir,
		"INTAKE_DATABASE_DRIVER="+tc.Driver,
		"INTAKE_DATABASE_PATH="+dbPath,
		"DATABASE_URL="+tc.DatabaseURL,
		"EMAIL_USER="+cfg.Mail.User,
		"EMAIL_PASS="+cfg.Mail.Password.Value(),
		"TO_EMAIL="+cfg.Mail.To,
		"INTAKE_AUDIT_ENABLED=false",
	)
	if cfg.Mail.Host != "" {
		cmd.Env = append(cmd.Env,
			"INTAKE_MAIL_HOST="+cfg.Mail.Host,
			"INTAKE_MAIL_PORT="+strconv.Itoa(cfg.Mail.Port),
			"INTAKE_MAIL_TIMEOUT="+cfg.Mail.Timeout.String(),
		)
	}
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to start binary: %w", err)
	}

	instance := &ServerInstance{
		ServerURL:     "http://127.0.0.1:" + port,
		DatabasePath:  dbPath,
		cancel:        cancel,
		serverProcess: cmd,
	}

	if err := waitForServer(instance.ServerURL, 30*time.Second); err != nil {
		instance.Stop()
		return nil, fmt.Errorf("server failed to become ready: %w", err)
	}

	return instance, nil
}

// Stop shuts down the server instance
func (si *ServerInstance) Stop() {
	if si.cancel != nil {
		si.cancel()
	}
	if si.Server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = si.Server.Shutdown(ctx)
		cancel()
	}
	if si.listener != nil {
		_ = si.listener.Close()
	}
	if si.serverProcess != nil && si.serverProcess.Process != nil {
		_ = si.serverProcess.Process.Kill()
		_ = si.serverProcess.Wait()
	}
}

// waitForServer polls the status endpoint until it responds or times out
func waitForServer(serverURL string, timeout time.Duration) error {
	client := &http.Client{Timeout: 2 * time.Second}
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		resp, err := client.Get(serverURL + "/")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}

	return fmt.Errorf("server did not become ready within %v", timeout)
}
