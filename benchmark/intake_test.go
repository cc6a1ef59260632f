package benchmark

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/doodlesbykumbi/identity-intake/pkg/config"
	"github.com/doodlesbykumbi/identity-intake/pkg/extract"
	"github.com/doodlesbykumbi/identity-intake/pkg/intake"
	"github.com/doodlesbykumbi/identity-intake/pkg/metrics"
	"github.com/doodlesbykumbi/identity-intake/pkg/notify"
	"github.com/doodlesbykumbi/identity-intake/pkg/server"
	"github.com/doodlesbykumbi/identity-intake/pkg/server/endpoints"
	"github.com/doodlesbykumbi/identity-intake/pkg/server/store/sqlite"
)

const document = "ROMANIA CARTE DE IDENTITATE\nSERIA KX NR 123456\nNumele: Popescu\nPrenumele: Ion\nData nașterii: 01.01.1990\nAdresa: Str. Lunga nr. 1, Cluj-Napoca\nCNP: 1900101123456\nEmisă de SPCLEP Cluj\n"

func BenchmarkExtract(b *testing.B) {
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := extract.Record(document); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkProcessText(b *testing.B) {
	records := sqlite.NewRecordStore(filepath.Join(b.TempDir(), "data.db"))
	if err := records.EnsureSchema(context.Background()); err != nil {
		b.Fatal(err)
	}

	reg := prometheus.NewRegistry()
	svc := intake.NewService(records, notify.New(config.Mail{}), intake.WithMetrics(metrics.New(reg)))
	cfg := &config.IntakeConfig{BindAddress: "127.0.0.1", Port: "0", CORSAllowedOrigins: []string{"*"}}
	s := server.NewServerWithAccessLog(cfg, svc, records, reg, zap.NewNop(), io.Discard)
	endpoints.RegisterAll(s)
	handler := s.Handler()

	body, _ := json.Marshal(map[string]string{"text": document})

	b.Run("POST /process_text", func(b *testing.B) {
		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			r := httptest.NewRequest(http.MethodPost, "/process_text", bytes.NewReader(body))
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, r)
			if w.Code != http.StatusOK {
				b.Fatalf("unexpected status %d", w.Code)
			}
		}
	})

	b.Run("rejected: no text", func(b *testing.B) {
		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			r := httptest.NewRequest(http.MethodPost, "/process_text", bytes.NewReader([]byte(`{}`)))
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, r)
		}
	})
}
