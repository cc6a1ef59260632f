package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/cucumber/godog"

	"github.com/doodlesbykumbi/identity-intake/pkg/config"
	"github.com/doodlesbykumbi/identity-intake/pkg/model"
	"github.com/doodlesbykumbi/identity-intake/pkg/server/store/sqlite"
)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	instance     *ServerInstance
	httpClient   *http.Client
	response     *http.Response
	responseBody []byte
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{
		tc:         tc,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		return ctx, s.tc.Reset(ctx)
	})
	sc.After(func(ctx context.Context, _ *godog.Scenario, err error) (context.Context, error) {
		if s.instance != nil {
			s.instance.Stop()
			s.instance = nil
		}
		return ctx, nil
	})

	// Background steps
	sc.Step(`^an intake server is running without mail credentials$`, s.anIntakeServerWithoutMail)
	sc.Step(`^an intake server is running with an unreachable mail relay$`, s.anIntakeServerWithUnreachableRelay)

	// Request steps
	sc.Step(`^I submit the following text:$`, s.iSubmitTheFollowingText)
	sc.Step(`^I send the raw body '([^']*)'$`, s.iSendTheRawBody)
	sc.Step(`^I request "([^"]*)"$`, s.iRequest)

	// Response steps
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^the response JSON should be:$`, s.theResponseJSONShouldBe)
	sc.Step(`^the notification status should be "([^"]*)"$`, s.theNotificationStatusShouldBe)
	sc.Step(`^the response should contain "([^"]*)"$`, s.theResponseShouldContain)

	// Storage steps
	sc.Step(`^the person_data table should contain (\d+) records?$`, s.theTableShouldContainRecords)
	sc.Step(`^the latest record should be:$`, s.theLatestRecordShouldBe)
	sc.Step(`^record ids should be strictly increasing$`, s.recordIDsShouldIncrease)
	sc.Step(`^the person_data table is dropped$`, s.theTableIsDropped)
}

// Background steps

func (s *StepsContext) anIntakeServerWithoutMail() error {
	return s.start(ServerConfig{})
}

func (s *StepsContext) anIntakeServerWithUnreachableRelay() error {
	return s.start(ServerConfig{Mail: unreachableRelay()})
}

func (s *StepsContext) start(cfg ServerConfig) error {
	instance, err := StartServer(s.tc, cfg)
	if err != nil {
		return err
	}
	s.instance = instance
	return nil
}

// Request steps

func (s *StepsContext) iSubmitTheFollowingText(text *godog.DocString) error {
	body, err := json.Marshal(map[string]string{"text": text.Content})
	if err != nil {
		return err
	}
	return s.post(body)
}

func (s *StepsContext) iSendTheRawBody(body string) error {
	return s.post([]byte(body))
}

func (s *StepsContext) post(body []byte) error {
	req, err := http.NewRequest(http.MethodPost, s.instance.ServerURL+"/process_text", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return s.do(req)
}

func (s *StepsContext) iRequest(path string) error {
	req, err := http.NewRequest(http.MethodGet, s.instance.ServerURL+path, nil)
	if err != nil {
		return err
	}
	return s.do(req)
}

func (s *StepsContext) do(req *http.Request) error {
	var err error
	s.response, err = s.httpClient.Do(req)
	if err != nil {
		return err
	}

	s.responseBody, err = io.ReadAll(s.response.Body)
	_ = s.response.Body.Close()
	return err
}

// Response steps

func (s *StepsContext) theResponseStatusShouldBe(status int) error {
	if s.response.StatusCode != status {
		return fmt.Errorf("expected status %d, got %d: %s", status, s.response.StatusCode, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) theResponseJSONShouldBe(expected *godog.DocString) error {
	var want, got interface{}
	if err := json.Unmarshal([]byte(expected.Content), &want); err != nil {
		return fmt.Errorf("invalid expected JSON: %w", err)
	}
	if err := json.Unmarshal(s.responseBody, &got); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	if !reflect.DeepEqual(want, got) {
		return fmt.Errorf("expected %s, got %s", expected.Content, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) theNotificationStatusShouldBe(status string) error {
	if got := s.response.Header.Get("X-Notification-Status"); got != status {
		return fmt.Errorf("expected notification status %q, got %q", status, got)
	}
	return nil
}

func (s *StepsContext) theResponseShouldContain(text string) error {
	if !strings.Contains(string(s.responseBody), text) {
		return fmt.Errorf("response does not contain %q", text)
	}
	return nil
}

// Storage steps

func (s *StepsContext) records() ([]model.Record, error) {
	return s.tc.Records(context.Background(), s.instance.DatabasePath)
}

func (s *StepsContext) theTableShouldContainRecords(count int) error {
	records, err := s.records()
	if err != nil {
		return err
	}
	if len(records) != count {
		return fmt.Errorf("expected %d records, got %d", count, len(records))
	}
	return nil
}

func (s *StepsContext) theLatestRecordShouldBe(table *godog.Table) error {
	records, err := s.records()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no records stored")
	}
	latest := records[len(records)-1]

	columns := map[string]string{
		"numele":        latest.Name,
		"prenumele":     latest.GivenName,
		"data_nasterii": latest.BirthDate,
		"adresa":        latest.Address,
		"cnp":           latest.NationalID,
	}
	for _, row := range table.Rows {
		if len(row.Cells) != 2 {
			return fmt.Errorf("expected column and value cells")
		}
		column, want := row.Cells[0].Value, row.Cells[1].Value
		got, ok := columns[column]
		if !ok {
			return fmt.Errorf("unknown column %q", column)
		}
		if got != want {
			return fmt.Errorf("column %s: expected %q, got %q", column, want, got)
		}
	}
	return nil
}

func (s *StepsContext) recordIDsShouldIncrease() error {
	records, err := s.records()
	if err != nil {
		return err
	}
	for i := 1; i < len(records); i++ {
		if records[i].ID <= records[i-1].ID {
			return fmt.Errorf("record %d has id %d after id %d", i, records[i].ID, records[i-1].ID)
		}
	}
	return nil
}

func (s *StepsContext) theTableIsDropped() error {
	var (
		db  *sql.DB
		err error
	)
	if s.tc.Driver == config.DriverPostgres {
		db, err = sql.Open("postgres", s.tc.DatabaseURL)
	} else {
		db, err = sql.Open("sqlite", sqlite.DSN(s.instance.DatabasePath))
	}
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	_, err = db.Exec("DROP TABLE person_data")
	return err
}
