package integration

import (
	"context"
	"os"
	"testing"

	"github.com/cucumber/godog"
	"github.com/stretchr/testify/require"
)

// suiteOptions runs every feature in order and fails on undefined or pending
// steps. INTAKE_TEST_TAGS narrows the run, e.g. "~@slow".
func suiteOptions(t *testing.T) *godog.Options {
	return &godog.Options{
		Format:   "pretty",
		Paths:    []string{"features"},
		Tags:     os.Getenv("INTAKE_TEST_TAGS"),
		Strict:   true,
		TestingT: t,
	}
}

func TestIntakeFeatures(t *testing.T) {
	if os.Getenv("INTEGRATION_TEST") == "" {
		t.Skip("set INTEGRATION_TEST=1 to run the intake feature suite")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var tc *TestContext
	suite := godog.TestSuite{
		Name: "intake",
		TestSuiteInitializer: func(sc *godog.TestSuiteContext) {
			sc.BeforeSuite(func() {
				var err error
				tc, err = NewTestContext(ctx)
				require.NoError(t, err, "prepare %s backend", os.Getenv("INTAKE_TEST_DRIVER"))
				t.Logf("intake suite: driver=%s inline=%t", tc.Driver, tc.InlineMode)
			})
			sc.AfterSuite(func() {
				if tc != nil {
					tc.Close(ctx)
				}
			})
		},
		ScenarioInitializer: func(sc *godog.ScenarioContext) {
			NewStepsContext(tc).RegisterSteps(sc)
		},
		Options: suiteOptions(t),
	}

	require.Zero(t, suite.Run(), "intake feature suite failed")
}
