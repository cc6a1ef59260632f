package endpoints

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/doodlesbykumbi/identity-intake/pkg/intake"
)

// MockIntakeProcessor implements server.IntakeProcessor for testing using testify/mock
type MockIntakeProcessor struct {
	mock.Mock
}

func (m *MockIntakeProcessor) Process(ctx context.Context, sub intake.Submission) (*intake.Result, error) {
	args := m.Called(ctx, sub)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*intake.Result), args.Error(1)
}

// MockHealthStore implements store.HealthStore for testing using testify/mock
type MockHealthStore struct {
	mock.Mock
}

func (m *MockHealthStore) CheckConnectivity(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
