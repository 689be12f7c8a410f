package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockBFHLService struct {
	mock.Mock
}

func (m *MockBFHLService) Process(ctx context.Context, body []byte) (any, error) {
	args := m.Called(ctx, body)
	return args.Get(0), args.Error(1)
}
