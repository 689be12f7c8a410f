package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockAnswerer struct {
	mock.Mock
}

func (m *MockAnswerer) Answer(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}
