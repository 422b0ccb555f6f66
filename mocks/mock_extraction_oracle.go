package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"declarant/internal/port"
)

// MockExtractionOracle is a mock implementation of port.ExtractionOracle.
type MockExtractionOracle struct {
	mock.Mock
}

func (m *MockExtractionOracle) Generate(ctx context.Context, req port.OracleRequest) (*port.OracleResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.OracleResponse), args.Error(1)
}
