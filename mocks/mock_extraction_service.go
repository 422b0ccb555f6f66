package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"declarant/internal/domain"
)

// MockExtractionService is a mock implementation of service.ExtractionService.
type MockExtractionService struct {
	mock.Mock
}

func (m *MockExtractionService) Analyze(ctx context.Context, req domain.ExtractionRequest) (*domain.CustomsRecord, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CustomsRecord), args.Error(1)
}
