package mocks

import (
	"github.com/stretchr/testify/mock"

	"declarant/internal/domain"
)

// MockWorkbookBuilder is a mock implementation of port.WorkbookBuilder.
type MockWorkbookBuilder struct {
	mock.Mock
}

func (m *MockWorkbookBuilder) Build(sheets []domain.Sheet) ([]byte, error) {
	args := m.Called(sheets)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
