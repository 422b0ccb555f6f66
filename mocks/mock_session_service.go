package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"declarant/internal/domain"
	"declarant/internal/validator"
)

// MockSessionService is a mock implementation of service.SessionService.
type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) Create(ctx context.Context) (*domain.SessionView, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SessionView), args.Error(1)
}

func (m *MockSessionService) Get(ctx context.Context, id uuid.UUID) (*domain.SessionView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SessionView), args.Error(1)
}

func (m *MockSessionService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSessionService) SelectFile(ctx context.Context, id uuid.UUID, role domain.DocumentRole, file domain.UploadedFile) (*domain.DocumentSlot, error) {
	args := m.Called(ctx, id, role, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentSlot), args.Error(1)
}

func (m *MockSessionService) Slot(ctx context.Context, id uuid.UUID, role domain.DocumentRole) (*domain.DocumentSlot, error) {
	args := m.Called(ctx, id, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentSlot), args.Error(1)
}

func (m *MockSessionService) AwaitSlot(ctx context.Context, id uuid.UUID, role domain.DocumentRole) (*domain.DocumentSlot, error) {
	args := m.Called(ctx, id, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentSlot), args.Error(1)
}

func (m *MockSessionService) Analyze(ctx context.Context, id uuid.UUID) (*domain.CustomsRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CustomsRecord), args.Error(1)
}

func (m *MockSessionService) Result(ctx context.Context, id uuid.UUID) (*domain.CustomsRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CustomsRecord), args.Error(1)
}

func (m *MockSessionService) Sheets(ctx context.Context, id uuid.UUID, today time.Time) (*domain.SheetSet, error) {
	args := m.Called(ctx, id, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SheetSet), args.Error(1)
}

func (m *MockSessionService) Workbook(ctx context.Context, id uuid.UUID, today time.Time) (*domain.Workbook, error) {
	args := m.Called(ctx, id, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Workbook), args.Error(1)
}

func (m *MockSessionService) Checks(ctx context.Context, id uuid.UUID) (*validator.Report, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*validator.Report), args.Error(1)
}
