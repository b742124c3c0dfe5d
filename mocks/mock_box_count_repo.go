package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"pharmatally/internal/domain"
)

// MockBoxCountRepo is a mock implementation of port.BoxCountRepository.
type MockBoxCountRepo struct {
	mock.Mock
}

func (m *MockBoxCountRepo) Create(ctx context.Context, bc *domain.BoxCount) error {
	args := m.Called(ctx, bc)
	return args.Error(0)
}

func (m *MockBoxCountRepo) ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]domain.BoxCount, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BoxCount), args.Error(1)
}

func (m *MockBoxCountRepo) Delete(ctx context.Context, invoiceID, id uuid.UUID) error {
	args := m.Called(ctx, invoiceID, id)
	return args.Error(0)
}
