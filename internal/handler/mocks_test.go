package handler

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"pharmatally/internal/compare"
	"pharmatally/internal/domain"
	"pharmatally/internal/service"
)

// mockInvoiceService is a test double for service.InvoiceService. It lives
// here rather than in the shared mocks package because that package would
// otherwise import service, which imports it back from its own tests.
type mockInvoiceService struct {
	mock.Mock
}

func (m *mockInvoiceService) Scan(ctx context.Context, input service.ScanInput) (*service.ScanResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ScanResult), args.Error(1)
}

func (m *mockInvoiceService) GetByID(ctx context.Context, id uuid.UUID) (*service.ScanResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ScanResult), args.Error(1)
}

func (m *mockInvoiceService) List(ctx context.Context, offset, limit int) ([]domain.Invoice, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Invoice), args.Int(1), args.Error(2)
}

func (m *mockInvoiceService) UpdateItem(ctx context.Context, invoiceID, itemID uuid.UUID, input service.UpdateItemInput) (*domain.InvoiceItem, error) {
	args := m.Called(ctx, invoiceID, itemID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InvoiceItem), args.Error(1)
}

func (m *mockInvoiceService) GetImageURL(ctx context.Context, id uuid.UUID) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *mockInvoiceService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockComparisonService struct {
	mock.Mock
}

func (m *mockComparisonService) RecordCount(ctx context.Context, invoiceID uuid.UUID, input service.BoxCountInput) (*domain.BoxCount, error) {
	args := m.Called(ctx, invoiceID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BoxCount), args.Error(1)
}

func (m *mockComparisonService) ListCounts(ctx context.Context, invoiceID uuid.UUID) ([]domain.BoxCount, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BoxCount), args.Error(1)
}

func (m *mockComparisonService) DeleteCount(ctx context.Context, invoiceID, countID uuid.UUID) error {
	args := m.Called(ctx, invoiceID, countID)
	return args.Error(0)
}

func (m *mockComparisonService) Compare(ctx context.Context, invoiceID uuid.UUID) (*compare.Result, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*compare.Result), args.Error(1)
}

func (m *mockComparisonService) Report(ctx context.Context, invoiceID uuid.UUID) (string, error) {
	args := m.Called(ctx, invoiceID)
	return args.String(0), args.Error(1)
}

func (m *mockComparisonService) ExportXLSX(ctx context.Context, invoiceID uuid.UUID, w io.Writer) error {
	args := m.Called(ctx, invoiceID, w)
	return args.Error(0)
}

func (m *mockComparisonService) ExportCSV(ctx context.Context, invoiceID uuid.UUID, w io.Writer) (string, error) {
	args := m.Called(ctx, invoiceID, w)
	return args.String(0), args.Error(1)
}
