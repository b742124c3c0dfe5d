package port

import (
	"context"

	"github.com/google/uuid"

	"pharmatally/internal/domain"
)

// InvoiceRepository persists invoices and their extracted line items.
type InvoiceRepository interface {
	Create(ctx context.Context, inv *domain.Invoice, items []domain.InvoiceItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error)
	List(ctx context.Context, offset, limit int) ([]domain.Invoice, int, error)
	ListItems(ctx context.Context, invoiceID uuid.UUID) ([]domain.InvoiceItem, error)
	GetItem(ctx context.Context, invoiceID, itemID uuid.UUID) (*domain.InvoiceItem, error)
	UpdateItem(ctx context.Context, item *domain.InvoiceItem) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// BoxCountRepository persists physical box tallies.
type BoxCountRepository interface {
	Create(ctx context.Context, bc *domain.BoxCount) error
	ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]domain.BoxCount, error)
	Delete(ctx context.Context, invoiceID, id uuid.UUID) error
}
