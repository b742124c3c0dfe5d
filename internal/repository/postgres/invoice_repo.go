package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"pharmatally/internal/domain"
	"pharmatally/internal/port"
)

type invoiceRepo struct {
	db *sqlx.DB
}

// NewInvoiceRepo creates a new PostgreSQL-backed InvoiceRepository.
func NewInvoiceRepo(db *sqlx.DB) port.InvoiceRepository {
	return &invoiceRepo{db: db}
}

// Create inserts the invoice and all of its items in one transaction, so a
// failed item insert never leaves an empty invoice behind.
func (r *invoiceRepo) Create(ctx context.Context, inv *domain.Invoice, items []domain.InvoiceItem) error {
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	now := time.Now().UTC()
	inv.CreatedAt = now
	inv.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("invoiceRepo.Create begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `INSERT INTO invoices
		(id, invoice_number, supplier_name, declared_item_count, declared_total_qty, image_uri, extraction_mode, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err = tx.ExecContext(ctx, query,
		inv.ID, inv.InvoiceNumber, inv.SupplierName, inv.DeclaredItemCount, inv.DeclaredTotalQty,
		inv.ImageURI, inv.ExtractionMode, inv.CreatedAt, inv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("invoiceRepo.Create invoice: %w", err)
	}

	itemQuery := `INSERT INTO invoice_items
		(id, invoice_id, name, quantity, unit, unit_price, total_price, location_code, expiry_hint, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	for i := range items {
		items[i].ID = uuid.New()
		items[i].InvoiceID = inv.ID
		items[i].CreatedAt = now
		items[i].UpdatedAt = now
		_, err = tx.ExecContext(ctx, itemQuery,
			items[i].ID, items[i].InvoiceID, items[i].Name, items[i].Quantity, items[i].Unit,
			items[i].UnitPrice, items[i].TotalPrice, items[i].LocationCode, items[i].ExpiryHint,
			items[i].CreatedAt, items[i].UpdatedAt)
		if err != nil {
			return fmt.Errorf("invoiceRepo.Create item %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("invoiceRepo.Create commit: %w", err)
	}
	return nil
}

func (r *invoiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := r.db.GetContext(ctx, &inv, "SELECT * FROM invoices WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("invoiceRepo.GetByID: %w", err)
	}
	return &inv, nil
}

func (r *invoiceRepo) List(ctx context.Context, offset, limit int) ([]domain.Invoice, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM invoices")
	if err != nil {
		return nil, 0, fmt.Errorf("invoiceRepo.List count: %w", err)
	}

	var invoices []domain.Invoice
	err = r.db.SelectContext(ctx, &invoices,
		"SELECT * FROM invoices ORDER BY created_at DESC LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("invoiceRepo.List: %w", err)
	}
	return invoices, total, nil
}

func (r *invoiceRepo) ListItems(ctx context.Context, invoiceID uuid.UUID) ([]domain.InvoiceItem, error) {
	var items []domain.InvoiceItem
	err := r.db.SelectContext(ctx, &items,
		"SELECT * FROM invoice_items WHERE invoice_id = $1 ORDER BY created_at, name", invoiceID)
	if err != nil {
		return nil, fmt.Errorf("invoiceRepo.ListItems: %w", err)
	}
	return items, nil
}

func (r *invoiceRepo) GetItem(ctx context.Context, invoiceID, itemID uuid.UUID) (*domain.InvoiceItem, error) {
	var item domain.InvoiceItem
	err := r.db.GetContext(ctx, &item,
		"SELECT * FROM invoice_items WHERE id = $1 AND invoice_id = $2", itemID, invoiceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrItemNotFound
		}
		return nil, fmt.Errorf("invoiceRepo.GetItem: %w", err)
	}
	return &item, nil
}

func (r *invoiceRepo) UpdateItem(ctx context.Context, item *domain.InvoiceItem) error {
	item.UpdatedAt = time.Now().UTC()
	query := `UPDATE invoice_items
		SET name = $1, quantity = $2, unit = $3, unit_price = $4, total_price = $5,
		    location_code = $6, expiry_hint = $7, updated_at = $8
		WHERE id = $9 AND invoice_id = $10`
	result, err := r.db.ExecContext(ctx, query,
		item.Name, item.Quantity, item.Unit, item.UnitPrice, item.TotalPrice,
		item.LocationCode, item.ExpiryHint, item.UpdatedAt, item.ID, item.InvoiceID)
	if err != nil {
		return fmt.Errorf("invoiceRepo.UpdateItem: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

// Delete removes the invoice; items and box counts go with it via ON DELETE
// CASCADE.
func (r *invoiceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM invoices WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("invoiceRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrInvoiceNotFound
	}
	return nil
}
