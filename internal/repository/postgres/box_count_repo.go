package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"pharmatally/internal/domain"
	"pharmatally/internal/port"
)

type boxCountRepo struct {
	db *sqlx.DB
}

// NewBoxCountRepo creates a new PostgreSQL-backed BoxCountRepository.
func NewBoxCountRepo(db *sqlx.DB) port.BoxCountRepository {
	return &boxCountRepo{db: db}
}

func (r *boxCountRepo) Create(ctx context.Context, bc *domain.BoxCount) error {
	bc.ID = uuid.New()
	bc.CreatedAt = time.Now().UTC()

	query := `INSERT INTO box_counts (id, invoice_id, item_name, count, image_uri, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query,
		bc.ID, bc.InvoiceID, bc.ItemName, bc.Count, bc.ImageURI, bc.Note, bc.CreatedAt)
	if err != nil {
		return fmt.Errorf("boxCountRepo.Create: %w", err)
	}
	return nil
}

func (r *boxCountRepo) ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]domain.BoxCount, error) {
	var counts []domain.BoxCount
	err := r.db.SelectContext(ctx, &counts,
		"SELECT * FROM box_counts WHERE invoice_id = $1 ORDER BY created_at", invoiceID)
	if err != nil {
		return nil, fmt.Errorf("boxCountRepo.ListByInvoice: %w", err)
	}
	return counts, nil
}

func (r *boxCountRepo) Delete(ctx context.Context, invoiceID, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM box_counts WHERE id = $1 AND invoice_id = $2", id, invoiceID)
	if err != nil {
		return fmt.Errorf("boxCountRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrBoxCountNotFound
	}
	return nil
}
