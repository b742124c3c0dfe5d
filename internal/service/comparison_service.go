package service

import (
	"context"
	"io"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"pharmatally/internal/compare"
	"pharmatally/internal/csvexport"
	"pharmatally/internal/domain"
	"pharmatally/internal/port"
)

// BoxCountInput is the DTO for recording a physical box tally.
type BoxCountInput struct {
	ItemName string `json:"item_name" binding:"required"`
	Count    int    `json:"count" binding:"required,min=1"`
	Note     string `json:"note"`
}

// ComparisonService records box counts and reconciles them against invoice
// items.
type ComparisonService interface {
	RecordCount(ctx context.Context, invoiceID uuid.UUID, input BoxCountInput) (*domain.BoxCount, error)
	ListCounts(ctx context.Context, invoiceID uuid.UUID) ([]domain.BoxCount, error)
	DeleteCount(ctx context.Context, invoiceID, countID uuid.UUID) error
	Compare(ctx context.Context, invoiceID uuid.UUID) (*compare.Result, error)
	Report(ctx context.Context, invoiceID uuid.UUID) (string, error)
	ExportXLSX(ctx context.Context, invoiceID uuid.UUID, w io.Writer) error
	ExportCSV(ctx context.Context, invoiceID uuid.UUID, w io.Writer) (string, error)
}

type comparisonService struct {
	invoiceRepo port.InvoiceRepository
	countRepo   port.BoxCountRepository
	now         func() time.Time
}

// NewComparisonService creates a new ComparisonService implementation.
func NewComparisonService(invoiceRepo port.InvoiceRepository, countRepo port.BoxCountRepository) ComparisonService {
	return &comparisonService{
		invoiceRepo: invoiceRepo,
		countRepo:   countRepo,
		now:         time.Now,
	}
}

func (s *comparisonService) RecordCount(ctx context.Context, invoiceID uuid.UUID, input BoxCountInput) (*domain.BoxCount, error) {
	if _, err := s.invoiceRepo.GetByID(ctx, invoiceID); err != nil {
		return nil, err
	}
	bc := &domain.BoxCount{
		InvoiceID: invoiceID,
		ItemName:  strings.TrimSpace(input.ItemName),
		Count:     input.Count,
		Note:      strings.TrimSpace(input.Note),
	}
	if err := s.countRepo.Create(ctx, bc); err != nil {
		return nil, err
	}
	log.Printf("comparisonService.RecordCount: %d x %q recorded for invoice %s",
		bc.Count, bc.ItemName, invoiceID)
	return bc, nil
}

func (s *comparisonService) ListCounts(ctx context.Context, invoiceID uuid.UUID) ([]domain.BoxCount, error) {
	if _, err := s.invoiceRepo.GetByID(ctx, invoiceID); err != nil {
		return nil, err
	}
	return s.countRepo.ListByInvoice(ctx, invoiceID)
}

func (s *comparisonService) DeleteCount(ctx context.Context, invoiceID, countID uuid.UUID) error {
	return s.countRepo.Delete(ctx, invoiceID, countID)
}

// Compare recomputes the reconciliation from current items and counts. The
// result is never persisted; corrections to either side change the next
// comparison with no stale state in between.
func (s *comparisonService) Compare(ctx context.Context, invoiceID uuid.UUID) (*compare.Result, error) {
	if _, err := s.invoiceRepo.GetByID(ctx, invoiceID); err != nil {
		return nil, err
	}
	items, err := s.invoiceRepo.ListItems(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	counts, err := s.countRepo.ListByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	return compare.Compare(items, counts), nil
}

func (s *comparisonService) Report(ctx context.Context, invoiceID uuid.UUID) (string, error) {
	inv, err := s.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return "", err
	}
	result, err := s.Compare(ctx, invoiceID)
	if err != nil {
		return "", err
	}
	return compare.RenderReport(result, inv.InvoiceNumber, s.now()), nil
}

func (s *comparisonService) ExportXLSX(ctx context.Context, invoiceID uuid.UUID, w io.Writer) error {
	inv, err := s.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return err
	}
	result, err := s.Compare(ctx, invoiceID)
	if err != nil {
		return err
	}
	return compare.WriteXLSX(result, inv.InvoiceNumber, s.now(), w)
}

// ExportCSV writes the reconciliation as CSV (BOM-prefixed for Excel) and
// returns the download filename.
func (s *comparisonService) ExportCSV(ctx context.Context, invoiceID uuid.UUID, w io.Writer) (string, error) {
	inv, err := s.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return "", err
	}
	result, err := s.Compare(ctx, invoiceID)
	if err != nil {
		return "", err
	}

	if _, err := w.Write(csvexport.BOM); err != nil {
		return "", err
	}
	cw := csvexport.NewWriter(w)
	if err := cw.WriteHeader(); err != nil {
		return "", err
	}
	if err := cw.WriteResult(result); err != nil {
		return "", err
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", err
	}
	return csvexport.BuildFilename(inv.InvoiceNumber, s.now()), nil
}
