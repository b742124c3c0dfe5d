package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"pharmatally/internal/config"
	"pharmatally/internal/domain"
	"pharmatally/internal/extract"
	"pharmatally/internal/imageprep"
	"pharmatally/internal/port"
)

// allowedPhotoTypes are the content types accepted for invoice photos.
var allowedPhotoTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
}

// ScanInput is the DTO for invoice scan requests.
type ScanInput struct {
	File   multipart.File
	Header *multipart.FileHeader
}

// ScanResult pairs the persisted invoice with its extracted items.
type ScanResult struct {
	Invoice *domain.Invoice      `json:"invoice"`
	Items   []domain.InvoiceItem `json:"items"`
}

// UpdateItemInput carries a manual correction to one extracted line item.
type UpdateItemInput struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Unit     string `json:"unit"`
}

// InvoiceService defines the invoice scan and retrieval contract.
type InvoiceService interface {
	Scan(ctx context.Context, input ScanInput) (*ScanResult, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ScanResult, error)
	List(ctx context.Context, offset, limit int) ([]domain.Invoice, int, error)
	UpdateItem(ctx context.Context, invoiceID, itemID uuid.UUID, input UpdateItemInput) (*domain.InvoiceItem, error)
	GetImageURL(ctx context.Context, id uuid.UUID) (string, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type invoiceService struct {
	repo    port.InvoiceRepository
	storage port.ObjectStorage
	engine  *extract.Engine
	s3cfg   *config.S3Config
	ocrCfg  *config.OCRConfig
}

// NewInvoiceService creates a new InvoiceService implementation.
func NewInvoiceService(
	repo port.InvoiceRepository,
	storage port.ObjectStorage,
	engine *extract.Engine,
	s3cfg *config.S3Config,
	ocrCfg *config.OCRConfig,
) InvoiceService {
	return &invoiceService{
		repo:    repo,
		storage: storage,
		engine:  engine,
		s3cfg:   s3cfg,
		ocrCfg:  ocrCfg,
	}
}

// Scan runs the whole capture flow: validate the upload, archive the
// original photo, prepare it for recognition, extract the line items and
// persist invoice plus items in one transaction.
func (s *invoiceService) Scan(ctx context.Context, input ScanInput) (*ScanResult, error) {
	raw, contentType, err := s.readUpload(input)
	if err != nil {
		return nil, err
	}

	invoiceID := uuid.New()
	key := fmt.Sprintf("invoices/%s/original%s", invoiceID, extForType(contentType, input.Header.Filename))
	_, err = s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.s3cfg.Bucket,
		Key:         key,
		Body:        bytes.NewReader(raw),
		ContentType: contentType,
		Size:        int64(len(raw)),
	})
	if err != nil {
		log.Printf("invoiceService.Scan: photo upload failed: %v", err)
		return nil, domain.ErrUploadFailed
	}

	prepared, err := imageprep.Prepare(raw, s.ocrCfg.MaxImageDim)
	if err != nil {
		return nil, err
	}

	extraction, err := s.engine.Extract(ctx, prepared.OCRBytes, prepared.Color)
	if err != nil {
		return nil, err
	}

	inv := &domain.Invoice{
		ID:                invoiceID,
		InvoiceNumber:     extraction.InvoiceNumber,
		SupplierName:      extraction.SupplierName,
		DeclaredItemCount: extraction.DeclaredItemCount,
		DeclaredTotalQty:  extraction.DeclaredTotalQty,
		ImageURI:          key,
		ExtractionMode:    string(extraction.Mode),
	}
	items := make([]domain.InvoiceItem, 0, len(extraction.Items))
	for _, it := range extraction.Items {
		items = append(items, domain.InvoiceItem{
			Name:         it.Name,
			Quantity:     it.Quantity,
			Unit:         "box",
			LocationCode: it.LocationCode,
			ExpiryHint:   it.ExpiryHint,
		})
	}

	if err := s.repo.Create(ctx, inv, items); err != nil {
		return nil, fmt.Errorf("persisting invoice: %w", err)
	}

	log.Printf("invoiceService.Scan: invoice %s stored with %d items (%s mode)",
		inv.ID, len(items), inv.ExtractionMode)
	return &ScanResult{Invoice: inv, Items: items}, nil
}

func (s *invoiceService) readUpload(input ScanInput) ([]byte, string, error) {
	maxBytes := s.s3cfg.MaxFileSizeMB * 1024 * 1024
	if input.Header.Size > maxBytes {
		return nil, "", domain.ErrFileTooLarge
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(input.File); err != nil {
		return nil, "", fmt.Errorf("reading upload: %w", err)
	}
	raw := buf.Bytes()
	if len(raw) == 0 {
		return nil, "", domain.ErrUnsupportedFileType
	}

	head := raw
	if len(head) > 512 {
		head = head[:512]
	}
	contentType := http.DetectContentType(head)
	if _, ok := allowedPhotoTypes[contentType]; !ok {
		return nil, "", domain.ErrUnsupportedFileType
	}
	return raw, contentType, nil
}

func extForType(contentType, filename string) string {
	if ext, ok := allowedPhotoTypes[contentType]; ok {
		return "." + ext
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".jpg"
	}
	return ext
}

func (s *invoiceService) GetByID(ctx context.Context, id uuid.UUID) (*ScanResult, error) {
	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.ListItems(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ScanResult{Invoice: inv, Items: items}, nil
}

func (s *invoiceService) List(ctx context.Context, offset, limit int) ([]domain.Invoice, int, error) {
	return s.repo.List(ctx, offset, limit)
}

func (s *invoiceService) UpdateItem(ctx context.Context, invoiceID, itemID uuid.UUID, input UpdateItemInput) (*domain.InvoiceItem, error) {
	item, err := s.repo.GetItem(ctx, invoiceID, itemID)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		item.Name = name
	}
	if input.Quantity > 0 {
		item.Quantity = input.Quantity
	}
	if unit := strings.TrimSpace(input.Unit); unit != "" {
		item.Unit = unit
	}
	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	log.Printf("invoiceService.UpdateItem: item %s on invoice %s corrected to %q x%d",
		item.ID, invoiceID, item.Name, item.Quantity)
	return item, nil
}

func (s *invoiceService) GetImageURL(ctx context.Context, id uuid.UUID) (string, error) {
	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return s.storage.GetPresignedURL(ctx, s.s3cfg.Bucket, inv.ImageURI, s.s3cfg.PresignExpiry)
}

func (s *invoiceService) Delete(ctx context.Context, id uuid.UUID) error {
	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, s.s3cfg.Bucket, inv.ImageURI); err != nil {
		log.Printf("invoiceService.Delete: photo delete failed for invoice %s: %v", id, err)
	}
	return s.repo.Delete(ctx, id)
}
