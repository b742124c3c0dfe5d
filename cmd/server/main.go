package main

import (
	"fmt"
	"log"

	"pharmatally/internal/config"
	"pharmatally/internal/extract"
	"pharmatally/internal/handler"
	"pharmatally/internal/ocr"
	"pharmatally/internal/ocr/azure"
	"pharmatally/internal/ocr/tesseract"
	"pharmatally/internal/port"
	"pharmatally/internal/repository/postgres"
	"pharmatally/internal/router"
	"pharmatally/internal/service"
	s3storage "pharmatally/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	invoiceRepo := postgres.NewInvoiceRepo(db)
	countRepo := postgres.NewBoxCountRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Initialize extraction engine
	engine, err := buildEngine(&cfg.OCR)
	if err != nil {
		return fmt.Errorf("failed to initialize OCR: %w", err)
	}

	// Initialize services
	invoiceSvc := service.NewInvoiceService(invoiceRepo, s3Client, engine, &cfg.S3, &cfg.OCR)
	comparisonSvc := service.NewComparisonService(invoiceRepo, countRepo)

	// Initialize handlers
	invoiceH := handler.NewInvoiceHandler(invoiceSvc)
	comparisonH := handler.NewComparisonHandler(comparisonSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(cfg, invoiceH, comparisonH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

func registerProviders() {
	ocr.RegisterProvider("azure", func(cfg *config.OCRProviderConfig) (port.TextRecognizer, error) {
		return azure.NewReader(cfg)
	})
	ocr.RegisterProvider("tesseract", func(cfg *config.OCRProviderConfig) (port.TextRecognizer, error) {
		return tesseract.NewRecognizer(cfg)
	})
}

// buildEngine wires the extraction engine from the configured providers.
// The primary provider is used for layout recognition when it supports it;
// plain text recognition runs through a failover chain so a cloud outage
// degrades to local recognition instead of failing the scan.
func buildEngine(cfg *config.OCRConfig) (*extract.Engine, error) {
	registerProviders()

	failover := ocr.NewFailoverRecognizer()
	var layout port.LayoutRecognizer

	if cfg.Primary.Configured() {
		primary, err := ocr.NewRecognizer(&cfg.Primary)
		if err != nil {
			log.Printf("main: primary OCR provider %s unavailable: %v", cfg.Primary.Provider, err)
		} else {
			failover.Add(cfg.Primary.Provider, primary)
			if lr, ok := primary.(port.LayoutRecognizer); ok {
				layout = lr
			}
		}
	}
	if cfg.Local.Configured() {
		local, err := ocr.NewRecognizer(&cfg.Local)
		if err != nil {
			log.Printf("main: local OCR provider %s unavailable: %v", cfg.Local.Provider, err)
		} else {
			failover.Add(cfg.Local.Provider, local)
		}
	}

	if failover.Len() == 0 {
		return nil, ocr.ErrProviderUnavailable
	}
	return extract.NewEngine(layout, failover), nil
}
