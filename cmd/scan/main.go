package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"pharmatally/internal/config"
	"pharmatally/internal/extract"
	"pharmatally/internal/imageprep"
	"pharmatally/internal/ocr"
	"pharmatally/internal/ocr/azure"
	"pharmatally/internal/ocr/tesseract"
	"pharmatally/internal/port"
)

// scan runs the extraction pipeline over a local photo without the server,
// for tuning recognition against sample invoices.
func main() {
	asJSON := flag.Bool("json", false, "print the extraction as JSON")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall extraction timeout")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: scan [-json] [-timeout 2m] <image-file>")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	raw, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("failed to read image: %v", err)
	}

	engine, err := buildEngine(&cfg.OCR)
	if err != nil {
		log.Fatalf("failed to initialize OCR: %v", err)
	}

	prepared, err := imageprep.Prepare(raw, cfg.OCR.MaxImageDim)
	if err != nil {
		log.Fatalf("failed to prepare image: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	extraction, err := engine.Extract(ctx, prepared.OCRBytes, prepared.Color)
	if err != nil {
		log.Fatalf("extraction failed: %v", err)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(extraction); err != nil {
			log.Fatalf("failed to encode result: %v", err)
		}
		return
	}

	fmt.Printf("mode: %s\n", extraction.Mode)
	if extraction.InvoiceNumber != "" {
		fmt.Printf("invoice: %s\n", extraction.InvoiceNumber)
	}
	if extraction.SupplierName != "" {
		fmt.Printf("supplier: %s\n", extraction.SupplierName)
	}
	if extraction.DeclaredItemCount > 0 || extraction.DeclaredTotalQty > 0 {
		fmt.Printf("declared: %d items, %d units\n",
			extraction.DeclaredItemCount, extraction.DeclaredTotalQty)
	}
	fmt.Printf("%d items:\n", len(extraction.Items))
	for _, it := range extraction.Items {
		line := fmt.Sprintf("  %-40s x%d", it.Name, it.Quantity)
		if it.LocationCode != "" {
			line += "  [" + it.LocationCode + "]"
		}
		if it.ExpiryHint != "" {
			line += "  exp " + it.ExpiryHint
		}
		fmt.Println(line)
	}
}

func buildEngine(cfg *config.OCRConfig) (*extract.Engine, error) {
	ocr.RegisterProvider("azure", func(c *config.OCRProviderConfig) (port.TextRecognizer, error) {
		return azure.NewReader(c)
	})
	ocr.RegisterProvider("tesseract", func(c *config.OCRProviderConfig) (port.TextRecognizer, error) {
		return tesseract.NewRecognizer(c)
	})

	failover := ocr.NewFailoverRecognizer()
	var layout port.LayoutRecognizer

	if cfg.Primary.Configured() {
		primary, err := ocr.NewRecognizer(&cfg.Primary)
		if err != nil {
			log.Printf("scan: primary OCR provider %s unavailable: %v", cfg.Primary.Provider, err)
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
			log.Printf("scan: local OCR provider %s unavailable: %v", cfg.Local.Provider, err)
		} else {
			failover.Add(cfg.Local.Provider, local)
		}
	}

	if failover.Len() == 0 {
		return nil, ocr.ErrProviderUnavailable
	}
	return extract.NewEngine(layout, failover), nil
}
