package extract

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"strings"

	"pharmatally/internal/domain"
	"pharmatally/internal/ocr"
	"pharmatally/internal/port"
)

// Mode names the pipeline that produced (or failed to produce) an
// extraction.
type Mode string

const (
	ModeCoordinate Mode = "coordinate"
	ModeTextual    Mode = "textual"
)

// ExtractError is a terminal extraction failure, carrying the pipeline mode
// that was being attempted when it occurred.
type ExtractError struct {
	Mode Mode
	Err  error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("extraction failed in %s mode: %v", e.Mode, e.Err)
}

func (e *ExtractError) Unwrap() error {
	return e.Err
}

// Extraction is the engine's output for one invoice image. Table is set
// only when the coordinate pipeline produced the result.
type Extraction struct {
	Items             []Item
	DeclaredItemCount int
	DeclaredTotalQty  int
	InvoiceNumber     string
	SupplierName      string
	Mode              Mode
	Table             *Table
}

// Engine orchestrates the two extraction pipelines. The coordinate pipeline
// runs first whenever a layout-capable recognizer is wired; a validation
// rejection or a zero-token response is absorbed here and retried with the
// line-oriented textual pipeline, invisible to the caller.
type Engine struct {
	layout port.LayoutRecognizer
	text   port.TextRecognizer
}

// NewEngine creates an Engine. layout may be nil, in which case only the
// plain-text pipeline runs. text may also be nil when layout is wired; a
// fallback that then needs a fresh transcript fails with
// ocr.ErrProviderUnavailable.
func NewEngine(layout port.LayoutRecognizer, text port.TextRecognizer) *Engine {
	return &Engine{layout: layout, text: text}
}

// Extract runs the pipeline over one invoice image. photo, when non-nil,
// must be the color raster the recognizer consumed (same dimensions); it is
// sampled for printed-vs-handwritten classification. A wholly blank
// transcript is terminal; a rejected coordinate table is not.
func (e *Engine) Extract(ctx context.Context, img []byte, photo image.Image) (*Extraction, error) {
	if e.layout == nil {
		log.Printf("extract.Engine: no layout recognizer wired, using textual pipeline")
		return e.extractTextual(ctx, img, "")
	}

	layout, err := e.layout.RecognizeLayout(ctx, img)
	if err != nil {
		return nil, &ExtractError{Mode: ModeCoordinate, Err: err}
	}
	if len(layout.Words) == 0 {
		log.Printf("extract.Engine: layout recognizer returned zero tokens, falling back to textual pipeline")
		return e.extractTextual(ctx, img, layout.RawText)
	}

	table := e.buildTable(layout, photo)
	if err := ValidateTable(table); err != nil {
		if errors.Is(err, errValidationRejected) {
			log.Printf("extract.Engine: %v, falling back to textual pipeline", err)
			return e.extractTextual(ctx, img, layout.RawText)
		}
		return nil, &ExtractError{Mode: ModeCoordinate, Err: err}
	}

	return e.assembleCoordinate(table, layout.RawText), nil
}

// buildTable runs the coordinate pipeline stages: color classification, row
// grouping, per-row field analysis, declared totals and header capture.
func (e *Engine) buildTable(layout *port.LayoutResult, photo image.Image) *Table {
	tokens := make([]Token, 0, len(layout.Words))
	for _, w := range layout.Words {
		tokens = append(tokens, NewToken(w))
	}
	ClassifyTokens(tokens, photo)

	rows := GroupRows(tokens)
	for i := range rows {
		AnalyzeRow(&rows[i])
	}

	table := &Table{Rows: rows, AllTokens: tokens}
	table.DeclaredItemCount, table.DeclaredTotalQty = ExtractDeclaredTotals(layout.RawText)
	table.InvoiceNumber, table.SupplierName = headerFields(layout.RawText)
	return table
}

// assembleCoordinate turns an accepted table into the engine output,
// reconciling quantities for rows that carried none.
func (e *Engine) assembleCoordinate(table *Table, rawText string) *Extraction {
	med := table.MedicineRows()
	items := make([]Item, 0, len(med))
	for _, r := range med {
		items = append(items, Item{
			LocationCode: r.LocationCode,
			Name:         r.ItemName,
			Quantity:     r.Quantity,
			ExpiryHint:   r.ExpiryHint,
		})
	}
	ReconcileQuantities(items, scanQuantityLines(rawText), table.DeclaredTotalQty)

	log.Printf("extract.Engine: coordinate pipeline accepted: %d items, declared (%d items, %d units)",
		len(items), table.DeclaredItemCount, table.DeclaredTotalQty)
	return &Extraction{
		Items:             items,
		DeclaredItemCount: table.DeclaredItemCount,
		DeclaredTotalQty:  table.DeclaredTotalQty,
		InvoiceNumber:     table.InvoiceNumber,
		SupplierName:      table.SupplierName,
		Mode:              ModeCoordinate,
		Table:             table,
	}
}

// extractTextual runs the line-oriented pipeline. rawText is reused when the
// layout call already produced a transcript; otherwise the plain-text
// recognizer is asked for one.
func (e *Engine) extractTextual(ctx context.Context, img []byte, rawText string) (*Extraction, error) {
	text := rawText
	if strings.TrimSpace(text) == "" {
		if e.text == nil {
			return nil, &ExtractError{Mode: ModeTextual, Err: ocr.ErrProviderUnavailable}
		}
		var err error
		text, err = e.text.RecognizeText(ctx, img)
		if err != nil {
			return nil, &ExtractError{Mode: ModeTextual, Err: err}
		}
	}
	if strings.TrimSpace(text) == "" {
		return nil, &ExtractError{Mode: ModeTextual, Err: domain.ErrExtractionEmpty}
	}

	items := ScanText(text)
	declaredItems, declaredQty := ExtractDeclaredTotals(text)
	invoiceNumber, supplierName := headerFields(text)

	log.Printf("extract.Engine: textual pipeline produced %d items, declared (%d items, %d units)",
		len(items), declaredItems, declaredQty)
	return &Extraction{
		Items:             items,
		DeclaredItemCount: declaredItems,
		DeclaredTotalQty:  declaredQty,
		InvoiceNumber:     invoiceNumber,
		SupplierName:      supplierName,
		Mode:              ModeTextual,
	}, nil
}
