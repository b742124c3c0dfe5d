package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"pharmatally/internal/compare"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row.
var columns = []string{
	"Item Name",
	"Invoice Quantity",
	"Counted Quantity",
	"Difference",
	"Status",
}

// Writer wraps csv.Writer for exporting reconciliation results as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the column header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteResult writes one row per item comparison followed by a TOTAL row.
func (w *Writer) WriteResult(r *compare.Result) error {
	for _, c := range r.ItemComparisons {
		row := []string{
			c.ItemName,
			strconv.Itoa(c.InvoiceQuantity),
			strconv.Itoa(c.CountedQuantity),
			strconv.Itoa(c.Difference),
			statusFor(c.Matched),
		}
		if err := w.csv.Write(row); err != nil {
			return err
		}
	}
	total := []string{
		"TOTAL",
		strconv.Itoa(r.InvoiceTotalBoxes),
		strconv.Itoa(r.CountedTotalBoxes),
		strconv.Itoa(r.Difference),
		statusFor(r.Matched),
	}
	return w.csv.Write(total)
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

func statusFor(matched bool) string {
	if matched {
		return "ok"
	}
	return "mismatch"
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans an invoice number for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for the Content-Disposition
// header. Format: reconciliation_{invoice_number}_{YYYY-MM-DD}.csv, with the
// invoice number segment dropped when empty.
func BuildFilename(invoiceNumber string, now time.Time) string {
	date := now.Format("2006-01-02")
	sanitized := SanitizeFilename(invoiceNumber)
	if sanitized == "" {
		return fmt.Sprintf("reconciliation_%s.csv", date)
	}
	return fmt.Sprintf("reconciliation_%s_%s.csv", sanitized, date)
}
