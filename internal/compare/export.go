package compare

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Reconciliation"

var exportColumns = []string{
	"Item Name",
	"Invoice Quantity",
	"Counted Quantity",
	"Difference",
	"Status",
}

// WriteXLSX writes the reconciliation result as a spreadsheet: a summary
// block followed by the per-item breakdown.
func WriteXLSX(r *Result, invoiceNumber string, now time.Time, w io.Writer) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	idx, err := f.NewSheet(exportSheet)
	if err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("removing default sheet: %w", err)
	}

	verdict := "MATCHED"
	if !r.Matched {
		verdict = "MISMATCH"
	}
	summary := [][]interface{}{
		{"Invoice", invoiceNumber},
		{"Generated", now.Format("2006-01-02 15:04")},
		{"Invoice Total Boxes", r.InvoiceTotalBoxes},
		{"Counted Total Boxes", r.CountedTotalBoxes},
		{"Difference", r.Difference},
		{"Verdict", verdict},
	}
	row := 1
	for _, pair := range summary {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(exportSheet, cell, &pair); err != nil {
			return fmt.Errorf("writing summary row: %w", err)
		}
		row++
	}
	row++

	header := make([]interface{}, len(exportColumns))
	for i, c := range exportColumns {
		header[i] = c
	}
	cell, _ := excelize.CoordinatesToCellName(1, row)
	if err := f.SetSheetRow(exportSheet, cell, &header); err != nil {
		return fmt.Errorf("writing header row: %w", err)
	}
	row++

	for _, c := range r.ItemComparisons {
		status := "ok"
		if !c.Matched {
			status = "mismatch"
		}
		values := []interface{}{c.ItemName, c.InvoiceQuantity, c.CountedQuantity, c.Difference, status}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return fmt.Errorf("writing item row: %w", err)
		}
		row++
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
