package compare

import (
	"fmt"
	"strings"
	"time"
)

// RenderReport renders a human-readable reconciliation report: header,
// optional invoice number, timestamp, totals with signed difference, a
// verdict line, then per-item detail. With no comparisons at all it falls
// back to a raw listing of the invoice items.
func RenderReport(r *Result, invoiceNumber string, now time.Time) string {
	var b strings.Builder

	b.WriteString("BOX COUNT RECONCILIATION\n")
	b.WriteString("========================\n")
	if invoiceNumber != "" {
		fmt.Fprintf(&b, "Invoice: %s\n", invoiceNumber)
	}
	fmt.Fprintf(&b, "Generated: %s\n\n", now.Format("2006-01-02 15:04"))

	fmt.Fprintf(&b, "Invoice total: %d boxes\n", r.InvoiceTotalBoxes)
	fmt.Fprintf(&b, "Counted total: %d boxes\n", r.CountedTotalBoxes)
	fmt.Fprintf(&b, "Difference:    %+d\n\n", r.Difference)

	if r.Matched {
		b.WriteString("MATCHED\n")
	} else {
		b.WriteString("MISMATCH\n")
	}

	if len(r.ItemComparisons) == 0 {
		b.WriteString("\nInvoice items:\n")
		for _, it := range r.InvoiceItems {
			fmt.Fprintf(&b, "  %-40s %d\n", it.Name, it.Quantity)
		}
		return b.String()
	}

	b.WriteString("\nPer-item breakdown:\n")
	for _, c := range r.ItemComparisons {
		flag := "ok"
		if !c.Matched {
			flag = "MISMATCH"
		}
		fmt.Fprintf(&b, "  %-40s invoice %3d  counted %3d  %+d  [%s]\n",
			c.ItemName, c.InvoiceQuantity, c.CountedQuantity, c.Difference, flag)
	}
	return b.String()
}
