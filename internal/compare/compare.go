package compare

import (
	"strings"

	"pharmatally/internal/domain"
)

// ItemComparison is the per-name verdict of one reconciliation.
type ItemComparison struct {
	ItemName        string `json:"item_name"`
	InvoiceQuantity int    `json:"invoice_quantity"`
	CountedQuantity int    `json:"counted_quantity"`
	Matched         bool   `json:"matched"`
	Difference      int    `json:"difference"`
}

// Result is a full invoice-versus-count reconciliation. It is derived state,
// recomputed on demand from the underlying items and counts, never the
// source of truth.
type Result struct {
	InvoiceItems      []domain.InvoiceItem `json:"invoice_items"`
	BoxCounts         []domain.BoxCount    `json:"box_counts"`
	InvoiceTotalBoxes int                  `json:"invoice_total_boxes"`
	CountedTotalBoxes int                  `json:"counted_total_boxes"`
	Matched           bool                 `json:"matched"`
	Difference        int                  `json:"difference"`
	ItemComparisons   []ItemComparison     `json:"item_comparisons"`
}

// normalizeName case-folds an item name for exact matching. Deliberately not
// fuzzy: "aprax" must not match "APRANAX".
func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Compare matches invoice items against counted box tallies by normalized
// name. Counts sharing a name are summed toward the invoice item they match;
// every counted record whose name is absent from the invoice appends its own
// synthetic comparison with an invoice quantity of zero, unmatched by
// construction. Split tallies of an unknown name stay separate entries so
// the operator sees each recorded count.
func Compare(items []domain.InvoiceItem, counts []domain.BoxCount) *Result {
	countsByName := make(map[string]int, len(counts))
	for _, c := range counts {
		countsByName[normalizeName(c.ItemName)] += c.Count
	}

	invoiceTotal := 0
	countedTotal := 0
	for _, it := range items {
		invoiceTotal += it.Quantity
	}
	for _, c := range counts {
		countedTotal += c.Count
	}

	comparisons := make([]ItemComparison, 0, len(items))
	matchedNames := make(map[string]bool, len(items))
	for _, it := range items {
		key := normalizeName(it.Name)
		matchedNames[key] = true
		counted := countsByName[key]
		comparisons = append(comparisons, ItemComparison{
			ItemName:        it.Name,
			InvoiceQuantity: it.Quantity,
			CountedQuantity: counted,
			Matched:         counted == it.Quantity,
			Difference:      counted - it.Quantity,
		})
	}

	// counted-only records, one synthetic entry each, in tally order
	for _, c := range counts {
		if matchedNames[normalizeName(c.ItemName)] {
			continue
		}
		comparisons = append(comparisons, ItemComparison{
			ItemName:        c.ItemName,
			InvoiceQuantity: 0,
			CountedQuantity: c.Count,
			Matched:         false,
			Difference:      c.Count,
		})
	}

	diff := countedTotal - invoiceTotal
	return &Result{
		InvoiceItems:      items,
		BoxCounts:         counts,
		InvoiceTotalBoxes: invoiceTotal,
		CountedTotalBoxes: countedTotal,
		Matched:           diff == 0,
		Difference:        diff,
		ItemComparisons:   comparisons,
	}
}
