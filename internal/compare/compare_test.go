package compare

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmatally/internal/domain"
)

func invoiceItems(pairs ...interface{}) []domain.InvoiceItem {
	items := make([]domain.InvoiceItem, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		items = append(items, domain.InvoiceItem{
			Name:     pairs[i].(string),
			Quantity: pairs[i+1].(int),
		})
	}
	return items
}

func boxCounts(pairs ...interface{}) []domain.BoxCount {
	counts := make([]domain.BoxCount, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		counts = append(counts, domain.BoxCount{
			ItemName: pairs[i].(string),
			Count:    pairs[i+1].(int),
		})
	}
	return counts
}

func TestCompare_AllMatched(t *testing.T) {
	items := invoiceItems("APRANAX 275 MG", 10, "AZITRO 500MG", 5)
	counts := boxCounts("apranax 275 mg", 10, "AZITRO 500MG", 5)

	r := Compare(items, counts)

	assert.True(t, r.Matched)
	assert.Equal(t, 0, r.Difference)
	assert.Equal(t, 15, r.InvoiceTotalBoxes)
	assert.Equal(t, 15, r.CountedTotalBoxes)
	require.Len(t, r.ItemComparisons, 2)
	for _, c := range r.ItemComparisons {
		assert.True(t, c.Matched)
		assert.Zero(t, c.Difference)
	}
}

func TestCompare_SplitCountsAreSummed(t *testing.T) {
	items := invoiceItems("APRANAX 275 MG", 10)
	counts := boxCounts("APRANAX 275 MG", 6, "APRANAX 275 MG", 4)

	r := Compare(items, counts)

	require.Len(t, r.ItemComparisons, 1)
	assert.True(t, r.ItemComparisons[0].Matched)
	assert.Equal(t, 10, r.ItemComparisons[0].CountedQuantity)
}

func TestCompare_NoFuzzyMatching(t *testing.T) {
	// a misspelled tally must not be credited to the invoice item
	items := invoiceItems("APRANAX", 10)
	counts := boxCounts("aprax", 5, "Aprax", 5)

	r := Compare(items, counts)

	require.Len(t, r.ItemComparisons, 3)

	assert.Equal(t, "APRANAX", r.ItemComparisons[0].ItemName)
	assert.Equal(t, 0, r.ItemComparisons[0].CountedQuantity)
	assert.False(t, r.ItemComparisons[0].Matched)
	assert.Equal(t, -10, r.ItemComparisons[0].Difference)

	// each counted-only record keeps its own unmatched entry
	for i, c := range r.ItemComparisons[1:] {
		assert.Equal(t, counts[i].ItemName, c.ItemName)
		assert.Equal(t, 0, c.InvoiceQuantity)
		assert.Equal(t, 5, c.CountedQuantity)
		assert.False(t, c.Matched)
	}
	assert.Equal(t, 10, r.CountedTotalBoxes)

	assert.True(t, r.Matched, "totals coincide even though items do not")
	assert.Equal(t, 0, r.Difference)
}

func TestCompare_ShortfallAndSurplus(t *testing.T) {
	items := invoiceItems("PAROL", 12, "MAJEZIK", 8)
	counts := boxCounts("PAROL", 9, "MAJEZIK", 8)

	r := Compare(items, counts)

	assert.False(t, r.Matched)
	assert.Equal(t, -3, r.Difference)
	assert.Equal(t, -3, r.ItemComparisons[0].Difference)
	assert.True(t, r.ItemComparisons[1].Matched)
}

func TestCompare_Empty(t *testing.T) {
	r := Compare(nil, nil)

	assert.True(t, r.Matched)
	assert.Zero(t, r.InvoiceTotalBoxes)
	assert.Zero(t, r.CountedTotalBoxes)
	assert.Empty(t, r.ItemComparisons)
}

func TestCompare_IsDeterministic(t *testing.T) {
	items := invoiceItems("A", 1, "B", 2)
	counts := boxCounts("B", 2, "C", 3)

	first := Compare(items, counts)
	second := Compare(items, counts)

	assert.Equal(t, first, second)
}

func TestRenderReport_Mismatch(t *testing.T) {
	items := invoiceItems("PAROL", 12)
	counts := boxCounts("PAROL", 9)
	r := Compare(items, counts)

	out := RenderReport(r, "2024001234", time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC))

	assert.Contains(t, out, "BOX COUNT RECONCILIATION")
	assert.Contains(t, out, "Invoice: 2024001234")
	assert.Contains(t, out, "Generated: 2025-03-14 09:30")
	assert.Contains(t, out, "Difference:    -3")
	assert.Contains(t, out, "MISMATCH")
	assert.NotContains(t, out, "MATCHED\n")
	assert.Contains(t, out, "[MISMATCH]")
}

func TestRenderReport_Matched(t *testing.T) {
	items := invoiceItems("PAROL", 12)
	counts := boxCounts("PAROL", 12)
	r := Compare(items, counts)

	out := RenderReport(r, "", time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC))

	assert.NotContains(t, out, "Invoice:")
	assert.Contains(t, out, "\nMATCHED\n")
	assert.Contains(t, out, "[ok]")
	assert.Contains(t, out, "+0")
}

func TestRenderReport_NoComparisonsListsItems(t *testing.T) {
	r := &Result{
		InvoiceItems: invoiceItems("PAROL", 12),
		Matched:      true,
	}

	out := RenderReport(r, "", time.Now())

	assert.Contains(t, out, "Invoice items:")
	assert.True(t, strings.Contains(out, "PAROL"))
}
