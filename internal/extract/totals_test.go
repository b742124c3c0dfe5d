package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractDeclaredTotals_Inline(t *testing.T) {
	items, units := ExtractDeclaredTotals("blah\nTOTAL 13 ITEMS, 150 UNITS\nblah")
	assert.Equal(t, 13, items)
	assert.Equal(t, 150, units)
}

func TestExtractDeclaredTotals_MangledUnitWord(t *testing.T) {
	for _, text := range []string{
		"TOTAL 13 ITEMS 150 VNITS",
		"TOTAL 13 ITEMS 150 UN1T5",
		"TOTAL 13 ITEM 150 0NITS",
	} {
		items, units := ExtractDeclaredTotals(text)
		assert.Equal(t, 13, items, text)
		assert.Equal(t, 150, units, text)
	}
}

func TestExtractDeclaredTotals_SplitAcrossLines(t *testing.T) {
	items, units := ExtractDeclaredTotals("TOTAL\n13 ITEMS, 150 UNITS")
	assert.Equal(t, 13, items)
	assert.Equal(t, 150, units)
}

func TestExtractDeclaredTotals_ReversedOrder(t *testing.T) {
	// unit count printed first in this variant
	items, units := ExtractDeclaredTotals("150 ITEMS 13 TOTAL")
	assert.Equal(t, 13, items)
	assert.Equal(t, 150, units)
}

func TestExtractDeclaredTotals_IndependentMatches(t *testing.T) {
	items, units := ExtractDeclaredTotals("13 ITEMS\nsomething else\n150 UNITS")
	assert.Equal(t, 13, items)
	assert.Equal(t, 150, units)
}

func TestExtractDeclaredTotals_IndependentSanityRejected(t *testing.T) {
	// an item count at or above the unit count is a mismatched pairing
	items, units := ExtractDeclaredTotals("150 ITEMS\nsomething else\n13 UNITS")
	assert.Zero(t, items)
	assert.Zero(t, units)
}

func TestExtractDeclaredTotals_PartialMatches(t *testing.T) {
	items, units := ExtractDeclaredTotals("13 ITEMS on this invoice")
	assert.Equal(t, 13, items)
	assert.Zero(t, units)

	items, units = ExtractDeclaredTotals("150 UNITS were shipped")
	assert.Zero(t, items)
	assert.Equal(t, 150, units)
}

func TestExtractDeclaredTotals_NothingFound(t *testing.T) {
	items, units := ExtractDeclaredTotals("4AD- APRANAX 275 MG FTB")
	assert.Zero(t, items)
	assert.Zero(t, units)
}
