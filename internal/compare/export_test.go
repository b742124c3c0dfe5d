package compare

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteXLSX_RoundTrip(t *testing.T) {
	items := invoiceItems("PAROL", 12, "MAJEZIK", 8)
	counts := boxCounts("PAROL", 9, "MAJEZIK", 8)
	r := Compare(items, counts)

	var buf bytes.Buffer
	err := WriteXLSX(r, "2024001234", time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC), &buf)
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{"Reconciliation"}, f.GetSheetList())

	cell := func(ref string) string {
		v, err := f.GetCellValue("Reconciliation", ref)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "Invoice", cell("A1"))
	assert.Equal(t, "2024001234", cell("B1"))
	assert.Equal(t, "Generated", cell("A2"))
	assert.Equal(t, "2025-03-14 09:30", cell("B2"))
	assert.Equal(t, "20", cell("B3"))
	assert.Equal(t, "17", cell("B4"))
	assert.Equal(t, "-3", cell("B5"))
	assert.Equal(t, "MISMATCH", cell("B6"))

	// header row sits after the summary block and a blank row
	assert.Equal(t, "Item Name", cell("A8"))
	assert.Equal(t, "Status", cell("E8"))

	assert.Equal(t, "PAROL", cell("A9"))
	assert.Equal(t, "12", cell("B9"))
	assert.Equal(t, "9", cell("C9"))
	assert.Equal(t, "-3", cell("D9"))
	assert.Equal(t, "mismatch", cell("E9"))

	assert.Equal(t, "MAJEZIK", cell("A10"))
	assert.Equal(t, "ok", cell("E10"))
}

func TestWriteXLSX_MatchedVerdict(t *testing.T) {
	items := invoiceItems("PAROL", 5)
	counts := boxCounts("PAROL", 5)
	r := Compare(items, counts)

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(r, "", time.Now(), &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	v, err := f.GetCellValue("Reconciliation", "B6")
	require.NoError(t, err)
	assert.Equal(t, "MATCHED", v)
}
