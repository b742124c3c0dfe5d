package extract

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKnownDrugNames_StableOrder(t *testing.T) {
	names := KnownDrugNames()
	assert.True(t, sort.StringsAreSorted(names))
	assert.Equal(t, names, KnownDrugNames())
}

func TestIsDosageForm(t *testing.T) {
	assert.True(t, IsDosageForm("MG"))
	assert.True(t, IsDosageForm("tablet"))
	assert.True(t, IsDosageForm("FTB,"))
	assert.True(t, IsDosageForm("500MG"))
	assert.True(t, IsDosageForm("20ml"))
	assert.False(t, IsDosageForm("APRANAX"))
	assert.False(t, IsDosageForm("500"))
	assert.False(t, IsDosageForm(""))
}

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "APRANAX275MG", NormalizeKey("Apranax 275 mg"))
	assert.Equal(t, "DEVIT3", NormalizeKey("DEVIT-3"))
	assert.Equal(t, "", NormalizeKey("  -%. "))
}
