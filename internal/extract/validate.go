package extract

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// errValidationRejected routes the orchestrator to the textual fallback. It
// never leaves this package: a rejected candidate table is not an error the
// caller can act on.
var errValidationRejected = errors.New("extraction rejected by validation")

const (
	minMedicineRows       = 5
	declaredCoverageRatio = 0.5
	maxSuspiciousRatio    = 0.3
	knownNamePrefixLen    = 5
)

// A name holding more than one location-code-shaped substring usually means
// two rows were fused into one.
var embeddedLocCodeRe = regexp.MustCompile(`\d{1,2}[A-Z]{2}`)

// ValidateTable accepts or rejects a candidate extraction. All conditions
// must hold over the medicine rows (rows with both a location code and an
// item name):
//   - at least minMedicineRows rows;
//   - at least half the declared item count, when one is known;
//   - under 30% suspicious names (embedded double location codes);
//   - at least one name recognized against the reference drug vocabulary.
//
// A non-nil return wraps errValidationRejected.
func ValidateTable(t *Table) error {
	med := t.MedicineRows()
	if len(med) < minMedicineRows {
		return fmt.Errorf("%w: %d medicine rows, need %d", errValidationRejected, len(med), minMedicineRows)
	}
	if t.DeclaredItemCount > 0 && float64(len(med)) < declaredCoverageRatio*float64(t.DeclaredItemCount) {
		return fmt.Errorf("%w: %d medicine rows against %d declared items", errValidationRejected, len(med), t.DeclaredItemCount)
	}

	suspicious := 0
	for _, r := range med {
		if len(embeddedLocCodeRe.FindAllString(strings.ToUpper(r.ItemName), -1)) > 1 {
			suspicious++
		}
	}
	if ratio := float64(suspicious) / float64(len(med)); ratio >= maxSuspiciousRatio {
		return fmt.Errorf("%w: %d of %d names look like fused rows", errValidationRejected, suspicious, len(med))
	}

	if !anyKnownName(med) {
		return fmt.Errorf("%w: no name matches the reference drug vocabulary", errValidationRejected)
	}
	return nil
}

// anyKnownName reports whether at least one medicine-row name starts with
// the first knownNamePrefixLen characters of a reference drug name.
func anyKnownName(rows []Row) bool {
	for _, r := range rows {
		name := NormalizeKey(r.ItemName)
		for _, known := range KnownDrugNames() {
			prefix := NormalizeKey(known)
			if len(prefix) > knownNamePrefixLen {
				prefix = prefix[:knownNamePrefixLen]
			}
			if strings.HasPrefix(name, prefix) {
				return true
			}
		}
	}
	return false
}
