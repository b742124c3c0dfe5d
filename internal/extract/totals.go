package extract

import (
	"regexp"
	"strconv"
)

// The invoice prints its own summary sentence, "TOTAL <N> ITEMS, <M> UNITS",
// which we use as a reconciliation oracle. OCR mangles the unit word often
// enough that each letter gets a confusion class.
const (
	itemWordPat = `ITEMS?`
	unitWordPat = `[UVO0][NM][I1L][T7][S5Z]?`
)

var (
	// inline: the whole sentence on one line
	totalsInlineRe = regexp.MustCompile(`(?i)TOTAL[ \t]+(\d+)[ \t]+` + itemWordPat + `[ \t]*[,.]?[ \t]*(\d+)[ \t]+` + unitWordPat)
	// split: "TOTAL" alone on its line, counts on the next
	totalsSplitRe = regexp.MustCompile(`(?i)TOTAL\s+(\d+)\s+` + itemWordPat + `\s*[,.]?\s*(\d+)\s+` + unitWordPat)
	// reversed digit/word order: unit count first
	totalsReversedRe = regexp.MustCompile(`(?i)(\d+)\s+` + itemWordPat + `\s+(\d+)\s+TOTAL`)
	// independent last-resort matches
	itemCountRe = regexp.MustCompile(`(?i)(\d+)\s+` + itemWordPat + `\b`)
	unitCountRe = regexp.MustCompile(`(?i)(\d+)\s+` + unitWordPat + `\b`)
)

// ExtractDeclaredTotals scans the raw transcript for the declared item count
// and total unit count. Zero means not found. Phrasings are tried in
// priority order; the last-resort independent pairing is accepted only when
// itemCount < totalQty, which rejects most mismatched matches.
func ExtractDeclaredTotals(text string) (itemCount, totalQty int) {
	for _, re := range []*regexp.Regexp{totalsInlineRe, totalsSplitRe} {
		if m := re.FindStringSubmatch(text); m != nil {
			return atoi(m[1]), atoi(m[2])
		}
	}
	if m := totalsReversedRe.FindStringSubmatch(text); m != nil {
		// unit count prints first in this variant
		return atoi(m[2]), atoi(m[1])
	}

	items, units := 0, 0
	if m := itemCountRe.FindStringSubmatch(text); m != nil {
		items = atoi(m[1])
	}
	if m := unitCountRe.FindStringSubmatch(text); m != nil {
		units = atoi(m[1])
	}
	switch {
	case items > 0 && units > 0:
		if items < units {
			return items, units
		}
		return 0, 0
	case items > 0:
		return items, 0
	case units > 0:
		return 0, units
	}
	return 0, 0
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
