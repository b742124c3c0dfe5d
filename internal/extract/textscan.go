package extract

import (
	"regexp"
	"strings"
)

// Line-oriented fallback over the plain transcript, used when coordinates
// are unavailable or the coordinate table failed validation. Two independent
// name-discovery heuristics run over the same text and merge.

var (
	locAnchoredLineRe = regexp.MustCompile(`^\s*(\d{1,2})([A-Za-z]{2})[-. ]?\s+(.+)$`)
	dosageVariantPat  = `\s+(\d+)\s*(MG|ML|GR|MCG|IU)\b`

	// per-alias patterns, compiled once at load
	aliasVariantRes = map[string][]*regexp.Regexp{}
	aliasPlainRes   = map[string][]*regexp.Regexp{}
)

func init() {
	for canonical, aliases := range knownDrugAliases {
		for _, alias := range aliases {
			aliasVariantRes[canonical] = append(aliasVariantRes[canonical],
				regexp.MustCompile(`\b`+regexp.QuoteMeta(alias)+dosageVariantPat))
			aliasPlainRes[canonical] = append(aliasPlainRes[canonical],
				regexp.MustCompile(`\b`+regexp.QuoteMeta(alias)+`\b`))
		}
	}
}

// Item is one recovered invoice line item, the unit of output shared by the
// coordinate and textual pipelines.
type Item struct {
	LocationCode string
	Name         string
	Quantity     int
	ExpiryHint   string
}

// ScanText runs both textual heuristics over the transcript, merges and
// deduplicates their results, and assigns quantities positionally from a
// separate scan of quantity-shaped lines (topped up from the declared total
// where one exists).
func ScanText(text string) []Item {
	items := mergeItems(
		scanLocationAnchoredLines(text),
		scanKnownNames(text),
	)
	if len(items) == 0 {
		return nil
	}

	found := scanQuantityLines(text)
	_, declaredQty := ExtractDeclaredTotals(text)
	ReconcileQuantities(items, found, declaredQty)
	return items
}

// scanLocationAnchoredLines anchors on lines that begin with a shelf code.
// The remainder is accepted as a name only when a dosage-form keyword
// confirms it; the name runs up to and including that keyword.
func scanLocationAnchoredLines(text string) []Item {
	var items []Item
	for _, line := range strings.Split(text, "\n") {
		m := locAnchoredLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		fields := strings.Fields(m[3])
		end := -1
		for i, f := range fields {
			if IsDosageForm(f) {
				end = i
				break
			}
		}
		if end < 0 {
			continue
		}
		name := cleanItemName(strings.Join(fields[:end+1], " "))
		if len(name) < 3 {
			continue
		}
		items = append(items, Item{
			LocationCode: strings.ToUpper(m[1] + m[2]),
			Name:         name,
			ExpiryHint:   dateLikeRe.FindString(line),
		})
	}
	return items
}

// scanKnownNames searches the whole transcript for reference drug names,
// through each known alias (hyphen splits included). A name with dosage
// variants yields one item per distinct "name + dosage + unit" occurrence;
// a bare hit yields the canonical name alone. The trailing form token is
// left off so the key lines up with location-anchored hits for the same
// drug.
func scanKnownNames(text string) []Item {
	upper := strings.ToUpper(text)
	var items []Item
	for _, canonical := range KnownDrugNames() {
		seen := map[string]bool{}
		for _, re := range aliasVariantRes[canonical] {
			for _, m := range re.FindAllStringSubmatch(upper, -1) {
				name := canonical + " " + m[1] + " " + m[2]
				if !seen[name] {
					seen[name] = true
					items = append(items, Item{Name: name})
				}
			}
		}
		if len(seen) > 0 {
			continue
		}
		for _, re := range aliasPlainRes[canonical] {
			if re.MatchString(upper) {
				items = append(items, Item{Name: canonical})
				break
			}
		}
	}
	return items
}

// mergeItems concatenates the heuristics' results in discovery order,
// dropping duplicates by normalized name key. The first occurrence wins so
// location-anchored hits keep their shelf codes.
func mergeItems(groups ...[]Item) []Item {
	var out []Item
	seen := map[string]bool{}
	for _, group := range groups {
		for _, it := range group {
			key := NormalizeKey(it.Name)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, it)
		}
	}
	return out
}

// qtyLineRe accepts only lines that consist of quantity evidence: a one or
// two digit count, optional promotional bonus, beside a MM/YY suffix.
var qtyLineRe = regexp.MustCompile(`^\s*\d{1,2}(?:\+\d{1,2})?\s*\d{1,2}/\d{2}\s*$`)

// scanQuantityLines collects, in document order, the quantity evidence from
// every transcript line that reads like a quantity beside a date suffix.
// Lines carrying anything else are ignored so that item rows do not donate
// their quantities twice.
func scanQuantityLines(text string) []int {
	var found []int
	for _, line := range strings.Split(text, "\n") {
		if !qtyLineRe.MatchString(line) {
			continue
		}
		if q := quantityFromText(line); q > 0 {
			found = append(found, q)
		}
	}
	return found
}
