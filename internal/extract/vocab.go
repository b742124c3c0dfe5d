package extract

import (
	"sort"
	"strings"
)

// Reference vocabularies for the single supported invoice style family.
// Both tables are read-only after process start; no synchronization needed.

// knownDrugAliases maps each reference drug name to the spellings OCR tends
// to produce for it, including hyphen splits. The canonical key is the name
// stored on extracted items.
var knownDrugAliases = map[string][]string{
	"APRANAX":   {"APRANAX"},
	"ARVELES":   {"ARVELES"},
	"AUGMENTIN": {"AUGMENTIN"},
	"AZITRO":    {"AZITRO"},
	"A-FERIN":   {"A-FERIN", "A FERIN", "AFERIN"},
	"CALPOL":    {"CALPOL"},
	"CIPRO":     {"CIPRO"},
	"DEVIT-3":   {"DEVIT-3", "DEVIT 3", "DEVIT3"},
	"DIKLORON":  {"DIKLORON"},
	"DOLOREX":   {"DOLOREX"},
	"EXEN":      {"EXEN"},
	"MAJEZIK":   {"MAJEZIK"},
	"MUSCOFLEX": {"MUSCOFLEX"},
	"NUROFEN":   {"NUROFEN"},
	"PAROL":     {"PAROL"},
	"SUPRAFEN":  {"SUPRAFEN"},
	"VERMIDON":  {"VERMIDON"},
}

// dosageForms are the packaging/form and dosage-unit keywords that mark the
// end of an item name. Turkish invoice abbreviations alongside the full
// words.
var dosageForms = map[string]struct{}{
	"TABLET":  {},
	"TABL":    {},
	"TB":      {},
	"FTB":     {},
	"EFTB":    {},
	"KAPSUL":  {},
	"CAPSULE": {},
	"KAP":     {},
	"AMPUL":   {},
	"AMPOULE": {},
	"AMP":     {},
	"FLAKON":  {},
	"SURUP":   {},
	"SYRUP":   {},
	"DAMLA":   {},
	"DROP":    {},
	"JEL":     {},
	"GEL":     {},
	"SPREY":   {},
	"SPRAY":   {},
	"SASE":    {},
	"SACHET":  {},
	"KREM":    {},
	"CREAM":   {},
	"POMAD":   {},
	"MG":      {},
	"ML":      {},
	"GR":      {},
	"MCG":     {},
	"IU":      {},
}

// KnownDrugNames returns the canonical reference names in stable order.
func KnownDrugNames() []string {
	names := make([]string, 0, len(knownDrugAliases))
	for name := range knownDrugAliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsDosageForm reports whether a single token is a dosage-form or
// dosage-unit keyword. Trailing punctuation is ignored; tokens like "500MG"
// with a fused numeric prefix also count.
func IsDosageForm(tok string) bool {
	t := strings.ToUpper(strings.Trim(tok, ".,;:"))
	if _, ok := dosageForms[t]; ok {
		return true
	}
	// fused dosage like 500MG or 20ML
	stripped := strings.TrimLeft(t, "0123456789")
	if stripped != t && stripped != "" {
		_, ok := dosageForms[stripped]
		return ok
	}
	return false
}

// NormalizeKey reduces a name to an uppercased alphanumeric-only key used
// for deduplication and exact matching.
func NormalizeKey(s string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
