package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// Patterns for the single supported invoice style family. Location codes are
// shelf/bin anchors like "4AD" or "12BC-", quantities sit against a MM/YY
// expiry suffix, promotional quantities read like "10+1".
var (
	locationCodeRe  = regexp.MustCompile(`^(\d{1,2})([A-Za-z]{2})[-.,]?$`)
	priceTokenRe    = regexp.MustCompile(`^\d+[.,]\d{1,2}$`)
	bareNumberRe    = regexp.MustCompile(`^\d{1,2}$`)
	dateLikeRe      = regexp.MustCompile(`\b\d{1,2}/\d{2}\b`)
	trailingPriceRe = regexp.MustCompile(`(\s+\d+[.,]\d+)+$`)

	// Quantity evidence, in priority order. Fused forms match inside a
	// single token, spaced forms across a token boundary. Lazy middle
	// groups let the date suffix claim its leading month digits.
	promoFusedRe  = regexp.MustCompile(`\b(\d{1,2})\+(\d{1,2}?)(\d{1,2}/\d{2})\b`)
	promoSpacedRe = regexp.MustCompile(`\b(\d{1,2})\+(\d{1,2})\s+(\d{1,2}/\d{2})\b`)
	qtyFusedRe    = regexp.MustCompile(`\b(\d{1,2}?)(\d{2}/\d{2})\b`)
	qtySpacedRe   = regexp.MustCompile(`\b(\d{1,2})\s+(\d{1,2}/\d{2})\b`)
)

const (
	maxPromoBase  = 50
	maxPromoBonus = 10
	minExpiryYear = 24
	maxExpiryYear = 39
)

// AnalyzeRow populates the optional fields of a grouped, classified row:
// location code, item name, printed quantity and handwritten expiry hint.
// Called exactly once per row.
func AnalyzeRow(r *Row) {
	locIdx := findLocationCode(r)
	if locIdx >= 0 {
		r.ItemName = collectItemName(r, locIdx+1)
	}
	r.Quantity = findRowQuantity(r)
	r.ExpiryHint = findExpiryHint(r)
}

// findLocationCode scans left to right for the first token shaped like a
// shelf code and records it on the row, uppercased with the separator
// stripped. Returns the token index, or -1.
func findLocationCode(r *Row) int {
	for i, tok := range r.Tokens {
		m := locationCodeRe.FindStringSubmatch(tok.Text)
		if m == nil {
			continue
		}
		r.LocationCode = strings.ToUpper(m[1] + m[2])
		return i
	}
	return -1
}

// collectItemName concatenates printed tokens starting at from. A
// dosage-form keyword is included and terminates the name; a price or bare
// 1-2 digit number terminates without being included. Handwritten tokens are
// skipped, not terminators. Names shorter than 3 characters after cleanup
// are rejected.
func collectItemName(r *Row, from int) string {
	var parts []string
	for i := from; i < len(r.Tokens); i++ {
		tok := r.Tokens[i]
		if tok.Handwritten {
			continue
		}
		if IsDosageForm(tok.Text) {
			parts = append(parts, tok.Text)
			break
		}
		if priceTokenRe.MatchString(tok.Text) || bareNumberRe.MatchString(tok.Text) {
			break
		}
		parts = append(parts, tok.Text)
	}
	name := cleanItemName(strings.Join(parts, " "))
	if len(name) < 3 {
		return ""
	}
	return name
}

// cleanItemName normalizes away trailing price fragments, percentage signs,
// points and whitespace.
func cleanItemName(s string) string {
	s = strings.TrimSpace(s)
	s = trailingPriceRe.ReplaceAllString(s, "")
	s = strings.TrimRight(s, " .,%")
	return strings.ToUpper(strings.TrimSpace(s))
}

// findRowQuantity recovers the printed quantity for a row. Handwritten
// tokens never contribute: they are reserved for the expiry hint. A bare
// number is indistinguishable from a location remnant or a price, so every
// pattern requires an adjoining date-like suffix as evidence.
func findRowQuantity(r *Row) int {
	var printed []string
	for _, tok := range r.Tokens {
		if !tok.Handwritten {
			printed = append(printed, tok.Text)
		}
	}
	return quantityFromText(strings.Join(printed, " "))
}

// quantityFromText applies the quantity evidence patterns in priority order
// to a printed-token transcript of one row (or one line of the plain-text
// fallback).
func quantityFromText(text string) int {
	for _, m := range promoFusedRe.FindAllStringSubmatch(text, -1) {
		if q, ok := promoQuantity(m[1], m[2], m[3], true); ok {
			return q
		}
	}
	for _, m := range promoSpacedRe.FindAllStringSubmatch(text, -1) {
		if q, ok := promoQuantity(m[1], m[2], m[3], false); ok {
			return q
		}
	}
	for _, m := range qtyFusedRe.FindAllStringSubmatch(text, -1) {
		if q, ok := plainQuantity(m[1], m[2], true); ok {
			return q
		}
	}
	for _, m := range qtySpacedRe.FindAllStringSubmatch(text, -1) {
		if q, ok := plainQuantity(m[1], m[2], false); ok {
			return q
		}
	}
	return 0
}

func promoQuantity(baseStr, bonusStr, suffix string, fused bool) (int, bool) {
	base, _ := strconv.Atoi(baseStr)
	bonus, _ := strconv.Atoi(bonusStr)
	if base < 1 || base > maxPromoBase || bonus < 1 || bonus > maxPromoBonus {
		return 0, false
	}
	if !validDateSuffix(suffix, fused) {
		return 0, false
	}
	return base + bonus, true
}

func plainQuantity(qtyStr, suffix string, fused bool) (int, bool) {
	qty, _ := strconv.Atoi(qtyStr)
	if qty < 1 {
		return 0, false
	}
	if !validDateSuffix(suffix, fused) {
		return 0, false
	}
	return qty, true
}

// validDateSuffix checks the MM/YY evidence beside a quantity. Month must be
// 1-12; for fused matches, where a misread is likelier, the two-digit year
// must also fall in a plausible range.
func validDateSuffix(suffix string, fused bool) bool {
	slash := strings.IndexByte(suffix, '/')
	if slash < 0 {
		return false
	}
	month, err := strconv.Atoi(suffix[:slash])
	if err != nil || month < 1 || month > 12 {
		return false
	}
	if fused {
		year, err := strconv.Atoi(suffix[slash+1:])
		if err != nil || year < minExpiryYear || year > maxExpiryYear {
			return false
		}
	}
	return true
}

// findExpiryHint returns the first date-like token among handwritten tokens,
// falling back to the same pattern anywhere in the row.
func findExpiryHint(r *Row) string {
	for _, tok := range r.Tokens {
		if !tok.Handwritten {
			continue
		}
		if m := dateLikeRe.FindString(tok.Text); m != "" {
			return m
		}
	}
	for _, tok := range r.Tokens {
		if m := dateLikeRe.FindString(tok.Text); m != "" {
			return m
		}
	}
	return ""
}
