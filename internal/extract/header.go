package extract

import (
	"regexp"
	"strings"
	"unicode"
)

var invoiceNumberRe = regexp.MustCompile(`(?i)(?:FATURA|INVOICE)\s*(?:NO|NUMBER|NR|#)?\s*[:.]?\s*([A-Z]{0,3}\d{4,16})`)

// headerFields pulls the invoice number and supplier name out of the raw
// transcript. The supplier is taken as the first mostly-alphabetic line of
// reasonable length near the top of the document.
func headerFields(text string) (invoiceNumber, supplierName string) {
	if m := invoiceNumberRe.FindStringSubmatch(text); m != nil {
		invoiceNumber = strings.ToUpper(m[1])
	}

	lines := strings.Split(text, "\n")
	limit := 8
	if len(lines) < limit {
		limit = len(lines)
	}
	for _, line := range lines[:limit] {
		line = strings.TrimSpace(line)
		if len(line) < 10 || len(line) > 60 {
			continue
		}
		upper := strings.ToUpper(line)
		if strings.Contains(upper, "FATURA") || strings.Contains(upper, "INVOICE") || strings.Contains(upper, "TOTAL") {
			continue
		}
		letters, digits := 0, 0
		for _, r := range line {
			switch {
			case unicode.IsLetter(r):
				letters++
			case unicode.IsDigit(r):
				digits++
			}
		}
		if letters >= 6 && digits <= letters/3 {
			supplierName = line
			break
		}
	}
	return invoiceNumber, supplierName
}
