package extract

import (
	"pharmatally/internal/port"
)

// Token is one OCR word with its axis-aligned bounds. Tokens are immutable
// after construction except for the Handwritten flag, which the color
// classifier attaches before row analysis.
type Token struct {
	Text        string
	MinX, MinY  float64
	MaxX, MaxY  float64
	CenterX     float64
	CenterY     float64
	Handwritten bool
	Confidence  float64
}

// NewToken builds a Token from a recognized word, collapsing its four-corner
// polygon into axis-aligned bounds.
func NewToken(w port.RecognizedWord) Token {
	t := Token{Text: w.Text, Confidence: w.Confidence}
	if len(w.BoundingBox) < 2 {
		return t
	}
	t.MinX, t.MaxX = w.BoundingBox[0], w.BoundingBox[0]
	t.MinY, t.MaxY = w.BoundingBox[1], w.BoundingBox[1]
	for i := 0; i+1 < len(w.BoundingBox); i += 2 {
		x, y := w.BoundingBox[i], w.BoundingBox[i+1]
		if x < t.MinX {
			t.MinX = x
		}
		if x > t.MaxX {
			t.MaxX = x
		}
		if y < t.MinY {
			t.MinY = y
		}
		if y > t.MaxY {
			t.MaxY = y
		}
	}
	t.CenterX = (t.MinX + t.MaxX) / 2
	t.CenterY = (t.MinY + t.MaxY) / 2
	return t
}

// Row is one grouped table row. CenterY is the anchor: the centerY of the
// first token inserted into the row, never updated afterwards. The optional
// fields are populated exactly once, by AnalyzeRow.
type Row struct {
	Index        int
	CenterY      float64
	Tokens       []Token
	LocationCode string
	ItemName     string
	Quantity     int
	ExpiryHint   string
}

// Table is one extraction attempt over a single invoice image. A failed
// attempt is discarded whole, never patched in place.
type Table struct {
	Rows              []Row
	DeclaredItemCount int
	DeclaredTotalQty  int
	InvoiceNumber     string
	SupplierName      string
	AllTokens         []Token
}

// MedicineRows returns the rows that yielded both a location code and an
// item name.
func (t *Table) MedicineRows() []Row {
	var out []Row
	for _, r := range t.Rows {
		if r.LocationCode != "" && r.ItemName != "" {
			out = append(out, r)
		}
	}
	return out
}
