package extract

import (
	"image"
)

// Pharmacists annotate expiry dates on the invoice with a red pen; printed
// ink is black. A token counts as handwritten when at least two of three
// sampled pixels are strongly red.
const (
	redChannelMin   = 200
	otherChannelMax = 100
	redSamplesNeed  = 2
)

// ClassifyTokens sets the Handwritten flag on each token by sampling the
// source raster. img must have the same dimensions as the image the
// recognizer consumed, or coordinates will not line up. A nil img skips
// classification entirely: every token stays printed.
func ClassifyTokens(tokens []Token, img image.Image) {
	if img == nil {
		return
	}
	for i := range tokens {
		tokens[i].Handwritten = isHandwritten(tokens[i], img)
	}
}

// isHandwritten samples three points along the token's vertical center:
// center, left edge, right edge. Any sampling problem fails open to printed;
// a printed quantity misclassified as handwritten would lose the row's
// quantity entirely.
func isHandwritten(t Token, img image.Image) bool {
	b := img.Bounds()
	if b.Empty() {
		return false
	}
	cy := clampInt(int(t.CenterY), b.Min.Y, b.Max.Y-1)
	points := [3]image.Point{
		{X: clampInt(int(t.CenterX), b.Min.X, b.Max.X-1), Y: cy},
		{X: clampInt(int(t.MinX), b.Min.X, b.Max.X-1), Y: cy},
		{X: clampInt(int(t.MaxX), b.Min.X, b.Max.X-1), Y: cy},
	}
	red := 0
	for _, p := range points {
		if isRedPixel(img, p) {
			red++
		}
	}
	return red >= redSamplesNeed
}

func isRedPixel(img image.Image, p image.Point) bool {
	r, g, b, _ := img.At(p.X, p.Y).RGBA()
	r8, g8, b8 := r>>8, g>>8, b>>8
	return r8 > redChannelMin && g8 < otherChannelMax && b8 < otherChannelMax
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
