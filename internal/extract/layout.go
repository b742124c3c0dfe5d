package extract

import (
	"math"
	"sort"
)

const (
	minRowTolerance     = 5.0
	maxRowTolerance     = 15.0
	defaultRowTolerance = 10.0
)

// rowTolerance derives the vertical grouping tolerance from the tokens
// themselves: half the average non-zero token height, clamped to
// [minRowTolerance, maxRowTolerance]. This tracks image resolution instead
// of hard-coding one pixel constant.
func rowTolerance(tokens []Token) float64 {
	var sum float64
	var n int
	for _, t := range tokens {
		h := t.MaxY - t.MinY
		if h > 0 {
			sum += h
			n++
		}
	}
	if n == 0 {
		return defaultRowTolerance
	}
	tol := sum / float64(n) / 2
	if tol < minRowTolerance {
		tol = minRowTolerance
	}
	if tol > maxRowTolerance {
		tol = maxRowTolerance
	}
	return tol
}

// GroupRows clusters coordinate-tagged tokens into ordered rows. A token
// joins the row whose anchor centerY is nearest and within tolerance; the
// anchor is the centerY of the row's first token and is never updated, so a
// chain of gradually drifting tokens cannot merge unrelated rows. Tokens
// inside each row come out sorted by MinX, rows by anchor centerY.
func GroupRows(tokens []Token) []Row {
	if len(tokens) == 0 {
		return nil
	}
	tol := rowTolerance(tokens)

	sorted := make([]Token, len(tokens))
	copy(sorted, tokens)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CenterY < sorted[j].CenterY
	})

	var rows []Row
	for _, tok := range sorted {
		best := -1
		bestDist := math.MaxFloat64
		for i := range rows {
			d := math.Abs(rows[i].CenterY - tok.CenterY)
			if d <= tol && d < bestDist {
				best = i
				bestDist = d
			}
		}
		if best >= 0 {
			rows[best].Tokens = append(rows[best].Tokens, tok)
		} else {
			rows = append(rows, Row{CenterY: tok.CenterY, Tokens: []Token{tok}})
		}
	}

	for i := range rows {
		sort.SliceStable(rows[i].Tokens, func(a, b int) bool {
			return rows[i].Tokens[a].MinX < rows[i].Tokens[b].MinX
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].CenterY < rows[j].CenterY
	})
	for i := range rows {
		rows[i].Index = i
	}
	return rows
}
