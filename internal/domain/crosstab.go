package domain

// CrosstabResult is a two-dimensional frequency table over two categorical
// columns, with marginal totals and three percentage views.
//
// Invariant: GrandTotal == Σ RowTotals == Σ ColTotals == Σ all grid cells.
// Key iteration order is not significant; consumers must not rely on it.
type CrosstabResult struct {
	RowColumn string
	ColColumn string

	Grid      map[string]map[string]int64
	RowTotals map[string]int64
	ColTotals map[string]int64
	GrandTotal int64

	// Percentages: cell / row total, cell / column total, cell / grand
	// total, each times 100. Same shape as Grid.
	RowPct   map[string]map[string]float64
	ColPct   map[string]map[string]float64
	TotalPct map[string]map[string]float64
}
