// Package crosstab builds two-dimensional frequency tables over categorical
// columns of a decoded dataset.
package crosstab

import "sheetline/internal/domain"

// Build counts (rowColumn, colColumn) value pairs across the dataset and
// derives marginal totals plus row-, column-, and total-normalized
// percentage matrices.
//
// Missing values count under the empty-string key like any other category.
// Empty input yields an empty grid, never a division error: a grid cell only
// exists when at least one row produced its key pair, which guarantees both
// of its totals are at least 1.
func Build(ds *domain.Dataset, rowColumn, colColumn string) (*domain.CrosstabResult, error) {
	if !ds.HasColumn(rowColumn) {
		return nil, domain.ErrValidation("row column %q not in dataset", rowColumn)
	}
	if !ds.HasColumn(colColumn) {
		return nil, domain.ErrValidation("col column %q not in dataset", colColumn)
	}

	res := &domain.CrosstabResult{
		RowColumn: rowColumn,
		ColColumn: colColumn,
		Grid:      map[string]map[string]int64{},
		RowTotals: map[string]int64{},
		ColTotals: map[string]int64{},
		RowPct:    map[string]map[string]float64{},
		ColPct:    map[string]map[string]float64{},
		TotalPct:  map[string]map[string]float64{},
	}

	for _, row := range ds.Rows {
		rKey := row[rowColumn]
		cKey := row[colColumn]
		if res.Grid[rKey] == nil {
			res.Grid[rKey] = map[string]int64{}
		}
		res.Grid[rKey][cKey]++
		res.RowTotals[rKey]++
		res.ColTotals[cKey]++
		res.GrandTotal++
	}

	for rKey, cols := range res.Grid {
		res.RowPct[rKey] = make(map[string]float64, len(cols))
		res.ColPct[rKey] = make(map[string]float64, len(cols))
		res.TotalPct[rKey] = make(map[string]float64, len(cols))
		for cKey, n := range cols {
			res.RowPct[rKey][cKey] = 100 * float64(n) / float64(res.RowTotals[rKey])
			res.ColPct[rKey][cKey] = 100 * float64(n) / float64(res.ColTotals[cKey])
			res.TotalPct[rKey][cKey] = 100 * float64(n) / float64(res.GrandTotal)
		}
	}

	return res, nil
}

// Encode renders a crosstab as a dataset suitable for re-encoding to
// delimited text: one row per grid row key, one column per grid column key,
// plus a trailing total column and total row. Column keys are ordered
// lexically for a stable export.
func Encode(res *domain.CrosstabResult) *domain.Dataset {
	colKeys := sortedKeys(res.ColTotals)
	rowKeys := sortedKeys(res.RowTotals)

	columns := make([]string, 0, len(colKeys)+2)
	columns = append(columns, res.RowColumn)
	columns = append(columns, colKeys...)
	columns = append(columns, "total")

	rows := make([]domain.Row, 0, len(rowKeys)+1)
	for _, rKey := range rowKeys {
		row := domain.Row{res.RowColumn: rKey}
		for _, cKey := range colKeys {
			row[cKey] = formatCount(res.Grid[rKey][cKey])
		}
		row["total"] = formatCount(res.RowTotals[rKey])
		rows = append(rows, row)
	}

	totals := domain.Row{res.RowColumn: "total"}
	for _, cKey := range colKeys {
		totals[cKey] = formatCount(res.ColTotals[cKey])
	}
	totals["total"] = formatCount(res.GrandTotal)
	rows = append(rows, totals)

	return &domain.Dataset{Columns: columns, Rows: rows}
}
