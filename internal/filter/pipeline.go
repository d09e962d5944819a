package filter

import "sheetline/internal/domain"

// Diagnostic reports a condition that errored during evaluation. The row it
// occurred on was dropped (fail closed); the pipeline kept going.
type Diagnostic struct {
	Column string
	Err    error
}

// Apply filters rows through the set conjunctively. A row is retained only
// when every condition whose column exists in the row evaluates true.
// Conditions on columns absent from a row impose no constraint.
//
// An evaluation error on a single condition drops that row and is reported
// as a diagnostic instead of aborting the pipeline: one malformed filter
// must not take down an otherwise valid multi-column filter set.
//
// An empty set returns rows unchanged.
func Apply(rows []domain.Row, set Set) ([]domain.Row, []Diagnostic) {
	if len(set) == 0 {
		return rows, nil
	}

	var diags []Diagnostic
	out := make([]domain.Row, 0, len(rows))

rowLoop:
	for _, row := range rows {
		for col, cond := range set {
			cell, ok := row[col]
			if !ok {
				continue
			}
			match, err := Evaluate(cell, cond)
			if err != nil {
				diags = append(diags, Diagnostic{Column: col, Err: err})
				continue rowLoop
			}
			if !match {
				continue rowLoop
			}
		}
		out = append(out, row)
	}

	return out, diags
}
