package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetline/internal/domain"
)

func mustParse(t *testing.T, expr string) Condition {
	t.Helper()
	cond, err := Parse(expr)
	require.NoError(t, err)
	return cond
}

func TestEvaluate_NumericComparisons(t *testing.T) {
	tests := []struct {
		cell string
		expr string
		want bool
	}{
		{"35", ">30", true},
		{"25", ">30", false},
		{"30", ">30", false},
		{"30", ">=30", true},
		{"29.5", "<30", true},
		{"30", "<=30", true},
		{"30.0", "=30", true},
		{"30", "==30.0", true},
		{"30", "!=30", false},
		{"31", "!=30", true},
	}
	for _, tt := range tests {
		t.Run(tt.cell+" "+tt.expr, func(t *testing.T) {
			got, err := Evaluate(tt.cell, mustParse(t, tt.expr))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluate_NonNumericCellOrderingIsFalse(t *testing.T) {
	// Deliberate permissive policy: ordering on a non-numeric cell is a
	// non-match, not an error.
	for _, expr := range []string{">30", "<30", ">=30", "<=30"} {
		got, err := Evaluate("abc", mustParse(t, expr))
		require.NoError(t, err)
		assert.False(t, got)
	}
}

func TestEvaluate_NonNumericOperandOrderingErrors(t *testing.T) {
	_, err := Evaluate("30", mustParse(t, ">abc"))
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestEvaluate_StringEquality(t *testing.T) {
	tests := []struct {
		cell string
		expr string
		want bool
	}{
		{"gold", "=gold", true},
		{"gold", "='gold'", true},
		{"gold", `="gold"`, true},
		{"gold", "=silver", false},
		{"gold", "!=silver", true},
		{"Gold", "=gold", false}, // case-sensitive
	}
	for _, tt := range tests {
		t.Run(tt.cell+" "+tt.expr, func(t *testing.T) {
			got, err := Evaluate(tt.cell, mustParse(t, tt.expr))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluate_BetweenInclusive(t *testing.T) {
	cond := mustParse(t, "BETWEEN 10 AND 20")
	tests := []struct {
		cell string
		want bool
	}{
		{"10", true}, // lower bound inclusive
		{"20", true}, // upper bound inclusive
		{"15", true},
		{"9", false},
		{"21", false},
		{"abc", false}, // non-numeric cell is a non-match
		{"", false},
	}
	for _, tt := range tests {
		got, err := Evaluate(tt.cell, cond)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "cell %q", tt.cell)
	}
}

func TestEvaluate_In(t *testing.T) {
	cond := mustParse(t, "IN (CA, NY)")
	tests := []struct {
		cell string
		want bool
	}{
		{"CA", true},
		{"NY", true},
		{" CA ", true},  // cell is trimmed before matching
		{" ca ", false}, // but matching is case-sensitive
		{"TX", false},
		{"", false},
	}
	for _, tt := range tests {
		got, err := Evaluate(tt.cell, cond)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "cell %q", tt.cell)
	}
}
