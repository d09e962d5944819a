package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetline/internal/domain"
)

func TestParse_Operators(t *testing.T) {
	tests := []struct {
		expr    string
		op      Op
		operand string
	}{
		{"=gold", OpEq, "gold"},
		{"==5", OpEq, "5"},
		{"!=silver", OpNe, "silver"},
		{">100", OpGt, "100"},
		{"<100", OpLt, "100"},
		{">=10", OpGe, "10"},
		{"<=10", OpLe, "10"},
		{"> 100", OpGt, "100"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			cond, err := Parse(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.op, cond.Op)
			assert.Equal(t, tt.operand, cond.Operand)
		})
	}
}

func TestParse_Between(t *testing.T) {
	cond, err := Parse("BETWEEN 10 AND 20")
	require.NoError(t, err)
	assert.Equal(t, OpBetween, cond.Op)
	assert.Equal(t, 10.0, cond.Lo)
	assert.Equal(t, 20.0, cond.Hi)

	// Keyword and AND token are case-insensitive.
	cond, err = Parse("between 1.5 and 2.5")
	require.NoError(t, err)
	assert.Equal(t, 1.5, cond.Lo)
	assert.Equal(t, 2.5, cond.Hi)
}

func TestParse_BetweenMalformed(t *testing.T) {
	for _, expr := range []string{
		"BETWEEN 10",
		"BETWEEN a AND 20",
		"BETWEEN 10 AND b",
		"BETWEEN",
	} {
		t.Run(expr, func(t *testing.T) {
			_, err := Parse(expr)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
		})
	}
}

func TestParse_In(t *testing.T) {
	cond, err := Parse("IN (CA, NY, 'TX', \"WA\")")
	require.NoError(t, err)
	assert.Equal(t, OpIn, cond.Op)
	assert.Equal(t, []string{"CA", "NY", "TX", "WA"}, cond.Values)

	cond, err = Parse("in CA,NY")
	require.NoError(t, err)
	assert.Equal(t, []string{"CA", "NY"}, cond.Values)
}

func TestParse_InEmptyFails(t *testing.T) {
	_, err := Parse("IN ()")
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestParse_UnrecognizedOperator(t *testing.T) {
	for _, expr := range []string{"gold", "~5", "LIKE %x%", ""} {
		t.Run(expr, func(t *testing.T) {
			_, err := Parse(expr)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
		})
	}
}

func TestParseSet_NamesBadColumn(t *testing.T) {
	_, err := ParseSet(map[string]string{"age": ">30", "state": "???"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, err.Error(), "state")
}
