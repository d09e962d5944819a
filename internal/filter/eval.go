package filter

import (
	"strconv"
	"strings"

	"sheetline/internal/domain"
)

// Evaluate applies a parsed condition to one cell value.
//
// Numeric dual-mode: when both the cell and the operand parse as floats,
// equality and ordering compare numerically. A non-numeric cell makes
// ordering operators evaluate to false, not an error; a non-numeric
// operand is an evaluation error.
func Evaluate(cell string, cond Condition) (bool, error) {
	cellNum, cellIsNum := parseNumber(cell)

	switch cond.Op {
	case OpEq, OpNe:
		eq := equals(cell, cellNum, cellIsNum, cond.Operand)
		if cond.Op == OpNe {
			return !eq, nil
		}
		return eq, nil

	case OpGt, OpLt, OpGe, OpLe:
		if !cellIsNum {
			return false, nil
		}
		operandNum, ok := parseNumber(cond.Operand)
		if !ok {
			return false, domain.ErrValidation(
				"operand %q for %s is not numeric", cond.Operand, cond.Op)
		}
		switch cond.Op {
		case OpGt:
			return cellNum > operandNum, nil
		case OpLt:
			return cellNum < operandNum, nil
		case OpGe:
			return cellNum >= operandNum, nil
		default:
			return cellNum <= operandNum, nil
		}

	case OpBetween:
		if !cellIsNum {
			return false, nil
		}
		return cond.Lo <= cellNum && cellNum <= cond.Hi, nil

	case OpIn:
		trimmed := strings.TrimSpace(cell)
		for _, v := range cond.Values {
			if trimmed == v {
				return true, nil
			}
		}
		return false, nil

	default:
		return false, domain.ErrValidation("unknown operator %d", cond.Op)
	}
}

// equals implements the =/!= dual mode: numeric when both sides parse,
// exact string (quote-stripped operand) otherwise.
func equals(cell string, cellNum float64, cellIsNum bool, operand string) bool {
	if cellIsNum {
		if operandNum, ok := parseNumber(operand); ok {
			return cellNum == operandNum
		}
	}
	return cell == trimQuotes(operand)
}

func parseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f, err == nil
}
