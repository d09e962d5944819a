// Package filter parses per-column condition expressions and applies them
// to decoded rows.
//
// A condition string embeds one operator and its operand, e.g. ">100",
// "!=gold", "BETWEEN 10 AND 20", "IN (CA,NY,TX)". Conditions are parsed
// once at the request boundary into a tagged Condition; evaluation is a
// pure switch over the tag, never repeated string sniffing.
package filter

import (
	"strconv"
	"strings"

	"sheetline/internal/domain"
)

// Op identifies a comparison operator.
type Op int

const (
	OpEq Op = iota
	OpNe
	OpGt
	OpLt
	OpGe
	OpLe
	OpBetween
	OpIn
)

// String returns the operator's source form.
func (o Op) String() string {
	switch o {
	case OpEq:
		return "="
	case OpNe:
		return "!="
	case OpGt:
		return ">"
	case OpLt:
		return "<"
	case OpGe:
		return ">="
	case OpLe:
		return "<="
	case OpBetween:
		return "BETWEEN"
	case OpIn:
		return "IN"
	default:
		return "?"
	}
}

// Condition is one parsed per-column condition.
type Condition struct {
	Op      Op
	Operand string // comparison operand for =, !=, >, <, >=, <=

	// BETWEEN bounds, inclusive on both ends.
	Lo, Hi float64

	// IN candidates, trimmed and quote-stripped.
	Values []string
}

// Set maps column name to its parsed condition. Entries are evaluated
// conjunctively.
type Set map[string]Condition

// Parse parses a single condition expression. Unrecognized operators and
// malformed BETWEEN/IN operands are ValidationErrors.
func Parse(expr string) (Condition, error) {
	s := strings.TrimSpace(expr)
	if s == "" {
		return Condition{}, domain.ErrValidation("empty filter expression")
	}

	switch {
	case hasKeyword(s, "BETWEEN"):
		return parseBetween(strings.TrimSpace(s[len("BETWEEN"):]), expr)
	case hasKeyword(s, "IN"):
		return parseIn(strings.TrimSpace(s[len("IN"):]))
	}

	// Two-character operators must be checked before their one-character
	// prefixes.
	for _, cand := range []struct {
		tok string
		op  Op
	}{
		{">=", OpGe}, {"<=", OpLe}, {"!=", OpNe}, {"==", OpEq},
		{">", OpGt}, {"<", OpLt}, {"=", OpEq},
	} {
		if strings.HasPrefix(s, cand.tok) {
			return Condition{
				Op:      cand.op,
				Operand: strings.TrimSpace(s[len(cand.tok):]),
			}, nil
		}
	}

	return Condition{}, domain.ErrValidation("unrecognized filter operator in %q", expr)
}

// ParseSet parses a column→expression mapping into a Set. The first
// malformed expression fails the whole set, before any rows are processed.
func ParseSet(conditions map[string]string) (Set, error) {
	set := make(Set, len(conditions))
	for col, expr := range conditions {
		cond, err := Parse(expr)
		if err != nil {
			return nil, domain.ErrValidation("column %q: %v", col, err)
		}
		set[col] = cond
	}
	return set, nil
}

// hasKeyword reports whether s starts with the keyword (case-insensitive)
// followed by whitespace, '(', or nothing — so "india" is not an IN clause.
func hasKeyword(s, kw string) bool {
	if len(s) < len(kw) || !strings.EqualFold(s[:len(kw)], kw) {
		return false
	}
	if len(s) == len(kw) {
		return true
	}
	next := s[len(kw)]
	return next == ' ' || next == '\t' || next == '('
}

// parseBetween parses an operand of the form "<lo> AND <hi>".
func parseBetween(operand, expr string) (Condition, error) {
	parts := splitOnAnd(operand)
	if len(parts) != 2 {
		return Condition{}, domain.ErrValidation("BETWEEN requires two bounds in %q", expr)
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Condition{}, domain.ErrValidation("BETWEEN lower bound %q is not numeric", parts[0])
	}
	hi, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Condition{}, domain.ErrValidation("BETWEEN upper bound %q is not numeric", parts[1])
	}
	return Condition{Op: OpBetween, Lo: lo, Hi: hi}, nil
}

// splitOnAnd splits on a literal AND token surrounded by whitespace,
// case-insensitive.
func splitOnAnd(s string) []string {
	fields := strings.Fields(s)
	for i, f := range fields {
		if strings.EqualFold(f, "AND") {
			return []string{
				strings.Join(fields[:i], " "),
				strings.Join(fields[i+1:], " "),
			}
		}
	}
	return []string{s}
}

// parseIn parses an operand like "(CA, NY, 'TX')". Parentheses are
// optional; candidates are trimmed and quote-stripped.
func parseIn(operand string) (Condition, error) {
	cleaned := strings.NewReplacer("(", "", ")", "").Replace(operand)
	if strings.TrimSpace(cleaned) == "" {
		return Condition{}, domain.ErrValidation("IN requires at least one value")
	}
	parts := strings.Split(cleaned, ",")
	values := make([]string, len(parts))
	for i, p := range parts {
		values[i] = trimQuotes(strings.TrimSpace(p))
	}
	return Condition{Op: OpIn, Values: values}, nil
}

// trimQuotes removes one pair of matching surrounding quote characters.
func trimQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
