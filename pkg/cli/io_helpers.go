package cli

import (
	"fmt"
	"os"
	"strings"

	"sheetline/internal/domain"
	"sheetline/internal/filter"
	"sheetline/internal/tabular"
)

// resolveDelimiter maps the --delimiter flag to a rune. An empty flag
// means sniff from the input. "tab" and "\t" both select a tab.
func resolveDelimiter(flag, text string) (rune, error) {
	switch flag {
	case "":
		return tabular.Sniff(text), nil
	case "tab", "\\t", "\t":
		return '\t', nil
	}
	runes := []rune(flag)
	if len(runes) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", flag)
	}
	return runes[0], nil
}

func loadDataset(path, delimiterFlag string) (*domain.Dataset, rune, error) {
	raw, err := os.ReadFile(path) //nolint:gosec // path is caller-controlled
	if err != nil {
		return nil, 0, err
	}
	text := string(raw)
	delim, err := resolveDelimiter(delimiterFlag, text)
	if err != nil {
		return nil, 0, err
	}
	ds, err := tabular.Decode(text, delim)
	if err != nil {
		return nil, 0, fmt.Errorf("decode %s: %w", path, err)
	}
	return ds, delim, nil
}

func writeDataset(path string, ds *domain.Dataset, delim rune) error {
	return os.WriteFile(path, []byte(tabular.Encode(ds, delim)), 0o644)
}

// splitWhere splits a --where clause like "age>30", "state IN (CA,NY)" or
// "price BETWEEN 10 AND 20" into the column name and the condition
// expression.
func splitWhere(clause string) (column, expr string, err error) {
	s := strings.TrimSpace(clause)
	for i, r := range s {
		switch r {
		case '>', '<', '=', '!':
			column = strings.TrimSpace(s[:i])
			expr = strings.TrimSpace(s[i:])
		case ' ', '\t':
			column = strings.TrimSpace(s[:i])
			expr = strings.TrimSpace(s[i:])
		default:
			continue
		}
		break
	}
	if column == "" || expr == "" {
		return "", "", fmt.Errorf("cannot parse clause %q: expected COLUMN OP VALUE", clause)
	}
	return column, expr, nil
}

// parseWhereClauses builds a condition set from repeated --where flags.
// Later clauses on the same column replace earlier ones.
func parseWhereClauses(clauses []string) (filter.Set, error) {
	conditions := make(map[string]string, len(clauses))
	for _, c := range clauses {
		column, expr, err := splitWhere(c)
		if err != nil {
			return nil, err
		}
		conditions[column] = expr
	}
	return filter.ParseSet(conditions)
}
