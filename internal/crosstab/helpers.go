package crosstab

import (
	"sort"
	"strconv"
)

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func formatCount(n int64) string {
	return strconv.FormatInt(n, 10)
}
