package csvio

import "strings"

// Column is an expected import column. Aliases are alternative header labels
// accepted with the same fuzzy rules as Label.
type Column struct {
	Label   string
	Aliases []string
}

var delimiterReplacer = strings.NewReplacer("_", " ", "-", " ")

// MapHeader returns, for each expected column, the index of the first
// header cell that matches it, or -1. A cell matches a label when, compared
// case-insensitively, they are equal, equal once '_' and '-' become spaces,
// or one contains the other. Blank header cells never match.
func MapHeader(header []string, columns []Column) []int {
	cells := make([]string, len(header))
	for i, h := range header {
		cells[i] = strings.ToLower(strings.TrimSpace(h))
	}

	out := make([]int, len(columns))
	for ci, col := range columns {
		out[ci] = -1
		labels := append([]string{col.Label}, col.Aliases...)
	search:
		for hi, cell := range cells {
			if cell == "" {
				continue
			}
			for _, label := range labels {
				if headerMatches(cell, strings.ToLower(strings.TrimSpace(label))) {
					out[ci] = hi
					break search
				}
			}
		}
	}
	return out
}

func headerMatches(cell, label string) bool {
	if label == "" {
		return false
	}
	return cell == label ||
		delimiterReplacer.Replace(cell) == delimiterReplacer.Replace(label) ||
		strings.Contains(cell, label) ||
		strings.Contains(label, cell)
}
