package core

// convert.go handles the string-typed boundary with the record store.
//
// Worksheet cells arrive as free-form strings: locale decimal commas,
// stray currency symbols, Excel formula prefixes, ids rendered as "3.0".
// Everything here degrades gracefully — a cell that cannot be parsed maps
// to the zero/absent value for its field, never to an error.

import (
	"math"
	"strconv"
	"strings"
)

// headerIndex maps lowercased column names to their position in a row.
type headerIndex map[string]int

// makeHeaderIndex builds a case-insensitive column lookup from a header row.
func makeHeaderIndex(header []string) headerIndex {
	idx := make(headerIndex, len(header))
	for i, h := range header {
		key := strings.ToLower(cleanCell(h))
		if _, exists := idx[key]; !exists {
			idx[key] = i
		}
	}
	return idx
}

// cell returns the cleaned value of the named column, or "" when the column
// is absent from the header or the row is too short.
func (idx headerIndex) cell(row []string, name string) string {
	pos, ok := idx[strings.ToLower(name)]
	if !ok || pos >= len(row) {
		return ""
	}
	return cleanCell(row[pos])
}

// cleanCell strips whitespace and common spreadsheet artifacts:
// Excel formula prefixes (="value") and surrounding quotes.
func cleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	s = strings.Trim(s, `"'`)
	return strings.TrimSpace(s)
}

// parseDecimal parses a worksheet number. It tolerates a comma decimal
// separator ("1,80") and stray currency symbols. Returns false when the
// cell holds no parseable number.
func parseDecimal(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	s = strings.ReplaceAll(s, "€", "")
	s = strings.ReplaceAll(s, "$", "")
	s = strings.TrimSpace(s)

	// A single comma with no dot is a locale decimal separator.
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// parseID parses a record identifier. Ids must be positive integers, but
// sheets often render them as "3.0"; integral floats are accepted.
// Returns 0 when the cell holds no usable id.
func parseID(s string) int {
	f, ok := parseDecimal(s)
	if !ok || f != math.Trunc(f) || f <= 0 || f > math.MaxInt32 {
		return 0
	}
	return int(f)
}

// formatDecimal renders a float so that it parses back to the same value.
func formatDecimal(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
