package bench

import (
	"strings"

	"recbench/internal/domain"
)

// CitySubstring is the literal searched for in every city, case-sensitively.
const CitySubstring = "New"

// StringResult holds the values derived by the string pass.
type StringResult struct {
	Concatenated   string   // every name followed by one space
	SubstringCount int      // cities containing CitySubstring
	Reversed       []string // names reversed by character, parallel to the input
}

// StringPass concatenates names, counts matching cities and reverses names.
// It never fails; an empty collection yields zero values.
func StringPass(records []domain.Record) StringResult {
	var res StringResult

	size := 0
	for _, r := range records {
		size += len(r.Name) + 1
	}
	var sb strings.Builder
	sb.Grow(size)
	for _, r := range records {
		sb.WriteString(r.Name)
		sb.WriteByte(' ')
	}
	res.Concatenated = sb.String()

	for _, r := range records {
		if strings.Contains(r.City, CitySubstring) {
			res.SubstringCount++
		}
	}

	res.Reversed = make([]string, len(records))
	for i, r := range records {
		res.Reversed[i] = Reverse(r.Name)
	}
	return res
}

// Reverse returns s with its characters in reverse order.
// Multi-byte UTF-8 characters are kept intact.
func Reverse(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}
