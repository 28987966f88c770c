package classify

import (
	"strings"

	"golang.org/x/text/width"
)

const maxDescriptionWidth = 120

// ClampDescription collapses whitespace runs to single spaces and
// truncates to at most 120 display cells. East-Asian wide and fullwidth
// runes count double so CJK descriptions clamp at the same visual width.
func ClampDescription(s string) string {
	s = strings.Join(strings.Fields(s), " ")

	total := 0
	for i, r := range s {
		w := runeWidth(r)
		if total+w > maxDescriptionWidth {
			return strings.TrimRight(s[:i], " ")
		}
		total += w
	}
	return s
}

func runeWidth(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	default:
		return 1
	}
}
