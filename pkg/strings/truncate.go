package strings

import (
	"strings"
)

// DefaultCellMaxLen is the widest a free-text table cell is rendered.
const DefaultCellMaxLen = 80

// MinTruncateLen is the smallest maxLen Truncate honours; it leaves room
// for one rune plus "...".
const MinTruncateLen = 4

// Truncate renders s on a single line of at most maxLen runes. Runs of
// whitespace, including newlines from adb output, collapse to one space;
// a cut is marked with "...".
func Truncate(s string, maxLen int) string {
	if maxLen < MinTruncateLen {
		maxLen = MinTruncateLen
	}
	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return s
}
