package utils

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Truncate shortens s to at most max runes, marking the cut with "...".
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	if max <= 3 {
		return string([]rune(s)[:max])
	}
	return string([]rune(s)[:max-3]) + "..."
}

// JoinLines joins lines with newlines without exceeding max characters. Lines
// that do not fit are summarised with a trailing "... and N more" line.
func JoinLines(lines []string, max int) string {
	var b strings.Builder
	for i, line := range lines {
		more := fmt.Sprintf("• ... and %d more", len(lines)-i)
		need := utf8.RuneCountInString(line)
		if b.Len() > 0 {
			need++
		}
		// leave room for the overflow marker unless this is the last line
		reserve := 0
		if i < len(lines)-1 {
			reserve = utf8.RuneCountInString(more) + 1
		}
		if utf8.RuneCountInString(b.String())+need+reserve > max {
			if b.Len() > 0 {
				b.WriteString("\n")
			}
			b.WriteString(more)
			return b.String()
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(line)
	}
	return b.String()
}
