package story

import (
	"regexp"
	"strings"
	"unicode"
)

// paragraphBreak matches a line break, optional blank-line whitespace, and another line break
var paragraphBreak = regexp.MustCompile(`\n[\s\p{Z}\x{FEFF}]*\n`)

// SplitChunks splits scene text into paragraph chunks shown one per tap.
// Blank text yields no chunks; chunks that are only whitespace are dropped.
func SplitChunks(text string) []string {
	if isBlank(text) {
		return nil
	}

	parts := paragraphBreak.Split(text, -1)
	chunks := make([]string, 0, len(parts))
	for _, p := range parts {
		if isBlank(p) {
			continue
		}
		chunks = append(chunks, p)
	}
	return chunks
}

func isBlank(s string) bool {
	return strings.TrimFunc(s, isSpaceLike) == ""
}

func isSpaceLike(r rune) bool {
	return unicode.IsSpace(r) || unicode.Is(unicode.Zs, r) || r == '\uFEFF'
}
