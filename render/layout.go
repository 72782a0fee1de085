package render

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// cluster is one grapheme cluster with its cell width
type cluster struct {
	text  string
	width int
}

// clusters splits s into grapheme clusters measured in terminal cells
func clusters(s string) []cluster {
	var out []cluster
	state := -1
	for len(s) > 0 {
		var c string
		c, s, _, state = uniseg.FirstGraphemeClusterInString(s, state)
		out = append(out, cluster{text: c, width: runewidth.StringWidth(c)})
	}
	return out
}

// StringWidth is the number of cells s occupies
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// Wrap breaks text into lines no wider than width cells.
// Explicit newlines are kept; long lines break at any cluster boundary,
// preferring the last space when one exists on the line.
func Wrap(text string, width int) []string {
	if width <= 0 {
		return nil
	}

	var lines []string
	for _, para := range strings.Split(text, "\n") {
		lines = append(lines, wrapLine(para, width)...)
	}
	return lines
}

func wrapLine(line string, width int) []string {
	cs := clusters(line)
	if len(cs) == 0 {
		return []string{""}
	}

	var out []string
	start, w, lastSpace := 0, 0, -1
	for i := 0; i < len(cs); i++ {
		c := cs[i]
		for w+c.width > width && i > start {
			brk := i
			if lastSpace > start {
				brk = lastSpace + 1
			}
			out = append(out, strings.TrimRight(join(cs[start:brk]), " "))
			start, w, lastSpace = brk, 0, -1
			for j := start; j < i; j++ {
				w += cs[j].width
			}
		}
		if c.text == " " {
			lastSpace = i
		}
		w += c.width
	}
	out = append(out, join(cs[start:]))
	return out
}

func join(cs []cluster) string {
	var b strings.Builder
	for _, c := range cs {
		b.WriteString(c.text)
	}
	return b.String()
}

// Truncate cuts s to at most width cells, marking the cut with an ellipsis
func Truncate(s string, width int) string {
	if StringWidth(s) <= width {
		return s
	}
	const ellipsis = "…"
	ew := StringWidth(ellipsis)
	if width <= ew {
		return ""
	}
	var b strings.Builder
	w := 0
	for _, c := range clusters(s) {
		if w+c.width > width-ew {
			break
		}
		b.WriteString(c.text)
		w += c.width
	}
	b.WriteString(ellipsis)
	return b.String()
}

// centerX returns the column that centers a span of w cells in [0, total)
func centerX(total, w int) int {
	x := (total - w) / 2
	if x < 0 {
		return 0
	}
	return x
}

// rect is a screen region in cells
type rect struct {
	x, y, w, h int
}

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}
