package engine

import (
	"strings"
	"time"

	"github.com/rivo/uniseg"
)

// Typewriter reveals text one grapheme cluster per interval.
// It is driven by Tick; it owns no goroutine or timer.
type Typewriter struct {
	graphemes  []string
	revealed   int
	interval   time.Duration
	next       time.Time
	typing     bool
	onComplete func()
}

// Play starts a new run, discarding any current one without completing it.
// The first grapheme appears one interval after now.
// Text with no graphemes completes immediately.
func (tw *Typewriter) Play(text string, interval time.Duration, now time.Time, onComplete func()) {
	tw.graphemes = splitGraphemes(text)
	tw.revealed = 0
	tw.interval = interval
	tw.next = now.Add(interval)
	tw.typing = true
	tw.onComplete = onComplete

	if len(tw.graphemes) == 0 {
		tw.finish()
	}
}

// Tick reveals every grapheme whose deadline has passed and reports whether any was revealed
func (tw *Typewriter) Tick(now time.Time) bool {
	if !tw.typing {
		return false
	}

	stepped := false
	for tw.typing && !now.Before(tw.next) {
		tw.revealed++
		stepped = true
		if tw.revealed >= len(tw.graphemes) {
			tw.finish()
			break
		}
		if tw.interval <= 0 {
			continue
		}
		tw.next = tw.next.Add(tw.interval)
	}
	return stepped
}

// ForceComplete reveals the whole text and fires the completion once; idle is a no-op
func (tw *Typewriter) ForceComplete() {
	if !tw.typing {
		return
	}
	tw.finish()
}

// Stop abandons the run without firing the completion
func (tw *Typewriter) Stop() {
	tw.typing = false
	tw.onComplete = nil
}

func (tw *Typewriter) finish() {
	tw.revealed = len(tw.graphemes)
	tw.typing = false
	cb := tw.onComplete
	tw.onComplete = nil
	if cb != nil {
		cb()
	}
}

func (tw *Typewriter) Typing() bool { return tw.typing }

// Text returns the revealed prefix
func (tw *Typewriter) Text() string {
	return strings.Join(tw.graphemes[:tw.revealed], "")
}

// FullText returns the complete text of the current run
func (tw *Typewriter) FullText() string {
	return strings.Join(tw.graphemes, "")
}

// Progress returns revealed and total grapheme counts
func (tw *Typewriter) Progress() (int, int) {
	return tw.revealed, len(tw.graphemes)
}

func splitGraphemes(text string) []string {
	var out []string
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}
