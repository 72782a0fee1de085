package render

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/vi-novel/constants"
	"github.com/lixenwraith/vi-novel/engine"
	"github.com/lixenwraith/vi-novel/ending"
)

// TerminalSurface draws a session onto a tcell screen.
// Setters only record state; Draw paints a full frame when something changed.
type TerminalSurface struct {
	screen tcell.Screen
	width  int
	height int
	dirty  bool

	background string
	character  string
	modes      engine.Modes
	style      engine.DialogueStyle
	text       string
	typing     bool
	more       bool

	buttons     []engine.Button
	buttonRects []rect
	focus       int

	gallery  []ending.Entry
	toast    string
	toastOn  bool
	affinity engine.Affinity
	failure  string
}

// NewTerminalSurface creates a surface bound to an initialized screen
func NewTerminalSurface(screen tcell.Screen) *TerminalSurface {
	w, h := screen.Size()
	return &TerminalSurface{
		screen: screen,
		width:  w,
		height: h,
		dirty:  true,
		focus:  -1,
	}
}

func (t *TerminalSurface) SetBackground(ref string) { t.background = ref; t.dirty = true }
func (t *TerminalSurface) SetCharacter(ref string)  { t.character = ref; t.dirty = true }
func (t *TerminalSurface) SetModes(m engine.Modes)  { t.modes = m; t.dirty = true }

func (t *TerminalSurface) SetDialogueStyle(style engine.DialogueStyle) {
	t.style = style
	t.dirty = true
}

func (t *TerminalSurface) SetDialogueText(text string, typing bool) {
	t.text = text
	t.typing = typing
	t.dirty = true
}

func (t *TerminalSurface) ShowMore(visible bool) { t.more = visible; t.dirty = true }

// ShowChoices replaces the buttons and clears keyboard focus
func (t *TerminalSurface) ShowChoices(buttons []engine.Button) {
	t.buttons = buttons
	t.buttonRects = nil
	t.focus = -1
	t.dirty = true
}

func (t *TerminalSurface) ShowGallery(entries []ending.Entry) {
	t.gallery = entries
	t.dirty = true
}

func (t *TerminalSurface) ShowToast(msg string) {
	t.toast = msg
	t.toastOn = true
	t.dirty = true
}

func (t *TerminalSurface) HideToast() { t.toastOn = false; t.dirty = true }

func (t *TerminalSurface) SetAffinity(a engine.Affinity) { t.affinity = a; t.dirty = true }

func (t *TerminalSurface) ShowLoadFailure(msg string) {
	t.failure = msg
	t.dirty = true
}

// ButtonAt returns the choice index under a screen cell
func (t *TerminalSurface) ButtonAt(x, y int) (int, bool) {
	for i, r := range t.buttonRects {
		if r.contains(x, y) {
			return i, true
		}
	}
	return -1, false
}

// MoveFocus steps keyboard focus through the buttons, wrapping at both ends
func (t *TerminalSurface) MoveFocus(delta int) {
	n := len(t.buttons)
	if n == 0 || delta == 0 {
		return
	}
	switch {
	case t.focus < 0 && delta > 0:
		t.focus = 0
	case t.focus < 0:
		t.focus = n - 1
	default:
		t.focus = ((t.focus+delta)%n + n) % n
	}
	t.dirty = true
}

// Focused returns the focused choice index
func (t *TerminalSurface) Focused() (int, bool) {
	return t.focus, t.focus >= 0
}

// Resize picks up the new terminal size and forces a full repaint
func (t *TerminalSurface) Resize() {
	t.width, t.height = t.screen.Size()
	t.screen.Sync()
	t.dirty = true
}

// Draw renders the frame if any state changed since the last call
func (t *TerminalSurface) Draw() {
	if !t.dirty {
		return
	}
	t.dirty = false

	bg := tcell.StyleDefault.Background(RgbBackground)
	t.screen.SetStyle(bg)
	t.screen.Clear()
	t.fill(rect{0, 0, t.width, t.height}, bg)

	if t.failure != "" {
		t.drawFailure(bg)
		t.screen.Show()
		return
	}

	switch {
	case t.modes.Title:
		t.drawTitle(bg)
	case t.modes.HiddenUI:
		t.drawArt(rect{0, 0, t.width, t.height}, bg)
		t.drawButtons(rect{0, 0, t.width, t.height})
	case t.modes.Gallery:
		t.drawStatusBar()
		area := rect{0, constants.StatusBarHeight, t.width, t.height - constants.StatusBarHeight}
		below := t.drawGallery(area, bg)
		t.drawButtons(rect{0, below, t.width, t.height - below})
	default:
		t.drawStatusBar()
		box := t.dialogueRect()
		art := rect{0, constants.StatusBarHeight, t.width, box.y - constants.StatusBarHeight}
		t.drawArt(art, bg)
		t.drawDialogue(box)
		t.drawButtons(art)
	}

	if t.toastOn && t.toast != "" {
		t.drawToast()
	}
	t.screen.Show()
}

func (t *TerminalSurface) dialogueRect() rect {
	h := constants.DialogueBoxHeight
	if h > t.height-constants.StatusBarHeight {
		h = t.height - constants.StatusBarHeight
	}
	w := t.width - 2*constants.DialogueMargin
	if w < 4 {
		w = t.width
	}
	return rect{centerX(t.width, w), t.height - h, w, h}
}

func (t *TerminalSurface) drawStatusBar() {
	style := tcell.StyleDefault.Background(RgbStatusBarBg).Foreground(RgbStatusText)
	t.fill(rect{0, 0, t.width, constants.StatusBarHeight}, style)

	left := fmt.Sprintf(" %s %s", constants.StatusBackground, orDash(t.background))
	if t.character != "" {
		left += fmt.Sprintf(" │ %s %s", constants.StatusCharacter, t.character)
	}

	ideal := fmt.Sprintf("%s %d", constants.StatusIdealism, t.affinity.Idealism)
	alien := fmt.Sprintf("%s %d ", constants.StatusAlienation, t.affinity.Alienation)
	right := StringWidth(ideal) + 2 + StringWidth(alien)
	x := t.width - right
	if x < 0 {
		x = 0
	}

	t.drawString(0, 0, x-1, Truncate(left, x-1), style)
	x = t.drawString(x, 0, t.width, ideal, style.Foreground(RgbIdealism))
	t.drawString(x+2, 0, t.width, alien, style.Foreground(RgbAlienation))
}

func (t *TerminalSurface) drawTitle(bg tcell.Style) {
	style := TextStyle(t.style).Background(RgbBackground)
	lines := Wrap(t.text, t.width-4)

	y := (t.height - len(lines)) / 2
	if y < 0 {
		y = 0
	}
	for i, line := range lines {
		t.drawString(centerX(t.width, StringWidth(line)), y+i, t.width, line, style)
	}

	if !t.typing && t.text != "" {
		hint := constants.ContinueHint
		hy := y + len(lines) + 2
		if hy < t.height {
			t.drawString(centerX(t.width, StringWidth(hint)), hy, t.width, hint, bg.Foreground(RgbArtLabel))
		}
	}
	t.drawButtons(rect{0, 0, t.width, t.height})
}

// drawArt marks the scene assets inside the art area
func (t *TerminalSurface) drawArt(area rect, bg tcell.Style) {
	if area.h <= 0 {
		return
	}
	label := bg.Foreground(RgbArtLabel)
	if t.background != "" {
		t.drawString(area.x+1, area.y, area.x+area.w, Truncate("▣ "+t.background, area.w-2), label)
	}
	if t.character == "" || len(t.buttons) > 0 || area.h < 3 {
		return
	}

	tag := "［" + t.character + "］"
	tw := StringWidth(tag)
	y := area.y + area.h/2
	frame := bg.Foreground(RgbArtFrame)
	t.drawString(centerX(t.width, tw), y, t.width, tag, frame)
}

func (t *TerminalSurface) drawDialogue(box rect) {
	if box.h < 3 {
		return
	}
	body := TextStyle(t.style)
	border := tcell.StyleDefault.Background(RgbDialogueBg).Foreground(RgbBorder)
	t.fill(box, body)
	t.drawBorder(box, border)

	if t.style.Label != "" && t.style.Class != engine.StyleChapter {
		tag := " " + t.style.Label + " "
		tagStyle := tcell.StyleDefault.Background(RgbNameTagBg).Foreground(RgbNameTagFg).Bold(true)
		t.drawString(box.x+2, box.y, box.x+box.w-1, tag, tagStyle)
	}

	inner := rect{box.x + 2, box.y + 1, box.w - 4, box.h - 2}
	text := t.text
	if t.style.Alert && text != "" {
		text = constants.AlertIcon + text
	}
	lines := Wrap(text, inner.w)
	if len(lines) > inner.h {
		lines = lines[len(lines)-inner.h:]
	}

	endX, endY := inner.x, inner.y
	for i, line := range lines {
		x := inner.x
		if t.style.Class == engine.StyleChapter {
			x = inner.x + centerX(inner.w, StringWidth(line))
		}
		endX = t.drawString(x, inner.y+i, inner.x+inner.w, line, body)
		endY = inner.y + i
	}

	indicator := tcell.StyleDefault.Background(RgbDialogueBg).Foreground(RgbIndicator)
	if t.typing && endX < inner.x+inner.w {
		t.screen.SetContent(endX, endY, constants.TypingCursor, nil, indicator)
	}
	if t.more {
		t.screen.SetContent(box.x+box.w-3, box.y+box.h-2, constants.MoreIndicator, nil, indicator)
	}
}

// drawGallery paints the header and ending cards, returning the first free row below
func (t *TerminalSurface) drawGallery(area rect, bg tcell.Style) int {
	y := area.y + 1
	header := constants.GalleryHeader
	t.drawString(centerX(t.width, StringWidth(header)), y, t.width, header, bg.Foreground(RgbChapterFg).Bold(true))
	y += 2

	cardW := 24
	cols := 2
	if t.width < cols*cardW+4 {
		cols = 1
		if t.width < cardW+2 {
			cardW = t.width - 2
		}
	}
	gap := 2
	startX := centerX(t.width, cols*cardW+(cols-1)*gap)

	for i, e := range t.gallery {
		col, row := i%cols, i/cols
		card := rect{startX + col*(cardW+gap), y + row*4, cardW, 3}
		style := bg.Foreground(RgbGalleryLocked)
		if e.Unlocked {
			style = bg.Foreground(RgbGalleryUnlocked)
		}
		t.drawBorder(card, style)
		caption := Truncate(e.DisplayIcon()+" "+e.Label(), card.w-2)
		t.drawString(card.x+centerX(card.w, StringWidth(caption)), card.y+1, card.x+card.w-1, caption, style)
	}

	rows := (len(t.gallery) + cols - 1) / cols
	return y + rows*4
}

// drawButtons stacks the choice buttons centered in area and records their hit rects
func (t *TerminalSurface) drawButtons(area rect) {
	t.buttonRects = t.buttonRects[:0]
	n := len(t.buttons)
	if n == 0 || area.h <= 0 {
		return
	}

	bw := constants.ChoiceButtonWidth
	if bw > t.width-4 {
		bw = t.width - 4
	}
	if bw < 4 {
		bw = t.width
	}

	spacing := 2
	if n*2-1 > area.h {
		spacing = 1
	}
	total := (n-1)*spacing + 1
	y := area.y + (area.h-total)/2
	if y < area.y {
		y = area.y
	}
	x := centerX(t.width, bw)

	for i, b := range t.buttons {
		r := rect{x, y + i*spacing, bw, 1}
		t.buttonRects = append(t.buttonRects, r)
		if r.y >= t.height {
			continue
		}

		label := b.Label
		if i < constants.MaxNumberedChoices {
			label = fmt.Sprintf("%d. %s", i+1, label)
		}
		label = Truncate(label, bw-2)

		style := ButtonStyle(b, i == t.focus)
		t.fill(r, style)
		t.drawString(x+centerX(bw, StringWidth(label)), r.y, x+bw, label, style)
	}
}

func (t *TerminalSurface) drawToast() {
	msg := " " + t.toast + " "
	y := constants.StatusBarHeight + 1
	if t.modes.Title || t.modes.HiddenUI {
		y = 1
	}
	style := tcell.StyleDefault.Background(RgbToastBg).Foreground(RgbToastFg).Bold(true)
	t.drawString(centerX(t.width, StringWidth(msg)), y, t.width, msg, style)
}

func (t *TerminalSurface) drawFailure(bg tcell.Style) {
	y := t.height / 2
	msg := t.failure
	t.drawString(centerX(t.width, StringWidth(msg)), y, t.width, msg, bg.Foreground(RgbFailureFg).Bold(true))
	hint := constants.QuitHint
	t.drawString(centerX(t.width, StringWidth(hint)), y+2, t.width, hint, bg.Foreground(RgbArtLabel))
}

// drawString writes s starting at x, stopping before maxX; returns the next free column
func (t *TerminalSurface) drawString(x, y, maxX int, s string, style tcell.Style) int {
	if y < 0 || y >= t.height {
		return x
	}
	if maxX > t.width {
		maxX = t.width
	}
	for _, c := range clusters(s) {
		if c.width == 0 {
			continue
		}
		if x+c.width > maxX {
			break
		}
		runes := []rune(c.text)
		t.screen.SetContent(x, y, runes[0], runes[1:], style)
		x += c.width
	}
	return x
}

func (t *TerminalSurface) fill(r rect, style tcell.Style) {
	for y := r.y; y < r.y+r.h && y < t.height; y++ {
		for x := r.x; x < r.x+r.w && x < t.width; x++ {
			t.screen.SetContent(x, y, ' ', nil, style)
		}
	}
}

func (t *TerminalSurface) drawBorder(r rect, style tcell.Style) {
	if r.w < 2 || r.h < 2 {
		return
	}
	right, bottom := r.x+r.w-1, r.y+r.h-1
	for x := r.x + 1; x < right; x++ {
		t.screen.SetContent(x, r.y, '─', nil, style)
		t.screen.SetContent(x, bottom, '─', nil, style)
	}
	for y := r.y + 1; y < bottom; y++ {
		t.screen.SetContent(r.x, y, '│', nil, style)
		t.screen.SetContent(right, y, '│', nil, style)
	}
	t.screen.SetContent(r.x, r.y, '╭', nil, style)
	t.screen.SetContent(right, r.y, '╮', nil, style)
	t.screen.SetContent(r.x, bottom, '╰', nil, style)
	t.screen.SetContent(right, bottom, '╯', nil, style)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
