package render

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/vi-novel/constants"
	"github.com/lixenwraith/vi-novel/engine"
	"github.com/lixenwraith/vi-novel/ending"
)

func newTestSurface(t *testing.T) (*TerminalSurface, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(80, 24)
	t.Cleanup(screen.Fini)
	return NewTerminalSurface(screen), screen
}

// rowText reads one screen row, skipping the trailing cell of wide characters
func rowText(screen tcell.Screen, y int) string {
	w, _ := screen.Size()
	var b strings.Builder
	for x := 0; x < w; {
		mainc, combc, _, width := screen.GetContent(x, y)
		b.WriteRune(mainc)
		for _, r := range combc {
			b.WriteRune(r)
		}
		if width < 1 {
			width = 1
		}
		x += width
	}
	return b.String()
}

func screenText(screen tcell.Screen) string {
	_, h := screen.Size()
	rows := make([]string, h)
	for y := range rows {
		rows[y] = rowText(screen, y)
	}
	return strings.Join(rows, "\n")
}

func TestDraw_DialogueAndStatusBar(t *testing.T) {
	s, screen := newTestSurface(t)
	s.SetBackground("bg_room")
	s.SetCharacter("fred_idle")
	s.SetAffinity(engine.Affinity{Idealism: 2, Alienation: 1})
	s.SetDialogueStyle(engine.DialogueStyle{Class: engine.StylePlain, Label: "佛瑞德"})
	s.SetDialogueText("你好", false)
	s.ShowMore(true)
	s.Draw()

	status := rowText(screen, 0)
	assert.Contains(t, status, "bg_room")
	assert.Contains(t, status, "fred_idle")
	assert.Contains(t, status, constants.StatusIdealism+" 2")
	assert.Contains(t, status, constants.StatusAlienation+" 1")

	text := screenText(screen)
	assert.Contains(t, text, "佛瑞德")
	assert.Contains(t, text, "你好")
	assert.Contains(t, text, string(constants.MoreIndicator))
}

func TestDraw_TypingCursor(t *testing.T) {
	s, screen := newTestSurface(t)
	s.SetDialogueStyle(engine.DialogueStyle{Class: engine.StylePlain})
	s.SetDialogueText("abc", true)
	s.Draw()
	assert.Contains(t, screenText(screen), "abc"+string(constants.TypingCursor))
}

func TestDraw_AlertPrefix(t *testing.T) {
	s, screen := newTestSurface(t)
	s.SetDialogueStyle(engine.DialogueStyle{Class: engine.StyleSystem, Label: "系統", Alert: true})
	s.SetDialogueText("warning", false)
	s.Draw()
	assert.Contains(t, screenText(screen), constants.AlertIcon+"warning")
}

func TestDraw_TitleHidesStatusBar(t *testing.T) {
	s, screen := newTestSurface(t)
	s.SetBackground("bg_cover")
	s.SetModes(engine.Modes{Title: true})
	s.SetDialogueText("COVER", false)
	s.Draw()

	assert.NotContains(t, rowText(screen, 0), "bg_cover")
	text := screenText(screen)
	assert.Contains(t, text, "COVER")
	assert.Contains(t, text, "點擊或按空白鍵繼續")
}

func TestDraw_TitleHintHiddenWhileTyping(t *testing.T) {
	s, screen := newTestSurface(t)
	s.SetModes(engine.Modes{Title: true})
	s.SetDialogueText("COV", true)
	s.Draw()
	assert.NotContains(t, screenText(screen), "點擊或按空白鍵繼續")
}

func TestDraw_HiddenUIHasNoDialogueBox(t *testing.T) {
	s, screen := newTestSurface(t)
	s.SetModes(engine.Modes{HiddenUI: true})
	s.SetBackground("bg_black")
	s.Draw()

	text := screenText(screen)
	assert.NotContains(t, text, "╭")
	assert.NotContains(t, text, constants.StatusIdealism)
}

func TestButtons_HitTestAndFocus(t *testing.T) {
	s, screen := newTestSurface(t)
	s.ShowChoices([]engine.Button{
		{Label: "one"},
		{Label: constants.LockedChoicePrefix + "two", Locked: true},
		{Label: "three"},
	})
	s.Draw()

	text := screenText(screen)
	assert.Contains(t, text, "1. one")
	assert.Contains(t, text, "3. three")

	require.Len(t, s.buttonRects, 3)
	for i, r := range s.buttonRects {
		got, ok := s.ButtonAt(r.x, r.y)
		assert.True(t, ok)
		assert.Equal(t, i, got)
		got, ok = s.ButtonAt(r.x+r.w-1, r.y)
		assert.True(t, ok)
		assert.Equal(t, i, got)
	}
	_, ok := s.ButtonAt(0, 0)
	assert.False(t, ok)

	focused := func() int {
		i, ok := s.Focused()
		if !ok {
			return -1
		}
		return i
	}
	assert.Equal(t, -1, focused())
	s.MoveFocus(1)
	assert.Equal(t, 0, focused())
	s.MoveFocus(-1)
	assert.Equal(t, 2, focused())
	s.MoveFocus(1)
	assert.Equal(t, 0, focused())

	s.ShowChoices(nil)
	assert.Equal(t, -1, focused())
	s.MoveFocus(1)
	assert.Equal(t, -1, focused())
	s.Draw()
	assert.Empty(t, s.buttonRects)
}

func TestMoveFocus_FromNoneBackwards(t *testing.T) {
	s, _ := newTestSurface(t)
	s.ShowChoices([]engine.Button{{Label: "a"}, {Label: "b"}})
	s.MoveFocus(-1)
	i, ok := s.Focused()
	assert.True(t, ok)
	assert.Equal(t, 1, i)
}

func TestDraw_Gallery(t *testing.T) {
	s, screen := newTestSurface(t)
	s.SetModes(engine.Modes{Gallery: true})
	s.ShowGallery([]ending.Entry{
		{Info: ending.Catalog[0], Unlocked: true},
		{Info: ending.Catalog[1]},
	})
	s.ShowChoices([]engine.Button{{Label: "back"}})
	s.Draw()

	text := screenText(screen)
	assert.Contains(t, text, constants.GalleryHeader)
	assert.Contains(t, text, ending.Catalog[0].Title)
	assert.Contains(t, text, constants.GalleryUnknown)
	assert.NotContains(t, text, ending.Catalog[1].Title)
	assert.Contains(t, text, "1. back")
}

func TestDraw_Toast(t *testing.T) {
	s, screen := newTestSurface(t)
	s.ShowToast("已解鎖結局 1/4")
	s.Draw()
	assert.Contains(t, screenText(screen), "已解鎖結局 1/4")

	s.HideToast()
	s.Draw()
	assert.NotContains(t, screenText(screen), "已解鎖結局")
}

func TestDraw_LoadFailure(t *testing.T) {
	s, screen := newTestSurface(t)
	s.SetDialogueText("ignored", false)
	s.ShowLoadFailure(constants.LoadFailureMessage)
	s.Draw()

	text := screenText(screen)
	assert.Contains(t, text, constants.LoadFailureMessage)
	assert.NotContains(t, text, "ignored")
}

func TestDraw_LongTextKeepsTail(t *testing.T) {
	s, screen := newTestSurface(t)
	var lines []string
	for i := 0; i < 20; i++ {
		lines = append(lines, "line"+string(rune('a'+i)))
	}
	s.SetDialogueText(strings.Join(lines, "\n"), false)
	s.Draw()

	text := screenText(screen)
	assert.Contains(t, text, "linet")
	assert.NotContains(t, text, "linea")
}

func TestDraw_SmallScreen(t *testing.T) {
	s, screen := newTestSurface(t)
	screen.SetSize(10, 4)
	s.Resize()
	s.SetDialogueText("some text that is long", false)
	s.ShowChoices([]engine.Button{{Label: "a"}, {Label: "b"}})
	assert.NotPanics(t, s.Draw)

	s.SetModes(engine.Modes{Gallery: true})
	s.ShowGallery([]ending.Entry{{Info: ending.Catalog[0]}})
	assert.NotPanics(t, s.Draw)
}

func TestDraw_SkipsWhenClean(t *testing.T) {
	s, screen := newTestSurface(t)
	s.SetDialogueText("first", false)
	s.Draw()
	screen.SetContent(0, 0, 'X', nil, tcell.StyleDefault)
	s.Draw()
	mainc, _, _, _ := screen.GetContent(0, 0)
	assert.Equal(t, 'X', mainc)
}
