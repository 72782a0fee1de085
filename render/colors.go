package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/vi-novel/engine"
)

// RGB color definitions
var (
	RgbBackground  = tcell.NewRGBColor(26, 27, 38)    // Tokyo Night background
	RgbArtFrame    = tcell.NewRGBColor(65, 72, 104)   // Muted frame
	RgbArtLabel    = tcell.NewRGBColor(120, 124, 153) // Dim asset label
	RgbDialogueBg  = tcell.NewRGBColor(22, 22, 30)    // Dialogue box fill
	RgbDialogueFg  = tcell.NewRGBColor(192, 202, 245) // Body text
	RgbBorder      = tcell.NewRGBColor(122, 162, 247) // Box border
	RgbNameTagBg   = tcell.NewRGBColor(122, 162, 247) // Speaker tag
	RgbNameTagFg   = tcell.NewRGBColor(26, 27, 38)
	RgbThoughtFg   = tcell.NewRGBColor(169, 177, 214) // Inner monologue, italic
	RgbSystemFg    = tcell.NewRGBColor(125, 207, 255) // System messages
	RgbAlertFg     = tcell.NewRGBColor(247, 118, 142) // System warnings
	RgbChapterFg   = tcell.NewRGBColor(240, 192, 64)  // Chapter cards
	RgbIndicator   = tcell.NewRGBColor(240, 192, 64)  // More indicator and cursor
	RgbStatusBarBg = tcell.NewRGBColor(36, 40, 59)
	RgbStatusText  = tcell.NewRGBColor(169, 177, 214)
	RgbIdealism    = tcell.NewRGBColor(158, 206, 106) // Green counter
	RgbAlienation  = tcell.NewRGBColor(187, 154, 247) // Purple counter

	RgbButtonBg        = tcell.NewRGBColor(41, 46, 66)
	RgbButtonFg        = tcell.NewRGBColor(192, 202, 245)
	RgbButtonFocusBg   = tcell.NewRGBColor(122, 162, 247)
	RgbButtonFocusFg   = tcell.NewRGBColor(26, 27, 38)
	RgbButtonLockedFg  = tcell.NewRGBColor(86, 95, 137)
	RgbToastBg         = tcell.NewRGBColor(240, 192, 64)
	RgbToastFg         = tcell.NewRGBColor(26, 27, 38)
	RgbGalleryUnlocked = tcell.NewRGBColor(240, 192, 64)
	RgbGalleryLocked   = tcell.NewRGBColor(86, 95, 137)
	RgbFailureFg       = tcell.NewRGBColor(247, 118, 142)
)

// TextStyle returns the dialogue body style for a speaker class
func TextStyle(style engine.DialogueStyle) tcell.Style {
	base := tcell.StyleDefault.Background(RgbDialogueBg).Foreground(RgbDialogueFg)
	switch style.Class {
	case engine.StyleThought:
		return base.Foreground(RgbThoughtFg).Italic(true)
	case engine.StyleSystem:
		if style.Alert {
			return base.Foreground(RgbAlertFg).Bold(true)
		}
		return base.Foreground(RgbSystemFg)
	case engine.StyleChapter:
		return base.Foreground(RgbChapterFg).Bold(true)
	}
	return base
}

// ButtonStyle returns the style of a choice button
func ButtonStyle(b engine.Button, focused bool) tcell.Style {
	style := tcell.StyleDefault.Background(RgbButtonBg).Foreground(RgbButtonFg)
	if b.Locked {
		style = style.Foreground(RgbButtonLockedFg)
	}
	if focused {
		style = style.Background(RgbButtonFocusBg).Foreground(RgbButtonFocusFg)
		if b.Locked {
			style = style.Foreground(RgbButtonLockedFg)
		}
	}
	return style
}
