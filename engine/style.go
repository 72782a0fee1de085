package engine

import (
	"strings"
	"time"

	"github.com/lixenwraith/vi-novel/constants"
)

// StyleClass selects how the dialogue box is decorated
type StyleClass uint8

const (
	StyleNone StyleClass = iota
	StylePlain
	StyleThought
	StyleSystem
	StyleChapter
)

func (c StyleClass) String() string {
	switch c {
	case StylePlain:
		return "plain"
	case StyleThought:
		return "thought"
	case StyleSystem:
		return "system"
	case StyleChapter:
		return "chapter"
	}
	return "none"
}

// DialogueStyle is the resolved speaker presentation
type DialogueStyle struct {
	Class StyleClass
	Label string // name tag; empty hides it
	Alert bool   // system warning icon
}

// ResolveStyle maps a speaker to its style and reveal interval
func ResolveStyle(speaker string, t Timing) (DialogueStyle, time.Duration) {
	switch speaker {
	case "":
		return DialogueStyle{}, t.SpeedNormal
	case constants.SpeakerChapter:
		return DialogueStyle{Class: StyleChapter}, t.SpeedChapter
	case constants.SpeakerSystem:
		return DialogueStyle{Class: StyleSystem}, t.SpeedSystem
	case constants.SpeakerSystemAlert:
		return DialogueStyle{Class: StyleSystem, Alert: true}, t.SpeedSystem
	}

	for _, marker := range constants.ThoughtMarkers {
		if strings.Contains(speaker, marker) {
			return DialogueStyle{Class: StyleThought, Label: speaker}, t.SpeedNormal
		}
	}
	return DialogueStyle{Class: StylePlain, Label: speaker}, t.SpeedNormal
}

// Timing holds every pacing value a session uses
type Timing struct {
	SpeedNormal  time.Duration
	SpeedSystem  time.Duration
	SpeedChapter time.Duration

	SettleTitle    time.Duration
	SettleHiddenUI time.Duration
	SettleEllipsis time.Duration
	SettleDefault  time.Duration

	Toast time.Duration
}

// DefaultTiming returns the built-in pacing
func DefaultTiming() Timing {
	return Timing{
		SpeedNormal:    constants.SpeedNormal,
		SpeedSystem:    constants.SpeedSystem,
		SpeedChapter:   constants.SpeedChapter,
		SettleTitle:    constants.SettleTitle,
		SettleHiddenUI: constants.SettleHiddenUI,
		SettleEllipsis: constants.SettleEllipsis,
		SettleDefault:  constants.SettleDefault,
		Toast:          constants.ToastDuration,
	}
}
