package engine

import (
	"github.com/lixenwraith/vi-novel/ending"
	"github.com/lixenwraith/vi-novel/story"
)

// Modes are the scene-level display switches
type Modes struct {
	Title    bool // cover page, dialogue replaced by a centered title
	HiddenUI bool // art only, dialogue box hidden
	Gallery  bool // ending collection grid
}

// Button is one rendered choice; clicks come back through Session.Select by index
type Button struct {
	Label  string
	Locked bool
}

// Surface is the presentation side of a session.
// Calls are made from the session goroutine only.
type Surface interface {
	SetBackground(ref string)
	// SetCharacter shows the character art; an empty ref hides it
	SetCharacter(ref string)
	SetModes(m Modes)
	SetDialogueStyle(style DialogueStyle)
	// SetDialogueText replaces the dialogue text; typing marks a reveal in progress
	SetDialogueText(text string, typing bool)
	ShowMore(visible bool)
	// ShowChoices replaces the choice buttons; nil removes them
	ShowChoices(buttons []Button)
	ShowGallery(entries []ending.Entry)
	ShowToast(msg string)
	HideToast()
	SetAffinity(a Affinity)
	ShowLoadFailure(msg string)
}

// Navigator opens external links
type Navigator interface {
	Open(url string) error
}

// Sound plays short feedback cues
type Sound interface {
	Blip()
	Unlock()
	Locked()
}

// SceneSource resolves scene ids
type SceneSource interface {
	Scene(id string) (*story.Scene, bool)
}

// Endings records reached endings
type Endings interface {
	Unlock(sceneID string) (index int, newly bool)
	Gallery() []ending.Entry
}

type nopSound struct{}

func (nopSound) Blip()   {}
func (nopSound) Unlock() {}
func (nopSound) Locked() {}

type nopNavigator struct{}

func (nopNavigator) Open(string) error { return nil }
