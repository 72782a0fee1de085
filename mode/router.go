// Package mode routes parsed input intents to the story session and the choice view.
package mode

import (
	"go.uber.org/zap"

	"github.com/lixenwraith/vi-novel/engine"
	"github.com/lixenwraith/vi-novel/input"
)

// ChoiceView is the part of the surface that owns button geometry and focus
type ChoiceView interface {
	// ButtonAt returns the index of the button covering cell x,y
	ButtonAt(x, y int) (int, bool)
	MoveFocus(delta int)
	Focused() (int, bool)
	Resize()
}

// Muter toggles sound output and reports the new muted state
type Muter interface {
	ToggleMute() bool
}

// Router interprets Intents and drives the session
// Authoritative owner of the input machine mode
type Router struct {
	session *engine.Session
	view    ChoiceView
	machine *input.Machine
	muter   Muter
	logger  *zap.Logger
}

// NewRouter creates a router; a nil session halts story input so only quit works
func NewRouter(session *engine.Session, view ChoiceView, machine *input.Machine, muter Muter, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Router{
		session: session,
		view:    view,
		machine: machine,
		muter:   muter,
		logger:  logger.Named("router"),
	}
	r.Sync()
	return r
}

// Handle processes an Intent and returns false if the player should exit
func (r *Router) Handle(intent *input.Intent) bool {
	if intent == nil {
		return true
	}

	switch intent.Type {
	// System
	case input.IntentQuit:
		return false
	case input.IntentToggleMute:
		r.handleToggleMute()
		return true
	case input.IntentResize:
		r.view.Resize()
		return true
	}

	if r.session == nil {
		return true
	}

	switch intent.Type {
	case input.IntentTap:
		r.session.Tap()
	case input.IntentSelect:
		r.session.Select(intent.Index)
	case input.IntentFocus:
		r.view.MoveFocus(intent.Delta)
	case input.IntentConfirm:
		if i, ok := r.view.Focused(); ok {
			r.session.Select(i)
		}
	case input.IntentClick:
		r.handleClick(intent.X, intent.Y)
	}

	r.Sync()
	return true
}

// handleClick selects the clicked button, or taps when the click misses every button
func (r *Router) handleClick(x, y int) {
	if r.session.Phase() == engine.PhaseChoosing {
		if i, ok := r.view.ButtonAt(x, y); ok {
			r.session.Select(i)
		}
		return
	}
	r.session.Tap()
}

func (r *Router) handleToggleMute() {
	if r.muter == nil {
		return
	}
	muted := r.muter.ToggleMute()
	r.logger.Debug("sound toggled", zap.Bool("muted", muted))
}

// Sync aligns the input machine mode with the session phase
// Called after every intent and once per frame, since timers also move the phase
func (r *Router) Sync() {
	mode := input.ModeHalted
	if r.session != nil {
		mode = input.ModeDialogue
		if r.session.Phase() == engine.PhaseChoosing {
			mode = input.ModeChoice
		}
	}
	if r.machine.Mode() != mode {
		r.machine.SetMode(mode)
	}
}
