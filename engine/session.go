// Package engine runs the scene, dialogue and choice state machine of the player.
// A Session is driven from a single goroutine through EnterScene, Tap, Select and Tick;
// all timers are deadlines against the injected TimeProvider.
package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lixenwraith/vi-novel/condition"
	"github.com/lixenwraith/vi-novel/constants"
	"github.com/lixenwraith/vi-novel/story"
)

// Options wires a session to its collaborators; nil fields get inert defaults
type Options struct {
	Scenes     SceneSource
	Endings    Endings
	Surface    Surface
	Navigator  Navigator
	Sound      Sound
	Clock      TimeProvider
	Logger     *zap.Logger
	Conditions *condition.Cache
	Timing     Timing
}

// Session holds all mutable player state
type Session struct {
	id         string
	scenes     SceneSource
	endings    Endings
	surface    Surface
	navigator  Navigator
	sound      Sound
	clock      TimeProvider
	logger     *zap.Logger
	conditions *condition.Cache
	timing     Timing

	phase    Phase
	scene    *story.Scene
	modes    Modes
	style    DialogueStyle
	speed    time.Duration
	affinity Affinity

	queue []string
	tw    Typewriter

	settleUntil time.Time
	armed       tapAction
	locked      []bool

	toastVisible bool
	toastUntil   time.Time
}

// NewSession creates an idle session; Scenes, Endings and Surface are required
func NewSession(opts Options) *Session {
	if opts.Navigator == nil {
		opts.Navigator = nopNavigator{}
	}
	if opts.Sound == nil {
		opts.Sound = nopSound{}
	}
	if opts.Clock == nil {
		opts.Clock = NewMonotonicTimeProvider()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Conditions == nil {
		opts.Conditions = condition.NewCache()
	}
	if opts.Timing == (Timing{}) {
		opts.Timing = DefaultTiming()
	}

	id := uuid.NewString()
	return &Session{
		id:         id,
		scenes:     opts.Scenes,
		endings:    opts.Endings,
		surface:    opts.Surface,
		navigator:  opts.Navigator,
		sound:      opts.Sound,
		clock:      opts.Clock,
		logger:     opts.Logger.With(zap.String("session_id", id)),
		conditions: opts.Conditions,
		timing:     opts.Timing,
		speed:      opts.Timing.SpeedNormal,
	}
}

func (s *Session) ID() string              { return s.id }
func (s *Session) Phase() Phase            { return s.phase }
func (s *Session) Scene() *story.Scene     { return s.scene }
func (s *Session) Modes() Modes            { return s.modes }
func (s *Session) Style() DialogueStyle    { return s.style }
func (s *Session) Speed() time.Duration    { return s.speed }
func (s *Session) Affinity() Affinity      { return s.affinity }
func (s *Session) QueuedChunks() int       { return len(s.queue) }
func (s *Session) Typewriter() *Typewriter { return &s.tw }

// EnterScene transitions to scene id. An unknown id is logged and leaves the session unchanged.
func (s *Session) EnterScene(id string) bool {
	sc, ok := s.scenes.Scene(id)
	if !ok {
		s.logger.Error("scene not found", zap.String("scene_id", id))
		return false
	}

	s.teardown()
	s.scene = sc

	if constants.IsResetScene(id) {
		s.affinity.Reset()
	}

	idx, newly := s.endings.Unlock(id)

	s.hideToast()
	if newly {
		s.showToast(fmt.Sprintf(constants.UnlockToastFormat, idx, constants.EndingCount))
		s.sound.Unlock()
	}

	s.applyVisuals(sc)

	s.modes = Modes{
		Title:    sc.IsTitle,
		HiddenUI: sc.HideUI,
		Gallery:  id == constants.SceneGallery,
	}
	s.surface.SetModes(s.modes)

	s.style, s.speed = ResolveStyle(sc.Speaker, s.timing)
	s.surface.SetDialogueStyle(s.style)
	s.surface.SetAffinity(s.affinity)

	s.logger.Debug("scene entered",
		zap.String("scene_id", id),
		zap.Int("idealism", s.affinity.Idealism),
		zap.Int("alienation", s.affinity.Alienation))

	s.surface.SetDialogueText("", false)

	if s.modes.Gallery {
		s.surface.ShowGallery(s.endings.Gallery())
		s.present()
		return true
	}

	s.queue = story.SplitChunks(sc.Text)
	s.advance()
	return true
}

// teardown drops every pending interaction of the previous scene
func (s *Session) teardown() {
	s.tw.Stop()
	s.queue = nil
	s.locked = nil
	s.armed = actionNone
	s.settleUntil = time.Time{}
	s.phase = PhaseIdle
	s.surface.ShowChoices(nil)
	s.surface.ShowMore(false)
}

func (s *Session) applyVisuals(sc *story.Scene) {
	if sc.BackgroundImage != "" {
		s.surface.SetBackground(sc.BackgroundImage)
	}
	if strings.TrimSpace(sc.CharacterImage) == "" {
		s.surface.SetCharacter("")
	} else {
		s.surface.SetCharacter(sc.CharacterImage)
	}
}

// advance plays the next queued chunk, or presents the choices when none remain
func (s *Session) advance() {
	s.surface.ShowMore(false)

	if len(s.queue) == 0 {
		s.present()
		return
	}

	chunk := s.queue[0]
	s.queue = s.queue[1:]

	s.phase = PhaseTyping
	s.surface.SetDialogueText("", true)
	s.tw.Play(chunk, s.speed, s.clock.Now(), s.chunkDone)
}

// chunkDone is the typewriter completion for every chunk
func (s *Session) chunkDone() {
	s.surface.SetDialogueText(s.tw.Text(), false)

	if len(s.queue) > 0 {
		s.phase = PhaseAwaitingAdvance
		if s.style.Class != StyleChapter {
			s.surface.ShowMore(true)
		}
		return
	}
	s.present()
}

// present resolves how the scene's choices are offered. First match wins:
// title, hidden UI, gallery, single ellipsis, buttons.
func (s *Session) present() {
	choices := s.scene.Choices

	switch {
	case s.modes.Title:
		s.settle(s.timing.SettleTitle, actionExecuteFirst)

	case s.modes.HiddenUI:
		s.settle(s.timing.SettleHiddenUI, actionExecuteFirst)

	case s.modes.Gallery:
		s.showButtons()

	case len(choices) == 1 && choices[0].Text == constants.EllipsisChoice:
		if s.style.Class != StyleChapter {
			s.surface.ShowMore(true)
		}
		s.settle(s.timing.SettleEllipsis, actionExecuteFirst)

	default:
		if s.style.Class != StyleChapter && len(choices) > 0 {
			s.surface.ShowMore(true)
		}
		s.settle(s.timing.SettleDefault, actionShowButtons)
	}
}

// settle ignores taps for d, then arms action; a scene without choices ends instead
func (s *Session) settle(d time.Duration, action tapAction) {
	if len(s.scene.Choices) == 0 {
		action = actionNone
	}
	s.armed = action
	s.phase = PhaseSettling
	s.settleUntil = s.clock.Now().Add(d)
	if d <= 0 {
		s.settled()
	}
}

func (s *Session) settled() {
	s.settleUntil = time.Time{}
	if s.armed == actionNone {
		s.phase = PhaseEnded
		s.surface.ShowMore(false)
		return
	}
	s.phase = PhaseAwaitingTap
}

// showButtons evaluates every condition and renders the choice buttons
func (s *Session) showButtons() {
	s.surface.ShowMore(false)

	choices := s.scene.Choices
	if len(choices) == 0 {
		s.phase = PhaseEnded
		return
	}

	buttons := make([]Button, len(choices))
	s.locked = make([]bool, len(choices))
	for i, c := range choices {
		locked := !s.conditionMet(c.Condition)
		s.locked[i] = locked
		label := c.Text
		if locked {
			label = constants.LockedChoicePrefix + label
		}
		buttons[i] = Button{Label: label, Locked: locked}
	}
	s.phase = PhaseChoosing
	s.surface.ShowChoices(buttons)
}

// conditionMet evaluates expr against the counters; any failure counts as unmet
func (s *Session) conditionMet(expr string) bool {
	ok, err := s.conditions.Evaluate(expr, s.affinity.Vars())
	if err != nil {
		s.logger.Warn("condition failed",
			zap.String("scene_id", s.scene.ID),
			zap.String("expr", expr),
			zap.Error(err))
		return false
	}
	return ok
}

// Tap is the generic advance input (click, space, enter)
func (s *Session) Tap() {
	switch s.phase {
	case PhaseTyping:
		s.tw.ForceComplete()
	case PhaseAwaitingAdvance:
		s.advance()
	case PhaseAwaitingTap:
		switch s.armed {
		case actionExecuteFirst:
			s.execute(s.scene.Choices[0])
		case actionShowButtons:
			s.showButtons()
		}
	}
}

// Select activates button i while choices are shown; out-of-range indexes are ignored
func (s *Session) Select(i int) {
	if s.phase != PhaseChoosing || i < 0 || i >= len(s.scene.Choices) {
		return
	}

	c := s.scene.Choices[i]
	if s.locked[i] {
		hint := c.Hint
		if hint == "" {
			hint = constants.LockedHintFallback
		}
		s.showToast(hint)
		s.sound.Locked()
		return
	}
	s.execute(c)
}

// execute applies a choice: deltas first, then the link or transition
func (s *Session) execute(c story.Choice) {
	s.affinity.Apply(c.AttributeChanges)
	s.surface.SetAffinity(s.affinity)

	next := c.NextSceneID
	switch {
	case next == "":
		return
	case c.IsExternal():
		if err := s.navigator.Open(next); err != nil {
			s.logger.Error("open link failed", zap.String("url", next), zap.Error(err))
		}
	default:
		s.EnterScene(next)
	}
}

// Tick advances every deadline against the clock; call once per frame
func (s *Session) Tick() {
	now := s.clock.Now()

	if s.tw.Tick(now) {
		s.sound.Blip()
		if s.tw.Typing() {
			s.surface.SetDialogueText(s.tw.Text(), true)
		}
	}

	if s.phase == PhaseSettling && !now.Before(s.settleUntil) {
		s.settled()
	}

	if s.toastVisible && !now.Before(s.toastUntil) {
		s.hideToast()
	}
}

// ChoiceLocked reports whether button i is shown locked
func (s *Session) ChoiceLocked(i int) bool {
	if i < 0 || i >= len(s.locked) {
		return false
	}
	return s.locked[i]
}

// ChoiceCount is the number of buttons currently shown
func (s *Session) ChoiceCount() int {
	if s.phase != PhaseChoosing {
		return 0
	}
	return len(s.locked)
}

func (s *Session) showToast(msg string) {
	s.toastVisible = true
	s.toastUntil = s.clock.Now().Add(s.timing.Toast)
	s.surface.ShowToast(msg)
}

func (s *Session) hideToast() {
	s.toastVisible = false
	s.toastUntil = time.Time{}
	s.surface.HideToast()
}

// ToastVisible reports whether a notification is on screen
func (s *Session) ToastVisible() bool { return s.toastVisible }
