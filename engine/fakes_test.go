package engine

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/lixenwraith/vi-novel/ending"
	"github.com/lixenwraith/vi-novel/save"
	"github.com/lixenwraith/vi-novel/story"
)

// recordingSurface keeps the latest value of every surface field plus a call log
type recordingSurface struct {
	calls []string

	background string
	character  string
	modes      Modes
	style      DialogueStyle
	text       string
	typing     bool
	more       bool
	buttons    []Button
	gallery    []ending.Entry
	toast      string
	toastOn    bool
	affinity   Affinity
	failure    string

	typingWrites int
}

func (r *recordingSurface) log(format string, args ...any) {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

func (r *recordingSurface) SetBackground(ref string) { r.background = ref; r.log("bg:%s", ref) }
func (r *recordingSurface) SetCharacter(ref string)  { r.character = ref; r.log("char:%s", ref) }
func (r *recordingSurface) SetModes(m Modes)         { r.modes = m; r.log("modes") }
func (r *recordingSurface) SetDialogueStyle(s DialogueStyle) {
	r.style = s
	r.log("style:%s", s.Class)
}
func (r *recordingSurface) SetDialogueText(text string, typing bool) {
	r.text, r.typing = text, typing
	if typing {
		r.typingWrites++
	}
}
func (r *recordingSurface) ShowMore(v bool)           { r.more = v }
func (r *recordingSurface) ShowChoices(b []Button)    { r.buttons = b; r.log("choices:%d", len(b)) }
func (r *recordingSurface) ShowGallery(e []ending.Entry) { r.gallery = e; r.log("gallery") }
func (r *recordingSurface) ShowToast(msg string) {
	r.toast, r.toastOn = msg, true
	r.log("toast:%s", msg)
}
func (r *recordingSurface) HideToast()               { r.toastOn = false; r.log("hide_toast") }
func (r *recordingSurface) SetAffinity(a Affinity)   { r.affinity = a }
func (r *recordingSurface) ShowLoadFailure(m string) { r.failure = m }

type countingSound struct {
	blips, unlocks, locked int
}

func (c *countingSound) Blip()   { c.blips++ }
func (c *countingSound) Unlock() { c.unlocks++ }
func (c *countingSound) Locked() { c.locked++ }

type recordingNavigator struct {
	urls []string
	err  error
}

func (n *recordingNavigator) Open(url string) error {
	n.urls = append(n.urls, url)
	return n.err
}

type fixture struct {
	session  *Session
	surface  *recordingSurface
	clock    *MockTimeProvider
	sound    *countingSound
	nav      *recordingNavigator
	registry *ending.Registry
	store    *story.Store
	logs     *observer.ObservedLogs
}

func newFixture(t *testing.T, doc string) *fixture {
	t.Helper()

	st, err := story.Parse([]byte(doc))
	require.NoError(t, err)
	return newFixtureFromStore(t, st)
}

func newFixtureFromStore(t *testing.T, st *story.Store) *fixture {
	t.Helper()

	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)

	f := &fixture{
		surface: &recordingSurface{},
		clock:   NewMockTimeProvider(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),
		sound:   &countingSound{},
		nav:     &recordingNavigator{},
		store:   st,
		logs:    logs,
	}
	f.registry = ending.NewRegistry(context.Background(), save.NewMemoryStore(), logger)
	f.session = NewSession(Options{
		Scenes:    st,
		Endings:   f.registry,
		Surface:   f.surface,
		Navigator: f.nav,
		Sound:     f.sound,
		Clock:     f.clock,
		Logger:    logger,
	})
	return f
}

// wait advances the clock and runs one frame
func (f *fixture) wait(d time.Duration) {
	f.clock.Advance(d)
	f.session.Tick()
}

// settleAll runs frames until the session stops typing or settling
func (f *fixture) settleAll() {
	for i := 0; i < 100; i++ {
		p := f.session.Phase()
		if p != PhaseTyping && p != PhaseSettling {
			return
		}
		f.wait(time.Second)
	}
}
