package engine

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/vi-novel/story"
)

const testStory = `{"scenes":[
 {"scene_id":"Chapter_00_Title","is_title":true,"hide_ui":true,"bg_img":"cover.png","text":"封面",
  "choices":[{"text":"開始","next_scene_id":"Event_01"}]},
 {"scene_id":"Event_01","speaker":"佛瑞德","bg_img":"street.png","char_img":"fred.png","text":"第一段\n\n第二段",
  "choices":[{"text":"...","next_scene_id":"Choice"}]},
 {"scene_id":"Choice","speaker":"【系統】","char_img":"  ","text":"選擇","choices":[
  {"text":"理想","attribute_changes":{"idealism":3},"next_scene_id":"Gate"},
  {"text":"疏離","attribute_changes":{"alienation":-3},"next_scene_id":"Gate"}]},
 {"scene_id":"Gate","text":"","choices":[
  {"text":"真相","condition":"idealism >= 3 && alienation < 1","hint":"勇氣不足","next_scene_id":"Ending_04_True_End"},
  {"text":"沉默","condition":"idealism >==","next_scene_id":"Ending_03_Silent_End"},
  {"text":"等待","condition":"alienation > 5"},
  {"text":"留下","attribute_changes":{"idealism":1}},
  {"text":"連結","next_scene_id":"https://example.com"},
  {"text":"迷路","next_scene_id":"Nowhere"}]},
 {"scene_id":"Hidden","hide_ui":true,"bg_img":"flash.png","choices":[{"text":"next","next_scene_id":"Chapter"}]},
 {"scene_id":"Chapter","speaker":"【章節】","text":"第一章\n\n標題","choices":[{"text":"...","next_scene_id":"Event_01"}]},
 {"scene_id":"Ending_04_True_End","speaker":"【章節】","text":"真結局","choices":[{"text":"畫廊","next_scene_id":"Gallery_View"}]},
 {"scene_id":"Ending_03_Silent_End","text":"完"},
 {"scene_id":"Gallery_View","text":"不會顯示","choices":[{"text":"回到標題","next_scene_id":"Chapter_00_Title"}]}
]}`

// toButtons drives a default-mode scene until its buttons are visible
func (f *fixture) toButtons(t *testing.T) {
	t.Helper()
	f.settleAll()
	require.Equal(t, PhaseAwaitingTap, f.session.Phase())
	f.session.Tap()
	require.Equal(t, PhaseChoosing, f.session.Phase())
}

func TestSession_UnknownSceneLeavesStateUnchanged(t *testing.T) {
	f := newFixture(t, testStory)

	assert.False(t, f.session.EnterScene("Nope"))
	assert.Equal(t, PhaseIdle, f.session.Phase())
	assert.Nil(t, f.session.Scene())
	assert.Empty(t, f.surface.calls)
	assert.Equal(t, 1, f.logs.FilterMessage("scene not found").Len())

	require.True(t, f.session.EnterScene("Gate"))
	f.toButtons(t)
	assert.False(t, f.session.EnterScene("Nope"))
	assert.Equal(t, "Gate", f.session.Scene().ID)
	assert.Equal(t, PhaseChoosing, f.session.Phase())
	assert.Len(t, f.surface.buttons, 6)
}

func TestSession_VisualsAndStyle(t *testing.T) {
	f := newFixture(t, testStory)

	require.True(t, f.session.EnterScene("Event_01"))
	assert.Equal(t, "street.png", f.surface.background)
	assert.Equal(t, "fred.png", f.surface.character)
	assert.Equal(t, DialogueStyle{Class: StylePlain, Label: "佛瑞德"}, f.surface.style)
	assert.Equal(t, DefaultTiming().SpeedNormal, f.session.Speed())

	// background is kept when the next scene has none; blank character art hides it
	require.True(t, f.session.EnterScene("Choice"))
	assert.Equal(t, "street.png", f.surface.background)
	assert.Equal(t, "", f.surface.character)
	assert.Equal(t, StyleSystem, f.surface.style.Class)
	assert.Equal(t, DefaultTiming().SpeedSystem, f.session.Speed())
}

func TestSession_ChunkedDialogueAndEllipsis(t *testing.T) {
	f := newFixture(t, testStory)

	require.True(t, f.session.EnterScene("Event_01"))
	assert.Equal(t, PhaseTyping, f.session.Phase())
	assert.Equal(t, 1, f.session.QueuedChunks())
	assert.Equal(t, "", f.surface.text)
	assert.True(t, f.surface.typing)

	f.session.Tick()
	assert.Equal(t, "", f.surface.text)
	f.wait(40 * time.Millisecond)
	assert.Equal(t, "第", f.surface.text)
	f.wait(40 * time.Millisecond)
	assert.Equal(t, "第一", f.surface.text)
	assert.Equal(t, 2, f.sound.blips)

	// tap while typing completes the chunk and nothing else
	f.session.Tap()
	assert.Equal(t, "第一段", f.surface.text)
	assert.False(t, f.surface.typing)
	assert.Equal(t, PhaseAwaitingAdvance, f.session.Phase())
	assert.True(t, f.surface.more)

	f.session.Tap()
	assert.Equal(t, PhaseTyping, f.session.Phase())
	assert.False(t, f.surface.more)
	assert.Equal(t, "", f.surface.text)
	assert.Equal(t, 0, f.session.QueuedChunks())

	f.session.Tap()
	assert.Equal(t, "第二段", f.surface.text)
	assert.Equal(t, PhaseSettling, f.session.Phase())
	assert.True(t, f.surface.more)
	assert.Nil(t, f.surface.buttons, "ellipsis never renders a button")

	// taps inside the settle window are ignored
	f.session.Tap()
	assert.Equal(t, "Event_01", f.session.Scene().ID)

	f.wait(49 * time.Millisecond)
	assert.Equal(t, PhaseSettling, f.session.Phase())
	f.wait(time.Millisecond)
	assert.Equal(t, PhaseAwaitingTap, f.session.Phase())

	f.session.Tap()
	assert.Equal(t, "Choice", f.session.Scene().ID)
	assert.Equal(t, PhaseTyping, f.session.Phase())
}

func TestSession_NaturalCompletion(t *testing.T) {
	f := newFixture(t, testStory)
	require.True(t, f.session.EnterScene("Choice"))

	f.wait(80 * time.Millisecond)
	assert.Equal(t, "選", f.surface.text)
	f.wait(80 * time.Millisecond)
	assert.Equal(t, "選擇", f.surface.text)
	assert.False(t, f.surface.typing)
	assert.Equal(t, PhaseSettling, f.session.Phase())
	assert.True(t, f.surface.more)

	f.wait(50 * time.Millisecond)
	f.session.Tap()
	assert.Equal(t, PhaseChoosing, f.session.Phase())
	assert.False(t, f.surface.more)
	assert.Equal(t, []Button{{Label: "理想"}, {Label: "疏離"}}, f.surface.buttons)
}

func TestSession_ZeroChunkSceneSkipsTypewriter(t *testing.T) {
	f := newFixture(t, testStory)

	require.True(t, f.session.EnterScene("Gate"))
	assert.Equal(t, PhaseSettling, f.session.Phase())
	assert.False(t, f.session.Typewriter().Typing())
	assert.Equal(t, 0, f.surface.typingWrites)
	assert.Equal(t, "", f.surface.text)

	f.wait(50 * time.Millisecond)
	assert.Equal(t, PhaseAwaitingTap, f.session.Phase())
}

func TestSession_LockedAndUnlockedChoices(t *testing.T) {
	f := newFixture(t, testStory)
	require.True(t, f.session.EnterScene("Gate"))
	f.toButtons(t)

	require.Len(t, f.surface.buttons, 6)
	assert.Equal(t, Button{Label: "🔒 真相", Locked: true}, f.surface.buttons[0])
	assert.True(t, f.surface.buttons[1].Locked, "malformed condition locks")
	assert.True(t, f.surface.buttons[2].Locked)
	assert.False(t, f.surface.buttons[3].Locked)
	assert.Equal(t, 6, f.session.ChoiceCount())
	assert.True(t, f.session.ChoiceLocked(1))

	warn := f.logs.FilterMessage("condition failed").All()
	require.Len(t, warn, 1)
	assert.Equal(t, "idealism >==", warn[0].ContextMap()["expr"])

	f.session.Select(0)
	assert.Equal(t, "勇氣不足", f.surface.toast)
	assert.True(t, f.surface.toastOn)
	assert.Equal(t, 1, f.sound.locked)
	assert.Equal(t, "Gate", f.session.Scene().ID)
	assert.Equal(t, PhaseChoosing, f.session.Phase())

	f.session.Select(2)
	assert.Equal(t, "條件未達成", f.surface.toast)
	assert.Equal(t, 2, f.sound.locked)

	// no next scene: deltas apply, scene stays
	f.session.Select(3)
	assert.Equal(t, "Gate", f.session.Scene().ID)
	assert.Equal(t, Affinity{Idealism: 1}, f.session.Affinity())
	assert.Equal(t, Affinity{Idealism: 1}, f.surface.affinity)

	f.session.Select(4)
	assert.Equal(t, []string{"https://example.com"}, f.nav.urls)
	assert.Equal(t, "Gate", f.session.Scene().ID)

	f.session.Select(5)
	assert.Equal(t, "Gate", f.session.Scene().ID)
	assert.Equal(t, PhaseChoosing, f.session.Phase())

	f.session.Select(-1)
	f.session.Select(6)
	assert.Equal(t, "Gate", f.session.Scene().ID)
}

func TestSession_ConditionUnlocksAfterDeltas(t *testing.T) {
	f := newFixture(t, testStory)
	require.True(t, f.session.EnterScene("Choice"))
	f.toButtons(t)

	f.session.Select(0)
	assert.Equal(t, "Gate", f.session.Scene().ID)
	assert.Equal(t, Affinity{Idealism: 3}, f.session.Affinity())

	f.toButtons(t)
	assert.False(t, f.surface.buttons[0].Locked)
	assert.Equal(t, "真相", f.surface.buttons[0].Label)

	f.session.Select(0)
	assert.Equal(t, "Ending_04_True_End", f.session.Scene().ID)
}

func TestSession_SelectIgnoredOutsideChoosing(t *testing.T) {
	f := newFixture(t, testStory)
	require.True(t, f.session.EnterScene("Choice"))

	f.session.Select(0)
	assert.Equal(t, "Choice", f.session.Scene().ID)
	assert.Equal(t, 0, f.session.ChoiceCount())
}

func TestSession_UnclampedDeltas(t *testing.T) {
	f := newFixture(t, testStory)

	for i := 0; i < 3; i++ {
		require.True(t, f.session.EnterScene("Choice"))
		f.toButtons(t)
		f.session.Select(1)
	}
	assert.Equal(t, Affinity{Alienation: -9}, f.session.Affinity())
	assert.Equal(t, -9, f.surface.affinity.Alienation)
}

func TestSession_ResetScenes(t *testing.T) {
	f := newFixture(t, testStory)
	require.True(t, f.session.EnterScene("Choice"))
	f.toButtons(t)
	f.session.Select(0)
	require.Equal(t, 3, f.session.Affinity().Idealism)

	require.True(t, f.session.EnterScene("Hidden"))
	assert.Equal(t, 3, f.session.Affinity().Idealism, "non-reset scene keeps counters")

	require.True(t, f.session.EnterScene("Event_01"))
	assert.Equal(t, Affinity{}, f.session.Affinity())
	assert.Equal(t, Affinity{}, f.surface.affinity)
}

func TestSession_TitleTakesPriority(t *testing.T) {
	f := newFixture(t, testStory)
	require.True(t, f.session.EnterScene("Chapter_00_Title"))
	assert.Equal(t, Modes{Title: true, HiddenUI: true}, f.surface.modes)

	f.session.Tap()
	assert.Equal(t, PhaseSettling, f.session.Phase())
	assert.False(t, f.surface.more)

	f.session.Tap()
	f.wait(599 * time.Millisecond)
	assert.Equal(t, PhaseSettling, f.session.Phase())
	f.wait(time.Millisecond)
	assert.Equal(t, PhaseAwaitingTap, f.session.Phase())

	f.session.Tap()
	assert.Equal(t, "Event_01", f.session.Scene().ID)
	assert.Equal(t, Modes{}, f.surface.modes)
}

func TestSession_HiddenUIExecutesFirstChoice(t *testing.T) {
	f := newFixture(t, testStory)
	require.True(t, f.session.EnterScene("Hidden"))
	assert.Equal(t, Modes{HiddenUI: true}, f.surface.modes)
	assert.Equal(t, PhaseSettling, f.session.Phase())

	f.wait(600 * time.Millisecond)
	f.session.Tap()
	assert.Equal(t, "Chapter", f.session.Scene().ID)
}

func TestSession_ChapterHidesMoreIndicator(t *testing.T) {
	f := newFixture(t, testStory)
	require.True(t, f.session.EnterScene("Chapter"))
	assert.Equal(t, DefaultTiming().SpeedChapter, f.session.Speed())

	f.session.Tap()
	assert.Equal(t, PhaseAwaitingAdvance, f.session.Phase())
	assert.False(t, f.surface.more)

	f.session.Tap()
	f.session.Tap()
	assert.Equal(t, PhaseSettling, f.session.Phase())
	assert.False(t, f.surface.more)
}

func TestSession_StaleSettleDoesNotFire(t *testing.T) {
	f := newFixture(t, testStory)
	require.True(t, f.session.EnterScene("Gate"))
	require.True(t, f.session.EnterScene("Hidden"))

	f.wait(50 * time.Millisecond)
	assert.Equal(t, PhaseSettling, f.session.Phase())
	f.wait(550 * time.Millisecond)
	assert.Equal(t, PhaseAwaitingTap, f.session.Phase())
}

func TestSession_EnteringSceneStopsTypewriter(t *testing.T) {
	f := newFixture(t, testStory)
	require.True(t, f.session.EnterScene("Event_01"))
	f.session.Tick()

	require.True(t, f.session.EnterScene("Gate"))
	f.wait(time.Second)
	assert.Equal(t, "", f.surface.text)
	assert.Equal(t, "Gate", f.session.Scene().ID)
}

func TestSession_EndingUnlockToast(t *testing.T) {
	f := newFixture(t, testStory)
	require.True(t, f.session.EnterScene("Ending_04_True_End"))

	hide := slices.Index(f.surface.calls, "hide_toast")
	show := slices.Index(f.surface.calls, "toast:已解鎖結局 4/4")
	require.GreaterOrEqual(t, hide, 0)
	require.Greater(t, show, hide, "unlock notification survives the entry clear")
	assert.True(t, f.surface.toastOn)
	assert.Equal(t, 1, f.sound.unlocks)
	assert.True(t, f.session.ToastVisible())

	f.wait(2999 * time.Millisecond)
	assert.True(t, f.surface.toastOn)
	f.wait(time.Millisecond)
	assert.False(t, f.surface.toastOn)

	// already unlocked: no second notification
	require.True(t, f.session.EnterScene("Ending_04_True_End"))
	assert.False(t, f.surface.toastOn)
	assert.Equal(t, 1, f.sound.unlocks)
}

func TestSession_ToastRestartsOnReshow(t *testing.T) {
	f := newFixture(t, testStory)
	require.True(t, f.session.EnterScene("Gate"))
	f.toButtons(t)

	f.session.Select(0)
	f.wait(2 * time.Second)
	f.session.Select(0)
	f.wait(2 * time.Second)
	assert.True(t, f.surface.toastOn)
	f.wait(time.Second)
	assert.False(t, f.surface.toastOn)
}

func TestSession_EntryClearsToast(t *testing.T) {
	f := newFixture(t, testStory)
	require.True(t, f.session.EnterScene("Gate"))
	f.toButtons(t)
	f.session.Select(0)
	require.True(t, f.surface.toastOn)

	require.True(t, f.session.EnterScene("Choice"))
	assert.False(t, f.surface.toastOn)
	assert.False(t, f.session.ToastVisible())
}

func TestSession_TerminalSceneEnds(t *testing.T) {
	f := newFixture(t, testStory)
	require.True(t, f.session.EnterScene("Ending_03_Silent_End"))
	f.session.Tap()
	assert.False(t, f.surface.more)
	f.settleAll()

	assert.Equal(t, PhaseEnded, f.session.Phase())
	f.session.Tap()
	f.session.Select(0)
	assert.Equal(t, PhaseEnded, f.session.Phase())
	assert.Equal(t, "Ending_03_Silent_End", f.session.Scene().ID)
}

func TestSession_Gallery(t *testing.T) {
	f := newFixture(t, testStory)
	require.True(t, f.session.EnterScene("Ending_04_True_End"))
	f.toButtons(t)
	f.session.Select(0)

	require.Equal(t, "Gallery_View", f.session.Scene().ID)
	assert.Equal(t, Modes{Gallery: true}, f.surface.modes)
	assert.Equal(t, PhaseChoosing, f.session.Phase(), "gallery shows buttons without a tap")
	assert.Equal(t, "", f.surface.text)
	assert.False(t, f.session.Typewriter().Typing())

	require.Len(t, f.surface.gallery, 4)
	assert.True(t, f.surface.gallery[3].Unlocked)
	assert.False(t, f.surface.gallery[0].Unlocked)
	assert.Equal(t, []Button{{Label: "回到標題"}}, f.surface.buttons)

	f.session.Select(0)
	assert.Equal(t, "Chapter_00_Title", f.session.Scene().ID)
}

func TestSession_NavigatorErrorIsLogged(t *testing.T) {
	f := newFixture(t, testStory)
	f.nav.err = errors.New("no browser")
	require.True(t, f.session.EnterScene("Gate"))
	f.toButtons(t)

	f.session.Select(4)
	assert.Equal(t, 1, f.logs.FilterMessage("open link failed").Len())
	assert.Equal(t, PhaseChoosing, f.session.Phase())
}

func TestSession_LoggerCarriesSessionID(t *testing.T) {
	f := newFixture(t, testStory)
	require.True(t, f.session.EnterScene("Gate"))

	entries := f.logs.FilterMessage("scene entered").All()
	require.Len(t, entries, 1)
	assert.Equal(t, f.session.ID(), entries[0].ContextMap()["session_id"])
	assert.Equal(t, "Gate", entries[0].ContextMap()["scene_id"])
}

// Every scene of the bundled story, entered with fresh counters, must offer a way
// forward unless it has no choices at all.
func TestBundledStory_NoDeadStates(t *testing.T) {
	st, err := story.LoadFile("../assets/story.json")
	require.NoError(t, err)

	for _, id := range st.IDs() {
		t.Run(id, func(t *testing.T) {
			f := newFixtureFromStore(t, st)
			require.True(t, f.session.EnterScene(id))

			for i := 0; i < 50 && f.session.Scene().ID == id; i++ {
				switch f.session.Phase() {
				case PhaseTyping, PhaseSettling:
					f.wait(time.Second)
					continue
				case PhaseAwaitingAdvance, PhaseAwaitingTap:
					f.session.Tap()
					continue
				}
				break
			}

			sc, _ := st.Scene(id)
			if sc.IsTerminal() {
				assert.Equal(t, PhaseEnded, f.session.Phase())
				return
			}
			if f.session.Scene().ID != id {
				return
			}
			require.Equal(t, PhaseChoosing, f.session.Phase())
			open := slices.IndexFunc(f.surface.buttons, func(b Button) bool { return !b.Locked })
			assert.GreaterOrEqual(t, open, 0, "at least one unlocked choice")
		})
	}
}

func TestBundledStory_Playthrough(t *testing.T) {
	st, err := story.LoadFile("../assets/story.json")
	require.NoError(t, err)
	f := newFixtureFromStore(t, st)

	choose := func(label string) {
		t.Helper()
		for i := 0; i < 50 && f.session.Phase() != PhaseChoosing; i++ {
			switch f.session.Phase() {
			case PhaseTyping, PhaseSettling:
				f.wait(time.Second)
			case PhaseAwaitingAdvance, PhaseAwaitingTap:
				f.session.Tap()
			}
		}
		require.Equal(t, PhaseChoosing, f.session.Phase(), "scene %s", f.session.Scene().ID)
		idx := slices.IndexFunc(f.surface.buttons, func(b Button) bool { return b.Label == label })
		require.GreaterOrEqual(t, idx, 0, "choice %q in scene %s", label, f.session.Scene().ID)
		f.session.Select(idx)
	}

	require.True(t, f.session.EnterScene("Chapter_00_Title"))
	choose("打開信封")
	assert.Equal(t, "Event_03", f.session.Scene().ID)
	choose("「把真相告訴我。」")
	assert.Equal(t, Affinity{Idealism: 3}, f.session.Affinity())
	choose("說出真相")

	assert.Equal(t, "Ending_04_True_End", f.session.Scene().ID)
	assert.Equal(t, "已解鎖結局 4/4", f.surface.toast)
	assert.Equal(t, 1, f.sound.unlocks)

	choose("結局蒐集")
	assert.True(t, f.surface.gallery[3].Unlocked)
	assert.Equal(t, "End 4 真實的力量", f.surface.gallery[3].Label())
}
