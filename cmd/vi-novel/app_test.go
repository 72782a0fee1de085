package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/lixenwraith/vi-novel/config"
	"github.com/lixenwraith/vi-novel/constants"
	"github.com/lixenwraith/vi-novel/engine"
	"github.com/lixenwraith/vi-novel/save"
)

const bundledStory = "../../assets/story.json"

func testScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(80, 24)
	t.Cleanup(screen.Fini)
	return screen
}

func testConfig(t *testing.T) *config.Config {
	cfg := config.Default()
	cfg.Story = bundledStory
	cfg.Save = config.SaveConfig{Backend: save.BackendMemory}
	return cfg
}

func screenContains(screen tcell.Screen, want string) bool {
	w, h := screen.Size()
	for y := 0; y < h; y++ {
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
		if strings.Contains(b.String(), want) {
			return true
		}
	}
	return false
}

func key(k tcell.Key, r rune) tcell.Event {
	return tcell.NewEventKey(k, r, tcell.ModNone)
}

func TestApp_PlaysTitleIntoChapter(t *testing.T) {
	screen := testScreen(t)
	clock := engine.NewMockTimeProvider(time.Unix(0, 0))
	a := newApp(testConfig(t), screen, deps{clock: clock}, zap.NewNop())
	defer a.close()
	require.NotNil(t, a.session)

	a.frame()
	for i := 0; i < 3; i++ {
		clock.Advance(5 * time.Second)
		a.frame()
	}
	assert.True(t, screenContains(screen, "灰燼之城"))
	assert.Equal(t, engine.PhaseAwaitingTap, a.session.Phase())

	require.True(t, a.handle(key(tcell.KeyEnter, 0)))
	assert.Equal(t, constants.SceneChapterOne, a.session.Scene().ID)

	assert.False(t, a.handle(key(tcell.KeyEscape, 0)))
}

func TestApp_MissingStoryHalts(t *testing.T) {
	screen := testScreen(t)
	cfg := testConfig(t)
	cfg.Story = filepath.Join(t.TempDir(), "absent.json")

	a := newApp(cfg, screen, deps{}, zap.NewNop())
	defer a.close()
	assert.Nil(t, a.session)

	a.frame()
	assert.True(t, screenContains(screen, constants.LoadFailureMessage))

	assert.True(t, a.handle(key(tcell.KeyEnter, 0)), "taps are ignored")
	assert.True(t, a.handle(key(tcell.KeyRune, '1')))
	assert.False(t, a.handle(key(tcell.KeyRune, 'q')))
}

func TestApp_UnknownInitialSceneHalts(t *testing.T) {
	screen := testScreen(t)
	cfg := testConfig(t)
	cfg.InitialScene = "Nowhere"

	a := newApp(cfg, screen, deps{}, zap.NewNop())
	defer a.close()
	assert.Nil(t, a.session)

	a.frame()
	assert.True(t, screenContains(screen, constants.LoadFailureMessage))
}

func TestApp_PersistsEndingsToFile(t *testing.T) {
	screen := testScreen(t)
	cfg := testConfig(t)
	cfg.Save = config.SaveConfig{Backend: save.BackendFile, Path: filepath.Join(t.TempDir(), "endings.json")}
	cfg.InitialScene = "Ending_03_Silent_End"

	a := newApp(cfg, screen, deps{clock: engine.NewMockTimeProvider(time.Unix(0, 0))}, zap.NewNop())
	a.close()

	store, err := save.OpenFile(cfg.Save.Path)
	require.NoError(t, err)
	data, err := store.Get(t.Context(), constants.EndingsStorageKey)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"3":true`)
}

func TestApp_CorruptSaveStillPersistsEndings(t *testing.T) {
	screen := testScreen(t)
	cfg := testConfig(t)
	cfg.Save = config.SaveConfig{Backend: save.BackendFile, Path: filepath.Join(t.TempDir(), "endings.json")}
	cfg.InitialScene = "Ending_03_Silent_End"
	require.NoError(t, os.WriteFile(cfg.Save.Path, []byte("{not json"), 0644))

	obsCore, logs := observer.New(zapcore.WarnLevel)
	a := newApp(cfg, screen, deps{clock: engine.NewMockTimeProvider(time.Unix(0, 0))}, zap.New(obsCore))
	a.close()

	_, ok := a.store.(*save.FileStore)
	assert.True(t, ok)
	assert.Equal(t, 1, logs.FilterMessage("save file unreadable, starting with no endings unlocked").Len())

	store, err := save.OpenFile(cfg.Save.Path)
	require.NoError(t, err)
	assert.Empty(t, store.Quarantined())
	data, err := store.Get(t.Context(), constants.EndingsStorageKey)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"3":true`)
}

func TestOpenStore_FallsBackToMemory(t *testing.T) {
	store := openStore(config.SaveConfig{Backend: "cloud"}, zap.NewNop())
	_, ok := store.(*save.MemoryStore)
	assert.True(t, ok)
}

func TestRun_ReturnsWhenEventsClose(t *testing.T) {
	screen := testScreen(t)
	a := newApp(testConfig(t), screen, deps{clock: engine.NewMockTimeProvider(time.Unix(0, 0))}, zap.NewNop())
	defer a.close()

	events := make(chan tcell.Event, 1)
	done := make(chan struct{})
	go func() {
		a.run(events)
		close(done)
	}()
	close(events)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("run did not return")
	}
}

func TestRun_QuitKey(t *testing.T) {
	screen := testScreen(t)
	a := newApp(testConfig(t), screen, deps{clock: engine.NewMockTimeProvider(time.Unix(0, 0))}, zap.NewNop())
	defer a.close()

	events := make(chan tcell.Event, 1)
	events <- key(tcell.KeyCtrlC, 0)

	done := make(chan struct{})
	go func() {
		a.run(events)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("run did not return")
	}
}

func TestApp_AppliesKeymap(t *testing.T) {
	screen := testScreen(t)
	cfg := testConfig(t)
	cfg.Keymap = filepath.Join(t.TempDir(), "keys.toml")
	require.NoError(t, os.WriteFile(cfg.Keymap, []byte("[system]\nq = \"none\"\nx = \"quit\"\n"), 0644))

	a := newApp(cfg, screen, deps{clock: engine.NewMockTimeProvider(time.Unix(0, 0))}, zap.NewNop())
	defer a.close()

	assert.True(t, a.handle(key(tcell.KeyRune, 'q')))
	assert.False(t, a.handle(key(tcell.KeyRune, 'x')))
}

func TestApp_BadKeymapKeepsDefaults(t *testing.T) {
	screen := testScreen(t)
	cfg := testConfig(t)
	cfg.Keymap = filepath.Join(t.TempDir(), "keys.toml")
	require.NoError(t, os.WriteFile(cfg.Keymap, []byte("[system]\nq = \"explode\"\n"), 0644))

	obsCore, logs := observer.New(zapcore.WarnLevel)
	a := newApp(cfg, screen, deps{clock: engine.NewMockTimeProvider(time.Unix(0, 0))}, zap.New(obsCore))
	defer a.close()

	assert.Equal(t, 1, logs.FilterMessage("keymap rejected, using default keys").Len())
	assert.False(t, a.handle(key(tcell.KeyRune, 'q')))
}
