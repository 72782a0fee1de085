package main

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/lixenwraith/vi-novel/condition"
	"github.com/lixenwraith/vi-novel/config"
	"github.com/lixenwraith/vi-novel/constants"
	"github.com/lixenwraith/vi-novel/core"
	"github.com/lixenwraith/vi-novel/engine"
	"github.com/lixenwraith/vi-novel/ending"
	"github.com/lixenwraith/vi-novel/input"
	"github.com/lixenwraith/vi-novel/mode"
	"github.com/lixenwraith/vi-novel/render"
	"github.com/lixenwraith/vi-novel/save"
	"github.com/lixenwraith/vi-novel/story"
)

// deps are the platform services wired into the player
type deps struct {
	sound     engine.Sound
	muter     mode.Muter
	navigator engine.Navigator
	clock     engine.TimeProvider
}

// app owns everything the frame loop touches
type app struct {
	screen  tcell.Screen
	surface *render.TerminalSurface
	session *engine.Session
	machine *input.Machine
	router  *mode.Router
	store   save.Store
	logger  *zap.Logger
}

// newApp loads the story and ending registry and enters the initial scene.
// A story that cannot be loaded leaves the app halted with the failure message shown.
func newApp(cfg *config.Config, screen tcell.Screen, d deps, logger *zap.Logger) *app {
	a := &app{
		screen:  screen,
		surface: render.NewTerminalSurface(screen),
		machine: input.NewMachine(),
		logger:  logger,
	}

	keys, err := input.LoadKeyFile(cfg.Keymap)
	if err != nil {
		logger.Warn("keymap rejected, using default keys", zap.String("path", cfg.Keymap), zap.Error(err))
	} else {
		a.machine.SetKeyTable(keys)
	}

	scenes, err := story.LoadFile(cfg.Story)
	if err != nil {
		logger.Error("story load failed", zap.String("path", cfg.Story), zap.Error(err))
		a.halt()
		return a
	}

	conditions := condition.NewCache()
	for _, issue := range scenes.Validate(conditions) {
		logger.Warn("story issue",
			zap.String("kind", issue.Kind.String()),
			zap.String("scene_id", issue.SceneID),
			zap.String("detail", issue.Detail),
		)
	}

	a.store = openStore(cfg.Save, logger)
	registry := ending.NewRegistry(context.Background(), a.store, logger)

	a.session = engine.NewSession(engine.Options{
		Scenes:     scenes,
		Endings:    registry,
		Surface:    a.surface,
		Navigator:  d.navigator,
		Sound:      d.sound,
		Clock:      d.clock,
		Logger:     logger,
		Conditions: conditions,
		Timing:     cfg.Timing.Engine(),
	})

	if !a.session.EnterScene(cfg.InitialScene) {
		logger.Error("initial scene missing", zap.String("scene_id", cfg.InitialScene))
		a.session = nil
		a.halt()
		return a
	}

	a.router = mode.NewRouter(a.session, a.surface, a.machine, d.muter, logger)
	return a
}

// halt shows the load failure; only quit stays available
func (a *app) halt() {
	a.surface.ShowLoadFailure(constants.LoadFailureMessage)
	a.router = mode.NewRouter(nil, a.surface, a.machine, nil, a.logger)
}

// openStore opens the configured backend, falling back to memory so endings still unlock for this run
func openStore(cfg config.SaveConfig, logger *zap.Logger) save.Store {
	store, err := save.Open(cfg.Backend, cfg.Path)
	if err != nil {
		logger.Warn("save store unavailable, endings will not persist",
			zap.String("backend", cfg.Backend),
			zap.String("path", cfg.Path),
			zap.Error(err),
		)
		return save.NewMemoryStore()
	}
	if fs, ok := store.(*save.FileStore); ok && fs.Quarantined() != "" {
		logger.Warn("save file unreadable, starting with no endings unlocked",
			zap.String("path", fs.Path()),
			zap.String("moved_to", fs.Quarantined()),
		)
	}
	return store
}

// pollEvents forwards terminal events until the screen is finalized
func pollEvents(screen tcell.Screen, events chan<- tcell.Event) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			close(events)
			return
		}
		events <- ev
	}
}

// run drives the frame loop until quit or the event source closes
func (a *app) run(events <-chan tcell.Event) {
	ticker := time.NewTicker(constants.FrameUpdateInterval)
	defer ticker.Stop()

	a.frame()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if !a.handle(ev) {
				return
			}
		case <-ticker.C:
			a.frame()
		}
	}
}

// handle routes one terminal event and returns false when the player should exit
func (a *app) handle(ev tcell.Event) bool {
	if !a.router.Handle(a.machine.Process(ev)) {
		return false
	}
	a.surface.Draw()
	return true
}

// frame advances timers and redraws
func (a *app) frame() {
	if a.session != nil {
		a.session.Tick()
	}
	a.router.Sync()
	a.surface.Draw()
}

func (a *app) close() {
	if a.store == nil {
		return
	}
	if err := a.store.Close(); err != nil {
		a.logger.Warn("close save store", zap.Error(err))
	}
}

// startPoller runs the event poller with crash recovery
func startPoller(screen tcell.Screen) <-chan tcell.Event {
	events := make(chan tcell.Event, constants.EventQueueSize)
	core.Go(func() { pollEvents(screen, events) })
	return events
}
