package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/lixenwraith/vi-novel/audio"
	"github.com/lixenwraith/vi-novel/browser"
	"github.com/lixenwraith/vi-novel/config"
	"github.com/lixenwraith/vi-novel/core"
	"github.com/lixenwraith/vi-novel/engine"
)

func main() {
	// Panic Recovery: restore the terminal even if the player crashes
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	cfg, err := config.Load(os.Args[1:], nil, os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "vi-novel: %v\n", err)
		os.Exit(2)
	}

	logger, logFile, err := setupLogging(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vi-novel: %v\n", err)
		os.Exit(1)
	}
	if logFile != nil {
		defer logFile.Close()
	}
	defer logger.Sync()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize screen: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()
	core.SetCrashTerminal(screen)
	screen.EnableMouse()
	screen.HideCursor()

	// Audio is optional; the player runs silent without a device
	soundCfg := audio.DefaultConfig()
	soundCfg.Enabled = cfg.Audio.Enabled
	soundCfg.TypingBlip = cfg.Audio.TypingBlip
	sound := audio.NewSoundManager(soundCfg)
	if err := sound.Initialize(); err != nil {
		logger.Info("audio unavailable, continuing without sound", zap.Error(err))
	} else {
		defer sound.Cleanup()
	}

	a := newApp(cfg, screen, deps{
		sound:     sound,
		muter:     sound,
		navigator: browser.New(),
		clock:     engine.NewMonotonicTimeProvider(),
	}, logger)
	defer a.close()

	logger.Info("player started", zap.String("story", cfg.Story), zap.String("scene_id", cfg.InitialScene))
	a.run(startPoller(screen))
	logger.Info("player stopped")
}
