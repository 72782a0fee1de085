package audio

import (
	"errors"

	"github.com/lixenwraith/vi-novel/constants"
)

// SoundType represents the feedback cues
type SoundType int

const (
	SoundBlip   SoundType = iota // Typewriter reveal step
	SoundChime                   // Ending unlocked
	SoundLocked                  // Locked choice pressed
	soundTypeCount
)

func (s SoundType) String() string {
	switch s {
	case SoundBlip:
		return "blip"
	case SoundChime:
		return "chime"
	case SoundLocked:
		return "locked"
	}
	return "unknown"
}

// Config holds mixer settings
type Config struct {
	Enabled      bool
	TypingBlip   bool
	SampleRate   int
	MasterVolume float64
	// EffectVolumes scales each cue before the master volume
	EffectVolumes [soundTypeCount]float64
}

// DefaultConfig returns settings with every cue enabled
func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		TypingBlip:    true,
		SampleRate:    constants.SampleRate,
		MasterVolume:  constants.MasterVolume,
		EffectVolumes: [soundTypeCount]float64{0.25, 0.6, 0.5},
	}
}

// ErrDisabled is returned by Initialize when audio is turned off in config
var ErrDisabled = errors.New("audio disabled")
