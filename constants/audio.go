package constants

import "time"

// Typing Blip
const (
	BlipDuration  = 18 * time.Millisecond
	BlipFrequency = 1320.0

	// BlipMinGap rate-limits blips when several graphemes are revealed per frame
	BlipMinGap = 30 * time.Millisecond
)

// Unlock Chime (ascending arpeggio)
const (
	ChimeNoteDuration = 90 * time.Millisecond
	ChimeRelease      = 60 * time.Millisecond
)

// ChimeFrequencies are the arpeggio notes of the unlock chime (C6 E6 G6 C7)
var ChimeFrequencies = []float64{1046.5, 1318.5, 1568.0, 2093.0}

// Locked Buzz
const (
	LockedBuzzDuration  = 150 * time.Millisecond
	LockedBuzzFrequency = 120.0
)

// Envelopes
const (
	BlipAttack    = 2 * time.Millisecond
	BlipRelease   = 10 * time.Millisecond
	ChimeAttack   = 5 * time.Millisecond
	LockedAttack  = 5 * time.Millisecond
	LockedRelease = 80 * time.Millisecond
)

// Mixer
const (
	SampleRate    = 48000
	SpeakerBuffer = 100 * time.Millisecond
	MasterVolume  = 0.5
)
