package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/vi-novel/constants"
)

// SoundManager plays the story feedback cues through the system speaker.
// All methods are safe to call before Initialize or after a failed one; they are silent.
type SoundManager struct {
	mu          sync.Mutex
	cfg         *Config
	mixer       *beep.Mixer
	initialized bool
	muted       bool
	lastBlip    time.Time
	now         func() time.Time
}

// NewSoundManager creates a sound manager; nil cfg uses DefaultConfig
func NewSoundManager(cfg *Config) *SoundManager {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &SoundManager{
		cfg:   cfg,
		mixer: &beep.Mixer{},
		now:   time.Now,
	}
}

// Initialize sets up the audio device
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}
	if !sm.cfg.Enabled {
		return ErrDisabled
	}

	rate := beep.SampleRate(sm.cfg.SampleRate)
	if err := speaker.Init(rate, rate.N(constants.SpeakerBuffer)); err != nil {
		return err
	}

	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Cleanup stops all sounds and closes the device
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	speaker.Clear()
	speaker.Close()
	sm.mixer.Clear()
	sm.initialized = false
}

// ToggleMute flips the mute state and returns the new value
func (sm *SoundManager) ToggleMute() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.muted = !sm.muted
	if sm.muted && sm.initialized {
		speaker.Lock()
		sm.mixer.Clear()
		speaker.Unlock()
	}
	return sm.muted
}

// SetMuted forces the mute state
func (sm *SoundManager) SetMuted(muted bool) {
	sm.mu.Lock()
	sm.muted = muted
	sm.mu.Unlock()
}

// Muted reports the mute state
func (sm *SoundManager) Muted() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.muted
}

// Blip plays the typing tick, at most once per BlipMinGap
func (sm *SoundManager) Blip() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.cfg.TypingBlip || !sm.allowBlip() {
		return
	}
	sm.play(SoundBlip)
}

// Unlock plays the ending chime
func (sm *SoundManager) Unlock() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.play(SoundChime)
}

// Locked plays the locked-choice buzz
func (sm *SoundManager) Locked() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.play(SoundLocked)
}

// allowBlip records the blip time when the gap has elapsed; caller holds mu
func (sm *SoundManager) allowBlip() bool {
	now := sm.now()
	if !sm.lastBlip.IsZero() && now.Sub(sm.lastBlip) < constants.BlipMinGap {
		return false
	}
	sm.lastBlip = now
	return true
}

// play queues a fresh cue on the mixer; caller holds mu
func (sm *SoundManager) play(t SoundType) {
	if !sm.initialized || sm.muted {
		return
	}
	s := GetSoundEffect(t, sm.cfg)
	if s == nil {
		return
	}
	speaker.Lock()
	sm.mixer.Add(s)
	speaker.Unlock()
}
