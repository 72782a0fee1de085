package constants

import "time"

// Frame Loop Timing
const (
	// FrameUpdateInterval is the redraw and timer-check interval (~60 FPS)
	FrameUpdateInterval = 16 * time.Millisecond

	// EventQueueSize is the buffered capacity of the terminal event channel
	EventQueueSize = 256
)

// Typewriter Reveal Speeds (per grapheme)
// Ordering is required: chapter slowest, system slower than normal
const (
	SpeedNormal  = 40 * time.Millisecond
	SpeedSystem  = 80 * time.Millisecond
	SpeedChapter = 150 * time.Millisecond
)

// Settle Delays
// Window after an interaction phase is entered during which taps are ignored
const (
	SettleTitle    = 600 * time.Millisecond
	SettleHiddenUI = 600 * time.Millisecond
	SettleEllipsis = 50 * time.Millisecond
	SettleDefault  = 50 * time.Millisecond
)

// ToastDuration is how long a transient notification stays visible
const ToastDuration = 3 * time.Second

// PersistTimeout bounds a single ending-registry write
const PersistTimeout = 2 * time.Second
