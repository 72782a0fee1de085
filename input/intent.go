package input

// IntentType discriminates semantic actions
type IntentType uint8

const (
	IntentNone IntentType = iota

	// System-level intents
	IntentQuit       // Esc, Ctrl+C, q
	IntentToggleMute // Ctrl+S
	IntentResize     // Terminal resize event

	// Story intents
	IntentTap     // Space, Enter (dialogue), click outside buttons
	IntentSelect  // 1-9, Index is zero-based
	IntentFocus   // arrows/Tab while choosing, Delta is -1 or +1
	IntentConfirm // Enter while choosing

	// Mouse
	IntentClick // Left press, resolved against button bounds by the router
)

func (t IntentType) String() string {
	switch t {
	case IntentQuit:
		return "quit"
	case IntentToggleMute:
		return "toggle_mute"
	case IntentResize:
		return "resize"
	case IntentTap:
		return "tap"
	case IntentSelect:
		return "select"
	case IntentFocus:
		return "focus"
	case IntentConfirm:
		return "confirm"
	case IntentClick:
		return "click"
	}
	return "none"
}

// Intent represents a parsed semantic action
// Pure data struct with no engine dependencies
type Intent struct {
	Type  IntentType
	Index int // IntentSelect
	Delta int // IntentFocus
	X, Y  int // IntentClick
}
