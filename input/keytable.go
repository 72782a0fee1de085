package input

import (
	"maps"

	"github.com/gdamore/tcell/v2"
)

// KeyEntry describes what a key produces
type KeyEntry struct {
	Intent IntentType
	Delta  int
}

// KeyTable maps keys to intents per mode
type KeyTable struct {
	// Keys valid in every mode
	SystemKeys  map[tcell.Key]KeyEntry
	SystemRunes map[rune]KeyEntry

	// Dialogue mode bindings
	DialogueKeys  map[tcell.Key]KeyEntry
	DialogueRunes map[rune]KeyEntry

	// Choice mode bindings; digits are handled separately
	ChoiceKeys  map[tcell.Key]KeyEntry
	ChoiceRunes map[rune]KeyEntry
}

// DefaultKeyTable returns the default key bindings
func DefaultKeyTable() *KeyTable {
	return &KeyTable{
		SystemKeys: map[tcell.Key]KeyEntry{
			tcell.KeyEscape: {Intent: IntentQuit},
			tcell.KeyCtrlC:  {Intent: IntentQuit},
			tcell.KeyCtrlS:  {Intent: IntentToggleMute},
		},
		SystemRunes: map[rune]KeyEntry{
			'q': {Intent: IntentQuit},
		},
		DialogueKeys: map[tcell.Key]KeyEntry{
			tcell.KeyEnter: {Intent: IntentTap},
		},
		DialogueRunes: map[rune]KeyEntry{
			' ': {Intent: IntentTap},
		},
		ChoiceKeys: map[tcell.Key]KeyEntry{
			tcell.KeyUp:      {Intent: IntentFocus, Delta: -1},
			tcell.KeyDown:    {Intent: IntentFocus, Delta: 1},
			tcell.KeyBacktab: {Intent: IntentFocus, Delta: -1},
			tcell.KeyTab:     {Intent: IntentFocus, Delta: 1},
			tcell.KeyEnter:   {Intent: IntentConfirm},
		},
		ChoiceRunes: map[rune]KeyEntry{
			'k': {Intent: IntentFocus, Delta: -1},
			'j': {Intent: IntentFocus, Delta: 1},
			' ': {Intent: IntentConfirm},
		},
	}
}

// Clone returns a deep copy with independent maps
func (kt *KeyTable) Clone() *KeyTable {
	return &KeyTable{
		SystemKeys:    maps.Clone(kt.SystemKeys),
		SystemRunes:   maps.Clone(kt.SystemRunes),
		DialogueKeys:  maps.Clone(kt.DialogueKeys),
		DialogueRunes: maps.Clone(kt.DialogueRunes),
		ChoiceKeys:    maps.Clone(kt.ChoiceKeys),
		ChoiceRunes:   maps.Clone(kt.ChoiceRunes),
	}
}
