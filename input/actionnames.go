package input

import (
	"maps"
	"slices"
)

// actionRegistry maps the action names used in keymap files to bindings
var actionRegistry = map[string]KeyEntry{
	// Unbind sentinel
	"none": {},

	"quit":        {Intent: IntentQuit},
	"toggle_mute": {Intent: IntentToggleMute},

	"tap":        {Intent: IntentTap},
	"confirm":    {Intent: IntentConfirm},
	"focus_prev": {Intent: IntentFocus, Delta: -1},
	"focus_next": {Intent: IntentFocus, Delta: 1},
}

// ActionEntry resolves an action name
func ActionEntry(name string) (KeyEntry, bool) {
	entry, ok := actionRegistry[name]
	return entry, ok
}

// ActionNames returns every action name, sorted
func ActionNames() []string {
	return slices.Sorted(maps.Keys(actionRegistry))
}
