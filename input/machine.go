package input

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/vi-novel/constants"
)

// Machine is the input state machine
// Parses tcell events into semantic Intent
type Machine struct {
	mode     InputMode
	keyTable *KeyTable

	// Left button held; a click fires on the press edge only
	mouseDown bool
}

// NewMachine creates a new input machine
func NewMachine() *Machine {
	return &Machine{
		mode:     ModeDialogue,
		keyTable: DefaultKeyTable(),
	}
}

// SetMode updates the parser's mode context
// Called by mode.Router when the session phase changes
func (m *Machine) SetMode(mode InputMode) {
	m.mode = mode
}

func (m *Machine) Mode() InputMode { return m.mode }

// SetKeyTable replaces the bindings; nil restores the defaults
func (m *Machine) SetKeyTable(kt *KeyTable) {
	if kt == nil {
		kt = DefaultKeyTable()
	}
	m.keyTable = kt
}

// KeyTable returns the active bindings
func (m *Machine) KeyTable() *KeyTable { return m.keyTable }

// Process parses a terminal event and returns an Intent
// Returns nil if the event means nothing in the current mode
func (m *Machine) Process(ev tcell.Event) *Intent {
	switch e := ev.(type) {
	case *tcell.EventResize:
		return &Intent{Type: IntentResize}
	case *tcell.EventKey:
		return m.processKey(e)
	case *tcell.EventMouse:
		return m.processMouse(e)
	}
	return nil
}

func (m *Machine) processKey(ev *tcell.EventKey) *Intent {
	if ev.Key() == tcell.KeyRune {
		return m.processRune(ev.Rune())
	}

	if entry, ok := m.keyTable.SystemKeys[ev.Key()]; ok {
		return entryIntent(entry)
	}

	switch m.mode {
	case ModeDialogue:
		if entry, ok := m.keyTable.DialogueKeys[ev.Key()]; ok {
			return entryIntent(entry)
		}
	case ModeChoice:
		if entry, ok := m.keyTable.ChoiceKeys[ev.Key()]; ok {
			return entryIntent(entry)
		}
	}
	return nil
}

func (m *Machine) processRune(r rune) *Intent {
	if entry, ok := m.keyTable.SystemRunes[r]; ok {
		return entryIntent(entry)
	}
	if m.mode == ModeHalted {
		return nil
	}

	// Digits pick a choice in either mode; the session ignores them while no buttons are shown
	if r >= '1' && r < '1'+constants.MaxNumberedChoices {
		return &Intent{Type: IntentSelect, Index: int(r - '1')}
	}

	table := m.keyTable.DialogueRunes
	if m.mode == ModeChoice {
		table = m.keyTable.ChoiceRunes
	}
	if entry, ok := table[r]; ok {
		return entryIntent(entry)
	}
	return nil
}

func (m *Machine) processMouse(ev *tcell.EventMouse) *Intent {
	pressed := ev.Buttons()&tcell.Button1 != 0
	if !pressed {
		m.mouseDown = false
		return nil
	}
	if m.mouseDown {
		return nil
	}
	m.mouseDown = true

	if m.mode == ModeHalted {
		return nil
	}
	x, y := ev.Position()
	return &Intent{Type: IntentClick, X: x, Y: y}
}

func entryIntent(e KeyEntry) *Intent {
	return &Intent{Type: e.Intent, Delta: e.Delta}
}
