package input

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/vi-novel/toml"
)

// Rune aliases for keys that are awkward as TOML keys
var runeAliases = map[string]rune{
	"space":     ' ',
	"backslash": '\\',
}

// keyNames resolves lowercased tcell key names, e.g. "enter", "ctrl-s", "backtab"
var keyNames = func() map[string]tcell.Key {
	m := make(map[string]tcell.Key, len(tcell.KeyNames))
	for k, name := range tcell.KeyNames {
		m[strings.ToLower(name)] = k
	}
	return m
}()

// keymapFile is the on-disk layout; *_keys sections bind named keys, the others bind runes
type keymapFile struct {
	System       map[string]string `toml:"system"`
	SystemKeys   map[string]string `toml:"system_keys"`
	Dialogue     map[string]string `toml:"dialogue"`
	DialogueKeys map[string]string `toml:"dialogue_keys"`
	Choice       map[string]string `toml:"choice"`
	ChoiceKeys   map[string]string `toml:"choice_keys"`
}

var knownSections = map[string]bool{
	"system": true, "system_keys": true,
	"dialogue": true, "dialogue_keys": true,
	"choice": true, "choice_keys": true,
}

// LoadKeyConfig parses TOML keymap data into a sparse override KeyTable.
// Only sections present in the data are populated.
// Unknown sections, key names or action names are errors.
func LoadKeyConfig(data []byte) (*KeyTable, error) {
	raw, err := toml.NewParser(data).Parse()
	if err != nil {
		return nil, fmt.Errorf("keymap parse: %w", err)
	}
	for name := range raw {
		if !knownSections[name] {
			return nil, fmt.Errorf("keymap: unknown section [%s]", name)
		}
	}

	var file keymapFile
	if err := toml.Decode(raw, &file); err != nil {
		return nil, fmt.Errorf("keymap decode: %w", err)
	}

	kt := &KeyTable{}
	if kt.SystemRunes, err = parseRuneSection("system", file.System); err != nil {
		return nil, err
	}
	if kt.SystemKeys, err = parseKeySection("system_keys", file.SystemKeys); err != nil {
		return nil, err
	}
	if kt.DialogueRunes, err = parseRuneSection("dialogue", file.Dialogue); err != nil {
		return nil, err
	}
	if kt.DialogueKeys, err = parseKeySection("dialogue_keys", file.DialogueKeys); err != nil {
		return nil, err
	}
	if kt.ChoiceRunes, err = parseRuneSection("choice", file.Choice); err != nil {
		return nil, err
	}
	if kt.ChoiceKeys, err = parseKeySection("choice_keys", file.ChoiceKeys); err != nil {
		return nil, err
	}
	return kt, nil
}

// LoadKeyFile reads a keymap file and merges it over the defaults.
// An empty path or a missing file yields the defaults.
func LoadKeyFile(path string) (*KeyTable, error) {
	if path == "" {
		return DefaultKeyTable(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultKeyTable(), nil
		}
		return nil, fmt.Errorf("read keymap: %w", err)
	}
	override, err := LoadKeyConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return MergeKeyTable(DefaultKeyTable(), override), nil
}

func parseRuneSection(section string, data map[string]string) (map[rune]KeyEntry, error) {
	if data == nil {
		return nil, nil
	}
	result := make(map[rune]KeyEntry, len(data))
	for keyStr, action := range data {
		r, err := resolveRune(keyStr)
		if err != nil {
			return nil, fmt.Errorf("[%s] key %q: %w", section, keyStr, err)
		}
		if r >= '1' && r <= '9' {
			return nil, fmt.Errorf("[%s] key %q: digits are reserved for choices", section, keyStr)
		}
		entry, err := resolveAction(action)
		if err != nil {
			return nil, fmt.Errorf("[%s] key %q: %w", section, keyStr, err)
		}
		result[r] = entry
	}
	return result, nil
}

func parseKeySection(section string, data map[string]string) (map[tcell.Key]KeyEntry, error) {
	if data == nil {
		return nil, nil
	}
	result := make(map[tcell.Key]KeyEntry, len(data))
	for keyStr, action := range data {
		k, ok := keyNames[strings.ToLower(keyStr)]
		if !ok {
			return nil, fmt.Errorf("[%s] unknown key name: %q", section, keyStr)
		}
		entry, err := resolveAction(action)
		if err != nil {
			return nil, fmt.Errorf("[%s] key %q: %w", section, keyStr, err)
		}
		result[k] = entry
	}
	return result, nil
}

// resolveRune accepts a single character or a named alias
func resolveRune(s string) (rune, error) {
	if r, ok := runeAliases[strings.ToLower(s)]; ok {
		return r, nil
	}
	runes := []rune(s)
	if len(runes) == 1 {
		return runes[0], nil
	}
	return 0, fmt.Errorf("invalid rune key: %q (expected single character or alias)", s)
}

func resolveAction(name string) (KeyEntry, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	entry, ok := ActionEntry(name)
	if !ok {
		return KeyEntry{}, fmt.Errorf("unknown action: %q", name)
	}
	return entry, nil
}

// MergeKeyTable returns base overridden by the non-nil maps of override.
// An override bound to "none" removes the key.
func MergeKeyTable(base, override *KeyTable) *KeyTable {
	result := base.Clone()

	result.SystemRunes = mergeMap(result.SystemRunes, override.SystemRunes)
	result.DialogueRunes = mergeMap(result.DialogueRunes, override.DialogueRunes)
	result.ChoiceRunes = mergeMap(result.ChoiceRunes, override.ChoiceRunes)

	result.SystemKeys = mergeMap(result.SystemKeys, override.SystemKeys)
	result.DialogueKeys = mergeMap(result.DialogueKeys, override.DialogueKeys)
	result.ChoiceKeys = mergeMap(result.ChoiceKeys, override.ChoiceKeys)

	return result
}

func mergeMap[K comparable](base, override map[K]KeyEntry) map[K]KeyEntry {
	if override == nil {
		return base
	}
	if base == nil {
		base = make(map[K]KeyEntry, len(override))
	}
	for k, v := range override {
		if v.Intent == IntentNone {
			delete(base, k)
		} else {
			base[k] = v
		}
	}
	return base
}
