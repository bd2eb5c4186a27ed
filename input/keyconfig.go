package input

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// Rune aliases for keys that can't be bare single-char TOML keys
var runeAliases = map[string]rune{
	"space":     ' ',
	"backslash": '\\',
}

// specialKeyNames is tcell's key name table, lower-cased for lookup
var specialKeyNames = func() map[string]tcell.Key {
	m := make(map[string]tcell.Key, len(tcell.KeyNames))
	for k, name := range tcell.KeyNames {
		m[strings.ToLower(name)] = k
	}
	return m
}()

// LoadKeyConfig turns a key name → action name table into a sparse override KeyTable
// Keys are a single character, a rune alias (space, backslash) or a tcell key name (Esc, Up, Ctrl-C)
// Returns error on unknown action or key names
func LoadKeyConfig(bindings map[string]string) (*KeyTable, error) {
	kt := &KeyTable{
		SpecialKeys: make(map[tcell.Key]Intent),
		Runes:       make(map[rune]Intent),
	}

	for keyStr, actionName := range bindings {
		in, err := resolveAction(actionName)
		if err != nil {
			return nil, fmt.Errorf("keys: key %q: %w", keyStr, err)
		}

		if r, ok := resolveRune(keyStr); ok {
			kt.Runes[r] = in
			continue
		}
		k, ok := specialKeyNames[strings.ToLower(keyStr)]
		if !ok {
			return nil, fmt.Errorf("keys: unknown key name: %q", keyStr)
		}
		kt.SpecialKeys[k] = in
	}

	return kt, nil
}

func resolveRune(s string) (rune, bool) {
	if r, ok := runeAliases[strings.ToLower(s)]; ok {
		return r, true
	}
	runes := []rune(s)
	if len(runes) == 1 {
		return runes[0], true
	}
	return 0, false
}

func resolveAction(name string) (Intent, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	in, ok := ActionIntent(name)
	if !ok {
		return Intent{}, fmt.Errorf("unknown action: %q", name)
	}
	return in, nil
}
