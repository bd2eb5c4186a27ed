package input

import (
	"maps"

	"github.com/gdamore/tcell/v2"
)

// KeyTable maps keys to intent templates
type KeyTable struct {
	// Special keys (Esc, arrows, Ctrl+*)
	SpecialKeys map[tcell.Key]Intent

	// Printable rune bindings
	Runes map[rune]Intent
}

// DefaultKeyTable returns the default key bindings
func DefaultKeyTable() *KeyTable {
	return &KeyTable{
		SpecialKeys: map[tcell.Key]Intent{
			tcell.KeyEscape: actionRegistry["quit"],
			tcell.KeyCtrlC:  actionRegistry["quit"],
			tcell.KeyLeft:   actionRegistry["orbit_left"],
			tcell.KeyRight:  actionRegistry["orbit_right"],
			tcell.KeyUp:     actionRegistry["orbit_up"],
			tcell.KeyDown:   actionRegistry["orbit_down"],
		},
		Runes: map[rune]Intent{
			'q': actionRegistry["quit"],
			'h': actionRegistry["help"],
			'r': actionRegistry["rotate"],
			'x': actionRegistry["pan_right"],
			'X': actionRegistry["pan_left"],
			'y': actionRegistry["pan_up"],
			'Y': actionRegistry["pan_down"],
			'z': actionRegistry["zoom_in"],
			'Z': actionRegistry["zoom_out"],
			'd': actionRegistry["axes"],
			't': actionRegistry["trails_selected"],
			'a': actionRegistry["trails_all"],
			'p': actionRegistry["screenshot"],
			' ': actionRegistry["pause"],
			'n': actionRegistry["step"],
		},
	}
}

// Clone returns a deep copy
func (kt *KeyTable) Clone() *KeyTable {
	return &KeyTable{
		SpecialKeys: maps.Clone(kt.SpecialKeys),
		Runes:       maps.Clone(kt.Runes),
	}
}

// MergeKeyTable returns base with override entries applied
// Override entries with ActionNone ("none" action) delete the key from the result
func MergeKeyTable(base, override *KeyTable) *KeyTable {
	result := base.Clone()
	if override == nil {
		return result
	}
	mergeInto(result.SpecialKeys, override.SpecialKeys)
	mergeInto(result.Runes, override.Runes)
	return result
}

func mergeInto[K comparable](dst, src map[K]Intent) {
	for k, in := range src {
		if in.Action == ActionNone {
			delete(dst, k)
			continue
		}
		dst[k] = in
	}
}
