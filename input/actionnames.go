package input

import (
	"maps"
	"slices"
)

// actionRegistry maps canonical action names to intent templates
// Used by the keymap loader to resolve TOML action strings to bindings
var actionRegistry = map[string]Intent{
	// Unbind sentinel
	"none": {},

	"quit": {Action: ActionQuit},
	"help": {Action: ActionHelp},

	"orbit_left":  {Action: ActionOrbit, DX: -1},
	"orbit_right": {Action: ActionOrbit, DX: 1},
	"orbit_up":    {Action: ActionOrbit, DY: 1},
	"orbit_down":  {Action: ActionOrbit, DY: -1},
	"rotate":      {Action: ActionToggleRotate},

	"pan_right": {Action: ActionPan, DX: 1},
	"pan_left":  {Action: ActionPan, DX: -1},
	"pan_up":    {Action: ActionPan, DY: 1},
	"pan_down":  {Action: ActionPan, DY: -1},
	"zoom_in":   {Action: ActionZoom, DX: -1},
	"zoom_out":  {Action: ActionZoom, DX: 1},

	"axes":            {Action: ActionToggleAxes},
	"trails_selected": {Action: ActionTrailsSelected},
	"trails_all":      {Action: ActionTrailsAll},
	"screenshot":      {Action: ActionScreenshot},

	"pause": {Action: ActionPause},
	"step":  {Action: ActionStep},
}

// ActionIntent resolves a canonical action name to its intent template
func ActionIntent(name string) (Intent, bool) {
	in, ok := actionRegistry[name]
	return in, ok
}

// ActionNames returns all registered action names, sorted
func ActionNames() []string {
	return slices.Sorted(maps.Keys(actionRegistry))
}

// HelpLines describes the default bindings for the help overlay
func HelpLines() []string {
	return []string{
		"Key usage:",
		"  Esc, q        quit",
		"  arrows        rotate manually",
		"  r             rotate continuously",
		"  x X           move right and left",
		"  y Y           move up and down",
		"  z Z           zoom in and out (mouse wheel too)",
		"  d             show bounding cube",
		"  t             trails of selected particles",
		"  a             trails of all particles",
		"  p             screenshot",
		"  space         pause, n steps one tick",
		"  h             close help",
		"Mouse usage:",
		"  left click    select a particle",
	}
}
