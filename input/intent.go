package input

// Action discriminates viewer commands
type Action uint8

const (
	ActionNone Action = iota

	// System
	ActionQuit   // Esc, q, Ctrl+C
	ActionResize // terminal resize event
	ActionHelp   // h, toggles the key help overlay

	// Camera
	ActionOrbit        // arrows, DX/DY in key steps
	ActionToggleRotate // r
	ActionPan          // x/X y/Y, DX/DY in pan steps
	ActionZoom         // z/Z, DX in zoom steps, negative moves in

	// Display
	ActionToggleAxes     // d
	ActionTrailsSelected // t
	ActionTrailsAll      // a
	ActionScreenshot     // p

	// Simulation
	ActionPause // space
	ActionStep  // n, one tick while paused
	ActionPick  // left click, X/Y screen cell
)

// Intent is one parsed command with its arguments
type Intent struct {
	Action Action
	DX, DY int // direction or step count
	X, Y   int // screen cell for ActionPick
}
