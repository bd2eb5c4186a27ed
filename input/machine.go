package input

import (
	"github.com/gdamore/tcell/v2"
)

// State tracks whether the help overlay owns the keyboard
type State uint8

const (
	StateNormal State = iota
	StateHelp         // help overlay shown, quit keys close it instead
)

// Machine parses tcell events into Intents
type Machine struct {
	state    State
	keyTable *KeyTable

	// last mouse button mask, clicks fire on the press edge only
	buttons tcell.ButtonMask
}

// NewMachine creates a machine with the default key bindings
func NewMachine() *Machine {
	return &Machine{keyTable: DefaultKeyTable()}
}

// NewMachineWithKeys creates a machine with override applied over the defaults
func NewMachineWithKeys(override *KeyTable) *Machine {
	return &Machine{keyTable: MergeKeyTable(DefaultKeyTable(), override)}
}

func (m *Machine) State() State {
	return m.state
}

// Process parses one event, nil means the event is not bound
func (m *Machine) Process(ev tcell.Event) *Intent {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		return &Intent{Action: ActionResize}
	case *tcell.EventKey:
		return m.processKey(ev)
	case *tcell.EventMouse:
		return m.processMouse(ev)
	}
	return nil
}

func (m *Machine) processKey(ev *tcell.EventKey) *Intent {
	var in Intent
	var ok bool
	if ev.Key() == tcell.KeyRune {
		in, ok = m.keyTable.Runes[ev.Rune()]
	} else {
		in, ok = m.keyTable.SpecialKeys[ev.Key()]
	}
	if !ok {
		return nil
	}

	switch in.Action {
	case ActionHelp:
		m.toggleHelp()
	case ActionQuit:
		// Ctrl+C always quits
		if m.state == StateHelp && ev.Key() != tcell.KeyCtrlC {
			m.state = StateNormal
			in = Intent{Action: ActionHelp}
		}
	}
	return &in
}

func (m *Machine) toggleHelp() {
	if m.state == StateHelp {
		m.state = StateNormal
	} else {
		m.state = StateHelp
	}
}

func (m *Machine) processMouse(ev *tcell.EventMouse) *Intent {
	prev := m.buttons
	m.buttons = ev.Buttons()
	x, y := ev.Position()

	switch {
	case m.buttons&tcell.WheelUp != 0:
		return &Intent{Action: ActionZoom, DX: -1}
	case m.buttons&tcell.WheelDown != 0:
		return &Intent{Action: ActionZoom, DX: 1}
	case m.buttons&tcell.Button1 != 0 && prev&tcell.Button1 == 0:
		return &Intent{Action: ActionPick, X: x, Y: y}
	}
	return nil
}
