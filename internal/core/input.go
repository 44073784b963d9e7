package core

import "strings"

// Direction is one of the four logical inputs a script can poll.
// Its numeric value is the code scripts pass to InputDown.
type Direction int

const (
	DirectionLeft Direction = iota
	DirectionRight
	DirectionUp
	DirectionDown
)

// String returns a human-readable name for the direction.
func (d Direction) String() string {
	switch d {
	case DirectionLeft:
		return "Left"
	case DirectionRight:
		return "Right"
	case DirectionUp:
		return "Up"
	case DirectionDown:
		return "Down"
	default:
		return "Unknown"
	}
}

// DirectionFromCode maps a script input code to a direction.
// Codes outside 0..3 are rejected.
func DirectionFromCode(code int) (Direction, bool) {
	if code < int(DirectionLeft) || code > int(DirectionDown) {
		return 0, false
	}
	return Direction(code), true
}

// Key is a physical key the console listens to, independent of any backend.
type Key int

const (
	KeyArrowLeft Key = iota
	KeyArrowRight
	KeyArrowUp
	KeyArrowDown
	KeyA
	KeyD
	KeyW
	KeyS
)

// Keys lists every key the console polls.
var Keys = []Key{KeyArrowLeft, KeyArrowRight, KeyArrowUp, KeyArrowDown, KeyA, KeyD, KeyW, KeyS}

// String returns the key's label.
func (k Key) String() string {
	switch k {
	case KeyArrowLeft:
		return "Left"
	case KeyArrowRight:
		return "Right"
	case KeyArrowUp:
		return "Up"
	case KeyArrowDown:
		return "Down"
	case KeyA:
		return "A"
	case KeyD:
		return "D"
	case KeyW:
		return "W"
	case KeyS:
		return "S"
	default:
		return "Unknown"
	}
}

// ParseKey finds a key by its label, ignoring case.
func ParseKey(name string) (Key, bool) {
	for _, k := range Keys {
		if strings.EqualFold(k.String(), name) {
			return k, true
		}
	}
	return 0, false
}

// KeyState reports whether a physical key is held right now.
// Each platform backend provides one.
type KeyState interface {
	IsKeyPressed(k Key) bool
}

// keyPairs binds every direction to an arrow key and a WASD key.
var keyPairs = map[Direction][2]Key{
	DirectionLeft:  {KeyArrowLeft, KeyA},
	DirectionRight: {KeyArrowRight, KeyD},
	DirectionUp:    {KeyArrowUp, KeyW},
	DirectionDown:  {KeyArrowDown, KeyS},
}

// InputAdapter reduces physical key state to the four logical directions.
type InputAdapter struct {
	keys KeyState
}

// NewInputAdapter wraps a key source. A nil source reports nothing pressed.
func NewInputAdapter(keys KeyState) *InputAdapter {
	return &InputAdapter{keys: keys}
}

// IsDirectionPressed reports whether either key bound to d is held.
func (a *InputAdapter) IsDirectionPressed(d Direction) bool {
	if a == nil || a.keys == nil {
		return false
	}
	pair, ok := keyPairs[d]
	if !ok {
		return false
	}
	return a.keys.IsKeyPressed(pair[0]) || a.keys.IsKeyPressed(pair[1])
}

// KeySet is a KeyState backed by a set of held keys.
// Backends without native polling and tests use it.
type KeySet map[Key]bool

// IsKeyPressed implements KeyState.
func (s KeySet) IsKeyPressed(k Key) bool {
	return s[k]
}
