package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/rc01/internal/core"
)

// Terminals report presses only, never releases, so a key counts as held
// for a while after its last press or repeat event. The first press of a
// streak waits out the autorepeat delay (250 to 600 ms on common setups),
// later repeats arrive every 30 to 50 ms.
const (
	DefaultRepeatDelay = 650 * time.Millisecond
	DefaultHoldWindow  = 150 * time.Millisecond
)

// KeyMapper translates Bubble Tea key messages to console keys.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// IsQuit reports whether the key asks to close the console.
func (km *KeyMapper) IsQuit(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "ctrl+c", "esc", "q":
		return true
	}
	return false
}

// MapKey translates a key message to a console key.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (core.Key, bool) {
	switch msg.String() {
	case "left":
		return core.KeyArrowLeft, true
	case "right":
		return core.KeyArrowRight, true
	case "up":
		return core.KeyArrowUp, true
	case "down":
		return core.KeyArrowDown, true
	case "a", "A":
		return core.KeyA, true
	case "d", "D":
		return core.KeyD, true
	case "w", "W":
		return core.KeyW, true
	case "s", "S":
		return core.KeyS, true
	}
	return 0, false
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionHistory
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "tab", "h":
		return MenuActionHistory
	}
	return MenuActionNone
}

// HeldKeys turns key press events into level-triggered key state.
// A key reads as pressed until its window passes without a new event for
// it: the repeat delay after the first press, the hold window after a
// repeat.
type HeldKeys struct {
	delay time.Duration
	hold  time.Duration
	now   func() time.Time
	seen  map[core.Key]heldKey
}

type heldKey struct {
	at        time.Time
	repeating bool
}

// NewHeldKeys creates an empty key state. A non-positive hold uses
// DefaultHoldWindow. The first press of a key is held for at least
// DefaultRepeatDelay.
func NewHeldKeys(hold time.Duration, now func() time.Time) *HeldKeys {
	if hold <= 0 {
		hold = DefaultHoldWindow
	}
	if now == nil {
		now = time.Now
	}
	return &HeldKeys{
		delay: max(hold, DefaultRepeatDelay),
		hold:  hold,
		now:   now,
		seen:  make(map[core.Key]heldKey),
	}
}

// Press records a press or repeat of k. A press while k is still held
// counts as a repeat.
func (h *HeldKeys) Press(k core.Key) {
	now := h.now()
	prev, ok := h.seen[k]
	h.seen[k] = heldKey{at: now, repeating: ok && h.held(prev, now)}
}

// Release forgets every key.
func (h *HeldKeys) Release() {
	clear(h.seen)
}

// IsKeyPressed implements core.KeyState.
func (h *HeldKeys) IsKeyPressed(k core.Key) bool {
	s, ok := h.seen[k]
	return ok && h.held(s, h.now())
}

func (h *HeldKeys) held(s heldKey, now time.Time) bool {
	window := h.delay
	if s.repeating {
		window = h.hold
	}
	return now.Sub(s.at) < window
}
