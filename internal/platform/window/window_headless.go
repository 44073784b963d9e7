//go:build headless

// Package window presents the console in a desktop window using Ebitengine.
// This build carries no window support.
package window

import (
	"errors"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/rc01/internal/console"
	"github.com/vovakirdan/rc01/internal/core"
)

// Available reports whether this build can open a window.
const Available = false

// ErrUnavailable is returned by Run in headless builds.
var ErrUnavailable = errors.New("window: built with the headless tag")

// Keys reports no key as pressed.
type Keys struct{}

// IsKeyPressed implements core.KeyState.
func (Keys) IsKeyPressed(core.Key) bool {
	return false
}

// Run always fails in headless builds.
func Run(*console.Console, *log.Logger) error {
	return ErrUnavailable
}
