package core

import (
	"errors"
	"fmt"
)

// RuntimeConfig holds the resolved settings the console runs with.
type RuntimeConfig struct {
	Width       int     // Framebuffer width in pixels
	Height      int     // Framebuffer height in pixels
	Scale       int     // Window pixels per framebuffer pixel
	Padding     int     // Framebuffer pixels of frame around the display
	TickRate    int     // Frames per second (default 60)
	Title       string  // Window title
	Palette     Palette // Display colors
	ShadowAlpha uint8   // Opacity of the drop shadow, 0 disables it
}

// DefaultConfig returns the stock RC-01 settings.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		Width:       96,
		Height:      64,
		Scale:       4,
		Padding:     4,
		TickRate:    60,
		Title:       "RC-01",
		Palette:     DefaultPalette(),
		ShadowAlpha: 64,
	}
}

// WindowSize returns the size of the composed window in device pixels.
func (c RuntimeConfig) WindowSize() (int, int) {
	return (c.Width + 2*c.Padding) * c.Scale, (c.Height + 2*c.Padding) * c.Scale
}

// Validate reports the first setting the console cannot run with.
func (c RuntimeConfig) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("display size %dx%d must be positive", c.Width, c.Height)
	}
	if c.Scale <= 0 {
		return fmt.Errorf("display scale %d must be positive", c.Scale)
	}
	if c.Padding < 0 {
		return fmt.Errorf("display padding %d must not be negative", c.Padding)
	}
	if c.TickRate <= 0 {
		return errors.New("tick rate must be positive")
	}
	return c.Palette.Validate()
}
