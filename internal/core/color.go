package core

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Tone is one of the two logical colors a framebuffer pixel can hold.
// Its numeric value is the pixel's palette index.
type Tone uint8

const (
	ToneBackground Tone = iota
	ToneForeground
)

// String returns a human-readable name for the tone.
func (t Tone) String() string {
	switch t {
	case ToneBackground:
		return "Background"
	case ToneForeground:
		return "Foreground"
	default:
		return "Unknown"
	}
}

// ToneFor maps the script-facing pen flag to a tone.
func ToneFor(on bool) Tone {
	if on {
		return ToneForeground
	}
	return ToneBackground
}

// Palette holds the four configured colors of the console.
// Foreground and Background are the only colors that ever reach the
// framebuffer; Border and RenderBackground are used by the compositor.
type Palette struct {
	Foreground       color.RGBA
	Background       color.RGBA
	Border           color.RGBA
	RenderBackground color.RGBA
}

// DefaultPalette returns the greenish LCD palette of the RC-01.
func DefaultPalette() Palette {
	return Palette{
		Foreground:       color.RGBA{R: 13, G: 15, B: 11, A: 255},
		Background:       color.RGBA{R: 167, G: 193, B: 145, A: 255},
		Border:           color.RGBA{R: 13, G: 15, B: 11, A: 255},
		RenderBackground: color.RGBA{R: 157, G: 183, B: 134, A: 255},
	}
}

// Color returns the concrete color for a tone.
func (p Palette) Color(t Tone) color.RGBA {
	if t == ToneForeground {
		return p.Foreground
	}
	return p.Background
}

// Validate checks that Background can serve as a chroma key.
func (p Palette) Validate() error {
	if p.Background == p.Foreground {
		return fmt.Errorf("palette: background %s must differ from foreground", Hex(p.Background))
	}
	if p.Background == p.Border {
		return fmt.Errorf("palette: background %s must differ from border", Hex(p.Background))
	}
	return nil
}

// ParseHex parses "#rrggbb" or "#rrggbbaa" into a color.
func ParseHex(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 && len(h) != 8 {
		return color.RGBA{}, fmt.Errorf("color %q: expected #rrggbb or #rrggbbaa", s)
	}
	if len(h) == 6 {
		h += "ff"
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	return color.RGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}

// Hex formats a color as "#rrggbb", appending alpha only when it is not opaque.
func Hex(c color.RGBA) string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
