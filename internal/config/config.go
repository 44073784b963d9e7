// Package config provides YAML-based console configuration loading
// and validation.
package config

import (
	"fmt"
	"image/color"

	"github.com/vovakirdan/rc01/internal/core"
)

// Console contains all configuration for the RC-01 runtime.
type Console struct {
	Display DisplayConfig `yaml:"display"`
	Palette PaletteConfig `yaml:"palette"`
	Timing  TimingConfig  `yaml:"timing"`
	Scripts ScriptsConfig `yaml:"scripts"`
	Assets  AssetsConfig  `yaml:"assets"`
	Storage StorageConfig `yaml:"storage"`
}

// DisplayConfig defines the framebuffer and window geometry.
type DisplayConfig struct {
	Title   string `yaml:"title"`
	Width   int    `yaml:"width"`   // Framebuffer width in pixels
	Height  int    `yaml:"height"`  // Framebuffer height in pixels
	Scale   int    `yaml:"scale"`   // Integer upscale factor
	Padding int    `yaml:"padding"` // Frame margin around the display, in framebuffer pixels
}

// PaletteConfig defines the console colors as hex strings.
type PaletteConfig struct {
	Foreground       string `yaml:"foreground"`
	Background       string `yaml:"background"`
	Border           string `yaml:"border"`
	RenderBackground string `yaml:"render_background"`
	ShadowAlpha      int    `yaml:"shadow_alpha"` // 0-255
}

// TimingConfig defines the frame rate.
type TimingConfig struct {
	TickRate int `yaml:"tick_rate"`
}

// ScriptsConfig names the sources a cartridge is loaded from.
// Libraries load first, in order, then Main.
type ScriptsConfig struct {
	Libraries []string `yaml:"libraries"`
	Main      string   `yaml:"main"`
}

// AssetsConfig points at optional replacements for the built-in images.
type AssetsConfig struct {
	Font        string `yaml:"font"`
	Border      string `yaml:"border"`
	GlyphWidth  int    `yaml:"glyph_width"`
	GlyphHeight int    `yaml:"glyph_height"`
	Charset     string `yaml:"charset"` // Empty means the built-in charset
}

// StorageConfig defines where run history is kept.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// Runtime resolves the configuration into the values the console runs with.
func (c Console) Runtime() (core.RuntimeConfig, error) {
	pal, err := c.Palette.resolve()
	if err != nil {
		return core.RuntimeConfig{}, err
	}
	if c.Palette.ShadowAlpha < 0 || c.Palette.ShadowAlpha > 255 {
		return core.RuntimeConfig{}, fmt.Errorf("config: shadow_alpha %d out of range 0-255", c.Palette.ShadowAlpha)
	}

	rt := core.RuntimeConfig{
		Width:       c.Display.Width,
		Height:      c.Display.Height,
		Scale:       c.Display.Scale,
		Padding:     c.Display.Padding,
		TickRate:    c.Timing.TickRate,
		Title:       c.Display.Title,
		Palette:     pal,
		ShadowAlpha: uint8(c.Palette.ShadowAlpha),
	}
	if err := rt.Validate(); err != nil {
		return core.RuntimeConfig{}, fmt.Errorf("config: %w", err)
	}
	return rt, nil
}

// Validate checks the whole configuration.
func (c Console) Validate() error {
	if _, err := c.Runtime(); err != nil {
		return err
	}
	if c.Scripts.Main == "" {
		return fmt.Errorf("config: scripts.main must not be empty")
	}
	if c.Assets.GlyphWidth <= 0 || c.Assets.GlyphHeight <= 0 {
		return fmt.Errorf("config: glyph size %dx%d must be positive", c.Assets.GlyphWidth, c.Assets.GlyphHeight)
	}
	return nil
}

// CharsetOrDefault returns the configured atlas charset or the built-in one.
func (a AssetsConfig) CharsetOrDefault() string {
	if a.Charset == "" {
		return core.DefaultCharset
	}
	return a.Charset
}

func (p PaletteConfig) resolve() (core.Palette, error) {
	var pal core.Palette
	fields := []struct {
		name string
		hex  string
		dst  *color.RGBA
	}{
		{"foreground", p.Foreground, &pal.Foreground},
		{"background", p.Background, &pal.Background},
		{"border", p.Border, &pal.Border},
		{"render_background", p.RenderBackground, &pal.RenderBackground},
	}
	for _, f := range fields {
		c, err := core.ParseHex(f.hex)
		if err != nil {
			return core.Palette{}, fmt.Errorf("config: palette.%s: %w", f.name, err)
		}
		*f.dst = c
	}
	return pal, nil
}
