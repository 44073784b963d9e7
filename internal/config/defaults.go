package config

import (
	_ "embed"
)

//go:embed defaults/console.yaml
var defaultConsoleYAML []byte

// DefaultConsole returns the built-in configuration.
// It matches defaults/console.yaml.
func DefaultConsole() Console {
	return Console{
		Display: DisplayConfig{
			Title:   "RC-01",
			Width:   96,
			Height:  64,
			Scale:   4,
			Padding: 4,
		},
		Palette: PaletteConfig{
			Foreground:       "#0d0f0b",
			Background:       "#a7c191",
			Border:           "#0d0f0b",
			RenderBackground: "#9db786",
			ShadowAlpha:      64,
		},
		Timing: TimingConfig{
			TickRate: 60,
		},
		Scripts: ScriptsConfig{
			Libraries: []string{"lib.lua"},
			Main:      "main.lua",
		},
		Assets: AssetsConfig{
			GlyphWidth:  4,
			GlyphHeight: 6,
		},
		Storage: StorageConfig{
			DBPath: "~/.rc01/runs.db",
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultConsoleYAML
}
