package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/rc01/internal/registry"
)

var flagBackend string

var playCmd = &cobra.Command{
	Use:   "play <cart|dir>",
	Short: "Run a cartridge",
	Long: `Insert a cartridge and run it until the display is closed.

The argument is a bundled cartridge ID (see 'rc01 list') or a directory
holding the cartridge sources (lib.lua, main.lua).

Controls:
  Arrows/WASD  - Directions
  F11          - Toggle fullscreen (window)
  F12          - Copy screenshot to clipboard (window)
  Esc          - Close (Q or Ctrl+C also close in the terminal)

Backends:
  window - Desktop window (default)
  tui    - Terminal, drawn with half-block characters

Examples:
  rc01 play hello
  rc01 play paddle --backend tui
  rc01 play ./carts/mygame --config ./rc01.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagBackend, "backend", defaultBackend(), "Display backend: window or tui")
}

func runPlay(_ *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	cart, err := registry.Resolve(args[0])
	if err != nil {
		return err
	}

	store := openStore(cfg, logger)
	if store != nil {
		defer store.Close()
	}

	return playCart(cart, flagBackend, cfg, store, logger)
}
