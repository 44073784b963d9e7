package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/rc01/internal/platform/tui"
	"github.com/vovakirdan/rc01/internal/registry"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick a cartridge in the terminal",
	Long: `Start the console in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to insert a cartridge.
When the cartridge closes you return to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Play cartridge
  Tab          - Run history
  Q            - Quit

Examples:
  rc01 menu
  rc01 menu --backend window
  rc01 menu --db ./runs.db`,
	RunE: runMenu,
}

var flagMenuBackend string

func init() {
	menuCmd.Flags().StringVar(&flagMenuBackend, "backend", backendTUI, "Display backend for the chosen cartridge: window or tui")
}

// terminalSize returns the size of stdout, or 80x24 when it is not a terminal.
func terminalSize() (int, int) {
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		return w, h
	}
	return 80, 24
}

func runMenu(_ *cobra.Command, _ []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store := openStore(cfg, logger)
	if store != nil {
		defer store.Close()
	}

	width, height := terminalSize()

	// Menu loop
	for {
		result, err := tui.RunMenu(store, width, height)
		if err != nil {
			return err
		}
		if result.Width > 0 && result.Height > 0 {
			width, height = result.Width, result.Height
		}

		if result.Quit {
			return nil
		}

		if result.WantsHistory {
			goBack, err := tui.RunHistory(store, width, height)
			if err != nil {
				return err
			}
			if goBack {
				continue // Back to menu
			}
			return nil
		}

		cart, err := registry.Get(result.CartID)
		if err != nil {
			logger.Error("cannot insert cartridge", "cart", result.CartID, "err", err)
			continue
		}

		if err := playCart(cart, flagMenuBackend, cfg, store, logger); err != nil {
			logger.Error("cartridge stopped", "cart", cart.ID, "err", err)
		}
		// Loop back to menu
	}
}
