// rc01 is the RC-01 virtual console: a two-tone pixel display driven by
// Lua cartridges, shown in a desktop window or in the terminal.
//
// Usage:
//
//	rc01 list                  - List bundled cartridges
//	rc01 play <cart|dir>       - Run a cartridge
//	rc01 menu                  - Pick a cartridge interactively in the terminal
//	rc01 shot <cart|dir>       - Render frames headless and save a PNG
//	rc01 runs                  - Show the run history
//
// Global flags:
//
//	--config <path>     - Console config YAML (default: search ~/.rc01, ./configs, embedded)
//	--db <path>         - Run history database (default: from config, ~/.rc01/runs.db)
//	--log-level <lvl>   - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/rc01/internal/config"
	"github.com/vovakirdan/rc01/internal/storage"
)

var (
	// Global flags
	flagConfig   string
	flagDBPath   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "rc01",
	Short: "RC-01 - a tiny two-tone virtual console",
	Long: `RC-01 is a virtual console with a 96x64 two-tone display.
Cartridges are Lua scripts that draw one frame per update() call.

Available commands:
  list     - Show bundled cartridges
  play     - Run a cartridge in a window or the terminal
  menu     - Interactive cartridge picker (terminal)
  shot     - Render headless and save a screenshot
  runs     - View the run history

Examples:
  rc01 list
  rc01 play hello
  rc01 play ./mycart --backend tui
  rc01 shot orbit --frames 120 --out orbit.png
  rc01 runs --cart paddle`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to console config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to run history database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(shotCmd)
	rootCmd.AddCommand(runsCmd)
}

// newLogger builds the process logger from --log-level.
func newLogger() (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "rc01",
		Level:           level,
	}), nil
}

// loadConfig loads the console config and applies --db.
func loadConfig() (config.Console, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.Console{}, err
	}
	if flagDBPath != "" {
		cfg.Storage.DBPath = flagDBPath
	}
	return cfg, nil
}

// openStore opens the run history. Failures are logged and yield nil:
// the console still runs without history.
func openStore(cfg config.Console, logger *log.Logger) *storage.Store {
	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		logger.Warn("run history unavailable", "db", cfg.Storage.DBPath, "err", err)
		return nil
	}
	return store
}
