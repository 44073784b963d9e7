package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/rc01/internal/config"
	"github.com/vovakirdan/rc01/internal/console"
	"github.com/vovakirdan/rc01/internal/core"
	"github.com/vovakirdan/rc01/internal/platform/tui"
	"github.com/vovakirdan/rc01/internal/platform/window"
	"github.com/vovakirdan/rc01/internal/registry"
	"github.com/vovakirdan/rc01/internal/storage"
)

// Backends accepted by --backend.
const (
	backendWindow   = "window"
	backendTUI      = "tui"
	backendHeadless = "headless"
)

// defaultBackend picks the window when this build has one.
func defaultBackend() string {
	if window.Available {
		return backendWindow
	}
	return backendTUI
}

// playCart runs cart on a display backend until it closes and records
// the run. Script failures are returned after the run is recorded.
func playCart(cart registry.Cart, backend string, cfg config.Console, store *storage.Store, logger *log.Logger) error {
	var (
		keys core.KeyState
		held *tui.HeldKeys
	)
	switch backend {
	case backendWindow:
		keys = window.Keys{}
	case backendTUI:
		held = tui.NewHeldKeys(0, nil)
		keys = held
		// The alternate screen owns the terminal while the console runs.
		restore, err := redirectLog(logger)
		if err != nil {
			return err
		}
		defer restore()
	default:
		return fmt.Errorf("unknown backend %q (want %s or %s)", backend, backendWindow, backendTUI)
	}

	c, err := console.New(console.Options{
		Config:  cfg,
		Name:    cart.ID,
		Sources: cart.FS,
		Keys:    keys,
		Logger:  logger,
	})
	if err != nil {
		return err
	}
	defer c.Close()

	logger.Info("cartridge inserted", "cart", cart.ID, "title", cart.Title(), "backend", backend)
	start := time.Now()

	if backend == backendWindow {
		err = window.Run(c, logger)
	} else {
		err = tui.Run(c, held)
	}

	recordRun(store, logger, cart.ID, backend, c.Frames(), time.Since(start), exitReason(err, false), err)
	return err
}

func exitReason(runErr error, exhausted bool) string {
	return storage.ExitReasonFor(runErr != nil && !errors.Is(runErr, console.ErrClosed), exhausted)
}

// recordRun saves one run to the history. A nil store is a no-op.
func recordRun(store *storage.Store, logger *log.Logger, cartID, backend string, frames uint64, d time.Duration, reason string, runErr error) {
	run := storage.Run{
		CartID:     cartID,
		Backend:    backend,
		Frames:     int64(frames),
		Duration:   d,
		ExitReason: reason,
	}
	if reason == storage.ExitError && runErr != nil {
		run.Error = runErr.Error()
	}

	logger.Info("run finished", "cart", cartID, "frames", frames, "time", d.Round(time.Millisecond), "exit", run.ExitReason)
	if store == nil {
		return
	}
	if _, err := store.SaveRun(run); err != nil {
		logger.Warn("could not record run", "err", err)
	}
}

// redirectLog points logger at ~/.rc01/rc01.log and returns a function
// that restores stderr.
func redirectLog(logger *log.Logger) (func(), error) {
	path := config.UserPath("rc01.log")
	if path == "" {
		path = filepath.Join(os.TempDir(), "rc01.log")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("cannot create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("cannot open log file: %w", err)
	}

	logger.SetOutput(f)
	return func() {
		logger.SetOutput(os.Stderr)
		f.Close()
	}, nil
}
