package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/rc01/internal/console"
	"github.com/vovakirdan/rc01/internal/core"
	"github.com/vovakirdan/rc01/internal/platform/headless"
	"github.com/vovakirdan/rc01/internal/registry"
)

var (
	flagShotFrames int
	flagShotOut    string
	flagShotHold   []string
)

var shotCmd = &cobra.Command{
	Use:   "shot <cart|dir>",
	Short: "Render frames headless and save a screenshot",
	Long: `Run a cartridge without a display for a number of frames, as fast
as possible, and save the last composed frame as PNG.

Frame time still advances by the configured tick rate, so Time() and
Elapsed() see the same values as a paced run.

Examples:
  rc01 shot hello
  rc01 shot orbit --frames 120 --out orbit.png
  rc01 shot paddle --hold right,up`,
	Args: cobra.ExactArgs(1),
	RunE: runShot,
}

func init() {
	shotCmd.Flags().IntVar(&flagShotFrames, "frames", 60, "Number of frames to render")
	shotCmd.Flags().StringVarP(&flagShotOut, "out", "o", "", "Output PNG path (default: <cart>.png)")
	shotCmd.Flags().StringSliceVar(&flagShotHold, "hold", nil, "Keys held for the whole run: left, right, up, down, a, d, w, s")
}

func runShot(_ *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if flagShotFrames <= 0 {
		return fmt.Errorf("--frames must be positive, got %d", flagShotFrames)
	}

	keys := core.KeySet{}
	for _, name := range flagShotHold {
		k, ok := core.ParseKey(strings.TrimSpace(name))
		if !ok {
			return fmt.Errorf("unknown key %q", name)
		}
		keys[k] = true
	}

	cart, err := registry.Resolve(args[0])
	if err != nil {
		return err
	}
	out := flagShotOut
	if out == "" {
		out = cart.ID + ".png"
	}

	// Simulated clock: every presented frame lasts exactly one tick.
	rt, err := cfg.Runtime()
	if err != nil {
		return err
	}
	d := headless.New(flagShotFrames)
	epoch := time.Unix(0, 0)
	tick := time.Second / time.Duration(rt.TickRate)
	clock := func() time.Time {
		return epoch.Add(time.Duration(d.Presented()) * tick)
	}

	c, err := console.New(console.Options{
		Config:  cfg,
		Name:    cart.ID,
		Sources: cart.FS,
		Keys:    keys,
		Logger:  logger,
		Now:     clock,
		Unpaced: true,
	})
	if err != nil {
		return err
	}
	defer c.Close()

	start := time.Now()
	runErr := c.Run(context.Background(), d)

	store := openStore(cfg, logger)
	if store != nil {
		defer store.Close()
	}
	recordRun(store, logger, cart.ID, backendHeadless, c.Frames(), time.Since(start), exitReason(runErr, d.Exhausted()), runErr)
	if runErr != nil {
		return runErr
	}

	if err := d.WritePNG(out); err != nil {
		return err
	}
	logger.Info("screenshot saved", "path", out, "frames", d.Presented())
	return nil
}
