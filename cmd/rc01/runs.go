package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/rc01/internal/platform/tui"
	"github.com/vovakirdan/rc01/internal/storage"
)

var (
	flagRunsLimit       int
	flagRunsCart        string
	flagRunsInteractive bool
	flagRunsClear       bool
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show the run history",
	Long: `Display the most recent runs recorded by play, menu and shot.

Examples:
  rc01 runs
  rc01 runs --cart hello --limit 5
  rc01 runs --interactive
  rc01 runs --cart hello --clear`,
	RunE: runRuns,
}

func init() {
	runsCmd.Flags().IntVarP(&flagRunsLimit, "limit", "n", 10, "Number of runs to show")
	runsCmd.Flags().StringVar(&flagRunsCart, "cart", "", "Only show runs of this cartridge")
	runsCmd.Flags().BoolVarP(&flagRunsInteractive, "interactive", "i", false, "Browse the history in a table")
	runsCmd.Flags().BoolVar(&flagRunsClear, "clear", false, "Delete the selected history")
}

func runRuns(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if flagRunsClear {
		if err := store.ClearRuns(flagRunsCart); err != nil {
			return err
		}
		fmt.Println("Run history cleared.")
		return nil
	}

	if flagRunsInteractive {
		width, height := terminalSize()
		_, err := tui.RunHistory(store, width, height)
		return err
	}

	runs, err := store.RecentRuns(flagRunsCart, flagRunsLimit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Run 'rc01 play <cart>' to record the first one!")
		return nil
	}

	fmt.Printf("  %-16s  %-10s  %-8s  %8s  %8s  %s\n", "Date", "Cart", "Backend", "Frames", "Time", "Exit")
	fmt.Printf("  %-16s  %-10s  %-8s  %8s  %8s  %s\n", "----", "----", "-------", "------", "----", "----")

	for _, r := range runs {
		fmt.Printf("  %-16s  %-10s  %-8s  %8d  %8s  %s\n",
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.CartID, r.Backend, r.Frames,
			r.Duration.Round(100*time.Millisecond), r.ExitReason)
		if r.Error != "" {
			fmt.Printf("      %s\n", r.Error)
		}
	}

	stats, err := store.Stats()
	if err == nil && flagRunsCart != "" {
		if st, ok := stats[flagRunsCart]; ok {
			fmt.Println()
			fmt.Printf("Total: %d runs, %d frames, %s played, %d errors\n",
				st.Runs, st.Frames, st.TotalTime.Round(time.Second), st.Errors)
		}
	}
	return nil
}
