package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/rc01/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List bundled cartridges",
	Long:  `Shows every cartridge embedded in the console.`,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	carts := registry.List()

	if len(carts) == 0 {
		fmt.Println("No cartridges available.")
		return
	}

	fmt.Println("Bundled cartridges:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	maxTitleLen := 5
	for _, c := range carts {
		maxIDLen = max(maxIDLen, len(c.ID))
		maxTitleLen = max(maxTitleLen, len(c.Title))
	}

	fmt.Printf("  %-*s  %-*s  %s\n", maxIDLen, "ID", maxTitleLen, "Title", "Description")
	fmt.Printf("  %-*s  %-*s  %s\n", maxIDLen, "--", maxTitleLen, "-----", "-----------")

	for _, c := range carts {
		fmt.Printf("  %-*s  %-*s  %s\n", maxIDLen, c.ID, maxTitleLen, c.Title, c.Description)
	}

	fmt.Println()
	fmt.Println("Run 'rc01 play <id>' to insert a cartridge.")
}
