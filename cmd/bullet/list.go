package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aizikovskyi/bullet/internal/games/bullet"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available stages",
	Long:  `Shows a list of all stages registered in bullet.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	stages := bullet.ListStages()

	if len(stages) == 0 {
		fmt.Println("No stages available.")
		return
	}

	fmt.Println("Available stages:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, st := range stages {
		maxIDLen = max(maxIDLen, len(st.ID))
	}

	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Title")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----")
	for _, st := range stages {
		fmt.Printf("  %-*s  %s\n", maxIDLen, st.ID, st.Title)
	}

	fmt.Println()
	fmt.Println("Run 'bullet play <id>' to play a stage.")
}
