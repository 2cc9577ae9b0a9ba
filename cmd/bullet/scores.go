package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aizikovskyi/bullet/internal/games/bullet"
	"github.com/aizikovskyi/bullet/internal/storage"
)

var (
	flagScoresClear bool
	flagScoresLimit int
)

var scoresCmd = &cobra.Command{
	Use:   "scores [stage]",
	Short: "Show best times and recent runs",
	Long: `Display the best time of every stage, or the top runs of one stage.

Examples:
  bullet scores
  bullet scores endless
  bullet scores stage1 --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Reset the stage's best time")
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of runs to show")
}

func runScores(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	fps := float64(cfg.Timing.FPS)

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if len(args) == 0 {
		if flagScoresClear {
			return fmt.Errorf("--clear needs a stage")
		}
		return printAllBest(store, fps)
	}

	stage := args[0]
	if !bullet.Stages.Exists(stage) {
		return fmt.Errorf("unknown stage %q (run 'bullet list' to see available stages)", stage)
	}
	if flagScoresClear {
		if err := store.ClearHighScore(stage); err != nil {
			return err
		}
		fmt.Printf("Cleared best time for %s.\n", stage)
		return nil
	}
	return printStage(store, stage, fps)
}

func printAllBest(store *storage.Store, fps float64) error {
	entries, err := store.AllHighScores()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No best times recorded yet.")
		return nil
	}

	fmt.Println("Best times:")
	fmt.Println()
	fmt.Printf("  %-10s  %-9s  %s\n", "Stage", "Time", "Date")
	fmt.Printf("  %-10s  %-9s  %s\n", "-----", "----", "----")
	for _, e := range entries {
		fmt.Printf("  %-10s  %-9s  %s\n", e.StageID, seconds(e.Frames, fps), e.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func printStage(store *storage.Store, stage string, fps float64) error {
	runs, err := store.TopRuns(stage, flagScoresLimit)
	if err != nil {
		return err
	}

	fmt.Printf("Top runs - %s\n", stage)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'bullet play %s' to set the first time!\n", stage)
		return nil
	}

	fmt.Printf("  %-4s  %-9s  %-10s  %-20s  %s\n", "Rank", "Time", "Controller", "Seed", "Date")
	fmt.Printf("  %-4s  %-9s  %-10s  %-20s  %s\n", "----", "----", "----------", "----", "----")
	for i, r := range runs {
		fmt.Printf("  %-4d  %-9s  %-10s  %-20d  %s\n",
			i+1, seconds(r.Frames, fps), r.Controller, r.Seed, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	fmt.Println()
	if best, err := store.HighScore(stage); err == nil {
		fmt.Printf("Best: %s\n", seconds(best, fps))
	}
	if stats, err := store.GetStageStats(stage); err == nil && stats.RunsCount > 0 {
		fmt.Printf("Runs: %d, average %s\n", stats.RunsCount, seconds(int(stats.AvgFrames), fps))
	}
	return nil
}

func seconds(frames int, fps float64) string {
	return fmt.Sprintf("%.2fs", float64(frames)/fps)
}
