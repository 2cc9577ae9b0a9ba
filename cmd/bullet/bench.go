package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aizikovskyi/bullet/internal/games/bullet"
	"github.com/aizikovskyi/bullet/internal/headless"
)

var (
	flagBenchStage      string
	flagBenchController string
	flagBenchRuns       int
	flagBenchTicks      int
	flagBenchWorkers    int
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Survival statistics over many seeds",
	Long: `Run a stage headless for consecutive seeds in parallel and summarize
how long the player survived.

Examples:
  bullet bench --runs 200
  bullet bench --stage stage1 --controller human --seed 1000
  bullet bench --difficulty hard --workers 4`,
	RunE: runBench,
}

func init() {
	benchCmd.Flags().StringVar(&flagBenchStage, "stage", bullet.StageEndless, "Stage ID")
	benchCmd.Flags().StringVar(&flagBenchController, "controller", "agent", "Who steers: human or agent")
	benchCmd.Flags().IntVar(&flagBenchRuns, "runs", 100, "Number of runs")
	benchCmd.Flags().IntVar(&flagBenchTicks, "ticks", 0, "Tick limit per run (0 = default limit)")
	benchCmd.Flags().IntVar(&flagBenchWorkers, "workers", 0, "Parallel runs (0 = GOMAXPROCS)")
}

func runBench(cmd *cobra.Command, _ []string) error {
	ctrl, ok := bullet.ParseControllerKind(flagBenchController)
	if !ok {
		return fmt.Errorf("unknown controller %q (want human or agent)", flagBenchController)
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	res, err := headless.Bench(ctx, headless.BenchOptions{
		Config:     cfg,
		Stage:      flagBenchStage,
		Controller: ctrl,
		Runs:       flagBenchRuns,
		BaseSeed:   flagSeed,
		MaxTicks:   flagBenchTicks,
		Workers:    flagBenchWorkers,
	})
	if err != nil {
		return err
	}
	logger.Info("bench finished", "runs", res.Runs, "elapsed", time.Since(start).Round(time.Millisecond))

	fmt.Printf("Stage:    %s (%s, %s)\n", flagBenchStage, ctrl, cfg.Difficulty.Preset)
	fmt.Printf("Runs:     %d (%d deaths)\n", res.Runs, res.Deaths)
	fmt.Printf("Mean:     %.2fs ± %.2fs\n", res.Mean, res.StdDev)
	fmt.Printf("Min/Max:  %.2fs / %.2fs\n", res.Min, res.Max)
	fmt.Printf("P10:      %.2fs\n", res.P10)
	fmt.Printf("Median:   %.2fs\n", res.Median)
	fmt.Printf("P90:      %.2fs\n", res.P90)
	fmt.Printf("Spawned:  %d over %d ticks\n", res.Spawned, res.Ticks)
	return nil
}
