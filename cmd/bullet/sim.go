package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/aizikovskyi/bullet/internal/games/bullet"
	"github.com/aizikovskyi/bullet/internal/headless"
	"github.com/aizikovskyi/bullet/internal/observability"
	"github.com/aizikovskyi/bullet/internal/storage"
	"github.com/aizikovskyi/bullet/internal/telemetry"
)

var (
	flagSimStage        string
	flagSimController   string
	flagSimTicks        int
	flagSimCSV          string
	flagSimVerify       bool
	flagSimMetricsAddr  string
	flagSimInvulnerable bool
	flagSimRecord       string
	flagSimReplay       string
	flagSimNoSave       bool
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run a stage headless",
	Long: `Run one stage without a terminal or wall clock and print the result.

The human controller never steers, so it measures how long a motionless
player survives. The agent wanders randomly. Replay re-runs a recording
written by --record and must reproduce it exactly.

Examples:
  bullet sim --controller agent --seed 42
  bullet sim --controller agent --record run.rec --verify
  bullet sim --controller replay --replay run.rec
  bullet sim --stage stage1 --invulnerable --csv frames.csv
  bullet sim --controller agent --metrics-addr :9090`,
	RunE: runSim,
}

func init() {
	simCmd.Flags().StringVar(&flagSimStage, "stage", bullet.StageEndless, "Stage ID")
	simCmd.Flags().StringVar(&flagSimController, "controller", "agent", "Who steers: human, agent or replay")
	simCmd.Flags().IntVar(&flagSimTicks, "ticks", 0, "Tick limit (0 = default limit)")
	simCmd.Flags().StringVar(&flagSimCSV, "csv", "", "Write one CSV row per tick to this file")
	simCmd.Flags().BoolVar(&flagSimVerify, "verify", false, "Replay the run and compare every frame")
	simCmd.Flags().StringVar(&flagSimMetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
	simCmd.Flags().BoolVar(&flagSimInvulnerable, "invulnerable", false, "The player never collides")
	simCmd.Flags().StringVar(&flagSimRecord, "record", "", "Write the run's recording to this file")
	simCmd.Flags().StringVar(&flagSimReplay, "replay", "", "Recording to replay (with --controller replay)")
	simCmd.Flags().BoolVar(&flagSimNoSave, "no-save", false, "Do not write the run to the scores database")
}

func newLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "bullet",
	})
}

func runSim(cmd *cobra.Command, _ []string) error {
	ctrl, ok := bullet.ParseControllerKind(flagSimController)
	if !ok {
		return fmt.Errorf("unknown controller %q (want human, agent or replay)", flagSimController)
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := headless.Options{
		Config:       cfg,
		Stage:        flagSimStage,
		Controller:   ctrl,
		Seed:         flagSeed,
		MaxTicks:     flagSimTicks,
		Record:       flagSimRecord != "",
		Verify:       flagSimVerify,
		Invulnerable: flagSimInvulnerable,
		Logger:       logger,
	}

	if ctrl == bullet.ControllerReplay {
		if flagSimReplay == "" {
			return errors.New("--controller replay needs --replay <file>")
		}
		rec, err := headless.LoadRecording(flagSimReplay)
		if err != nil {
			return err
		}
		opts.Recording = &rec
	}

	var store *storage.Store
	if !flagSimNoSave && ctrl != bullet.ControllerReplay {
		store, err = storage.Open(flagDBPath)
		if err != nil {
			logger.Warn("could not open scores database", "error", err)
			store = nil
		}
	}
	if store != nil {
		defer store.Close()
		opts.Scores = store.ForStage(opts.Stage)
	}

	if flagSimCSV != "" {
		w, err := telemetry.CreateCSV(flagSimCSV)
		if err != nil {
			return err
		}
		defer func() {
			if err := w.Close(); err != nil {
				logger.Error("csv", "error", err)
			}
		}()
		opts.Observers = append(opts.Observers, w)
	}

	var srv *http.Server
	if flagSimMetricsAddr != "" {
		reg := prometheus.NewRegistry()
		metrics, err := observability.NewMetrics(reg)
		if err != nil {
			return err
		}
		opts.Observers = append(opts.Observers, metrics)
		srv = serveMetrics(flagSimMetricsAddr, metrics, logger)
	}

	res, err := headless.Run(ctx, opts)
	if err != nil {
		return err
	}
	printResult(res)

	if flagSimRecord != "" && res.Recording != nil {
		if err := headless.SaveRecording(flagSimRecord, *res.Recording); err != nil {
			return err
		}
		logger.Info("recording saved", "path", flagSimRecord, "frames", res.Recording.Len())
	}
	if store != nil && headless.Rankable(opts, res) {
		_, err := store.SaveRun(storage.RunEntry{
			StageID:    res.Stage,
			Frames:     res.Frames,
			Seed:       res.Seed,
			Controller: string(ctrl),
		})
		if err != nil {
			logger.Warn("could not save run", "error", err)
		}
	}

	if srv != nil {
		logger.Info("run finished, serving metrics until interrupted", "address", flagSimMetricsAddr)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
	return nil
}

func serveMetrics(addr string, metrics *observability.Metrics, logger *log.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()
	logger.Info("serving metrics", "address", addr)
	return srv
}

func printResult(res headless.Result) {
	fmt.Printf("Stage:     %s\n", res.Stage)
	fmt.Printf("Seed:      %d\n", res.Seed)
	fmt.Printf("Outcome:   %s\n", outcomeText(res))
	fmt.Printf("Survived:  %.2fs (%d frames)\n", res.Seconds, res.Frames)
	fmt.Printf("Ticks:     %d\n", res.Ticks)
	fmt.Printf("Spawned:   %d\n", res.Spawned)
	fmt.Printf("Best:      %d frames\n", res.HighScore)
	fmt.Printf("Digest:    %016x\n", res.Digest)
	if res.Verified {
		fmt.Println("Replay:    verified")
	}
}

func outcomeText(res headless.Result) string {
	if res.Outcome == bullet.OutcomeNone {
		return "tick limit"
	}
	return string(res.Outcome)
}
