package headless

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/aizikovskyi/bullet/internal/config"
	"github.com/aizikovskyi/bullet/internal/games/bullet"
)

// BenchOptions configures a batch of seeded runs.
type BenchOptions struct {
	Config     config.BulletConfig
	Stage      string
	Controller bullet.ControllerKind
	Runs       int
	BaseSeed   uint64 // Run i uses BaseSeed+i
	MaxTicks   int
	Workers    int // 0 means GOMAXPROCS
}

// BenchResult summarizes survival time over a batch, in seconds.
type BenchResult struct {
	Runs    int
	Deaths  int
	Mean    float64
	StdDev  float64
	Min     float64
	P10     float64
	Median  float64
	P90     float64
	Max     float64
	Seconds []float64 // Sorted ascending
	Spawned int
	Ticks   int
}

// Bench runs opts.Runs independent runs in parallel and aggregates them.
func Bench(ctx context.Context, opts BenchOptions) (BenchResult, error) {
	if opts.Runs <= 0 {
		return BenchResult{}, fmt.Errorf("headless: bench needs at least one run, got %d", opts.Runs)
	}
	if opts.Controller == bullet.ControllerReplay {
		return BenchResult{}, fmt.Errorf("headless: bench cannot use the replay controller")
	}
	if opts.BaseSeed == 0 {
		opts.BaseSeed = 1
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, opts.Runs)

	results := make([]Result, opts.Runs)
	errs := make([]error, opts.Runs)
	jobs := make(chan int)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i], errs[i] = Run(ctx, Options{
					Config:     opts.Config,
					Stage:      opts.Stage,
					Controller: opts.Controller,
					Seed:       opts.BaseSeed + uint64(i),
					MaxTicks:   opts.MaxTicks,
				})
			}
		}()
	}

feed:
	for i := range opts.Runs {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return BenchResult{}, fmt.Errorf("headless: bench interrupted: %w", err)
	}
	for i, err := range errs {
		if err != nil {
			return BenchResult{}, fmt.Errorf("headless: run %d (seed %d): %w", i, opts.BaseSeed+uint64(i), err)
		}
	}

	return summarize(results), nil
}

func summarize(results []Result) BenchResult {
	br := BenchResult{Runs: len(results), Seconds: make([]float64, len(results))}
	for i, r := range results {
		br.Seconds[i] = r.Seconds
		br.Spawned += r.Spawned
		br.Ticks += r.Ticks
		if r.Died {
			br.Deaths++
		}
	}
	sort.Float64s(br.Seconds)

	br.Mean, br.StdDev = stat.MeanStdDev(br.Seconds, nil)
	if len(br.Seconds) < 2 {
		br.StdDev = 0
	}
	br.Min = br.Seconds[0]
	br.Max = br.Seconds[len(br.Seconds)-1]
	br.P10 = stat.Quantile(0.1, stat.Empirical, br.Seconds, nil)
	br.Median = stat.Quantile(0.5, stat.Empirical, br.Seconds, nil)
	br.P90 = stat.Quantile(0.9, stat.Empirical, br.Seconds, nil)
	return br
}
