// Package headless runs simulations without a terminal or wall clock,
// for recording, replay verification and statistics.
package headless

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/aizikovskyi/bullet/internal/config"
	"github.com/aizikovskyi/bullet/internal/core"
	"github.com/aizikovskyi/bullet/internal/games/bullet"
	"github.com/aizikovskyi/bullet/internal/rng"
)

var errReplayNeedsRecording = errors.New("headless: replay needs a recording")

// DefaultMaxTicks bounds a run whose player never dies.
const DefaultMaxTicks = 30 * 60 * 30

// Options configures a headless run.
type Options struct {
	Config       config.BulletConfig
	Stage        string
	Controller   bullet.ControllerKind // Human means a player that never steers
	Seed         uint64                // 0 picks a time-based seed
	MaxTicks     int                   // 0 means DefaultMaxTicks
	Recording    *bullet.Recording     // Required for ControllerReplay
	Record       bool
	Verify       bool // Replay the recording and compare every frame
	Invulnerable bool
	Scores       bullet.HighScoreStore
	Observers    []bullet.Observer
	Logger       *log.Logger
}

// Result summarizes a finished headless run.
type Result struct {
	Stage     string
	Seed      uint64
	Ticks     int
	Frames    int // Scoring frame
	Seconds   float64
	Outcome   bullet.Outcome
	Died      bool
	Spawned   int
	HighScore int
	Digest    uint64 // Digest of the final state
	Recording *bullet.Recording
	Verified  bool

	checkpoint []byte // Encoded snapshot kept for the resume check
}

// Run plays one run to completion or MaxTicks.
func Run(ctx context.Context, opts Options) (Result, error) {
	if opts.Seed == 0 {
		opts.Seed = rng.NewSeed()
	}
	if opts.Controller == bullet.ControllerReplay {
		if opts.Recording == nil {
			return Result{}, errReplayNeedsRecording
		}
		opts.Seed = opts.Recording.Seed
		if opts.Recording.Stage != "" {
			opts.Stage = opts.Recording.Stage
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	verify := opts.Verify
	record := opts.Record || verify

	res, digests, err := run(ctx, opts, record, verify, logger)
	if err != nil {
		return res, err
	}
	if !verify {
		return res, nil
	}

	replayOpts := opts
	replayOpts.Controller = bullet.ControllerReplay
	replayOpts.Recording = res.Recording
	replayOpts.Scores = nil
	replayOpts.Observers = nil
	replay, replayDigests, err := run(ctx, replayOpts, false, true, logger)
	if err != nil {
		return res, fmt.Errorf("headless: replay failed: %w", err)
	}
	if len(replayDigests) != len(digests) {
		return res, fmt.Errorf("headless: replay ran %d ticks, recording has %d", len(replayDigests), len(digests))
	}
	for i := range digests {
		if digests[i] != replayDigests[i] {
			return res, fmt.Errorf("headless: replay diverged at frame %d", i+1)
		}
	}

	if err := resume(ctx, replayOpts, res.checkpoint, digests, logger); err != nil {
		return res, err
	}

	logger.Info("replay verified", "seed", res.Seed, "ticks", replay.Ticks, "digest", fmt.Sprintf("%016x", replay.Digest))
	res.Verified = true
	return res, nil
}

func run(ctx context.Context, opts Options, record, trace bool, logger *log.Logger) (Result, []uint64, error) {
	controller, err := newController(opts)
	if err != nil {
		return Result{}, nil, err
	}

	session, err := bullet.NewSession(bullet.SessionOptions{
		Config:     opts.Config,
		Stage:      opts.Stage,
		Controller: controller,
		Scores:     opts.Scores,
		Observers:  opts.Observers,
		Record:     record,
		Logger:     logger,
	})
	if err != nil {
		return Result{}, nil, fmt.Errorf("headless: %w", err)
	}
	session.Start(opts.Seed)
	if opts.Invulnerable {
		session.Sim().SetPlayerStatus(bullet.PlayerInvulnerable)
	}

	maxTicks := opts.MaxTicks
	if maxTicks <= 0 {
		maxTicks = DefaultMaxTicks
	}

	logger.Debug("headless run started", "stage", session.Stage(), "seed", opts.Seed, "controller", controller.Kind())
	start := time.Now()

	var digests []uint64
	res := Result{Stage: session.Stage(), Seed: opts.Seed}
	for res.Ticks < maxTicks {
		if err := ctx.Err(); err != nil {
			return res, digests, fmt.Errorf("headless: run interrupted: %w", err)
		}

		report := session.Step(ctx, time.Time{})
		if !report.Tick.Ticked {
			break
		}
		res.Ticks++
		res.Died = res.Died || report.Tick.Died

		if trace {
			d, err := digest(session.Sim())
			if err != nil {
				return res, digests, err
			}
			digests = append(digests, d)
			if isCheckpoint(res.Ticks) {
				if res.checkpoint, err = encode(session.Sim()); err != nil {
					return res, digests, err
				}
			}
		}
		if report.Tick.Finished {
			res.Outcome = report.Outcome
			break
		}
	}

	s := session.State()
	res.Frames = s.ScoringFrame()
	res.Seconds = s.Seconds(res.Frames)
	res.Spawned = s.Spawned
	res.HighScore = session.HighScore()

	final, err := digest(session.Sim())
	if err != nil {
		return res, digests, err
	}
	res.Digest = final

	if rec, ok := session.Recording(); ok {
		res.Recording = &rec
	}

	logger.Debug("headless run finished",
		"seed", res.Seed,
		"ticks", res.Ticks,
		"seconds", res.Seconds,
		"outcome", res.Outcome,
		"elapsed", time.Since(start))

	return res, digests, nil
}

// Rankable reports whether a run belongs in the runs history. Invulnerable
// runs and runs cut off by the tick limit are not comparable to real ones.
func Rankable(opts Options, res Result) bool {
	return !opts.Invulnerable && res.Outcome != bullet.OutcomeNone
}

// isCheckpoint keeps a snapshot at every power of two, so the last one kept
// lies in the second half of the run.
func isCheckpoint(ticks int) bool {
	return ticks > 0 && ticks&(ticks-1) == 0
}

// resume restores the checkpoint into a fresh replay session and checks the
// rest of the run against the recorded digests.
func resume(ctx context.Context, opts Options, checkpoint []byte, digests []uint64, logger *log.Logger) error {
	if checkpoint == nil {
		return nil
	}
	snap, err := bullet.DecodeSnapshot(checkpoint)
	if err != nil {
		return fmt.Errorf("headless: %w", err)
	}

	session, err := bullet.NewSession(bullet.SessionOptions{
		Config:     opts.Config,
		Stage:      opts.Stage,
		Controller: bullet.NewReplay(*opts.Recording),
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("headless: %w", err)
	}
	session.Start(opts.Seed)
	if err := session.Sim().Restore(snap); err != nil {
		return fmt.Errorf("headless: %w", err)
	}

	// digests[i] is the state after tick i+1, which is frame i+1.
	for i := snap.Frame - 1; i < len(digests); i++ {
		if i >= snap.Frame {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("headless: resume interrupted: %w", err)
			}
			session.Step(ctx, time.Time{})
		}
		d, err := digest(session.Sim())
		if err != nil {
			return err
		}
		if d != digests[i] {
			return fmt.Errorf("headless: run resumed at frame %d diverged at frame %d", snap.Frame, i+1)
		}
	}
	logger.Debug("resume verified", "frame", snap.Frame)
	return nil
}

func encode(sim *bullet.Sim) ([]byte, error) {
	snap, err := sim.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("headless: %w", err)
	}
	return snap.Encode()
}

func newController(opts Options) (bullet.Controller, error) {
	switch opts.Controller {
	case bullet.ControllerHuman, "":
		return bullet.NewHuman(core.NewInputQueue(0)), nil
	case bullet.ControllerAgent:
		// Reseeded from the run's source on Start.
		return bullet.NewAgent(rng.New(opts.Seed), opts.Config.Agent.MaxSpeed), nil
	case bullet.ControllerReplay:
		if opts.Recording == nil {
			return nil, errReplayNeedsRecording
		}
		return bullet.NewReplay(*opts.Recording), nil
	default:
		return nil, fmt.Errorf("headless: unknown controller %q", opts.Controller)
	}
}

func digest(sim *bullet.Sim) (uint64, error) {
	snap, err := sim.Snapshot()
	if err != nil {
		return 0, fmt.Errorf("headless: %w", err)
	}
	d, err := snap.Digest()
	if err != nil {
		return 0, fmt.Errorf("headless: %w", err)
	}
	return d, nil
}
