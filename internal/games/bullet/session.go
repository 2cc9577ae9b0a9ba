package bullet

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/aizikovskyi/bullet/internal/capture"
	"github.com/aizikovskyi/bullet/internal/config"
	"github.com/aizikovskyi/bullet/internal/rng"
)

// Outcome is how a run ended.
type Outcome string

const (
	OutcomeNone     Outcome = ""         // Run still in progress
	OutcomeGameOver Outcome = "gameover" // Player died; back to the menu
	OutcomeCleared  Outcome = "cleared"  // Stage ended with the player alive
)

// HighScoreStore persists the best score of one stage, in frames.
type HighScoreStore interface {
	HighScore() (int, error)
	SetHighScore(frames int) error
}

// StepReport describes one Session.Step.
type StepReport struct {
	Seed        uint64
	Frames      int // Scoring frame of the run after the step
	Tick        TickResult
	Decision    Decision
	CaptureTime time.Duration // Zero unless the controller is an agent
	Outcome     Outcome
}

// Observer is notified after every tick.
type Observer interface {
	OnStep(s *State, r StepReport)
}

// reseeder is implemented by controllers that draw from the run's random source.
type reseeder interface {
	Reseed(src *rng.Source)
}

// resetter is implemented by controllers holding per-run input state.
type resetter interface {
	Reset()
}

// SessionOptions configures a Session.
type SessionOptions struct {
	Config     config.BulletConfig
	Stage      string // Registered stage ID; empty means endless
	Controller Controller
	Scores     HighScoreStore // Optional
	Observers  []Observer
	Record     bool // Keep a Recording of every run
	Continuous bool // Restart with a fresh seed when a stage is cleared
	Logger     *log.Logger
}

// Session is a run group: consecutive runs of one stage sharing a controller,
// a capture ring and the high-score record.
type Session struct {
	opts     SessionOptions
	factory  StageFactory
	stage    string
	logger   *log.Logger
	sim      *Sim
	ring     *capture.Ring
	recorder *Recorder
	seed     uint64
	best     int
	lastTick time.Time
	outcome  Outcome
}

// NewSession creates a session. Call Start before the first Step.
func NewSession(opts SessionOptions) (*Session, error) {
	if opts.Stage == "" {
		opts.Stage = StageEndless
	}
	factory, err := LookupStage(opts.Stage)
	if err != nil {
		return nil, err
	}
	if opts.Controller == nil {
		return nil, errors.New("bullet: session needs a controller")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	cfg := opts.Config
	return &Session{
		opts:    opts,
		factory: factory,
		stage:   opts.Stage,
		logger:  logger,
		ring: capture.NewRing(capture.Options{
			Buffers:     cfg.Capture.Buffers,
			Width:       cfg.Field.Width,
			Height:      cfg.Field.CaptureHeight,
			Scale:       cfg.Capture.Scale,
			BlendWeight: cfg.Capture.BlendWeight,
		}),
	}, nil
}

// Start tears down the current run and begins a fresh one.
// A zero seed picks a time-based one.
func (ss *Session) Start(seed uint64) {
	if seed == 0 {
		seed = rng.NewSeed()
	}
	ss.seed = seed
	ss.best = max(ss.best, ss.loadHighScore())
	ss.outcome = OutcomeNone
	ss.lastTick = time.Time{}

	src := rng.New(seed)
	ss.sim = NewSim(NewStateFromConfig(ss.opts.Config), ss.factory(ss.opts.Config), src, ss.best)
	ss.ring.Reset()

	if r, ok := ss.opts.Controller.(reseeder); ok {
		r.Reseed(src)
	}
	if r, ok := ss.opts.Controller.(resetter); ok {
		r.Reset()
	}
	if ss.opts.Record {
		ss.recorder = NewRecorder(seed, ss.stage)
	}

	ss.logger.Debug("run started", "stage", ss.stage, "seed", seed, "controller", ss.opts.Controller.Kind())
}

// Step runs capture, decision and one tick. now stamps the tick for the display pass.
func (ss *Session) Step(ctx context.Context, now time.Time) StepReport {
	s := ss.sim.State()
	report := StepReport{Seed: ss.seed}
	if s.Status != StatusRunning {
		report.Tick = TickResult{Frame: s.Frame, Finished: true}
		report.Frames = s.ScoringFrame()
		report.Outcome = ss.outcome
		return report
	}

	obs := Observation{Frame: s.Frame, Player: s.Player, PlayerStatus: s.PlayerStatus}
	if ss.opts.Controller.Kind() == ControllerAgent {
		start := time.Now()
		Draw(s, ss.ring, 0, -1)
		report.CaptureTime = time.Since(start)
		obs.Composite = ss.ring.Composite()
		obs.Ready = ss.ring.Filled()
	}

	// Only the agent is held to a deadline. A late replay answer would be recorded as none.
	var timeout time.Duration
	if ss.opts.Controller.Kind() == ControllerAgent {
		timeout = ss.opts.Config.Agent.DecisionTimeout()
	}
	report.Decision = Decide(ctx, ss.opts.Controller, obs, timeout)
	if report.Decision.Late {
		ss.logger.Warn("controller missed its deadline", "frame", s.Frame, "latency", report.Decision.Latency)
	}
	if ss.recorder != nil {
		ss.recorder.Record(s.Frame, report.Decision.Target)
	}

	report.Tick = ss.sim.Tick(report.Decision.Target)
	report.Frames = s.ScoringFrame()
	ss.lastTick = now

	if report.Tick.Died {
		ss.logger.Info("player died", "frame", s.LastLivingFrame, "seconds", s.Seconds(s.LastLivingFrame))
	}
	if report.Tick.NewHighScore {
		ss.saveHighScore(ss.sim.HighScore())
	}
	if report.Tick.Finished {
		ss.outcome = OutcomeCleared
		if s.PlayerStatus == PlayerDead {
			ss.outcome = OutcomeGameOver
		}
		report.Outcome = ss.outcome
		ss.logger.Debug("run finished", "outcome", ss.outcome, "frame", s.Frame)
	}

	for _, o := range ss.opts.Observers {
		o.OnStep(s, report)
	}

	if report.Outcome == OutcomeCleared && ss.opts.Continuous {
		ss.Start(0)
	}
	return report
}

// Draw performs the display pass. It returns false when the frame was skipped
// because the last tick is too old to extrapolate from.
func (ss *Session) Draw(now time.Time, sink Sink) bool {
	s := ss.sim.State()
	elapsed := 0.0
	if !ss.lastTick.IsZero() {
		elapsed = now.Sub(ss.lastTick).Seconds()
	}
	delta, ok := FrameDelta(elapsed, s.FPS, s.Status == StatusFinished)
	if !ok {
		return false
	}
	Draw(s, sink, delta, ss.sim.HighScore())
	return true
}

func (ss *Session) loadHighScore() int {
	if ss.opts.Scores == nil {
		return 0
	}
	best, err := ss.opts.Scores.HighScore()
	if err != nil {
		ss.logger.Warn("could not read high score", "stage", ss.stage, "error", err)
		return 0
	}
	return best
}

func (ss *Session) saveHighScore(frames int) {
	ss.best = frames
	ss.logger.Info("new high score", "stage", ss.stage, "frames", frames)
	if ss.opts.Scores == nil {
		return
	}
	if err := ss.opts.Scores.SetHighScore(frames); err != nil {
		ss.logger.Warn("could not save high score", "stage", ss.stage, "error", err)
	}
}

// Sim returns the current run.
func (ss *Session) Sim() *Sim { return ss.sim }

// State returns the state of the current run.
func (ss *Session) State() *State { return ss.sim.State() }

// Seed returns the seed of the current run.
func (ss *Session) Seed() uint64 { return ss.seed }

// Stage returns the stage ID.
func (ss *Session) Stage() string { return ss.stage }

// Outcome returns how the current run ended, or OutcomeNone while it runs.
func (ss *Session) Outcome() Outcome { return ss.outcome }

// HighScore returns the best score in frames.
func (ss *Session) HighScore() int { return ss.sim.HighScore() }

// Controller returns the controller steering the player.
func (ss *Session) Controller() Controller { return ss.opts.Controller }

// SetController swaps the controller. It takes effect on the next Step.
func (ss *Session) SetController(c Controller) {
	if r, ok := c.(reseeder); ok && ss.sim != nil {
		r.Reseed(ss.sim.Source())
	}
	ss.opts.Controller = c
	ss.ring.Reset()
}

// Recording returns what the current run consumed. ok is false when recording is off.
func (ss *Session) Recording() (rec Recording, ok bool) {
	if ss.recorder == nil {
		return Recording{}, false
	}
	return ss.recorder.Recording(), true
}

// Ring returns the capture ring the agent observes.
func (ss *Session) Ring() *capture.Ring { return ss.ring }
