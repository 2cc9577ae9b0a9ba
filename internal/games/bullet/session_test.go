package bullet

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aizikovskyi/bullet/internal/config"
	"github.com/aizikovskyi/bullet/internal/core"
)

type memoryScores struct {
	best    int
	writes  int
	readErr error
}

func (m *memoryScores) HighScore() (int, error) { return m.best, m.readErr }

func (m *memoryScores) SetHighScore(frames int) error {
	m.writes++
	m.best = max(m.best, frames)
	return nil
}

type countingObserver struct {
	steps    int
	outcomes []Outcome
}

func (c *countingObserver) OnStep(_ *State, r StepReport) {
	c.steps++
	if r.Outcome != OutcomeNone {
		c.outcomes = append(c.outcomes, r.Outcome)
	}
}

func newTestSession(t *testing.T, opts SessionOptions) *Session {
	t.Helper()
	if opts.Config.Timing.FPS == 0 {
		opts.Config = config.DefaultConfig()
	}
	ss, err := NewSession(opts)
	if err != nil {
		t.Fatalf("NewSession() failed: %v", err)
	}
	return ss
}

func runUntilFinished(t *testing.T, ss *Session, limit int) StepReport {
	t.Helper()
	ctx := context.Background()
	for range limit {
		r := ss.Step(ctx, time.Time{})
		if r.Tick.Finished {
			return r
		}
	}
	t.Fatalf("run did not finish within %d ticks", limit)
	return StepReport{}
}

func TestNewSessionRejectsUnknownStage(t *testing.T) {
	_, err := NewSession(SessionOptions{Config: config.DefaultConfig(), Stage: "nope", Controller: NewHuman(core.NewInputQueue(0))})
	if err == nil {
		t.Error("unknown stage should fail")
	}
	_, err = NewSession(SessionOptions{Config: config.DefaultConfig()})
	if err == nil {
		t.Error("missing controller should fail")
	}
}

func TestSessionGameOverSavesHighScore(t *testing.T) {
	scores := &memoryScores{best: 10}
	obs := &countingObserver{}
	ss := newTestSession(t, SessionOptions{
		Controller: NewHuman(core.NewInputQueue(0)),
		Scores:     scores,
		Observers:  []Observer{obs},
	})
	ss.Start(1234)

	r := runUntilFinished(t, ss, 200_000)
	if r.Outcome != OutcomeGameOver || ss.Outcome() != OutcomeGameOver {
		t.Fatalf("outcome = %q, expected game over", r.Outcome)
	}

	s := ss.State()
	if s.LastLivingFrame > 10 {
		if scores.best != s.LastLivingFrame || scores.writes != 1 {
			t.Errorf("stored best = %d (%d writes), expected %d", scores.best, scores.writes, s.LastLivingFrame)
		}
	}
	if obs.steps != s.Frame {
		t.Errorf("observer saw %d steps, expected %d", obs.steps, s.Frame)
	}
	if len(obs.outcomes) != 1 || obs.outcomes[0] != OutcomeGameOver {
		t.Errorf("observer outcomes = %v", obs.outcomes)
	}

	// Further steps do nothing.
	before := s.Frame
	if r := ss.Step(context.Background(), time.Time{}); r.Tick.Ticked || ss.State().Frame != before {
		t.Error("finished session should not tick")
	}
}

func TestSessionStoreReadFailureDegrades(t *testing.T) {
	scores := &memoryScores{readErr: errors.New("disk gone")}
	ss := newTestSession(t, SessionOptions{Controller: NewHuman(core.NewInputQueue(0)), Scores: scores})
	ss.Start(1)
	if ss.HighScore() != 0 {
		t.Errorf("HighScore() = %d, expected 0 after read failure", ss.HighScore())
	}
	ss.Step(context.Background(), time.Time{})
}

func TestSessionContinuousRestartsClearedStage(t *testing.T) {
	obs := &countingObserver{}
	ss := newTestSession(t, SessionOptions{
		Stage:      StageOne,
		Controller: NewHuman(core.NewInputQueue(0)),
		Observers:  []Observer{obs},
		Continuous: true,
	})
	ss.Start(77)
	ss.Sim().SetPlayerStatus(PlayerInvulnerable)
	first := ss.Seed()

	r := runUntilFinished(t, ss, 5000)
	if r.Outcome != OutcomeCleared {
		t.Fatalf("outcome = %q, expected cleared", r.Outcome)
	}
	if ss.State().Frame != 0 || ss.State().Status != StatusRunning {
		t.Error("cleared stage should restart a fresh run")
	}
	if ss.Seed() == first {
		t.Error("restart should pick a fresh seed")
	}
}

func TestSessionReplayIsExact(t *testing.T) {
	cfg := config.DefaultConfig()
	agent := NewAgent(rngFor(1), cfg.Agent.MaxSpeed)

	rec := newTestSession(t, SessionOptions{Config: cfg, Controller: agent, Record: true})
	rec.Start(4242)

	var want []uint64
	for range 600 {
		r := rec.Step(context.Background(), time.Time{})
		want = append(want, digest(t, rec.Sim()))
		if r.Tick.Finished {
			break
		}
	}
	recording, ok := rec.Recording()
	if !ok {
		t.Fatal("recording missing")
	}
	if recording.Len() != len(want) {
		t.Fatalf("recorded %d frames, expected %d", recording.Len(), len(want))
	}

	play := newTestSession(t, SessionOptions{Config: cfg, Controller: NewReplay(recording)})
	play.Start(recording.Seed)
	for i := range want {
		play.Step(context.Background(), time.Time{})
		if got := digest(t, play.Sim()); got != want[i] {
			t.Fatalf("frame %d diverged on replay", i+1)
		}
	}
}

func TestSessionAgentObservesComposite(t *testing.T) {
	cfg := config.DefaultConfig()
	var seen []Observation
	agent := observingController{seen: &seen}

	ss := newTestSession(t, SessionOptions{Config: cfg, Controller: agent})
	ss.Start(5)
	for range cfg.Capture.Buffers {
		ss.Step(context.Background(), time.Time{})
	}

	if len(seen) != cfg.Capture.Buffers {
		t.Fatalf("observations = %d", len(seen))
	}
	for i, obs := range seen {
		if obs.Composite == nil {
			t.Fatalf("observation %d has no composite", i)
		}
		if wantReady := i == cfg.Capture.Buffers-1; obs.Ready != wantReady {
			t.Errorf("observation %d ready = %v, expected %v", i, obs.Ready, wantReady)
		}
	}
}

func TestSessionDrawSkipsStaleFrames(t *testing.T) {
	ss := newTestSession(t, SessionOptions{Controller: NewHuman(core.NewInputQueue(0))})
	ss.Start(8)

	now := time.Unix(1000, 0)
	ss.Step(context.Background(), now)

	sink := &recordingSink{}
	if !ss.Draw(now.Add(10*time.Millisecond), sink) {
		t.Error("fresh frame should draw")
	}
	if ss.Draw(now.Add(time.Second), sink) {
		t.Error("stale frame should be skipped")
	}
}

type observingController struct {
	seen *[]Observation
}

func (o observingController) Kind() ControllerKind { return ControllerAgent }

func (o observingController) Target(_ context.Context, obs Observation) (core.Vec, bool) {
	*o.seen = append(*o.seen, obs)
	return core.Vec{}, false
}

func TestSessionCaptureShowsCommittedPositions(t *testing.T) {
	cfg := config.DefaultConfig()
	var seen []Observation
	ss := newTestSession(t, SessionOptions{Config: cfg, Controller: observingController{seen: &seen}})
	ss.Start(11)

	// One fast red projectile, far from the player.
	pos, vel := core.V(20, 30), core.V(0, 6)
	ss.State().AddObject(NewProjectile(pos, vel, 2, 0, core.ColorRed))
	ss.Step(context.Background(), time.Time{})

	if len(seen) != 1 {
		t.Fatalf("observations = %d, expected 1", len(seen))
	}
	img := seen[0].Composite
	scale := cfg.Capture.Scale
	red := core.ColorRed.RGBA()

	at := func(p core.Vec) bool {
		return img.RGBAAt(int(p.X*scale), int(p.Y*scale)) == red
	}
	if !at(pos) {
		t.Errorf("no projectile pixel at its committed position %v", pos)
	}
	if at(pos.Add(vel)) {
		t.Errorf("projectile drawn ahead of its committed position at %v", pos.Add(vel))
	}
}

type slowReplay struct {
	delay time.Duration
}

func (s slowReplay) Kind() ControllerKind { return ControllerReplay }

func (s slowReplay) Target(_ context.Context, obs Observation) (core.Vec, bool) {
	time.Sleep(s.delay)
	return obs.Player.Pos, true
}

func TestSessionDeadlineOnlyForAgent(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Agent.DecisionTimeoutMS = 1

	tests := []struct {
		name       string
		controller Controller
		late       bool
	}{
		{"replay", slowReplay{delay: 20 * time.Millisecond}, false},
		{"agent", slowController{delay: 20 * time.Millisecond}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ss := newTestSession(t, SessionOptions{Config: cfg, Controller: tt.controller})
			ss.Start(3)
			r := ss.Step(context.Background(), time.Time{})
			if r.Decision.Late != tt.late {
				t.Errorf("late = %v, expected %v", r.Decision.Late, tt.late)
			}
			if got := r.Decision.Target != nil; got == tt.late {
				t.Errorf("target present = %v with late = %v", got, tt.late)
			}
		})
	}
}
