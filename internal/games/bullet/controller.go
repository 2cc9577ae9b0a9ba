package bullet

import (
	"context"
	"image"
	"math"
	"time"

	"github.com/aizikovskyi/bullet/internal/core"
	"github.com/aizikovskyi/bullet/internal/rng"
)

// ControllerKind names who steers the player.
type ControllerKind string

const (
	ControllerHuman  ControllerKind = "human"
	ControllerAgent  ControllerKind = "agent"
	ControllerReplay ControllerKind = "replay"
)

// ParseControllerKind converts a flag value. Empty means human.
func ParseControllerKind(s string) (ControllerKind, bool) {
	switch ControllerKind(s) {
	case "":
		return ControllerHuman, true
	case ControllerHuman, ControllerAgent, ControllerReplay:
		return ControllerKind(s), true
	default:
		return "", false
	}
}

// Observation is what a controller sees before the tick it decides for.
type Observation struct {
	Frame        int
	Player       Player
	PlayerStatus PlayerStatus
	Composite    *image.RGBA // Agent only; nil otherwise
	Ready        bool        // Composite holds a ghost frame
}

// Controller produces the steering target for one tick.
// ok false means no target: the player stops.
type Controller interface {
	Kind() ControllerKind
	Target(ctx context.Context, obs Observation) (target core.Vec, ok bool)
}

// Decision is the outcome of asking a controller for a target.
type Decision struct {
	Target  *core.Vec
	Latency time.Duration
	Late    bool // Answer arrived after the deadline and was discarded
}

// Decide asks c for a target. With a positive timeout the call gets a
// deadline, and an answer returned after it is treated as no target.
// The call is synchronous, so a slow controller slows the loop.
func Decide(ctx context.Context, c Controller, obs Observation, timeout time.Duration) Decision {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	target, ok := c.Target(ctx, obs)
	d := Decision{Latency: time.Since(start)}

	if timeout > 0 && (ctx.Err() != nil || d.Latency > timeout) {
		d.Late = true
		return d
	}
	if ok {
		d.Target = &target
	}
	return d
}

// Human steers from pointer events queued by the platform.
type Human struct {
	queue   *core.InputQueue
	pointer core.PointerState
}

// NewHuman creates a human controller reading from queue.
func NewHuman(queue *core.InputQueue) *Human {
	return &Human{queue: queue}
}

// Kind returns ControllerHuman.
func (h *Human) Kind() ControllerKind { return ControllerHuman }

// Queue returns the queue the platform pushes events to.
func (h *Human) Queue() *core.InputQueue { return h.queue }

// Target drains pending events. Events are dropped while the player cannot respond.
func (h *Human) Target(_ context.Context, obs Observation) (core.Vec, bool) {
	events := h.queue.Drain()
	if obs.PlayerStatus.Steerable() {
		for _, evt := range events {
			h.pointer.Apply(evt)
		}
	}

	if p := h.pointer.Current(); p != nil {
		return *p, true
	}
	return core.Vec{}, false
}

// Reset forgets the held pointer, as at the start of a run.
func (h *Human) Reset() {
	h.queue.Drain()
	h.pointer = core.PointerState{}
}

// Agent is the reference autonomous controller: it wanders randomly.
type Agent struct {
	src      *rng.Source
	maxSpeed float64
}

// agentStream selects the agent's random stream relative to the spawn seed.
const agentStream = 1

// NewAgent creates an agent whose draws come from a stream derived from src.
func NewAgent(src *rng.Source, maxSpeed float64) *Agent {
	return &Agent{src: src.Derive(agentStream), maxSpeed: maxSpeed}
}

// Reseed moves the agent onto the stream derived from a new run's source.
func (a *Agent) Reseed(src *rng.Source) {
	a.src = src.Derive(agentStream)
}

// Kind returns ControllerAgent.
func (a *Agent) Kind() ControllerKind { return ControllerAgent }

// Target picks a uniformly random direction one step away from the player.
func (a *Agent) Target(_ context.Context, obs Observation) (core.Vec, bool) {
	dir := a.src.Float64() * 2 * math.Pi
	return core.V(obs.Player.Pos.X+a.maxSpeed*math.Cos(dir), obs.Player.Pos.Y+a.maxSpeed*math.Sin(dir)), true
}

// FrameTarget is the target consumed on one frame.
type FrameTarget struct {
	Active bool    `msgpack:"a"`
	X      float64 `msgpack:"x"`
	Y      float64 `msgpack:"y"`
}

// Recording is everything needed to replay a run exactly.
type Recording struct {
	Seed    uint64        `msgpack:"seed"`
	Stage   string        `msgpack:"stage"`
	Targets []FrameTarget `msgpack:"targets"` // Indexed by frame
}

// Len returns the number of recorded frames.
func (r *Recording) Len() int {
	return len(r.Targets)
}

// At returns the target recorded for frame.
func (r *Recording) At(frame int) (core.Vec, bool) {
	if frame < 0 || frame >= len(r.Targets) || !r.Targets[frame].Active {
		return core.Vec{}, false
	}
	t := r.Targets[frame]
	return core.V(t.X, t.Y), true
}

// Recorder accumulates the targets a run actually consumed.
type Recorder struct {
	rec Recording
}

// NewRecorder starts a recording for seed and stage.
func NewRecorder(seed uint64, stage string) *Recorder {
	return &Recorder{rec: Recording{Seed: seed, Stage: stage}}
}

// Record stores target for frame. Skipped frames are recorded as no target.
func (r *Recorder) Record(frame int, target *core.Vec) {
	for len(r.rec.Targets) < frame {
		r.rec.Targets = append(r.rec.Targets, FrameTarget{})
	}
	ft := FrameTarget{}
	if target != nil {
		ft = FrameTarget{Active: true, X: target.X, Y: target.Y}
	}
	if frame < len(r.rec.Targets) {
		r.rec.Targets[frame] = ft
		return
	}
	r.rec.Targets = append(r.rec.Targets, ft)
}

// Recording returns a copy of what has been recorded so far.
func (r *Recorder) Recording() Recording {
	rec := r.rec
	rec.Targets = append([]FrameTarget(nil), r.rec.Targets...)
	return rec
}

// Replay feeds back a recording frame by frame.
type Replay struct {
	rec Recording
}

// NewReplay creates a replay controller.
func NewReplay(rec Recording) *Replay {
	return &Replay{rec: rec}
}

// Kind returns ControllerReplay.
func (r *Replay) Kind() ControllerKind { return ControllerReplay }

// Target returns the recorded target for exactly obs.Frame; none past the end.
func (r *Replay) Target(_ context.Context, obs Observation) (core.Vec, bool) {
	return r.rec.At(obs.Frame)
}
