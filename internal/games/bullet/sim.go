package bullet

import (
	"github.com/aizikovskyi/bullet/internal/core"
	"github.com/aizikovskyi/bullet/internal/rng"
)

// TickResult reports what a single tick did.
type TickResult struct {
	Frame        int  // Frame number after the tick
	Ticked       bool // False when the run was already finished
	Died         bool
	NewHighScore bool
	Spawned      int // Objects added by the spawner
	Finished     bool
}

// Sim owns one run: its state, spawner, random source and best score.
// It is not safe for concurrent use.
type Sim struct {
	state   *State
	spawner Spawner
	src     *rng.Source
	best    int
}

// NewSim creates a run over state. best is the high score to beat, in frames.
func NewSim(state *State, spawner Spawner, src *rng.Source, best int) *Sim {
	return &Sim{
		state:   state,
		spawner: spawner,
		src:     src,
		best:    best,
	}
}

// State returns the live state. Callers must not mutate it.
func (sim *Sim) State() *State {
	return sim.state
}

// Source returns the random source that spawning draws from.
func (sim *Sim) Source() *rng.Source {
	return sim.src
}

// HighScore returns the best score in frames, including this run.
func (sim *Sim) HighScore() int {
	return sim.best
}

// SetPlayerStatus changes how the player is treated. Dead is terminal, and
// death is only reached by collision, so both directions are refused.
func (sim *Sim) SetPlayerStatus(status PlayerStatus) bool {
	if sim.state.PlayerStatus == PlayerDead || status == PlayerDead {
		return false
	}
	sim.state.PlayerStatus = status
	return true
}

// Tick advances the run by one frame. target is where the player steers,
// or nil to stop.
func (sim *Sim) Tick(target *core.Vec) TickResult {
	s := sim.state
	if s.Status != StatusRunning {
		return TickResult{Frame: s.Frame, Finished: true}
	}

	res := TickResult{Ticked: true}
	s.Player.MoveTowards(target)

	// Particles appended by a death are not visited until the next tick.
	n := len(s.Objects)
	for i := 0; i < n; i++ {
		o := &s.Objects[i]
		o.Advance()
		if !o.Deadly || s.PlayerStatus != PlayerAlive {
			continue
		}
		if o.IntersectsPoint(s.Player.Pos) {
			res.Died = true
			res.NewHighScore = sim.kill()
		}
	}

	kept := s.Objects[:0]
	for _, o := range s.Objects {
		if o.ShouldRemain(s) {
			kept = append(kept, o)
		}
	}
	clear(s.Objects[len(kept):])
	s.Objects = kept

	before := s.Spawned
	sim.spawner.Spawn(s, sim.src)
	res.Spawned = s.Spawned - before

	s.Frame++
	if s.Frame == s.LastFrame {
		s.Finish()
	}

	res.Frame = s.Frame
	res.Finished = s.Status == StatusFinished
	return res
}

// kill marks the player dead and schedules the end of the run.
// Returns true if the run set a new high score.
func (sim *Sim) kill() bool {
	s := sim.state
	s.PlayerStatus = PlayerDead
	s.LastLivingFrame = s.Frame
	s.LastFrame = s.Frame + s.Params.GracePeriod
	explode(s, sim.src)

	if s.LastLivingFrame > sim.best {
		sim.best = s.LastLivingFrame
		return true
	}
	return false
}
