package bullet

import (
	"math"

	"github.com/aizikovskyi/bullet/internal/core"
	"github.com/aizikovskyi/bullet/internal/rng"
)

// Emitter adds the objects of one successful phase roll.
type Emitter func(s *State, src *rng.Source)

// Phase spawns on the window [Start, End) seconds with a probability that
// moves linearly from StartProbability to EndProbability.
type Phase struct {
	Start            float64
	End              float64
	StartProbability float64
	EndProbability   float64
	Emit             Emitter
}

// Active reports whether the phase covers t seconds.
func (p Phase) Active(t float64) bool {
	return t >= p.Start && t < p.End
}

// Probability returns the interpolated spawn chance at t seconds.
func (p Phase) Probability(t float64) float64 {
	n := (t - p.Start) / (p.End - p.Start)
	return p.StartProbability*(1-n) + p.EndProbability*n
}

// Ramped runs a fixed-length stage made of overlapping phases.
// Every active phase rolls independently each tick.
type Ramped struct {
	StartingTime float64
	Length       float64 // Seconds before the run is force-ended; 0 = unlimited
	Phases       []Phase
}

// Spawn ends the run once the stage length is exceeded, otherwise rolls each phase.
func (r *Ramped) Spawn(s *State, src *rng.Source) {
	if r.Length > 0 && float64(s.Frame) > r.Length*float64(s.FPS) {
		s.Finish()
		return
	}

	t := r.StartingTime + s.Seconds(s.Frame)
	for _, phase := range r.Phases {
		if !phase.Active(t) {
			continue
		}
		if src.Float64() < phase.Probability(t) {
			phase.Emit(s, src)
		}
	}
}

// NewStage1 builds the reference 45-second stage.
func NewStage1(startingTime, length float64) *Ramped {
	return &Ramped{
		StartingTime: startingTime,
		Length:       length,
		Phases: []Phase{
			{Start: 0, End: 10, StartProbability: 0.1, EndProbability: 0.3, Emit: emitFalling},
			{Start: 10, End: 40, StartProbability: 0.3, EndProbability: 0.1, Emit: emitFalling},
			{Start: 20, End: 40, StartProbability: 0, EndProbability: 0.1, Emit: emitHoming},
		},
	}
}

func emitFalling(s *State, src *rng.Source) {
	x := math.Round(src.Float64() * s.Field.Width)
	vel := core.V(src.Float64()*0.2-0.1, 1.2+src.Float64())
	radius := math.Round(1 + src.Float64()*3)
	s.AddObject(NewProjectile(core.V(x, SpawnY), vel, radius, s.Frame, core.ColorWhite))
}

// emitHoming aims once at the player and never steers again.
func emitHoming(s *State, src *rng.Source) {
	x := math.Round(src.Float64() * s.Field.Width)
	o := NewProjectile(core.V(x, SpawnY), core.Vec{}, 2, s.Frame, core.ColorYellow)
	o.Vel = o.Pos.UnitTo(s.Player.Pos).Scaled(2)
	s.AddObject(o)
}
