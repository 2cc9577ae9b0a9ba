package bullet

import (
	"math"

	"github.com/aizikovskyi/bullet/internal/core"
	"github.com/aizikovskyi/bullet/internal/rng"
)

// SpawnY is the row above the field where new projectiles appear.
const SpawnY = -10

// Spawner creates new objects. It is invoked exactly once per tick, after the
// removal pass, and may also end the run by calling State.Finish.
type Spawner interface {
	Spawn(s *State, src *rng.Source)
}

// SpawnerFunc adapts a function to the Spawner interface.
type SpawnerFunc func(s *State, src *rng.Source)

// Spawn calls f(s, src).
func (f SpawnerFunc) Spawn(s *State, src *rng.Source) { f(s, src) }

// Endless spawns falling projectiles with a probability and speed that grow
// with game time. There is no end condition other than the player's death.
type Endless struct {
	StartingTime float64 // Seconds of difficulty already elapsed at frame 0
	Fixed        bool    // Freeze difficulty at StartingTime
}

// NewEndless creates an endless spawner offset by startingTime seconds.
func NewEndless(startingTime float64) *Endless {
	return &Endless{StartingTime: startingTime}
}

// GameTime returns the difficulty clock, in seconds, at the current frame.
func (e *Endless) GameTime(s *State) float64 {
	if e.Fixed {
		return 1 + e.StartingTime
	}
	return 1 + e.StartingTime + s.Seconds(s.Frame)
}

// SpawnProbability returns the chance that a projectile appears this tick.
func (e *Endless) SpawnProbability(s *State) float64 {
	return 1 - math.Pow(0.7, e.GameTime(s)/60)
}

// Spawn rolls once and, on success, adds one white projectile.
func (e *Endless) Spawn(s *State, src *rng.Source) {
	gameTime := e.GameTime(s)
	if src.Float64() <= math.Pow(0.7, gameTime/60) {
		return
	}

	x := math.Round(src.Float64() * s.Field.Width)
	vx := (src.Float64()*0.2 - 0.1) * (1 + gameTime/180)
	vy := 1 + gameTime/300 + src.Float64()
	radius := math.Round(1 + src.Float64()*3)

	s.AddObject(NewProjectile(core.V(x, SpawnY), core.V(vx, vy), radius, s.Frame, core.ColorWhite))
}
