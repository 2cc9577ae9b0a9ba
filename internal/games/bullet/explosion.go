package bullet

import (
	"math"

	"github.com/aizikovskyi/bullet/internal/core"
	"github.com/aizikovskyi/bullet/internal/rng"
)

// explode appends the death burst at the player's position.
// Particles inherit a third of the player's velocity. They bypass AddObject
// so they are not counted as spawns.
func explode(s *State, src *rng.Source) {
	base := s.Player.Vel.Scaled(1.0 / 3.0)
	for range s.Params.ParticleCount {
		theta := src.Float64() * 2 * math.Pi
		speed := src.Float64() * s.Params.ParticleMaxSpeed
		vel := core.V(base.X+math.Cos(theta)*speed, base.Y+math.Sin(theta)*speed)
		s.Objects = append(s.Objects, NewParticle(s.Player.Pos, vel, s.Params.ParticleRadius, s.Frame, core.ColorRed))
	}
}
