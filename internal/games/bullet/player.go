package bullet

import "github.com/aizikovskyi/bullet/internal/core"

// Player is the steered point. Its radius is drawn but plays no part in collisions.
type Player struct {
	Object
	MaxSpeed float64
}

// NewPlayer creates a stationary player.
func NewPlayer(pos core.Vec, maxSpeed, radius float64, birthFrame int) Player {
	return Player{
		Object: Object{
			Pos:        pos,
			Radius:     max(radius, 0),
			Color:      core.ColorRed,
			BirthFrame: birthFrame,
		},
		MaxSpeed: maxSpeed,
	}
}

// MoveTowards integrates the previous velocity, then re-aims at target.
// A target closer than MaxSpeed is reached exactly next tick; a nil target stops the player.
func (p *Player) MoveTowards(target *core.Vec) {
	p.Advance()

	if target == nil {
		p.Vel = core.Vec{}
		return
	}
	if p.Pos.DistanceTo(*target) < p.MaxSpeed {
		p.Vel = p.Pos.To(*target)
		return
	}
	p.Vel = p.Pos.UnitTo(*target).Scaled(p.MaxSpeed)
}
