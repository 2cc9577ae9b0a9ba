package bullet

import "github.com/aizikovskyi/bullet/internal/core"

// Kind tags the behavior variant of an Object.
type Kind uint8

const (
	KindProjectile Kind = iota // Moves at constant velocity, removed off-field
	KindParticle               // Projectile that also expires after one second
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindProjectile:
		return "projectile"
	case KindParticle:
		return "particle"
	default:
		return "unknown"
	}
}

// Object is a moving circle on the field.
// All kinds share movement and collision; Kind selects the removal rule.
type Object struct {
	Kind       Kind
	Pos        core.Vec
	Vel        core.Vec
	Radius     float64
	Deadly     bool
	Color      core.Color
	BirthFrame int
}

// NewProjectile creates a deadly projectile. A negative radius is clamped to zero.
func NewProjectile(pos, vel core.Vec, radius float64, birthFrame int, color core.Color) Object {
	return Object{
		Kind:       KindProjectile,
		Pos:        pos,
		Vel:        vel,
		Radius:     max(radius, 0),
		Deadly:     true,
		Color:      color,
		BirthFrame: birthFrame,
	}
}

// NewParticle creates an explosion particle.
func NewParticle(pos, vel core.Vec, radius float64, birthFrame int, color core.Color) Object {
	o := NewProjectile(pos, vel, radius, birthFrame, color)
	o.Kind = KindParticle
	return o
}

// Advance integrates position by the current velocity.
func (o *Object) Advance() {
	o.Pos.X += o.Vel.X
	o.Pos.Y += o.Vel.Y
}

// IntersectsPoint reports whether p lies within the object's radius.
func (o *Object) IntersectsPoint(p core.Vec) bool {
	return o.Pos.DistanceSquaredTo(p) <= o.Radius*o.Radius
}

// ShouldRemain reports whether the object survives the removal pass.
// There is no upper bound on y: objects above the field are kept.
func (o *Object) ShouldRemain(s *State) bool {
	if o.Kind == KindParticle && s.Frame-o.BirthFrame > s.FPS {
		return false
	}
	return withinField(o.Pos, o.Radius, s.Field)
}

func withinField(p core.Vec, radius float64, f Field) bool {
	fitsWidth := p.X > -radius && p.X < f.Width+radius
	fitsHeight := p.Y < f.Height+radius
	return fitsWidth && fitsHeight
}
