package gas

import "github.com/san-kum/gaslab/internal/geom"

// Particle is a point-disc with immutable mass and radius. Position and
// velocity mutate every step; the previous position is retained for
// divider- and lid-crossing detection.
type Particle struct {
	species  Species
	Position geom.Vec2
	Velocity geom.Vec2
	Prev     geom.Vec2
}

func NewParticle(sp Species, pos, vel geom.Vec2) *Particle {
	return &Particle{
		species:  sp,
		Position: pos,
		Velocity: vel,
		Prev:     pos,
	}
}

func (p *Particle) Species() Species { return p.species }
func (p *Particle) Mass() float64    { return p.species.Mass }
func (p *Particle) Radius() float64  { return p.species.Radius }

// Advance integrates position over dt. No bounds checking happens here;
// containment is the collision detector's job.
func (p *Particle) Advance(dt float64) {
	p.Prev = p.Position
	p.Position = p.Position.Add(p.Velocity.Scale(dt))
}

func (p *Particle) KineticEnergy() float64 {
	return 0.5 * p.species.Mass * p.Velocity.MagnitudeSquared()
}

func (p *Particle) Speed() float64 {
	return p.Velocity.Magnitude()
}

// SetVelocityPolar sets velocity from magnitude and direction.
func (p *Particle) SetVelocityPolar(speed, angle float64) {
	p.Velocity = geom.FromPolar(speed, angle)
}

// ScaleVelocity scales speed uniformly, used by heat/cool and the
// hold-temperature loop.
func (p *Particle) ScaleVelocity(factor float64) {
	p.Velocity = p.Velocity.Scale(factor)
}

func (p *Particle) IsValid() bool {
	return p.Position.IsValid() && p.Velocity.IsValid()
}
