package gas

// StepStats aggregates collision activity for one step. Collisions
// themselves are resolved and discarded; only these counts and the
// cumulative wall impulse survive the step.
type StepStats struct {
	WallCollisions int
	PairCollisions int

	// WallImpulse is the normal-momentum transfer accumulated against the
	// outer walls (divider bounces excluded), the sole input pressure
	// derivation needs.
	WallImpulse float64
}

// Detector resolves particle-particle and particle-wall collisions for one
// step. It owns the broad-phase grid.
type Detector struct {
	grid *Grid

	// PairCollisionsEnabled disables particle-particle response for
	// diagnostic runs; wall collisions always apply.
	PairCollisionsEnabled bool
}

func NewDetector(c *Container) *Detector {
	return &Detector{
		grid:                  NewGrid(c),
		PairCollisionsEnabled: true,
	}
}

// Step rebuilds the grid from current positions and resolves all
// collisions. Pairs are resolved independently; near-simultaneous
// multi-body contacts get no iterative relaxation.
func (d *Detector) Step(c *Container, particles []*Particle) StepStats {
	var stats StepStats

	if d.PairCollisionsEnabled {
		d.grid.Rebuild(particles)
		d.grid.ForEachPair(func(i, j int) {
			if d.resolvePair(c, particles[i], particles[j]) {
				stats.PairCollisions++
			}
		})
	}

	for _, p := range particles {
		d.resolveWalls(c, p, &stats)
	}

	return stats
}

// resolvePair applies the elastic hard-sphere response: the velocity
// components along the center line exchange by the 1D elastic formula,
// the perpendicular components pass through unchanged, and the pair is
// pushed apart along the contact normal so residual overlap cannot inject
// energy on the next step.
func (d *Detector) resolvePair(c *Container, a, b *Particle) bool {
	// A present divider isolates the two sides completely. Sides are
	// judged by the pre-advance position so a mid-step crosser still
	// belongs to its origin side.
	if c.HasDivider() && (a.Prev.X < c.DividerX()) != (b.Prev.X < c.DividerX()) {
		return false
	}

	delta := b.Position.Sub(a.Position)
	minDist := a.Radius() + b.Radius()
	distSq := delta.MagnitudeSquared()
	if distSq >= minDist*minDist || distSq == 0 {
		return false
	}

	// Separation must be decreasing, otherwise the pair is already
	// receding from an earlier contact.
	relVel := b.Velocity.Sub(a.Velocity)
	if delta.Dot(relVel) >= 0 {
		return false
	}

	dist := delta.Magnitude()
	n := delta.Scale(1.0 / dist)

	m1, m2 := a.Mass(), b.Mass()
	v1n := a.Velocity.Dot(n)
	v2n := b.Velocity.Dot(n)

	sum := m1 + m2
	v1nAfter := (v1n*(m1-m2) + 2*m2*v2n) / sum
	v2nAfter := (v2n*(m2-m1) + 2*m1*v1n) / sum

	a.Velocity = a.Velocity.Add(n.Scale(v1nAfter - v1n))
	b.Velocity = b.Velocity.Add(n.Scale(v2nAfter - v2n))

	// De-overlap along the normal, split by inverse mass.
	overlap := minDist - dist
	a.Position = a.Position.Sub(n.Scale(overlap * m2 / sum))
	b.Position = b.Position.Add(n.Scale(overlap * m1 / sum))

	return true
}

// resolveWalls reflects the particle off whichever wall of its region it
// has crossed. With a divider present each side is an independent box;
// divider-face bounces count as collisions but do not feed the pressure
// accumulator.
func (d *Detector) resolveWalls(c *Container, p *Particle, stats *StepStats) {
	bounds := c.Bounds()
	leftIsMovable := true
	leftIsDivider := false
	rightIsDivider := false

	// Side membership is judged by the pre-advance position so a particle
	// that crossed the divider plane this step is pushed back to its own
	// side instead of silently switching boxes.
	if c.HasDivider() {
		if p.Prev.X < c.DividerX() {
			bounds = c.LeftBounds()
			rightIsDivider = true
		} else {
			bounds = c.RightBounds()
			leftIsMovable = false
			leftIsDivider = true
		}
	}

	r := p.Radius()
	m := p.Mass()

	// Left wall. The movable wall imparts its own momentum: particles
	// rebound faster off a wall moving toward them, slower off one
	// receding. Position is clamped even when the velocity already points
	// inward (a pair de-overlap can shove a disc through a wall).
	if p.Position.X-r < bounds.Min.X {
		u := 0.0
		if leftIsMovable {
			u = c.WallSpeed()
		}
		if p.Velocity.X < u {
			before := p.Velocity.X
			p.Velocity.X = 2*u - p.Velocity.X
			stats.WallCollisions++
			if !leftIsDivider {
				stats.WallImpulse += m * abs(p.Velocity.X-before)
			}
		}
		p.Position.X = bounds.Min.X + r
	}

	// Right wall, possibly the divider face.
	if p.Position.X+r > bounds.Max.X {
		if p.Velocity.X > 0 {
			stats.WallCollisions++
			if !rightIsDivider {
				stats.WallImpulse += 2 * m * p.Velocity.X
			}
			p.Velocity.X = -p.Velocity.X
		}
		p.Position.X = bounds.Max.X - r
	}

	// Bottom.
	if p.Position.Y-r < bounds.Min.Y {
		if p.Velocity.Y < 0 {
			stats.WallCollisions++
			stats.WallImpulse += 2 * m * -p.Velocity.Y
			p.Velocity.Y = -p.Velocity.Y
		}
		p.Position.Y = bounds.Min.Y + r
	}

	// Top, unless the particle is passing through an open lid gap.
	if p.Position.Y+r > bounds.Max.Y {
		if c.InLidOpening(p.Position.X) {
			return
		}
		if p.Velocity.Y > 0 {
			stats.WallCollisions++
			stats.WallImpulse += 2 * m * p.Velocity.Y
			p.Velocity.Y = -p.Velocity.Y
		}
		p.Position.Y = bounds.Max.Y - r
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
