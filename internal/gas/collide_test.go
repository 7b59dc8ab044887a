package gas

import (
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/gaslab/internal/geom"
)

func momentum(ps ...*Particle) geom.Vec2 {
	var total geom.Vec2
	for _, p := range ps {
		total = total.Add(p.Velocity.Scale(p.Mass()))
	}
	return total
}

func kinetic(ps ...*Particle) float64 {
	total := 0.0
	for _, p := range ps {
		total += p.KineticEnergy()
	}
	return total
}

func TestElasticPairConservation(t *testing.T) {
	c := NewContainer(DefaultWidth, 0, 0)
	d := NewDetector(c)

	tests := []struct {
		name string
		a, b *Particle
	}{
		{
			"heavy head-on",
			NewParticle(Heavy, geom.V(200, 150), geom.V(1, 0)),
			NewParticle(Heavy, geom.V(206, 150), geom.V(-1, 0)),
		},
		{
			"heavy oblique",
			NewParticle(Heavy, geom.V(200, 150), geom.V(1, 0.3)),
			NewParticle(Heavy, geom.V(206, 150.5), geom.V(-0.5, 0.2)),
		},
		{
			"heavy hits light",
			NewParticle(Heavy, geom.V(200, 150), geom.V(0.8, -0.1)),
			NewParticle(Light, geom.V(205, 151), geom.V(-0.2, 0.1)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p0 := momentum(tt.a, tt.b)
			e0 := kinetic(tt.a, tt.b)

			if !d.resolvePair(c, tt.a, tt.b) {
				t.Fatal("expected a resolved collision")
			}

			p1 := momentum(tt.a, tt.b)
			e1 := kinetic(tt.a, tt.b)

			if p1.Sub(p0).Magnitude() > 1e-9 {
				t.Errorf("momentum not conserved: %v -> %v", p0, p1)
			}
			if math.Abs(e1-e0) > 1e-9 {
				t.Errorf("kinetic energy not conserved: %f -> %f", e0, e1)
			}

			minDist := tt.a.Radius() + tt.b.Radius()
			if dist := tt.a.Position.Distance(tt.b.Position); dist < minDist-1e-9 {
				t.Errorf("residual overlap after resolution: dist=%f min=%f", dist, minDist)
			}
		})
	}
}

func TestRecedingPairIgnored(t *testing.T) {
	c := NewContainer(DefaultWidth, 0, 0)
	d := NewDetector(c)

	// Overlapping but separating: an earlier contact already resolved.
	a := NewParticle(Heavy, geom.V(200, 150), geom.V(-1, 0))
	b := NewParticle(Heavy, geom.V(205, 150), geom.V(1, 0))

	if d.resolvePair(c, a, b) {
		t.Error("receding pair must not re-collide")
	}
}

func TestStationaryWallBounce(t *testing.T) {
	c := NewContainer(DefaultWidth, 0, 0)
	d := NewDetector(c)

	tests := []struct {
		name     string
		pos, vel geom.Vec2
		flipX    bool
		flipY    bool
	}{
		{"left wall", geom.V(c.Left()+2, 150), geom.V(-0.5, 0.3), true, false},
		{"right wall", geom.V(c.Right()-2, 150), geom.V(0.5, 0.3), true, false},
		{"bottom wall", geom.V(300, c.Bottom()+2), geom.V(0.2, -0.5), false, true},
		{"top wall", geom.V(300, c.Top()-2), geom.V(0.2, 0.5), false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParticle(Heavy, tt.pos, tt.vel)
			speed := p.Speed()

			var stats StepStats
			d.resolveWalls(c, p, &stats)

			if stats.WallCollisions != 1 {
				t.Fatalf("expected 1 wall collision, got %d", stats.WallCollisions)
			}
			if math.Abs(p.Speed()-speed) > 1e-12 {
				t.Errorf("speed changed on stationary wall: %f -> %f", speed, p.Speed())
			}
			wantX, wantY := tt.vel.X, tt.vel.Y
			if tt.flipX {
				wantX = -wantX
			}
			if tt.flipY {
				wantY = -wantY
			}
			if math.Abs(p.Velocity.X-wantX) > 1e-12 || math.Abs(p.Velocity.Y-wantY) > 1e-12 {
				t.Errorf("velocity: got %v, want (%f, %f)", p.Velocity, wantX, wantY)
			}
			if !c.ContainsParticle(p) {
				t.Error("particle should be clamped inside after bounce")
			}
			if stats.WallImpulse <= 0 {
				t.Error("wall impulse should accumulate")
			}
		})
	}
}

func TestMovingWallDoesWork(t *testing.T) {
	c := NewContainer(DefaultWidth, 0, 0)
	d := NewDetector(c)

	// Wall moving into the gas speeds the particle up.
	c.SetWallSpeed(0.5)
	p := NewParticle(Heavy, geom.V(c.Left()+2, 150), geom.V(-1, 0))
	e0 := p.KineticEnergy()

	var stats StepStats
	d.resolveWalls(c, p, &stats)

	if p.Velocity.X != 2 {
		t.Errorf("compression bounce: got vx=%f, want 2", p.Velocity.X)
	}
	if p.KineticEnergy() <= e0 {
		t.Error("compressing wall must add energy")
	}

	// Receding wall slows it down.
	c.SetWallSpeed(-0.4)
	p = NewParticle(Heavy, geom.V(c.Left()+2, 150), geom.V(-1, 0))
	e0 = p.KineticEnergy()

	d.resolveWalls(c, p, &stats)

	if math.Abs(p.Velocity.X-0.2) > 1e-12 {
		t.Errorf("expansion bounce: got vx=%f, want 0.2", p.Velocity.X)
	}
	if p.KineticEnergy() >= e0 {
		t.Error("receding wall must remove energy")
	}
}

func TestDividerSeparatesSides(t *testing.T) {
	c := NewContainer(DefaultWidth, 0, 0)
	mid := c.Bounds().Center().X
	c.SetDivider(mid)
	d := NewDetector(c)

	// Overlapping discs on opposite sides never interact.
	a := NewParticle(Heavy, geom.V(mid-2, 150), geom.V(1, 0))
	b := NewParticle(Heavy, geom.V(mid+2, 150), geom.V(-1, 0))

	if d.resolvePair(c, a, b) {
		t.Error("pair across the divider must not collide")
	}

	// A left-side particle crossing the divider plane is pushed back.
	p := NewParticle(Heavy, geom.V(mid-1, 150), geom.V(2, 0))
	p.Prev = geom.V(mid-5, 150)
	p.Position = geom.V(mid+3, 150)

	var stats StepStats
	d.resolveWalls(c, p, &stats)

	if p.Position.X+p.Radius() > mid {
		t.Errorf("crosser not returned to its side: x=%f", p.Position.X)
	}
	if p.Velocity.X >= 0 {
		t.Error("crosser velocity should reflect off the divider")
	}

	// Divider bounces do not feed the pressure accumulator.
	if stats.WallImpulse != 0 {
		t.Errorf("divider impulse leaked into pressure accounting: %f", stats.WallImpulse)
	}
}

func TestLidOpeningLetsParticlesThrough(t *testing.T) {
	c := NewContainer(DefaultWidth, 0, 0)
	c.SetLidOpening(30)
	d := NewDetector(c)

	center := (c.Left() + c.Right()) / 2
	escaping := NewParticle(Light, geom.V(center, c.Top()+1), geom.V(0, 1))
	blocked := NewParticle(Light, geom.V(center+100, c.Top()+1), geom.V(0, 1))

	var stats StepStats
	d.resolveWalls(c, escaping, &stats)
	d.resolveWalls(c, blocked, &stats)

	if escaping.Velocity.Y != 1 {
		t.Error("particle in the opening must pass through unreflected")
	}
	if blocked.Velocity.Y != -1 {
		t.Error("particle outside the opening must reflect")
	}
}

func TestDetectorStepCounts(t *testing.T) {
	c := NewContainer(DefaultWidth, 0, 0)
	d := NewDetector(c)

	ps := []*Particle{
		NewParticle(Heavy, geom.V(200, 150), geom.V(1, 0)),
		NewParticle(Heavy, geom.V(206, 150), geom.V(-1, 0)),
		NewParticle(Heavy, geom.V(c.Left()+2, 100), geom.V(-1, 0)),
	}

	stats := d.Step(c, ps)

	if stats.PairCollisions != 1 {
		t.Errorf("pair collisions: got %d, want 1", stats.PairCollisions)
	}
	if stats.WallCollisions != 1 {
		t.Errorf("wall collisions: got %d, want 1", stats.WallCollisions)
	}

	d.PairCollisionsEnabled = false
	ps[0].Velocity, ps[1].Velocity = geom.V(1, 0), geom.V(-1, 0)
	ps[0].Position, ps[1].Position = geom.V(200, 150), geom.V(206, 150)
	stats = d.Step(c, ps)
	if stats.PairCollisions != 0 {
		t.Error("disabled detector must skip pair collisions")
	}
}

func BenchmarkDetectorStep(b *testing.B) {
	c := NewContainer(DefaultWidth, 0, 0)
	d := NewDetector(c)

	rng := rand.New(rand.NewSource(2))
	bounds := c.Bounds()
	ps := make([]*Particle, 2000)
	for i := range ps {
		pos := geom.V(
			bounds.Min.X+8+rng.Float64()*(bounds.Width()-16),
			bounds.Min.Y+8+rng.Float64()*(bounds.Height()-16),
		)
		vel := geom.FromPolar(0.7, rng.Float64()*2*math.Pi)
		ps[i] = NewParticle(Heavy, pos, vel)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		d.Step(c, ps)
	}
}
