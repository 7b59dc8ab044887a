package gas

import (
	"math"
	"math/rand"

	"github.com/san-kum/gaslab/internal/geom"
)

// Injection geometry: new particles enter just inside the right wall at
// mid-height, aimed into the container within a dispersion cone.
const (
	EntryInset      = 10.0
	EntryDispersion = math.Pi / 4

	// CullMargin bounds how far escaped particles are tracked beyond the
	// container's maximum extent before being discarded.
	CullMargin = 200.0
)

// System owns the live particle collections, partitioned by inside/outside
// status, and reconciles them against the requested per-species targets.
type System struct {
	rng       *rand.Rand
	container *Container

	Inside  []*Particle
	Outside []*Particle

	targetHeavy int
	targetLight int

	heatCool float64

	// CollisionsEnabled mirrors the detector toggle; it decides whether
	// multi-particle injections need per-particle temperature jitter.
	CollisionsEnabled bool

	// InitTemperature seeds injections while the container is empty.
	InitTemperature float64
}

func NewSystem(c *Container, seed int64) *System {
	return &System{
		rng:               rand.New(rand.NewSource(seed)),
		container:         c,
		Inside:            make([]*Particle, 0, 256),
		Outside:           make([]*Particle, 0, 16),
		CollisionsEnabled: true,
		InitTemperature:   DefaultTemperature,
	}
}

// SetTarget records a species' requested population. Negative targets are
// refused. Reconciliation happens on the next step.
func (s *System) SetTarget(sp Species, n int) error {
	if n < 0 {
		return ErrNegativeTarget
	}
	if sp.Name == Light.Name {
		s.targetLight = n
	} else {
		s.targetHeavy = n
	}
	return nil
}

func (s *System) Target(sp Species) int {
	if sp.Name == Light.Name {
		return s.targetLight
	}
	return s.targetHeavy
}

func (s *System) Count(sp Species) int {
	n := 0
	for _, p := range s.Inside {
		if p.Species().Name == sp.Name {
			n++
		}
	}
	return n
}

// SetHeatCool sets the heat/cool factor, clamped into [-1, 1].
func (s *System) SetHeatCool(f float64) {
	if f < -1 {
		f = -1
	}
	if f > 1 {
		f = 1
	}
	s.heatCool = f
}

func (s *System) HeatCool() float64 { return s.heatCool }

// SyncPopulations reconciles both live collections to their targets.
// Setting a target equal to the live count is a no-op.
func (s *System) SyncPopulations() {
	for _, sp := range []Species{Heavy, Light} {
		diff := s.Target(sp) - s.Count(sp)
		switch {
		case diff > 0:
			s.inject(sp, diff)
		case diff < 0:
			s.removeNewest(sp, -diff)
		}
	}
}

// inject creates n particles at the entry point. Speeds derive from a
// target temperature: the current reading, or the default when the
// container is empty. Multi-particle injections with collisions enabled
// draw per-particle temperatures from a Gaussian and renormalize the
// sample mean to the target exactly, which breaks up wave-like bulk
// motion without shifting the intended mean energy.
func (s *System) inject(sp Species, n int) {
	target, ok := s.Temperature()
	if !ok {
		target = s.InitTemperature
	}

	temps := make([]float64, n)
	if n > 1 && s.CollisionsEnabled {
		sum := 0.0
		for i := range temps {
			t := target * (1 + TemperatureJitter*s.rng.NormFloat64())
			if t < target*0.1 {
				t = target * 0.1
			}
			temps[i] = t
			sum += t
		}
		norm := target * float64(n) / sum
		for i := range temps {
			temps[i] *= norm
		}
	} else {
		for i := range temps {
			temps[i] = target
		}
	}

	entry := geom.V(s.container.Right()-EntryInset, s.container.Bottom()+s.container.Height()/2)
	inward := math.Pi // -x direction

	for i := 0; i < n; i++ {
		speed := math.Sqrt(3 * Boltzmann * temps[i] / sp.Mass)
		angle := inward + (s.rng.Float64()*2-1)*EntryDispersion
		p := NewParticle(sp, entry, geom.FromPolar(speed, angle))
		s.Inside = append(s.Inside, p)
	}
}

// removeNewest disposes the n most recently added particles of a species.
func (s *System) removeNewest(sp Species, n int) {
	for i := len(s.Inside) - 1; i >= 0 && n > 0; i-- {
		if s.Inside[i].Species().Name != sp.Name {
			continue
		}
		s.Inside = append(s.Inside[:i], s.Inside[i+1:]...)
		n--
	}
}

// Advance integrates all particles and applies heat/cool scaling. Outside
// particles fly ballistically and never rejoin collision detection.
func (s *System) Advance(dt float64) {
	scale := 1.0
	if s.heatCool != 0 {
		scale = 1 + s.heatCool*HeatCoolRate*dt
	}
	for _, p := range s.Inside {
		if scale != 1 {
			p.ScaleVelocity(scale)
		}
		p.Advance(dt)
	}
	for _, p := range s.Outside {
		p.Advance(dt)
	}
}

// ScaleAllSpeeds rescales every inside particle's speed uniformly; the
// hold-temperature loop uses it to pin the instantaneous temperature.
func (s *System) ScaleAllSpeeds(factor float64) {
	for _, p := range s.Inside {
		p.ScaleVelocity(factor)
	}
}

// RedistributeX remaps particle x coordinates proportionally after a width
// change, anchored at the fixed right wall, so resizing never leaves a
// sudden cluster against the moved wall.
func (s *System) RedistributeX(oldWidth, newWidth float64) {
	if oldWidth <= 0 || oldWidth == newWidth {
		return
	}
	right := s.container.Right()
	ratio := newWidth / oldWidth
	for _, p := range s.Inside {
		p.Position.X = right - (right-p.Position.X)*ratio
	}
}

// EscapeThroughLid moves particles that left through the open lid into the
// outside collection, and re-admits outside particles that fall back in
// through the opening.
func (s *System) EscapeThroughLid() {
	if !s.container.LidOpen() {
		return
	}
	top := s.container.Top()
	for i := len(s.Inside) - 1; i >= 0; i-- {
		p := s.Inside[i]
		if p.Position.Y-p.Radius() > top {
			s.Outside = append(s.Outside, p)
			s.Inside = append(s.Inside[:i], s.Inside[i+1:]...)
		}
	}

	bounds := s.container.Bounds()
	for i := len(s.Outside) - 1; i >= 0; i-- {
		p := s.Outside[i]
		if bounds.ContainsCircle(p.Position, p.Radius()) {
			s.Inside = append(s.Inside, p)
			s.Outside = append(s.Outside[:i], s.Outside[i+1:]...)
		}
	}
}

// CullOutside discards escaped particles that drift beyond the tracked
// bounds.
func (s *System) CullOutside() {
	if len(s.Outside) == 0 {
		return
	}
	tracked := s.container.MaxBounds().Expand(CullMargin)
	kept := s.Outside[:0]
	for _, p := range s.Outside {
		if tracked.Contains(p.Position) {
			kept = append(kept, p)
		}
	}
	s.Outside = kept
}

// Temperature derives the instantaneous temperature from average kinetic
// energy: T = (2/3)·⟨KE⟩/k. With no particles there is no reading.
func (s *System) Temperature() (float64, bool) {
	if len(s.Inside) == 0 {
		return 0, false
	}
	return (2.0 / 3.0) * s.meanKineticEnergy() / Boltzmann, true
}

func (s *System) meanKineticEnergy() float64 {
	total := 0.0
	for _, p := range s.Inside {
		total += p.KineticEnergy()
	}
	return total / float64(len(s.Inside))
}

func (s *System) TotalKineticEnergy() float64 {
	total := 0.0
	for _, p := range s.Inside {
		total += p.KineticEnergy()
	}
	return total
}

// SideStats summarizes the two halves of a divided container for the
// diffusion readout. Without a divider the split falls at the container
// center.
func (s *System) SideStats() (left, right SideStats) {
	split := s.container.Bounds().Center().X
	if s.container.HasDivider() {
		split = s.container.DividerX()
	}

	var keLeft, keRight float64
	for _, p := range s.Inside {
		if p.Position.X < split {
			left.Count++
			keLeft += p.KineticEnergy()
		} else {
			right.Count++
			keRight += p.KineticEnergy()
		}
	}
	if left.Count > 0 {
		left.Temperature = (2.0 / 3.0) * keLeft / float64(left.Count) / Boltzmann
	}
	if right.Count > 0 {
		right.Temperature = (2.0 / 3.0) * keRight / float64(right.Count) / Boltzmann
	}
	return left, right
}

// Validate fails fast on NaN/Inf particle state, a programming-error
// condition per the model's contract.
func (s *System) Validate() error {
	for _, p := range s.Inside {
		if !p.IsValid() {
			return ErrInvalidState
		}
	}
	return nil
}
