package gas

import (
	"context"
	"fmt"
	"math"
)

// Config describes one simulation setup.
type Config struct {
	Dt       float64
	Duration float64
	Seed     int64

	Width  float64
	Height float64
	Depth  float64

	HeavyCount int
	LightCount int

	InitialTemperature float64

	CollisionsEnabled bool
	HoldMode          HoldMode

	HasDivider   bool
	DividerX     float64
	LidHalfWidth float64
}

func DefaultConfig() Config {
	return Config{
		Dt:                 0.2,
		Duration:           200.0,
		Width:              DefaultWidth,
		Height:             DefaultHeight,
		Depth:              DefaultDepth,
		HeavyCount:         100,
		InitialTemperature: DefaultTemperature,
		CollisionsEnabled:  true,
	}
}

// Result holds the observable time series and summary metrics of a run.
type Result struct {
	Times       []float64
	Temperature []float64
	Pressure    []float64
	HeavyCounts []int
	LightCounts []int
	Widths      []float64

	Metrics        map[string]float64
	StepsTaken     int
	WallCollisions int
	PairCollisions int
	EnergyDrift    float64
	Errors         []error
}

// Sim steps the gas in the fixed order: reconcile populations, hold-mode
// adjustment, kinematics + heat/cool, collision resolution, lid escape and
// cull, observable derivation. Single-threaded; callers read state through
// Snapshot between steps only.
type Sim struct {
	cfg Config

	Container *Container
	System    *System

	detector *Detector
	gauge    *PressureGauge
	hold     holdController

	time  float64
	steps int

	wallCollisions int
	pairCollisions int

	metrics   []Metric
	observers []Observer
}

func New(cfg Config) (*Sim, error) {
	if cfg.Dt <= 0 {
		return nil, fmt.Errorf("%w: dt=%f", ErrInvalidTimestep, cfg.Dt)
	}
	if cfg.InitialTemperature <= 0 {
		cfg.InitialTemperature = DefaultTemperature
	}

	c := NewContainer(cfg.Width, cfg.Height, cfg.Depth)
	if cfg.HasDivider {
		x := cfg.DividerX
		if x == 0 {
			x = c.Bounds().Center().X
		}
		c.SetDivider(x)
	}
	if cfg.LidHalfWidth > 0 {
		c.SetLidOpening(cfg.LidHalfWidth)
	}

	sys := NewSystem(c, cfg.Seed)
	sys.CollisionsEnabled = cfg.CollisionsEnabled
	sys.InitTemperature = cfg.InitialTemperature
	if err := sys.SetTarget(Heavy, cfg.HeavyCount); err != nil {
		return nil, err
	}
	if err := sys.SetTarget(Light, cfg.LightCount); err != nil {
		return nil, err
	}

	det := NewDetector(c)
	det.PairCollisionsEnabled = cfg.CollisionsEnabled

	s := &Sim{
		cfg:       cfg,
		Container: c,
		System:    sys,
		detector:  det,
		gauge:     NewPressureGauge(),
	}
	s.hold.mode = HoldNothing
	sys.SyncPopulations()
	if cfg.HoldMode != HoldNothing {
		s.SetHoldMode(cfg.HoldMode)
	}
	return s, nil
}

func (s *Sim) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Sim) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Sim) Time() float64  { return s.time }
func (s *Sim) StepCount() int { return s.steps }

// Step advances the simulation by dt. The step either completes fully,
// leaving a consistent state, or returns a defect error.
func (s *Sim) Step(dt float64) error {
	if dt <= 0 {
		return fmt.Errorf("%w: dt=%f", ErrInvalidTimestep, dt)
	}

	s.System.SyncPopulations()
	s.hold.adjust(s.Container, s.System)
	s.System.Advance(dt)

	stats := s.detector.Step(s.Container, s.System.Inside)

	s.System.EscapeThroughLid()
	s.System.CullOutside()

	s.gauge.Record(stats.WallImpulse, dt, s.Container, len(s.System.Inside) > 0)

	s.wallCollisions += stats.WallCollisions
	s.pairCollisions += stats.PairCollisions
	s.time += dt
	s.steps++

	if err := s.System.Validate(); err != nil {
		return &SimError{Step: s.steps, Time: s.time, Wrapped: err}
	}
	// With the lid closed every disc must sit fully inside after wall
	// resolution; anything else is a defect, not a physical state.
	if !s.Container.LidOpen() {
		for _, p := range s.System.Inside {
			if !s.Container.ContainsParticle(p) {
				return &SimError{Step: s.steps, Time: s.time, Wrapped: ErrContainment}
			}
		}
	}

	if len(s.metrics) > 0 || len(s.observers) > 0 {
		snap := s.Snapshot()
		for _, m := range s.metrics {
			m.Observe(snap)
		}
		for _, o := range s.observers {
			o.OnStep(snap)
		}
	}
	return nil
}

// Run steps for the configured duration, recording observables each step.
func (s *Sim) Run(ctx context.Context) (*Result, error) {
	steps := int(s.cfg.Duration / s.cfg.Dt)
	result := &Result{
		Times:       make([]float64, 0, steps),
		Temperature: make([]float64, 0, steps),
		Pressure:    make([]float64, 0, steps),
		HeavyCounts: make([]int, 0, steps),
		LightCounts: make([]int, 0, steps),
		Widths:      make([]float64, 0, steps),
		Metrics:     make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	initialEnergy := s.System.TotalKineticEnergy()

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if err := s.Step(s.cfg.Dt); err != nil {
			result.Errors = append(result.Errors, err)
			break
		}

		t, _ := s.System.Temperature()
		result.Times = append(result.Times, s.time)
		result.Temperature = append(result.Temperature, t)
		result.Pressure = append(result.Pressure, s.gauge.Pressure())
		result.HeavyCounts = append(result.HeavyCounts, s.System.Count(Heavy))
		result.LightCounts = append(result.LightCounts, s.System.Count(Light))
		result.Widths = append(result.Widths, s.Container.Width())
		result.StepsTaken++
	}

	finalEnergy := s.System.TotalKineticEnergy()
	if initialEnergy != 0 {
		result.EnergyDrift = math.Abs(finalEnergy-initialEnergy) / math.Abs(initialEnergy)
	}

	result.WallCollisions = s.wallCollisions
	result.PairCollisions = s.pairCollisions
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, nil
}

// RunWithCallback steps until the callback returns false or the duration
// elapses; used by live drivers that render between steps.
func (s *Sim) RunWithCallback(ctx context.Context, callback func(*Snapshot) bool) error {
	for s.time < s.cfg.Duration {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := s.Step(s.cfg.Dt); err != nil {
			return err
		}
		if !callback(s.Snapshot()) {
			return nil
		}
	}
	return nil
}

// SetHoldMode engages a hold-constant mode, recording the current
// temperature and pressure as its setpoints.
func (s *Sim) SetHoldMode(mode HoldMode) {
	s.hold.engage(mode, s.Container, s.System)
}

func (s *Sim) HoldMode() HoldMode { return s.hold.mode }

// RequestWidth applies a width change, clamped to the valid range and
// refused entirely while volume is held. Particles redistribute
// proportionally so the resize does not cluster them.
func (s *Sim) RequestWidth(w float64) float64 {
	if s.hold.mode == HoldVolume || s.hold.mode == HoldPressureT {
		return s.Container.Width()
	}
	old := s.Container.Width()
	applied := s.Container.SetWidth(w)
	s.System.RedistributeX(old, applied)
	return applied
}

func (s *Sim) SetWallSpeed(v float64) { s.Container.SetWallSpeed(v) }
func (s *Sim) EndResize()             { s.Container.EndResize() }

func (s *Sim) SetTarget(sp Species, n int) error { return s.System.SetTarget(sp, n) }
func (s *Sim) SetHeatCool(f float64)             { s.System.SetHeatCool(f) }

func (s *Sim) SetCollisionsEnabled(enabled bool) {
	s.detector.PairCollisionsEnabled = enabled
	s.System.CollisionsEnabled = enabled
}

func (s *Sim) Pressure() float64 { return s.gauge.Pressure() }

// Snapshot builds the read-only projection handed to presentation layers,
// metrics, and observers.
func (s *Sim) Snapshot() *Snapshot {
	snap := &Snapshot{
		Time:           s.time,
		Steps:          s.steps,
		Bounds:         s.Container.Bounds(),
		Volume:         s.Container.Volume(),
		HasDivider:     s.Container.HasDivider(),
		LidHalfWidth:   s.Container.LidHalfWidth(),
		Pressure:       s.gauge.Pressure(),
		HeavyCount:     s.System.Count(Heavy),
		LightCount:     s.System.Count(Light),
		WallCollisions: s.wallCollisions,
		PairCollisions: s.pairCollisions,
	}
	snap.TotalCollisions = snap.WallCollisions + snap.PairCollisions
	if snap.HasDivider {
		snap.DividerX = s.Container.DividerX()
	}
	snap.Temperature, snap.TemperatureOK = s.System.Temperature()
	snap.Left, snap.Right = s.System.SideStats()

	snap.Particles = make([]ParticleView, 0, len(s.System.Inside)+len(s.System.Outside))
	for _, p := range s.System.Inside {
		snap.Particles = append(snap.Particles, ParticleView{
			Position: p.Position,
			Velocity: p.Velocity,
			Radius:   p.Radius(),
			Species:  p.Species().Name,
			Inside:   true,
		})
	}
	for _, p := range s.System.Outside {
		snap.Particles = append(snap.Particles, ParticleView{
			Position: p.Position,
			Velocity: p.Velocity,
			Radius:   p.Radius(),
			Species:  p.Species().Name,
		})
	}
	return snap
}
