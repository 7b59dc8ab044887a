package gas

// PressureGauge turns wall-collision momentum transfer into a pressure
// reading. Impulse accumulates over a fixed sampling window; at the end of
// each window the reading updates to impulse rate per wall area, scaled by
// the calibrated conversion constant. The derivation is a pure projection:
// the same collision history always yields the same reading.
type PressureGauge struct {
	impulse  float64
	elapsed  float64
	pressure float64
}

func NewPressureGauge() *PressureGauge {
	return &PressureGauge{}
}

// Record accumulates one step's wall impulse. With no particles the
// reading is exactly zero regardless of the accumulator.
func (g *PressureGauge) Record(impulse, dt float64, c *Container, populated bool) {
	if !populated {
		g.Reset()
		return
	}

	g.impulse += impulse
	g.elapsed += dt

	if g.elapsed >= PressureWindow {
		g.pressure = PressureConversion * g.impulse / (g.elapsed * c.WallArea())
		g.impulse = 0
		g.elapsed = 0
	} else if g.pressure == 0 && g.elapsed >= PressureWindow/4 {
		// Provisional reading while the first window fills, so the gauge
		// does not sit at zero after the first pump stroke.
		g.pressure = PressureConversion * g.impulse / (g.elapsed * c.WallArea())
	}
}

func (g *PressureGauge) Pressure() float64 {
	return g.pressure
}

func (g *PressureGauge) Reset() {
	g.impulse = 0
	g.elapsed = 0
	g.pressure = 0
}

// IdealPressure is the kinetic-theory expectation for the gauge reading,
// P = conversion · (3/2)·N·k·T / V. The hold-pressure loops invert it to
// pick their adjustment each step.
func IdealPressure(n int, temperature, volume float64) float64 {
	if n == 0 || volume <= 0 {
		return 0
	}
	return PressureConversion * 1.5 * float64(n) * Boltzmann * temperature / volume
}
