package gas

import "math"

// holdController pins one macroscopic quantity at the value it had when
// the mode was engaged, adjusting either the temperature target or the
// container width once per step, before kinematics.
type holdController struct {
	mode HoldMode

	// Engagement-time setpoints.
	temperature float64
	pressure    float64
}

// engage records the setpoints the selected mode will track.
func (h *holdController) engage(mode HoldMode, c *Container, sys *System) {
	h.mode = mode

	t, ok := sys.Temperature()
	if !ok {
		t = DefaultTemperature
	}
	h.temperature = t
	h.pressure = IdealPressure(len(sys.Inside), t, c.Volume())
}

// adjust runs the per-step control action. Adjustments that would exceed a
// component's valid range clamp and accept the deviation.
func (h *holdController) adjust(c *Container, sys *System) {
	if len(sys.Inside) == 0 {
		return
	}

	switch h.mode {
	case HoldTemperature:
		h.pinTemperature(sys, h.temperature)

	case HoldPressureV:
		// Width is fixed; solve the gas law for the temperature that
		// restores the engagement pressure and track it.
		n := len(sys.Inside)
		t := h.pressure * c.Volume() / (PressureConversion * 1.5 * float64(n) * Boltzmann)
		h.temperature = t
		h.pinTemperature(sys, t)

	case HoldPressureT:
		// Temperature is left alone; solve for the width that restores
		// the engagement pressure at the current temperature.
		t, ok := sys.Temperature()
		if !ok {
			return
		}
		n := len(sys.Inside)
		area := PressureConversion * 1.5 * float64(n) * Boltzmann * t / (h.pressure * c.Depth())
		oldWidth := c.Width()
		newWidth := c.SetWidth(area / c.Height())
		sys.RedistributeX(oldWidth, newWidth)
	}
}

// pinTemperature rescales every particle's speed so the instantaneous
// temperature equals target.
func (h *holdController) pinTemperature(sys *System, target float64) {
	current, ok := sys.Temperature()
	if !ok || current <= 0 || target <= 0 {
		return
	}
	sys.ScaleAllSpeeds(math.Sqrt(target / current))
}
