package metrics

import (
	"github.com/san-kum/gaslab/internal/gas"
)

// MeanPressure averages the gauge reading, skipping the startup steps
// before the first sampling window has completed.
type MeanPressure struct {
	name    string
	sum     float64
	samples int
}

func NewMeanPressure() *MeanPressure {
	return &MeanPressure{
		name: "mean_pressure",
	}
}

func (m *MeanPressure) Name() string { return m.name }

func (m *MeanPressure) Observe(s *gas.Snapshot) {
	if s.Pressure == 0 {
		return
	}
	m.sum += s.Pressure
	m.samples++
}

func (m *MeanPressure) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanPressure) Reset() {
	m.sum = 0
	m.samples = 0
}
