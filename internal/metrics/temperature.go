package metrics

import (
	"github.com/san-kum/gaslab/internal/gas"
)

type MeanTemperature struct {
	name    string
	sum     float64
	samples int
}

func NewMeanTemperature() *MeanTemperature {
	return &MeanTemperature{
		name: "mean_temperature",
	}
}

func (m *MeanTemperature) Name() string { return m.name }

func (m *MeanTemperature) Observe(s *gas.Snapshot) {
	if !s.TemperatureOK {
		return
	}
	m.sum += s.Temperature
	m.samples++
}

func (m *MeanTemperature) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanTemperature) Reset() {
	m.sum = 0
	m.samples = 0
}
