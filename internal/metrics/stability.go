package metrics

import (
	"math"

	"github.com/san-kum/gaslab/internal/gas"
)

// Stability is the fraction of steps whose temperature stayed within a
// relative band around a target. 1.0 means the run never left the band.
type Stability struct {
	name       string
	target     float64
	band       float64
	violations int
	samples    int
}

func NewStability(target, band float64) *Stability {
	return &Stability{
		name:   "stability",
		target: target,
		band:   band,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(snap *gas.Snapshot) {
	if !snap.TemperatureOK {
		return
	}
	s.samples++
	if math.Abs(snap.Temperature-s.target)/s.target > s.band {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
