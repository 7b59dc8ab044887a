package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/gaslab/internal/gas"
)

func snap(time float64, temp float64, collisions int) *gas.Snapshot {
	return &gas.Snapshot{
		Time:            time,
		Temperature:     temp,
		TemperatureOK:   temp > 0,
		TotalCollisions: collisions,
	}
}

func TestMeanTemperature(t *testing.T) {
	m := NewMeanTemperature()

	m.Observe(snap(0, 290, 0))
	m.Observe(snap(1, 310, 0))

	if got := m.Value(); math.Abs(got-300) > 1e-9 {
		t.Errorf("mean: got %f, want 300", got)
	}

	// Empty-container readings carry no information and are skipped.
	m.Observe(snap(2, 0, 0))
	if got := m.Value(); math.Abs(got-300) > 1e-9 {
		t.Errorf("undefined reading shifted the mean: %f", got)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestMeanPressureSkipsWarmup(t *testing.T) {
	m := NewMeanPressure()

	// The gauge reads zero until its first window completes.
	m.Observe(&gas.Snapshot{Pressure: 0})
	m.Observe(&gas.Snapshot{Pressure: 100})
	m.Observe(&gas.Snapshot{Pressure: 120})

	if got := m.Value(); math.Abs(got-110) > 1e-9 {
		t.Errorf("mean pressure: got %f, want 110", got)
	}
}

func TestCollisionRate(t *testing.T) {
	m := NewCollisionRate()

	m.Observe(snap(0, 300, 10))
	m.Observe(snap(5, 300, 60))

	if got := m.Value(); math.Abs(got-10) > 1e-9 {
		t.Errorf("rate: got %f, want 10", got)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero rate after reset")
	}
}

func TestCollisionRateSingleSample(t *testing.T) {
	m := NewCollisionRate()
	m.Observe(snap(3, 300, 50))
	if m.Value() != 0 {
		t.Error("a single sample has no elapsed time")
	}
}

func TestStability(t *testing.T) {
	m := NewStability(300, 0.01)

	m.Observe(snap(0, 300, 0))
	m.Observe(snap(1, 301, 0))
	m.Observe(snap(2, 350, 0))
	m.Observe(snap(3, 299, 0))

	if got := m.Value(); math.Abs(got-0.75) > 1e-9 {
		t.Errorf("stability: got %f, want 0.75", got)
	}
}

func TestStabilityEmptyIsPerfect(t *testing.T) {
	m := NewStability(300, 0.01)
	if m.Value() != 1.0 {
		t.Error("no samples means no violations")
	}
}
