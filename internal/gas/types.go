package gas

import "github.com/san-kum/gaslab/internal/geom"

// Model units: mass in atomic mass units, distance and time in abstract
// model units, temperature in kelvin. Boltzmann is the Boltzmann-equivalent
// constant tying kinetic energy to temperature in those units.
const (
	Boltzmann = 1.38e-2

	// DefaultTemperature seeds particle speeds when the container is empty.
	DefaultTemperature = 300.0

	// HeatCoolRate converts the [-1,1] heat/cool factor into a per-time
	// velocity scaling rate.
	HeatCoolRate = 0.005

	// PressureWindow is the sampling duration over which wall impulse is
	// accumulated before the gauge updates.
	PressureWindow = 40.0

	// PressureConversion folds container cross-section geometry into the
	// impulse-rate-to-kPa conversion. Calibrated so default populations
	// read in the low hundreds of kPa.
	PressureConversion = 1.5e5

	// TemperatureJitter is the relative deviation of per-particle
	// temperatures drawn during a multi-particle injection.
	TemperatureJitter = 0.2
)

// Species describes a particle kind. Particles differ only in mass and
// radius; behavior is otherwise identical.
type Species struct {
	Name   string
	Mass   float64
	Radius float64
}

var (
	Heavy = Species{Name: "heavy", Mass: 28.0, Radius: 4.0}
	Light = Species{Name: "light", Mass: 4.0, Radius: 2.5}
)

// HoldMode selects which macroscopic quantity the control loop pins while
// the simulation runs.
type HoldMode int

const (
	HoldNothing HoldMode = iota
	HoldVolume
	HoldTemperature
	HoldPressureV // constant pressure by adjusting temperature
	HoldPressureT // constant pressure by adjusting volume
)

func (m HoldMode) String() string {
	switch m {
	case HoldNothing:
		return "nothing"
	case HoldVolume:
		return "volume"
	case HoldTemperature:
		return "temperature"
	case HoldPressureV:
		return "pressure-v"
	case HoldPressureT:
		return "pressure-t"
	default:
		return "unknown"
	}
}

// ParticleView is a read-only copy of one particle for rendering.
type ParticleView struct {
	Position geom.Vec2 `json:"pos"`
	Velocity geom.Vec2 `json:"vel"`
	Radius   float64   `json:"radius"`
	Species  string    `json:"species"`
	Inside   bool      `json:"inside"`
}

// SideStats summarizes one side of a divided container.
type SideStats struct {
	Count       int     `json:"count"`
	Temperature float64 `json:"temperature"`
}

// Snapshot is the read-only projection of simulation state exposed to the
// presentation layer between steps.
type Snapshot struct {
	Time   float64   `json:"time"`
	Steps  int       `json:"steps"`
	Bounds geom.Rect `json:"bounds"`
	Volume float64   `json:"volume"`

	HasDivider   bool    `json:"has_divider"`
	DividerX     float64 `json:"divider_x,omitempty"`
	LidHalfWidth float64 `json:"lid_half_width,omitempty"`

	Particles []ParticleView `json:"particles"`

	Temperature     float64 `json:"temperature"`
	TemperatureOK   bool    `json:"temperature_ok"`
	Pressure        float64 `json:"pressure"`
	HeavyCount      int     `json:"heavy_count"`
	LightCount      int     `json:"light_count"`
	WallCollisions  int     `json:"wall_collisions"`
	PairCollisions  int     `json:"pair_collisions"`
	TotalCollisions int     `json:"total_collisions"`

	Left  SideStats `json:"left,omitempty"`
	Right SideStats `json:"right,omitempty"`
}

// Metric observes snapshots during a run and reduces them to one value.
type Metric interface {
	Name() string
	Observe(s *Snapshot)
	Value() float64
	Reset()
}

// Observer receives the snapshot after every completed step.
type Observer interface {
	OnStep(s *Snapshot)
}
