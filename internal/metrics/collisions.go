package metrics

import (
	"github.com/san-kum/gaslab/internal/gas"
)

// CollisionRate reports total collisions per unit simulated time.
type CollisionRate struct {
	name      string
	firstTime float64
	lastTime  float64
	first     int
	last      int
	samples   int
}

func NewCollisionRate() *CollisionRate {
	return &CollisionRate{
		name: "collision_rate",
	}
}

func (c *CollisionRate) Name() string { return c.name }

func (c *CollisionRate) Observe(s *gas.Snapshot) {
	if c.samples == 0 {
		c.firstTime = s.Time
		c.first = s.TotalCollisions
	}
	c.lastTime = s.Time
	c.last = s.TotalCollisions
	c.samples++
}

func (c *CollisionRate) Value() float64 {
	elapsed := c.lastTime - c.firstTime
	if elapsed <= 0 {
		return 0
	}
	return float64(c.last-c.first) / elapsed
}

func (c *CollisionRate) Reset() {
	c.firstTime = 0
	c.lastTime = 0
	c.first = 0
	c.last = 0
	c.samples = 0
}
