package gas

import "github.com/san-kum/gaslab/internal/geom"

// Container geometry defaults, model units.
const (
	DefaultWidth  = 360.0
	MinWidth      = 120.0
	MaxWidth      = 480.0
	DefaultHeight = 300.0
	DefaultDepth  = 10.0
)

// Container is an axis-aligned box with a fixed right edge and bottom and a
// movable left wall. Height and depth are fixed and enter only through
// volume. The optional divider splits the interior into two independent
// boxes; the optional lid opening lets particles escape through the top.
type Container struct {
	right  float64 // fixed
	bottom float64 // fixed
	width  float64
	height float64
	depth  float64

	minWidth float64
	maxWidth float64

	// wallSpeed is the signed x velocity of the movable left wall,
	// non-zero only during an active resize gesture.
	wallSpeed float64

	dividerX   float64
	hasDivider bool

	lidHalfWidth float64
}

func NewContainer(width, height, depth float64) *Container {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	if depth <= 0 {
		depth = DefaultDepth
	}
	c := &Container{
		right:    MaxWidth,
		bottom:   0,
		height:   height,
		depth:    depth,
		minWidth: MinWidth,
		maxWidth: MaxWidth,
	}
	c.width = c.clampWidth(width)
	return c
}

func (c *Container) clampWidth(w float64) float64 {
	if w < c.minWidth {
		return c.minWidth
	}
	if w > c.maxWidth {
		return c.maxWidth
	}
	return w
}

func (c *Container) Width() float64  { return c.width }
func (c *Container) Height() float64 { return c.height }
func (c *Container) Depth() float64  { return c.depth }

func (c *Container) WidthRange() (min, max float64) {
	return c.minWidth, c.maxWidth
}

// SetWidth clamps the request into the configured range and returns the
// width actually applied.
func (c *Container) SetWidth(w float64) float64 {
	c.width = c.clampWidth(w)
	return c.width
}

// SetWallSpeed records the movable wall's instantaneous velocity during a
// resize gesture. Positive x moves the left wall toward the gas.
func (c *Container) SetWallSpeed(v float64) { c.wallSpeed = v }
func (c *Container) WallSpeed() float64     { return c.wallSpeed }

// EndResize clears the wall velocity when the gesture finishes.
func (c *Container) EndResize() { c.wallSpeed = 0 }

func (c *Container) Left() float64   { return c.right - c.width }
func (c *Container) Right() float64  { return c.right }
func (c *Container) Bottom() float64 { return c.bottom }
func (c *Container) Top() float64    { return c.bottom + c.height }

func (c *Container) Bounds() geom.Rect {
	return geom.NewRect(c.Left(), c.bottom, c.right, c.Top())
}

// MaxBounds is the largest extent the container can reach; the broad-phase
// grid is sized against it so resizing never forces a rebuild.
func (c *Container) MaxBounds() geom.Rect {
	return geom.NewRect(c.right-c.maxWidth, c.bottom, c.right, c.Top())
}

func (c *Container) Volume() float64 {
	return c.width * c.height * c.depth
}

// WallArea is the total interior wall surface, the denominator of the
// pressure derivation.
func (c *Container) WallArea() float64 {
	return 2 * (c.width + c.height) * c.depth
}

// ContainsParticle reports full containment of the disc. Used for
// assertions, not physics.
func (c *Container) ContainsParticle(p *Particle) bool {
	return c.Bounds().ContainsCircle(p.Position, p.Radius())
}

// SetDivider installs an interior partition at the given x, clamped inside
// the current bounds.
func (c *Container) SetDivider(x float64) {
	left, right := c.Left(), c.Right()
	if x < left {
		x = left
	}
	if x > right {
		x = right
	}
	c.dividerX = x
	c.hasDivider = true
}

func (c *Container) RemoveDivider()    { c.hasDivider = false }
func (c *Container) HasDivider() bool  { return c.hasDivider }
func (c *Container) DividerX() float64 { return c.dividerX }

// LeftBounds and RightBounds are the sub-boxes on either side of the
// divider. Meaningful only while the divider is present.
func (c *Container) LeftBounds() geom.Rect {
	return geom.NewRect(c.Left(), c.bottom, c.dividerX, c.Top())
}

func (c *Container) RightBounds() geom.Rect {
	return geom.NewRect(c.dividerX, c.bottom, c.right, c.Top())
}

// SetLidOpening opens a gap of the given half-width centered on the top
// edge. Zero closes the lid.
func (c *Container) SetLidOpening(halfWidth float64) {
	if halfWidth < 0 {
		halfWidth = 0
	}
	max := c.width / 2
	if halfWidth > max {
		halfWidth = max
	}
	c.lidHalfWidth = halfWidth
}

func (c *Container) LidHalfWidth() float64 { return c.lidHalfWidth }
func (c *Container) LidOpen() bool         { return c.lidHalfWidth > 0 }

// InLidOpening reports whether an x coordinate falls inside the open lid gap.
func (c *Container) InLidOpening(x float64) bool {
	if c.lidHalfWidth <= 0 {
		return false
	}
	center := (c.Left() + c.right) / 2
	return x > center-c.lidHalfWidth && x < center+c.lidHalfWidth
}
