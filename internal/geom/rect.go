package geom

// Rect is an axis-aligned rectangle with Min at the bottom-left corner.
type Rect struct {
	Min, Max Vec2
}

func NewRect(minX, minY, maxX, maxY float64) Rect {
	return Rect{Min: Vec2{X: minX, Y: minY}, Max: Vec2{X: maxX, Y: maxY}}
}

func (r Rect) Width() float64  { return r.Max.X - r.Min.X }
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X &&
		p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// ContainsCircle reports whether a disc of the given radius centered at p
// lies entirely inside r.
func (r Rect) ContainsCircle(p Vec2, radius float64) bool {
	return p.X-radius >= r.Min.X && p.X+radius <= r.Max.X &&
		p.Y-radius >= r.Min.Y && p.Y+radius <= r.Max.Y
}

func (r Rect) Overlaps(o Rect) bool {
	return r.Min.X <= o.Max.X && r.Max.X >= o.Min.X &&
		r.Min.Y <= o.Max.Y && r.Max.Y >= o.Min.Y
}

func (r Rect) Center() Vec2 {
	return Vec2{X: (r.Min.X + r.Max.X) * 0.5, Y: (r.Min.Y + r.Max.Y) * 0.5}
}

// Expand grows the rectangle by margin on every side.
func (r Rect) Expand(margin float64) Rect {
	return Rect{
		Min: Vec2{X: r.Min.X - margin, Y: r.Min.Y - margin},
		Max: Vec2{X: r.Max.X + margin, Y: r.Max.Y + margin},
	}
}
