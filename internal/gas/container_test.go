package gas

import (
	"math"
	"testing"

	"github.com/san-kum/gaslab/internal/geom"
)

func TestWidthClamping(t *testing.T) {
	c := NewContainer(DefaultWidth, 0, 0)

	tests := []struct {
		name    string
		request float64
		want    float64
	}{
		{"in range", 200, 200},
		{"below minimum", 10, MinWidth},
		{"above maximum", 1e6, MaxWidth},
		{"negative", -50, MinWidth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.SetWidth(tt.request); got != tt.want {
				t.Errorf("SetWidth(%f) = %f, want %f", tt.request, got, tt.want)
			}
		})
	}
}

func TestVolumePositive(t *testing.T) {
	c := NewContainer(MinWidth, DefaultHeight, DefaultDepth)
	if c.Volume() <= 0 {
		t.Error("volume must be strictly positive")
	}
	want := MinWidth * DefaultHeight * DefaultDepth
	if math.Abs(c.Volume()-want) > 1e-9 {
		t.Errorf("volume: got %f, want %f", c.Volume(), want)
	}
}

func TestBoundsFollowWidth(t *testing.T) {
	c := NewContainer(DefaultWidth, 0, 0)
	right := c.Right()

	c.SetWidth(200)

	b := c.Bounds()
	if b.Max.X != right {
		t.Error("right edge must stay fixed across resizes")
	}
	if b.Width() != 200 {
		t.Errorf("bounds width: got %f", b.Width())
	}
	if !c.MaxBounds().Overlaps(b) {
		t.Error("current bounds must lie within max bounds")
	}
}

func TestContainsParticle(t *testing.T) {
	c := NewContainer(DefaultWidth, 0, 0)
	center := c.Bounds().Center()

	inside := NewParticle(Heavy, center, geom.Vec2{})
	if !c.ContainsParticle(inside) {
		t.Error("particle at center should be contained")
	}

	spilling := NewParticle(Heavy, geom.V(c.Left()+1, center.Y), geom.Vec2{})
	if c.ContainsParticle(spilling) {
		t.Error("particle overlapping the wall is not fully contained")
	}
}

func TestDividerBounds(t *testing.T) {
	c := NewContainer(DefaultWidth, 0, 0)
	mid := c.Bounds().Center().X

	c.SetDivider(mid)

	if !c.HasDivider() {
		t.Fatal("divider should be present")
	}
	left, right := c.LeftBounds(), c.RightBounds()
	if left.Max.X != mid || right.Min.X != mid {
		t.Errorf("sub-bounds do not meet at divider: %f / %f", left.Max.X, right.Min.X)
	}
	if math.Abs(left.Width()+right.Width()-c.Width()) > 1e-9 {
		t.Error("sub-bounds do not partition the container")
	}

	c.RemoveDivider()
	if c.HasDivider() {
		t.Error("divider should be gone")
	}
}

func TestLidOpening(t *testing.T) {
	c := NewContainer(DefaultWidth, 0, 0)
	if c.LidOpen() {
		t.Error("lid starts closed")
	}

	c.SetLidOpening(30)
	center := (c.Left() + c.Right()) / 2

	if !c.InLidOpening(center) {
		t.Error("center of opening should be open")
	}
	if c.InLidOpening(center + 31) {
		t.Error("outside the gap should be closed")
	}

	c.SetLidOpening(0)
	if c.LidOpen() || c.InLidOpening(center) {
		t.Error("closed lid should admit nothing")
	}
}

func TestWallSpeedLifecycle(t *testing.T) {
	c := NewContainer(DefaultWidth, 0, 0)

	c.SetWallSpeed(1.5)
	if c.WallSpeed() != 1.5 {
		t.Errorf("wall speed: got %f", c.WallSpeed())
	}

	c.EndResize()
	if c.WallSpeed() != 0 {
		t.Error("wall speed must clear when the gesture ends")
	}
}
