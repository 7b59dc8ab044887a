package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/gaslab/internal/gas"
)

// SnapshotToSVG renders one simulation snapshot: container walls, divider
// and lid gap if present, and every particle as a filled circle.
func SnapshotToSVG(snap *gas.Snapshot, scale float64) string {
	if snap == nil {
		return ""
	}

	b := snap.Bounds
	margin := 20.0
	width := b.Width()*scale + 2*margin
	height := b.Height()*scale + 2*margin

	// Model y grows upward; SVG y grows downward.
	toX := func(x float64) float64 { return (x-b.Min.X)*scale + margin }
	toY := func(y float64) float64 { return (b.Max.Y-y)*scale + margin }

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	left, right := toX(b.Min.X), toX(b.Max.X)
	top, bottom := toY(b.Max.Y), toY(b.Min.Y)

	wall := func(x1, y1, x2, y2 float64) {
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#888888" stroke-width="2"/>
`, x1, y1, x2, y2))
	}

	wall(left, top, left, bottom)
	wall(right, top, right, bottom)
	wall(left, bottom, right, bottom)

	if snap.LidHalfWidth > 0 {
		center := (b.Min.X + b.Max.X) / 2
		wall(left, top, toX(center-snap.LidHalfWidth), top)
		wall(toX(center+snap.LidHalfWidth), top, right, top)
	} else {
		wall(left, top, right, top)
	}

	if snap.HasDivider {
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#555555" stroke-width="2" stroke-dasharray="4 2"/>
`, toX(snap.DividerX), top, toX(snap.DividerX), bottom))
	}

	for _, p := range snap.Particles {
		color := "#00ff00"
		if p.Species == gas.Light.Name {
			color = "#00aaff"
		}
		if !p.Inside {
			color = "#666666"
		}
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, toX(p.Position.X), toY(p.Position.Y), p.Radius*scale, color))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// SeriesToSVG plots one observable time series as a polyline.
func SeriesToSVG(times, values []float64, width, height int, strokeColor string) string {
	if len(times) < 2 || len(times) != len(values) {
		return ""
	}

	minX, maxX := times[0], times[len(times)-1]
	minY, maxY := values[0], values[0]
	for _, v := range values {
		if v < minY {
			minY = v
		}
		if v > maxY {
			maxY = v
		}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i := range times {
		x := (times[i] - minX) / rangeX * float64(width)
		y := float64(height) - (values[i]-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
