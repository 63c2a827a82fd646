// Package export renders run traces as standalone SVG documents.
package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/ctrlkit/internal/analysis"
	"github.com/san-kum/ctrlkit/internal/dynamo"
)

// Series is one polyline of a chart.
type Series struct {
	Label  string
	Color  string
	Points []analysis.Point
}

// TimeSeries pairs each sample's time with f(sample).
func TimeSeries(label, color string, samples []dynamo.Sample, f func(dynamo.Sample) float64) Series {
	pts := make([]analysis.Point, len(samples))
	for i, s := range samples {
		pts[i] = analysis.Point{X: s.Time, Y: f(s)}
	}
	return Series{Label: label, Color: color, Points: pts}
}

// TrackingSeries returns measurement and setpoint over time.
func TrackingSeries(samples []dynamo.Sample) []Series {
	return []Series{
		TimeSeries("measurement", "#00ff88", samples, func(s dynamo.Sample) float64 { return s.Measurement }),
		TimeSeries("setpoint", "#ffcc00", samples, func(s dynamo.Sample) float64 { return s.Setpoint }),
	}
}

// PortraitSeries converts a phase portrait to a single series.
func PortraitSeries(p *analysis.PhasePortrait2D, color string) Series {
	return Series{Label: p.YLabel + " vs " + p.XLabel, Color: color, Points: p.Points}
}

type bounds struct{ minX, maxX, minY, maxY float64 }

// fit returns the bounds of every finite point, padded by 10% per axis.
func fit(series []Series) (bounds, bool) {
	b := bounds{math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1)}
	found := false
	for _, s := range series {
		for _, p := range s.Points {
			if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
				continue
			}
			found = true
			b.minX, b.maxX = math.Min(b.minX, p.X), math.Max(b.maxX, p.X)
			b.minY, b.maxY = math.Min(b.minY, p.Y), math.Max(b.maxY, p.Y)
		}
	}
	if !found {
		return b, false
	}

	pad := func(lo, hi float64) (float64, float64) {
		r := hi - lo
		if r == 0 {
			r = 1
		}
		return lo - r*0.1, hi + r*0.1
	}
	b.minX, b.maxX = pad(b.minX, b.maxX)
	b.minY, b.maxY = pad(b.minY, b.maxY)
	return b, true
}

// SeriesToSVG draws the series on a shared scale with a legend. It returns
// an empty string when no series has two points.
func SeriesToSVG(series []Series, width, height int) string {
	drawable := make([]Series, 0, len(series))
	for _, s := range series {
		if len(s.Points) >= 2 {
			drawable = append(drawable, s)
		}
	}
	b, ok := fit(drawable)
	if len(drawable) == 0 || !ok {
		return ""
	}

	w, h := float64(width), float64(height)
	sx := func(x float64) float64 { return (x - b.minX) / (b.maxX - b.minX) * w }
	sy := func(y float64) float64 { return h - (y-b.minY)/(b.maxY-b.minY)*h }

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	if b.minY < 0 && b.maxY > 0 {
		fmt.Fprintf(&sb, `<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="#333344" stroke-width="1"/>`+"\n", sy(0), width, sy(0))
	}

	for i, s := range drawable {
		sb.WriteString(`<path fill="none" stroke="` + s.Color + `" stroke-width="1.5" d="`)
		move, first := true, true
		for _, p := range s.Points {
			if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
				move = true
				continue
			}
			cmd := " L"
			if move {
				cmd = " M"
				if first {
					cmd = "M"
				}
				move, first = false, false
			}
			fmt.Fprintf(&sb, "%s%.1f,%.1f", cmd, sx(p.X), sy(p.Y))
		}
		sb.WriteString("\"/>\n")
		fmt.Fprintf(&sb, `<text x="8" y="%d" fill="%s" font-family="monospace" font-size="12">%s</text>`+"\n", 16+14*i, s.Color, s.Label)
	}

	sb.WriteString("</svg>")
	return sb.String()
}
