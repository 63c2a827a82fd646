package analysis

import (
	"strings"

	"github.com/san-kum/ctrlkit/internal/dynamo"
)

type Point struct {
	X, Y float64
}

// PhasePortrait2D holds data for a 2D phase space plot.
type PhasePortrait2D struct {
	XLabel, YLabel string
	Points         []Point
}

// ErrorPortrait plots setpoint error against its finite-difference rate. A
// stable loop spirals into the origin. Ticks with a zero dt are skipped.
func ErrorPortrait(samples []dynamo.Sample) *PhasePortrait2D {
	portrait := &PhasePortrait2D{
		XLabel: "error",
		YLabel: "d(error)/dt",
		Points: make([]Point, 0, len(samples)),
	}
	for i := 1; i < len(samples); i++ {
		dt := samples[i].Time - samples[i-1].Time
		if dt <= 0 {
			continue
		}
		portrait.Points = append(portrait.Points, Point{
			X: samples[i].Error,
			Y: (samples[i].Error - samples[i-1].Error) / dt,
		})
	}
	return portrait
}

// StatePortrait plots two state components against each other.
func StatePortrait(samples []dynamo.Sample, xIdx, yIdx int) *PhasePortrait2D {
	portrait := &PhasePortrait2D{
		XLabel: "x" + string(rune('0'+xIdx)),
		YLabel: "x" + string(rune('0'+yIdx)),
		Points: make([]Point, 0, len(samples)),
	}
	for _, s := range samples {
		if xIdx >= len(s.State) || yIdx >= len(s.State) {
			return nil
		}
		portrait.Points = append(portrait.Points, Point{X: s.State[xIdx], Y: s.State[yIdx]})
	}
	return portrait
}

// PhasePortraitToASCII converts a phase portrait to ASCII art.
func PhasePortraitToASCII(portrait *PhasePortrait2D, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	minX, maxX := portrait.Points[0].X, portrait.Points[0].X
	minY, maxY := portrait.Points[0].Y, portrait.Points[0].Y
	for _, p := range portrait.Points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	// axes first so points draw over them
	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			canvas[row][col] = '│'
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			canvas[row][col] = '─'
		}
	}

	for _, p := range portrait.Points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
