package viz

import (
	"math"

	"github.com/san-kum/ctrlkit/internal/dynamo"
)

// drawPlant renders a sketch of the plant with a marker at the setpoint.
func drawPlant(c *Canvas, plantName string, x dynamo.State, setpoint float64) {
	c.Clear()
	if len(x) == 0 {
		return
	}
	switch plantName {
	case "pendulum":
		drawPendulum(c, x[0], setpoint)
	case "spring_mass":
		drawSpring(c, x[0], setpoint)
	case "motor":
		drawDial(c, x[0])
	default:
		drawLevel(c, x[0], setpoint)
	}
}

// drawPendulum draws the rod from a pivot in the middle. Angle 0 hangs down.
func drawPendulum(c *Canvas, theta, setpoint float64) {
	w, h := c.Dots()
	cx, cy := w/2, h/2
	length := float64(h) * 0.45

	tx, ty := cx+int(length*math.Sin(setpoint)), cy+int(length*math.Cos(setpoint))
	c.Set(tx, ty)
	c.Set(tx+1, ty)

	bx, by := cx+int(length*math.Sin(theta)), cy+int(length*math.Cos(theta))
	c.FillBox(cx, cy, 0)
	c.DrawLine(cx, cy, bx, by)
	c.FillBox(bx, by, 1)
}

// drawSpring draws a wall, a zig-zag spring and the mass. One unit of
// position is a fifth of the canvas width.
func drawSpring(c *Canvas, pos, setpoint float64) {
	w, h := c.Dots()
	cy := h / 2
	wallX := 4
	scale := float64(w) / 5
	rest := w / 3

	c.DrawLine(wallX, cy-h/4, wallX, cy+h/4)

	target := rest + int(setpoint*scale)
	c.DrawLine(target, cy-h/3, target, cy-h/3+2)

	massX := rest + int(pos*scale)
	const coils = 10
	step := float64(massX-wallX-4) / coils
	prevX, prevY := wallX, cy
	for i := 1; i <= coils; i++ {
		currX, currY := wallX+int(float64(i)*step), cy+4
		if i%2 == 0 {
			currY = cy - 4
		}
		c.DrawLine(prevX, prevY, currX, currY)
		prevX, prevY = currX, currY
	}
	c.DrawLine(prevX, prevY, massX-4, cy)
	c.FillBox(massX, cy, 4)
}

// drawDial draws the shaft angle of a motor as a needle on a circle.
func drawDial(c *Canvas, angle float64) {
	w, h := c.Dots()
	cx, cy := w/2, h/2
	r := float64(min(w, h)) * 0.4
	for i := range 64 {
		a := 2 * math.Pi * float64(i) / 64
		c.Set(cx+int(r*math.Cos(a)), cy+int(r*math.Sin(a)))
	}
	c.DrawLine(cx, cy, cx+int(r*math.Cos(angle)), cy-int(r*math.Sin(angle)))
}

// drawLevel draws a vertical bar for any other plant.
func drawLevel(c *Canvas, v, setpoint float64) {
	w, h := c.Dots()
	span := max(abs(setpoint)*2, 1)
	y := h - 1 - int(max(0, min(1, v/span))*float64(h-1))
	ty := h - 1 - int(max(0, min(1, setpoint/span))*float64(h-1))
	c.DrawLine(0, ty, w-1, ty)
	for x := w/2 - 3; x <= w/2+3; x++ {
		c.DrawLine(x, h-1, x, y)
	}
}
