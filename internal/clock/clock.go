// Package clock supplies the elapsed-time source used by the convenience
// Calculate methods of controllers and filters.
package clock

import "time"

//go:generate mockgen -destination mock_clock.go -package clock github.com/san-kum/ctrlkit/internal/clock Clock

// Clock reports the current time. Implementations backed by time.Now carry a
// monotonic reading, so differences are immune to wall-clock steps.
type Clock interface {
	Now() time.Time
}

// System is the process clock.
type System struct{}

func (System) Now() time.Time { return time.Now() }

// Manual is a clock that only moves when told to.
type Manual struct {
	now time.Time
}

func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time { return m.now }

func (m *Manual) Set(t time.Time) { m.now = t }

func (m *Manual) Advance(d time.Duration) { m.now = m.now.Add(d) }

// AdvanceSeconds moves the clock forward by s seconds.
func (m *Manual) AdvanceSeconds(s float64) {
	m.Advance(time.Duration(s * float64(time.Second)))
}

// Delta measures the time between successive calls to Seconds.
type Delta struct {
	clock Clock
	last  time.Time
}

// NewDelta starts measuring from the current time of c. A nil clock means
// System.
func NewDelta(c Clock) *Delta {
	if c == nil {
		c = System{}
	}
	return &Delta{clock: c, last: c.Now()}
}

// Seconds returns the seconds elapsed since the previous call, or since
// construction for the first call.
func (d *Delta) Seconds() float64 {
	now := d.clock.Now()
	elapsed := now.Sub(d.last).Seconds()
	d.last = now
	return elapsed
}

// Reset restarts the measurement from now.
func (d *Delta) Reset() {
	d.last = d.clock.Now()
}
