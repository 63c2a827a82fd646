package filter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/san-kum/ctrlkit/internal/clock"
	"github.com/san-kum/ctrlkit/internal/history"
	"github.com/san-kum/ctrlkit/internal/mathutil"
)

// ErrUnknownMean is returned when parsing an unsupported mean name.
var ErrUnknownMean = errors.New("filter: unknown mean kind")

// MeanKind selects how a MovingAverage combines its window. Geometric is
// computed in log form, so a window holding a negative value averages to
// NaN rather than to the root of the product's magnitude.
type MeanKind int

const (
	Arithmetic MeanKind = iota
	Geometric
)

func (k MeanKind) String() string {
	switch k {
	case Arithmetic:
		return "arithmetic"
	case Geometric:
		return "geometric"
	default:
		return fmt.Sprintf("MeanKind(%d)", int(k))
	}
}

// ParseMeanKind accepts "arithmetic" and "geometric", case-insensitively. An
// empty name means arithmetic.
func ParseMeanKind(s string) (MeanKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "arithmetic":
		return Arithmetic, nil
	case "geometric":
		return Geometric, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMean, s)
	}
}

// MovingAverage is the mean of the most recent window inputs, or of every
// input when window is not positive. The mean is recomputed from the window
// on every call.
type MovingAverage struct {
	window *history.History[float64]
	kind   MeanKind
	output float64
	delta  *clock.Delta
}

func NewMovingAverage(window int, kind MeanKind, opts ...Option) *MovingAverage {
	return &MovingAverage{
		window: history.New[float64](window),
		kind:   kind,
		delta:  newDelta(opts),
	}
}

func (f *MovingAverage) Kind() MeanKind { return f.kind }

func (f *MovingAverage) Window() int { return f.window.Cap() }

func (f *MovingAverage) Calculate(value float64) float64 {
	return f.CalculateDt(value, f.delta.Seconds())
}

func (f *MovingAverage) CalculateDt(value, dt float64) float64 {
	f.window.Push(value)

	switch f.kind {
	case Geometric:
		f.output = mathutil.GeometricMean(f.window.Values()...)
	default:
		f.output = history.Sum(f.window) / float64(f.window.Len())
	}
	return f.output
}

func (f *MovingAverage) Reset() {
	f.window.Clear()
	f.output = 0
}

func (f *MovingAverage) Output() float64 { return f.output }
