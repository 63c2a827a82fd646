package plant

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/san-kum/ctrlkit/internal/dynamo"
)

// Sensor reads one state component and adds zero-mean Gaussian noise. The
// noise stream is fixed by the seed, so runs are repeatable.
type Sensor struct {
	Index int
	noise distuv.Normal
	sigma float64
}

// NewSensor returns a sensor on state component index. A sigma of 0 gives
// exact readings.
func NewSensor(index int, sigma float64, seed uint64) *Sensor {
	return &Sensor{
		Index: index,
		sigma: sigma,
		noise: distuv.Normal{
			Mu:    0,
			Sigma: sigma,
			Src:   rand.NewPCG(seed, seed^0x9e3779b97f4a7c15),
		},
	}
}

func (s *Sensor) Noise() float64 { return s.sigma }

func (s *Sensor) Measure(x dynamo.State, t float64) float64 {
	if s.Index < 0 || s.Index >= len(x) {
		return 0
	}
	if s.sigma == 0 {
		return x[s.Index]
	}
	return x[s.Index] + s.noise.Rand()
}
