package analysis

import (
	"math"

	"github.com/san-kum/ctrlkit/internal/dynamo"
)

// StepResponse summarises how a measurement approached a constant setpoint.
type StepResponse struct {
	// RiseTime is the time from 10% to 90% of the step, or -1 if the
	// measurement never got there.
	RiseTime float64
	PeakTime float64
	// Peak is the measurement furthest along the step direction.
	Peak float64
	// SteadyStateError is the mean error over the last tenth of the run.
	SteadyStateError float64
}

// Response analyses samples that track the setpoint of the first sample.
func Response(samples []dynamo.Sample) StepResponse {
	r := StepResponse{RiseTime: -1}
	if len(samples) == 0 {
		return r
	}

	start := samples[0].Measurement
	target := samples[0].Setpoint
	step := target - start

	tail := samples[len(samples)-len(samples)/10-1:]
	for _, s := range tail {
		r.SteadyStateError += s.Error
	}
	r.SteadyStateError /= float64(len(tail))

	if step == 0 {
		r.Peak = start
		return r
	}

	dir := math.Copysign(1, step)
	t10, t90 := -1.0, -1.0
	r.Peak = start
	for _, s := range samples {
		progress := (s.Measurement - start) / step
		if t10 < 0 && progress >= 0.1 {
			t10 = s.Time
		}
		if t90 < 0 && progress >= 0.9 {
			t90 = s.Time
		}
		if dir*(s.Measurement-r.Peak) > 0 {
			r.Peak = s.Measurement
			r.PeakTime = s.Time
		}
	}
	if t10 >= 0 && t90 >= 0 {
		r.RiseTime = t90 - t10
	}
	return r
}
