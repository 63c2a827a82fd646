package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/ctrlkit/internal/dynamo"
)

type pendulumEnergy struct{}

func (pendulumEnergy) Energy(x dynamo.State) float64 {
	return 0.5*x[1]*x[1] + 9.81*(1-math.Cos(x[0]))
}

func observeAll(m dynamo.Metric, samples []dynamo.Sample) float64 {
	for _, s := range samples {
		m.Observe(s)
	}
	return m.Value()
}

// step builds a unit step response from the given measurements at dt = 0.1.
func step(measurements ...float64) []dynamo.Sample {
	out := make([]dynamo.Sample, len(measurements))
	for i, m := range measurements {
		out[i] = dynamo.Sample{
			Time:        float64(i) * 0.1,
			Dt:          0.1,
			Measurement: m,
			Setpoint:    1,
			Error:       1 - m,
			Control:     dynamo.Control{1 - m},
		}
	}
	return out
}

func TestControlEffort(t *testing.T) {
	m := NewControlEffort()
	m.Observe(dynamo.Sample{Control: dynamo.Control{-2, 1}})
	m.Observe(dynamo.Sample{Control: dynamo.Control{1, 0}})

	if got := m.Value(); got != 2 {
		t.Errorf("expected 2, got %f", got)
	}
	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestIAE(t *testing.T) {
	got := observeAll(NewIAE(), step(0, 0.5, 1.5, 1))
	want := 0.1 * (1 + 0.5 + 0.5 + 0)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("expected %f, got %f", want, got)
	}
}

func TestISE(t *testing.T) {
	got := observeAll(NewISE(), step(0, 0.5, 1.5, 1))
	want := 0.1 * (1 + 0.25 + 0.25)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("expected %f, got %f", want, got)
	}
}

func TestOvershoot(t *testing.T) {
	if got := observeAll(NewOvershoot(), step(0, 0.8, 1.3, 0.9, 1)); math.Abs(got-0.3) > 1e-12 {
		t.Errorf("expected 0.3, got %f", got)
	}
	if got := observeAll(NewOvershoot(), step(0, 0.5, 0.9)); got != 0 {
		t.Errorf("undershoot only should be 0, got %f", got)
	}
	if got := observeAll(NewOvershoot(), step(1, 1.2)); got != 0 {
		t.Errorf("starting on the setpoint should be 0, got %f", got)
	}
}

func TestOvershoot_Downward(t *testing.T) {
	m := NewOvershoot()
	m.Observe(dynamo.Sample{Measurement: 5, Setpoint: 0})
	m.Observe(dynamo.Sample{Measurement: -0.5, Setpoint: 0})
	m.Observe(dynamo.Sample{Measurement: 0.1, Setpoint: 0})

	if got := m.Value(); got != 0.5 {
		t.Errorf("expected 0.5, got %f", got)
	}
}

func TestSettlingTime(t *testing.T) {
	m := NewSettlingTime(0.05)
	got := observeAll(m, step(0, 0.97, 1.1, 0.98, 1.01, 1))
	if math.Abs(got-0.3) > 1e-12 {
		t.Errorf("expected settling at 0.3, got %f", got)
	}

	m.Observe(dynamo.Sample{Time: 0.6, Error: 1})
	if m.Value() != -1 {
		t.Errorf("leaving the band should unsettle, got %f", m.Value())
	}
}

func TestStability(t *testing.T) {
	m := NewStability(-1)
	m.Observe(dynamo.Sample{Error: 1})
	m.Observe(dynamo.Sample{Error: -0.5})
	m.Observe(dynamo.Sample{Error: -2})
	m.Observe(dynamo.Sample{Error: math.NaN()})

	if got := m.Value(); got != 0.5 {
		t.Errorf("expected 0.5, got %f", got)
	}
	m.Reset()
	if got := m.Value(); got != 1 {
		t.Errorf("expected 1 after reset, got %f", got)
	}

	if b := StabilityBound(0); b != 1 {
		t.Errorf("zero setpoint bound = %f, want 1", b)
	}
	if b := StabilityBound(-2.5); b != 2.5 {
		t.Errorf("bound = %f, want 2.5", b)
	}
}

func TestEnergy(t *testing.T) {
	theta := math.Pi / 4
	x := dynamo.State{theta, 0}
	expected := 9.81 * (1 - math.Cos(theta))

	m := NewEnergy(pendulumEnergy{})
	m.Observe(dynamo.Sample{State: x})
	if math.Abs(m.Value()-expected) > 1e-9 {
		t.Errorf("expected energy %f, got %f", expected, m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestEnergyDrift(t *testing.T) {
	m := NewEnergyDrift(pendulumEnergy{})
	m.Observe(dynamo.Sample{State: dynamo.State{0, 2}})
	m.Observe(dynamo.Sample{State: dynamo.State{0, 1}})
	m.Observe(dynamo.Sample{State: dynamo.State{0, 2}})

	if got := m.Value(); math.Abs(got-0.75) > 1e-12 {
		t.Errorf("expected drift 0.75, got %f", got)
	}
}

func TestTrackingNames(t *testing.T) {
	seen := map[string]bool{}
	for _, m := range Tracking(0.1) {
		if seen[m.Name()] {
			t.Errorf("duplicate metric %s", m.Name())
		}
		seen[m.Name()] = true
	}
}
