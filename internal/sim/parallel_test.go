package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/ctrlkit/internal/control"
	"github.com/san-kum/ctrlkit/internal/dynamo"
	"github.com/san-kum/ctrlkit/internal/integrators"
	"github.com/san-kum/ctrlkit/internal/metrics"
	"github.com/san-kum/ctrlkit/internal/plant"
)

func noisyLoop(seed int64) (*Simulator, error) {
	pid := control.NewPID(control.Gains{KP: 2}, 0, 1, false)
	fb := control.NewFeedback(pid, plant.NewSensor(0, 0.05, uint64(seed)), nil, nil)
	sim := New(&decay{}, integrators.NewRK4(), fb)
	sim.AddMetric(metrics.NewIAE())
	return sim, nil
}

func TestEnsembleRun(t *testing.T) {
	ens := NewEnsemble(noisyLoop, 4, 100)
	results, err := ens.Run(context.Background(), dynamo.State{0}, dynamo.Config{Dt: 0.01, Duration: 2})
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}

	again, err := NewEnsemble(noisyLoop, 4, 100).Run(context.Background(), dynamo.State{0}, dynamo.Config{Dt: 0.01, Duration: 2})
	if err != nil {
		t.Fatal(err)
	}
	for i := range results {
		if results[i].Metrics["iae"] != again[i].Metrics["iae"] {
			t.Errorf("member %d not reproducible", i)
		}
	}
	if results[0].Metrics["iae"] == results[1].Metrics["iae"] {
		t.Error("different seeds gave identical runs")
	}

	sum := Summarize(results)
	if names := sum.Names(); len(names) != 1 || names[0] != "iae" {
		t.Errorf("unexpected summary names %v", names)
	}
	if sum.StdDev["iae"] <= 0 || math.IsNaN(sum.Mean["iae"]) {
		t.Errorf("unexpected summary %+v", sum)
	}
}

func TestEnsembleFactoryError(t *testing.T) {
	boom := errors.New("boom")
	ens := NewEnsemble(func(seed int64) (*Simulator, error) {
		if seed == 2 {
			return nil, boom
		}
		return noisyLoop(seed)
	}, 3, 0)

	if _, err := ens.Run(context.Background(), dynamo.State{0}, dynamo.Config{Dt: 0.1, Duration: 1}); !errors.Is(err, boom) {
		t.Errorf("expected factory error, got %v", err)
	}
}

func TestSummarizeSingle(t *testing.T) {
	sum := Summarize([]*dynamo.Result{{Metrics: map[string]float64{"iae": 3}}})
	if sum.Mean["iae"] != 3 || sum.StdDev["iae"] != 0 {
		t.Errorf("unexpected summary %+v", sum)
	}
}
