package sim

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/ctrlkit/internal/dynamo"
)

// Factory builds an independent simulator for one ensemble member. Plants,
// controllers and integrators carry state, so members never share them.
type Factory func(seed int64) (*Simulator, error)

// Ensemble runs the same loop over consecutive seeds in parallel. With
// sensor noise or timing jitter each seed gives a different realisation.
type Ensemble struct {
	factory   Factory
	numRuns   int
	seedStart int64
}

func NewEnsemble(factory Factory, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{factory: factory, numRuns: numRuns, seedStart: seedStart}
}

// Run returns one result per seed, in seed order.
func (e *Ensemble) Run(ctx context.Context, x0 dynamo.State, cfg dynamo.Config) ([]*dynamo.Result, error) {
	results := make([]*dynamo.Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := cfg
			cfgCopy.Seed = e.seedStart + int64(idx)

			sim, err := e.factory(cfgCopy.Seed)
			if err != nil {
				errs[idx] = fmt.Errorf("seed %d: %w", cfgCopy.Seed, err)
				return
			}
			results[idx], errs[idx] = sim.Run(ctx, x0, cfgCopy)
		}(i)
	}

	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return results, nil
}

// Summary is the mean and spread of each metric over an ensemble.
type Summary struct {
	Mean   map[string]float64
	StdDev map[string]float64
}

// Summarize aggregates the metrics of an ensemble. Metrics missing from
// some results are summarised over the results that have them.
func Summarize(results []*dynamo.Result) Summary {
	values := make(map[string][]float64)
	for _, r := range results {
		for name, v := range r.Metrics {
			values[name] = append(values[name], v)
		}
	}

	sum := Summary{
		Mean:   make(map[string]float64, len(values)),
		StdDev: make(map[string]float64, len(values)),
	}
	for name, vs := range values {
		if len(vs) == 1 {
			sum.Mean[name] = vs[0]
			continue
		}
		sum.Mean[name], sum.StdDev[name] = stat.MeanStdDev(vs, nil)
	}
	return sum
}

// Names returns the metric names in sorted order.
func (s Summary) Names() []string {
	names := make([]string, 0, len(s.Mean))
	for name := range s.Mean {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
