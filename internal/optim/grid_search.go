// Package optim searches PID settings for the lowest value of a run metric.
package optim

import (
	"context"
	"fmt"
	"maps"
	"math"

	"github.com/golang/glog"

	"github.com/san-kum/ctrlkit/internal/config"
	"github.com/san-kum/ctrlkit/internal/experiment"
)

// GridSearch tries every combination of the given parameter values.
// Parameter names are PID SetParam names such as "kp" or "max_effort".
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("grid search: %d params but %d ranges", len(params), len(ranges))
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}

// Candidate is one evaluated grid point.
type Candidate struct {
	Params map[string]float64
	Score  float64
}

// Search runs one experiment per grid point built from base and returns the
// point with the lowest metric. Runs that fail, blow up or lack the metric
// are skipped.
func (g *GridSearch) Search(
	ctx context.Context,
	base *config.Config,
	reg *experiment.Registry,
	metricName string,
) (Candidate, error) {
	best := Candidate{Score: math.Inf(1)}
	err := g.searchRecursive(ctx, 0, make(map[string]float64), base, reg, metricName, &best)
	if err != nil {
		return Candidate{}, err
	}
	if best.Params == nil {
		return Candidate{}, fmt.Errorf("grid search: no run produced %q", metricName)
	}
	return best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	base *config.Config,
	reg *experiment.Registry,
	metricName string,
	best *Candidate,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		score, ok := g.evaluate(ctx, current, base, reg, metricName)
		if ok && score < best.Score {
			best.Score = score
			best.Params = maps.Clone(current)
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		next := maps.Clone(current)
		next[paramName] = val
		if err := g.searchRecursive(ctx, depth+1, next, base, reg, metricName, best); err != nil {
			return err
		}
	}
	return nil
}

func (g *GridSearch) evaluate(
	ctx context.Context,
	params map[string]float64,
	base *config.Config,
	reg *experiment.Registry,
	metricName string,
) (float64, bool) {
	exp, err := experiment.New(base, reg)
	if err != nil {
		glog.Warningf("grid search: %v", err)
		return 0, false
	}
	for name, v := range params {
		if err := exp.PID().SetParam(name, v); err != nil {
			glog.Warningf("grid search: %v", err)
			return 0, false
		}
	}

	result, err := exp.Run(ctx)
	if err != nil || len(result.Errors) > 0 {
		glog.V(1).Infof("grid search: %v rejected", params)
		return 0, false
	}
	score, ok := result.Metrics[metricName]
	if !ok || math.IsNaN(score) || score < 0 {
		return 0, false
	}
	glog.V(1).Infof("grid search: %v -> %s=%g", params, metricName, score)
	return score, true
}
