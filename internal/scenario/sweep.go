package scenario

import (
	"context"
	"fmt"

	"github.com/golang/glog"

	"github.com/san-kum/ctrlkit/internal/config"
	"github.com/san-kum/ctrlkit/internal/experiment"
)

// SweepResult holds the metrics of one value of the swept parameter.
type SweepResult struct {
	Value   float64
	Metrics map[string]float64
	Failed  bool
}

// Sweep runs base once per value with the PID parameter param set to that
// value. A run that stops on an invalid state is reported as Failed rather
// than ending the sweep.
func Sweep(ctx context.Context, base *config.Config, reg *experiment.Registry, param string, values []float64) ([]SweepResult, error) {
	results := make([]SweepResult, 0, len(values))

	for i, v := range values {
		exp, err := experiment.New(base, reg)
		if err != nil {
			return nil, err
		}
		if err := exp.Feedback().SetParam(param, v); err != nil {
			return nil, err
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("sweep %s=%g: %w", param, v, err)
		}
		results = append(results, SweepResult{
			Value:   v,
			Metrics: result.Metrics,
			Failed:  len(result.Errors) > 0,
		})
		glog.V(1).Infof("sweep %d/%d: %s=%.4f", i+1, len(values), param, v)
	}

	return results, nil
}
