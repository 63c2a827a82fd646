// Package scenario runs scripted batches of closed-loop experiments and
// sweeps of a single PID parameter.
package scenario

import (
	"context"
	"fmt"
	"os"

	"github.com/golang/glog"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/ctrlkit/internal/config"
	"github.com/san-kum/ctrlkit/internal/dynamo"
	"github.com/san-kum/ctrlkit/internal/experiment"
	"github.com/san-kum/ctrlkit/internal/storage"
)

// Scenario is a named list of runs, loaded from YAML.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step is one run. It starts from Preset (or the defaults) for Plant, then
// applies the non-zero overrides and the PID parameters in Params.
type Step struct {
	Name     string             `yaml:"name"`
	Plant    string             `yaml:"plant"`
	Preset   string             `yaml:"preset"`
	Duration float64            `yaml:"duration"`
	Dt       float64            `yaml:"dt"`
	Seed     int64              `yaml:"seed"`
	Params   map[string]float64 `yaml:"params"`
	Save     bool               `yaml:"save"`
}

// StepResult is the outcome of one step. RunID is empty unless the step
// was saved.
type StepResult struct {
	Step   Step
	Result *dynamo.Result
	RunID  string
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s: %w: no steps", path, dynamo.ErrInvalidConfig)
	}
	return &s, nil
}

// Config resolves the run configuration of a step.
func (st Step) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if st.Preset != "" {
		cfg = config.GetPreset(st.Plant, st.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("%w: unknown preset %q for %s", dynamo.ErrInvalidConfig, st.Preset, st.Plant)
		}
	}
	cfg.Plant = st.Plant
	if st.Duration > 0 {
		cfg.Duration = st.Duration
	}
	if st.Dt > 0 {
		cfg.Dt = st.Dt
	}
	if st.Seed != 0 {
		cfg.Seed = st.Seed
	}
	return cfg, nil
}

// Run executes every step in order. store may be nil, in which case no step
// is saved. Results of the steps that finished are returned with the error
// of the first step that failed.
func Run(ctx context.Context, s *Scenario, reg *experiment.Registry, store *storage.Store) ([]StepResult, error) {
	results := make([]StepResult, 0, len(s.Steps))

	for i, step := range s.Steps {
		glog.V(1).Infof("scenario %s: step %d/%d %s (%s)", s.Name, i+1, len(s.Steps), step.Name, step.Plant)

		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		exp, err := experiment.New(cfg, reg)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		for name, v := range step.Params {
			if err := exp.Feedback().SetParam(name, v); err != nil {
				return results, fmt.Errorf("step %d: %w", i+1, err)
			}
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Step: step, Result: result}
		if step.Save && store != nil {
			sr.RunID, err = store.Save(exp.Metadata(), result, exp.Trace())
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, sr)
	}

	return results, nil
}
