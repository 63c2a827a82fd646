package experiment

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/ctrlkit/internal/config"
	"github.com/san-kum/ctrlkit/internal/control"
	"github.com/san-kum/ctrlkit/internal/dynamo"
	"github.com/san-kum/ctrlkit/internal/filter"
	"github.com/san-kum/ctrlkit/internal/integrators"
	"github.com/san-kum/ctrlkit/internal/metrics"
	"github.com/san-kum/ctrlkit/internal/plant"
)

// Registry builds loop parts by name.
type Registry struct {
	plants      map[string]plant.Info
	integrators map[string]func() (dynamo.Integrator, error)
}

func NewRegistry() *Registry {
	r := &Registry{
		plants:      make(map[string]plant.Info),
		integrators: make(map[string]func() (dynamo.Integrator, error)),
	}

	for _, name := range plant.Names() {
		info, _ := plant.Lookup(name)
		r.plants[name] = info
	}
	for _, name := range integrators.Names {
		r.integrators[name] = func() (dynamo.Integrator, error) { return integrators.New(name) }
	}

	return r
}

// RegisterPlant adds or replaces a plant.
func (r *Registry) RegisterPlant(info plant.Info) {
	r.plants[info.Name] = info
}

func (r *Registry) GetPlant(name string) (plant.Plant, plant.Info, error) {
	info, ok := r.plants[name]
	if !ok {
		return nil, plant.Info{}, fmt.Errorf("%w: %s", dynamo.ErrUnknownPlant, name)
	}
	return info.New(), info, nil
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	if name == "" {
		name = "rk4"
	}
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", dynamo.ErrUnknownIntegrator, name)
	}
	return fn()
}

func (r *Registry) ListPlants() []string {
	names := make([]string, 0, len(r.plants))
	for name := range r.plants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuildFilter makes one filter stage.
func BuildFilter(fc config.FilterConfig, opts ...filter.Option) (filter.Filter, error) {
	if err := fc.Validate(); err != nil {
		return nil, err
	}
	switch fc.Kind {
	case config.FilterNull:
		return filter.NewNull(opts...), nil
	case config.FilterIntegrating:
		return filter.NewIntegrating(fc.Window, opts...), nil
	case config.FilterDifferentiating:
		return filter.NewDifferentiating(opts...), nil
	case config.FilterMovingAverage:
		kind, err := filter.ParseMeanKind(fc.Mean)
		if err != nil {
			return nil, err
		}
		return filter.NewMovingAverage(fc.Window, kind, opts...), nil
	case config.FilterEMA:
		return filter.NewEMA(fc.Alpha, opts...), nil
	case config.FilterRateLimiter:
		return filter.NewRateLimiter(fc.Rate, opts...), nil
	}
	return nil, fmt.Errorf("%w: %q", dynamo.ErrUnknownFilter, fc.Kind)
}

// BuildChain makes a filter from a list of stages. No stages gives a Null
// filter and a single stage is returned as is.
func BuildChain(fcs []config.FilterConfig, opts ...filter.Option) (filter.Filter, error) {
	switch len(fcs) {
	case 0:
		return filter.NewNull(opts...), nil
	case 1:
		return BuildFilter(fcs[0], opts...)
	}

	stages := make([]filter.Filter, 0, len(fcs))
	for _, fc := range fcs {
		f, err := BuildFilter(fc, opts...)
		if err != nil {
			return nil, err
		}
		stages = append(stages, f)
	}
	return filter.NewChain(stages, opts...), nil
}

// DefaultMetrics returns the tracking metrics, stability and energy metrics
// for plants that report energy. The settling band is the PID position
// tolerance around the setpoint.
func (r *Registry) DefaultMetrics(p plant.Plant, setpoint float64) []dynamo.Metric {
	band := control.DefaultTolerance * math.Abs(setpoint)
	if band == 0 {
		band = control.DefaultTolerance
	}

	ms := append(metrics.Tracking(band), metrics.NewStability(metrics.StabilityBound(setpoint)))
	if e, ok := p.(metrics.Energetic); ok {
		ms = append(ms, metrics.NewEnergy(e), metrics.NewEnergyDrift(e))
	}
	return ms
}
