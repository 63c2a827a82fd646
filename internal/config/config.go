// Package config loads closed-loop run settings from YAML, with overrides
// from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/ctrlkit/internal/dynamo"
	"github.com/san-kum/ctrlkit/internal/filter"
)

const (
	DefaultDt       = 0.01
	DefaultDuration = 10.0
	DefaultKp       = 30.0
	DefaultKi       = 20.0
	DefaultKd       = 8.0
	DefaultSetpoint = 1.0
)

// Filter kinds understood by FilterConfig.
const (
	FilterNull            = "null"
	FilterIntegrating     = "integrating"
	FilterDifferentiating = "differentiating"
	FilterMovingAverage   = "moving_average"
	FilterEMA             = "ema"
	FilterRateLimiter     = "rate_limiter"
)

var FilterKinds = []string{
	FilterNull, FilterIntegrating, FilterDifferentiating,
	FilterMovingAverage, FilterEMA, FilterRateLimiter,
}

type Config struct {
	Plant         string         `yaml:"plant"`
	Integrator    string         `yaml:"integrator"`
	Dt            float64        `yaml:"dt"`
	Duration      float64        `yaml:"duration"`
	Jitter        float64        `yaml:"jitter"`
	Seed          int64          `yaml:"seed"`
	Noise         float64        `yaml:"noise"`
	InitState     []float64      `yaml:"init_state,flow,omitempty"`
	PID           PIDConfig      `yaml:"pid"`
	InputFilters  []FilterConfig `yaml:"input_filters,omitempty"`
	OutputFilters []FilterConfig `yaml:"output_filters,omitempty"`
}

type PIDConfig struct {
	Kp        float64 `yaml:"kp"`
	Ki        float64 `yaml:"ki"`
	Kd        float64 `yaml:"kd"`
	Window    int     `yaml:"window"`
	Setpoint  float64 `yaml:"setpoint"`
	Angular   bool    `yaml:"angular"`
	PosTol    float64 `yaml:"pos_tol,omitempty"`
	VelTol    float64 `yaml:"vel_tol,omitempty"`
	MaxEffort float64 `yaml:"max_effort,omitempty"`
	MaxP      float64 `yaml:"max_p,omitempty"`
	MaxI      float64 `yaml:"max_i,omitempty"`
	MaxD      float64 `yaml:"max_d,omitempty"`
}

// FilterConfig describes one filter stage. Only the fields its kind uses
// are read.
type FilterConfig struct {
	Kind   string  `yaml:"kind"`
	Window int     `yaml:"window,omitempty"`
	Mean   string  `yaml:"mean,omitempty"`
	Alpha  float64 `yaml:"alpha,omitempty"`
	Rate   float64 `yaml:"rate,omitempty"`
}

func (f FilterConfig) String() string {
	switch f.Kind {
	case FilterIntegrating:
		return fmt.Sprintf("integrating(window=%d)", f.Window)
	case FilterMovingAverage:
		mean := f.Mean
		if mean == "" {
			mean = "arithmetic"
		}
		return fmt.Sprintf("moving_average(window=%d, %s)", f.Window, mean)
	case FilterEMA:
		return fmt.Sprintf("ema(alpha=%g)", f.Alpha)
	case FilterRateLimiter:
		return fmt.Sprintf("rate_limiter(rate=%g)", f.Rate)
	default:
		return f.Kind
	}
}

func DefaultConfig() *Config {
	return &Config{
		Plant:      "spring_mass",
		Integrator: "rk4",
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		PID: PIDConfig{
			Kp:       DefaultKp,
			Ki:       DefaultKi,
			Kd:       DefaultKd,
			Setpoint: DefaultSetpoint,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.InitState = append([]float64(nil), c.InitState...)
	out.InputFilters = append([]FilterConfig(nil), c.InputFilters...)
	out.OutputFilters = append([]FilterConfig(nil), c.OutputFilters...)
	return &out
}

// Validate reports the first setting that cannot be run.
func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %g", dynamo.ErrInvalidConfig, c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %g", dynamo.ErrInvalidConfig, c.Duration)
	}
	if c.Jitter < 0 || c.Jitter >= 1 {
		return fmt.Errorf("%w: jitter must be in [0, 1), got %g", dynamo.ErrInvalidConfig, c.Jitter)
	}
	if c.Noise < 0 {
		return fmt.Errorf("%w: noise must not be negative, got %g", dynamo.ErrInvalidConfig, c.Noise)
	}
	for _, f := range append(append([]FilterConfig(nil), c.InputFilters...), c.OutputFilters...) {
		if err := f.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (f FilterConfig) Validate() error {
	switch f.Kind {
	case FilterNull, FilterDifferentiating, FilterIntegrating, FilterEMA, FilterRateLimiter:
	case FilterMovingAverage:
		if _, err := filter.ParseMeanKind(f.Mean); err != nil {
			return fmt.Errorf("%w: %w", dynamo.ErrInvalidConfig, err)
		}
	default:
		return fmt.Errorf("%w: %q", dynamo.ErrUnknownFilter, f.Kind)
	}
	return nil
}

// Environment variables read by ApplyEnv.
const (
	EnvKp       = "CTRLKIT_KP"
	EnvKi       = "CTRLKIT_KI"
	EnvKd       = "CTRLKIT_KD"
	EnvSetpoint = "CTRLKIT_SETPOINT"
	EnvDt       = "CTRLKIT_DT"
	EnvDuration = "CTRLKIT_DURATION"
)

// ApplyEnv loads the given .env files into the process environment (missing
// files are skipped, existing variables win) and then overrides settings
// from the CTRLKIT_* variables.
func (c *Config) ApplyEnv(envFiles ...string) error {
	for _, path := range envFiles {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("env file %s: %w", path, err)
		}
	}

	overrides := []struct {
		key string
		dst *float64
	}{
		{EnvKp, &c.PID.Kp},
		{EnvKi, &c.PID.Ki},
		{EnvKd, &c.PID.Kd},
		{EnvSetpoint, &c.PID.Setpoint},
		{EnvDt, &c.Dt},
		{EnvDuration, &c.Duration},
	}
	for _, o := range overrides {
		raw, ok := os.LookupEnv(o.key)
		if !ok || raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a number", dynamo.ErrInvalidConfig, o.key, raw)
		}
		*o.dst = v
	}
	return nil
}

// GetInitState returns the configured initial state padded or cut to dim.
func (c *Config) GetInitState(dim int) []float64 {
	x := make([]float64, dim)
	copy(x, c.InitState)
	return x
}
