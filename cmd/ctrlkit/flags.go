package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/san-kum/ctrlkit/internal/config"
)

// runFlags are the loop settings every simulation command accepts. They
// override, in order, the defaults, a preset, a config file and the env.
type runFlags struct {
	preset     string
	configFile string
	integrator string
	dt         float64
	duration   float64
	jitter     float64
	seed       int64
	noise      float64
	initState  []float64
	kp, ki, kd float64
	setpoint   float64
	window     int
	angular    bool
	maxEffort  float64
}

func (f *runFlags) bind(fs *pflag.FlagSet) {
	fs.StringVar(&f.preset, "preset", "", "start from a named preset")
	fs.StringVar(&f.configFile, "config", "", "config file path (yaml)")
	fs.StringVar(&f.integrator, "integrator", "rk4", "integrator")
	fs.Float64Var(&f.dt, "dt", config.DefaultDt, "control period in seconds")
	fs.Float64Var(&f.duration, "time", config.DefaultDuration, "run length in seconds")
	fs.Float64Var(&f.jitter, "jitter", 0, "fractional dt jitter in [0, 1)")
	fs.Int64Var(&f.seed, "seed", 0, "random seed for noise and jitter")
	fs.Float64Var(&f.noise, "noise", 0, "sensor noise standard deviation")
	fs.Float64SliceVar(&f.initState, "init", nil, "initial plant state, comma separated")
	fs.Float64Var(&f.kp, "kp", config.DefaultKp, "proportional gain")
	fs.Float64Var(&f.ki, "ki", config.DefaultKi, "integral gain")
	fs.Float64Var(&f.kd, "kd", config.DefaultKd, "derivative gain")
	fs.Float64Var(&f.setpoint, "setpoint", config.DefaultSetpoint, "setpoint")
	fs.IntVar(&f.window, "window", 0, "integral window in ticks, 0 for unbounded")
	fs.BoolVar(&f.angular, "angular", false, "treat the measurement as an angle")
	fs.Float64Var(&f.maxEffort, "max-effort", 0, "output clamp, 0 for none")
}

// resolve builds the run config for plant from cmd's flags.
func (f *runFlags) resolve(cmd *cobra.Command, g *globals, plant string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if f.preset != "" {
		cfg = config.GetPreset(plant, f.preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q for %s (available: %v)", f.preset, plant, config.ListPresets(plant))
		}
	}
	if f.configFile != "" {
		loaded, err := config.Load(f.configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	cfg.Plant = plant

	if err := cfg.ApplyEnv(g.envFile); err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed("integrator") {
		cfg.Integrator = f.integrator
	}
	if changed("dt") {
		cfg.Dt = f.dt
	}
	if changed("time") {
		cfg.Duration = f.duration
	}
	if changed("jitter") {
		cfg.Jitter = f.jitter
	}
	if changed("seed") {
		cfg.Seed = f.seed
	}
	if changed("noise") {
		cfg.Noise = f.noise
	}
	if changed("init") {
		cfg.InitState = f.initState
	}
	if changed("kp") {
		cfg.PID.Kp = f.kp
	}
	if changed("ki") {
		cfg.PID.Ki = f.ki
	}
	if changed("kd") {
		cfg.PID.Kd = f.kd
	}
	if changed("setpoint") {
		cfg.PID.Setpoint = f.setpoint
	}
	if changed("window") {
		cfg.PID.Window = f.window
	}
	if changed("angular") {
		cfg.PID.Angular = f.angular
	}
	if changed("max-effort") {
		cfg.PID.MaxEffort = f.maxEffort
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
