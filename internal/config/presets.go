package config

import "sort"

var Presets = map[string]map[string]*Config{
	"spring_mass": {
		"step": {
			Plant: "spring_mass", Integrator: "rk4", Dt: 0.01, Duration: 10.0,
			PID: PIDConfig{Kp: 30, Ki: 20, Kd: 8, Setpoint: 1},
		},
		"p_only": {
			Plant: "spring_mass", Integrator: "rk4", Dt: 0.01, Duration: 10.0,
			PID: PIDConfig{Kp: 30, Setpoint: 1},
		},
		"noisy": {
			Plant: "spring_mass", Integrator: "rk4", Dt: 0.01, Duration: 10.0, Noise: 0.02, Seed: 1,
			PID:          PIDConfig{Kp: 30, Ki: 20, Kd: 8, Setpoint: 1},
			InputFilters: []FilterConfig{{Kind: FilterEMA, Alpha: 0.3}},
		},
		"rate_limited": {
			Plant: "spring_mass", Integrator: "rk4", Dt: 0.01, Duration: 15.0,
			PID:           PIDConfig{Kp: 30, Ki: 20, Kd: 8, Setpoint: 1, MaxEffort: 50},
			OutputFilters: []FilterConfig{{Kind: FilterRateLimiter, Rate: 40}},
		},
		"jittery": {
			Plant: "spring_mass", Integrator: "rk4", Dt: 0.01, Duration: 10.0, Jitter: 0.3, Seed: 7,
			PID: PIDConfig{Kp: 30, Ki: 20, Kd: 8, Setpoint: 1},
		},
	},
	"pendulum": {
		"hold_up": {
			Plant: "pendulum", Integrator: "rk4", Dt: 0.01, Duration: 15.0,
			InitState: []float64{0.1, 0},
			PID:       PIDConfig{Kp: 40, Ki: 20, Kd: 8, Setpoint: 2.5, Angular: true},
		},
		// crossing ±π jumps the rebuilt previous error by 2π; MaxD bounds the kick
		"wrap": {
			Plant: "pendulum", Integrator: "rk4", Dt: 0.01, Duration: 15.0,
			InitState: []float64{-2.5, 0},
			PID:       PIDConfig{Kp: 40, Ki: 20, Kd: 8, Setpoint: 2.5, Angular: true, MaxD: 20},
		},
		"hang": {
			Plant: "pendulum", Integrator: "rk4", Dt: 0.01, Duration: 10.0,
			InitState: []float64{1.5, 0},
			PID:       PIDConfig{Kp: 10, Kd: 2, Setpoint: 0.5, Angular: true},
		},
	},
	"motor": {
		"speed": {
			Plant: "motor", Integrator: "rk4", Dt: 0.01, Duration: 5.0,
			PID: PIDConfig{Kp: 2, Ki: 4, Setpoint: 10},
		},
		"clamped": {
			Plant: "motor", Integrator: "rk4", Dt: 0.01, Duration: 5.0,
			PID: PIDConfig{Kp: 2, Ki: 4, Window: 50, Setpoint: 10, MaxEffort: 12, MaxI: 8},
		},
		"smoothed": {
			Plant: "motor", Integrator: "rk4", Dt: 0.01, Duration: 5.0, Noise: 0.2, Seed: 3,
			PID:          PIDConfig{Kp: 1, Ki: 4, Setpoint: 10},
			InputFilters: []FilterConfig{{Kind: FilterMovingAverage, Window: 5, Mean: "arithmetic"}},
		},
	},
}

// GetPreset returns a copy of a named preset, or nil.
func GetPreset(plant, preset string) *Config {
	plantPresets, ok := Presets[plant]
	if !ok {
		return nil
	}
	cfg, ok := plantPresets[preset]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

// ListPresets returns the preset names of a plant in sorted order.
func ListPresets(plant string) []string {
	plantPresets, ok := Presets[plant]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(plantPresets))
	for name := range plantPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
