package scenario

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/ctrlkit/internal/config"
	"github.com/san-kum/ctrlkit/internal/dynamo"
	"github.com/san-kum/ctrlkit/internal/experiment"
	"github.com/san-kum/ctrlkit/internal/storage"
)

const scenarioYAML = `
name: smoke
description: one step per plant
steps:
  - name: spring
    plant: spring_mass
    duration: 2
    save: true
  - name: motor speed
    plant: motor
    preset: speed
    duration: 1
    params:
      kp: 3
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad(t *testing.T) {
	s, err := Load(writeScenario(t, scenarioYAML))
	require.NoError(t, err)
	assert.Equal(t, "smoke", s.Name)
	require.Len(t, s.Steps, 2)
	assert.Equal(t, 3.0, s.Steps[1].Params["kp"])
	assert.True(t, s.Steps[0].Save)

	_, err = Load(writeScenario(t, "name: empty\n"))
	assert.ErrorIs(t, err, dynamo.ErrInvalidConfig)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestStepConfig(t *testing.T) {
	cfg, err := Step{Plant: "motor", Preset: "speed", Duration: 3}.Config()
	require.NoError(t, err)
	preset := config.GetPreset("motor", "speed")
	assert.Equal(t, "motor", cfg.Plant)
	assert.Equal(t, 3.0, cfg.Duration)
	assert.Equal(t, preset.PID.Setpoint, cfg.PID.Setpoint)
	assert.Equal(t, preset.Dt, cfg.Dt)

	_, err = Step{Plant: "motor", Preset: "nope"}.Config()
	assert.ErrorIs(t, err, dynamo.ErrInvalidConfig)
}

func TestRun(t *testing.T) {
	s, err := Load(writeScenario(t, scenarioYAML))
	require.NoError(t, err)

	store := storage.New(t.TempDir())
	results, err := Run(context.Background(), s, experiment.NewRegistry(), store)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.NotEmpty(t, results[0].RunID)
	assert.Empty(t, results[1].RunID)
	assert.Contains(t, results[1].Result.Metrics, "iae")

	runs, err := store.List()
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestRunStopsAtBadStep(t *testing.T) {
	s := &Scenario{Steps: []Step{
		{Plant: "spring_mass", Duration: 0.5},
		{Plant: "motor", Params: map[string]float64{"kf": 1}},
	}}
	results, err := Run(context.Background(), s, experiment.NewRegistry(), nil)
	assert.ErrorIs(t, err, dynamo.ErrUnknownParam)
	assert.Len(t, results, 1)
}

func TestSweep(t *testing.T) {
	base := config.GetPreset("motor", "speed")
	base.Duration = 2

	results, err := Sweep(context.Background(), base, experiment.NewRegistry(), "kp", []float64{0.5, 4})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 0.5, results[0].Value)
	assert.False(t, results[0].Failed)
	assert.Less(t, results[1].Metrics["iae"], results[0].Metrics["iae"])

	_, err = Sweep(context.Background(), base, experiment.NewRegistry(), "kf", []float64{1})
	assert.ErrorIs(t, err, dynamo.ErrUnknownParam)
}
