package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleYAML = `
scenario:
  name: toy
  horizon:
    steps: 6
    increment_hours: 1
  demand:
    values: [80, 80, 130, 130, 80, 80]
  generators:
    - name: coal1
      capacity:
        value: 100
      cost: 10
  renewables:
    - name: wind
      profile:
        value: 20
  shortage_cost: 1000
  dsm:
    approach: diw-delay
    capacity_up:
      value: 40
    capacity_down:
      value: 40
    cost_up: 1
    cost_down_shift: 1
    shift_eligible: true
    delay_time: 2
metrics:
  sinks:
    - type: nop
`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadYAML(t *testing.T) {
	cfg, err := Load(writeTemp(t, "config.yaml", sampleYAML))
	require.NoError(t, err)

	require.Equal(t, "toy", cfg.Scenario.Name)
	require.Equal(t, 6, cfg.Scenario.Horizon.Steps)
	require.Equal(t, "diw-delay", cfg.Scenario.DSM.Approach)
	require.Equal(t, 2, cfg.Scenario.DSM.DelayTime)
	require.Len(t, cfg.Metrics.Sinks, 1)
	require.Equal(t, "nop", cfg.Metrics.Sinks[0].Type)

	// Defaults applied.
	require.Equal(t, "info", cfg.Logging.Level)
	require.Equal(t, "csv", cfg.Export.Format)
	require.Equal(t, "results", cfg.Export.Dir)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("DSM_LOGGING__LEVEL", "debug")
	cfg, err := Load(writeTemp(t, "config.yaml", sampleYAML))
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadRejectsUnknownFormat(t *testing.T) {
	_, err := Load(writeTemp(t, "config.toml", "x = 1"))
	require.Error(t, err)
}

func TestLoadRejectsBadLevel(t *testing.T) {
	bad := sampleYAML + "\nlogging:\n  level: noisy\n"
	_, err := Load(writeTemp(t, "config.yaml", bad))
	require.Error(t, err)
}

func TestLoadRejectsInvalidScenario(t *testing.T) {
	bad := `
scenario:
  name: ""
`
	_, err := Load(writeTemp(t, "config.yaml", bad))
	require.Error(t, err)
}
