package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jiaming2012/gridpricer/src/gridpricer"
	"github.com/jiaming2012/gridpricer/src/models"
)

func writeConfig(t *testing.T, body string) string {
	path := filepath.Join(t.TempDir(), "gridpricer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("defaults without a file", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)

		assert.Equal(t, gridpricer.DefaultPriceSteps, cfg.PriceSteps)
		assert.Equal(t, gridpricer.DefaultTimeSteps, cfg.TimeSteps)
		assert.Equal(t, gridpricer.CrankNicolson, cfg.Grid.Scheme)
		assert.Equal(t, "8080", cfg.Server.Port)
		assert.Equal(t, 5000, cfg.Server.MaxPriceSteps)
		assert.Equal(t, 50000, cfg.Server.MaxTimeSteps)
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		path := writeConfig(t, `
p_steps: 200
t_steps: 2000
grid:
  scheme: implicit
  far_field_multiple: 4
batch:
  workers: 2
log:
  level: debug
  format: json
`)

		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, 200, cfg.PriceSteps)
		assert.Equal(t, 2000, cfg.TimeSteps)
		assert.Equal(t, gridpricer.Implicit, cfg.Grid.Scheme)
		assert.Equal(t, 4, cfg.Grid.FarFieldMultiple)
		assert.Equal(t, gridpricer.VolSourceSide, cfg.Grid.VolSource)
		assert.Equal(t, gridpricer.DefaultRannacherSteps, cfg.Grid.RannacherSteps)
		assert.Equal(t, 2, cfg.Batch.Workers)
		assert.Equal(t, "json", cfg.Log.Format)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		path := writeConfig(t, "p_steps: 200\n")
		t.Setenv("GRIDPRICER_P_STEPS", "300")
		t.Setenv("GRIDPRICER_SCHEME", "explicit")
		t.Setenv("GRIDPRICER_PORT", "9090")
		t.Setenv("GRIDPRICER_MAX_T_STEPS", "20000")

		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, 300, cfg.PriceSteps)
		assert.Equal(t, gridpricer.Explicit, cfg.Grid.Scheme)
		assert.Equal(t, "9090", cfg.Server.Port)
		assert.Equal(t, 20000, cfg.Server.MaxTimeSteps)
	})

	t.Run("invalid settings", func(t *testing.T) {
		_, err := Load(writeConfig(t, "t_steps: -1\n"))
		assert.ErrorIs(t, err, models.InvalidGridParametersErr)

		_, err = Load(writeConfig(t, "server:\n  max_t_steps: 0\n"))
		assert.ErrorIs(t, err, models.InvalidGridParametersErr)

		_, err = Load(writeConfig(t, "grid:\n  scheme: leapfrog\n"))
		assert.ErrorIs(t, err, models.InvalidGridParametersErr)

		_, err = Load(writeConfig(t, "log:\n  level: loud\n"))
		assert.Error(t, err)

		_, err = Load(writeConfig(t, "p_steps: [1, 2]\n"))
		assert.Error(t, err)

		t.Setenv("GRIDPRICER_WORKERS", "lots")
		_, err = Load("")
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
