package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSteps(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		steps, err := ParseSteps("50, 100,200,")
		require.NoError(t, err)
		assert.Equal(t, []int{50, 100, 200}, steps)
	})

	t.Run("invalid", func(t *testing.T) {
		for _, in := range []string{"", "10,x", "10,-5", "0"} {
			_, err := ParseSteps(in)
			assert.Error(t, err, in)
		}
	})
}

func TestEnv(t *testing.T) {
	t.Run("fallbacks", func(t *testing.T) {
		t.Setenv("GRIDPRICER_TEST_INT", "")
		n, err := GetEnvInt("GRIDPRICER_TEST_INT", 7)
		require.NoError(t, err)
		assert.Equal(t, 7, n)

		assert.Equal(t, "x", GetEnv("GRIDPRICER_TEST_UNSET", "x"))
	})

	t.Run("parsed values", func(t *testing.T) {
		t.Setenv("GRIDPRICER_TEST_INT", "42")
		t.Setenv("GRIDPRICER_TEST_BOOL", "true")

		n, err := GetEnvInt("GRIDPRICER_TEST_INT", 7)
		require.NoError(t, err)
		assert.Equal(t, 42, n)

		b, err := GetEnvBool("GRIDPRICER_TEST_BOOL", false)
		require.NoError(t, err)
		assert.True(t, b)
	})

	t.Run("bad values", func(t *testing.T) {
		t.Setenv("GRIDPRICER_TEST_INT", "many")
		t.Setenv("GRIDPRICER_TEST_BOOL", "perhaps")

		_, err := GetEnvInt("GRIDPRICER_TEST_INT", 7)
		assert.Error(t, err)

		_, err = GetEnvBool("GRIDPRICER_TEST_BOOL", false)
		assert.Error(t, err)
	})

	t.Run("env file", func(t *testing.T) {
		t.Setenv("GO_ENV", "")
		t.Setenv("GRIDPRICER_TEST_FROM_FILE", "")
		os.Unsetenv("GRIDPRICER_TEST_FROM_FILE")

		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte("GRIDPRICER_TEST_FROM_FILE=yes\n"), 0644))

		require.NoError(t, InitEnvironmentVariables(path))
		assert.Equal(t, "yes", os.Getenv("GRIDPRICER_TEST_FROM_FILE"))
	})

	t.Run("missing env file", func(t *testing.T) {
		t.Setenv("GO_ENV", "")
		assert.Error(t, InitEnvironmentVariables(filepath.Join(t.TempDir(), "missing.env")))
	})
}
