package recordloader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "QUOTE_UNIXTIME,UNDERLYING_LAST,EXPIRE_UNIX,DTE,STRIKE,C_DELTA,C_GAMMA,C_VEGA,C_THETA,C_RHO,C_IV,C_VOLUME,C_MID_PRICE,P_DELTA,P_GAMMA,P_VEGA,P_THETA,P_RHO,P_IV,P_VOLUME,P_MID_PRICE,RISK_FREE_RATE\n"

func TestLoad(t *testing.T) {
	t.Run("maps columns by position", func(t *testing.T) {
		in := header +
			"1700000000,450.5,1702598400,30,455,0.45,0.01,0.5,-0.2,0.1,0.32,120,9.8,-0.55,0.01,0.5,-0.15,-0.12,0.33,80,13.1,0.051\n"

		records, err := Load(strings.NewReader(in))
		require.NoError(t, err)
		require.Len(t, records, 1)

		rec := records[0]
		assert.Equal(t, 1700000000.0, rec.Time)
		assert.Equal(t, 450.5, rec.Underlying)
		assert.Equal(t, 1702598400.0, rec.ExpireTime)
		assert.Equal(t, 30.0, rec.DTE)
		assert.Equal(t, 455.0, rec.Strike)
		assert.Equal(t, 0.45, rec.Call.Delta)
		assert.Equal(t, -0.2, rec.Call.Theta)
		assert.Equal(t, 0.32, rec.Call.IV)
		assert.Equal(t, 120.0, rec.Call.Volume)
		assert.Equal(t, 9.8, rec.Call.Mid)
		assert.Equal(t, -0.55, rec.Put.Delta)
		assert.Equal(t, -0.12, rec.Put.Rho)
		assert.Equal(t, 0.33, rec.Put.IV)
		assert.Equal(t, 13.1, rec.Put.Mid)
		assert.Equal(t, 0.051, rec.RiskFreeRate)
	})

	t.Run("empty fields default to zero", func(t *testing.T) {
		in := header +
			"1700000000,450.5,,30,455,,,,,,0.32,,9.8,,,,,,0.33,,,\n"

		records, err := Load(strings.NewReader(in))
		require.NoError(t, err)
		require.Len(t, records, 1)

		rec := records[0]
		assert.Equal(t, 0.0, rec.ExpireTime)
		assert.Equal(t, 0.0, rec.Call.Delta)
		assert.Equal(t, 0.32, rec.Call.IV)
		assert.Equal(t, 0.0, rec.Put.Mid)
		assert.Equal(t, 0.0, rec.RiskFreeRate)
	})

	t.Run("short and long rows", func(t *testing.T) {
		in := header +
			"1,100,2,10,95\n" +
			"1,100,2,10,95,0,0,0,0,0,0.2,0,0,0,0,0,0,0,0.2,0,0,0.05,999,888\n"

		records, err := Load(strings.NewReader(in))
		require.NoError(t, err)
		require.Len(t, records, 2)

		assert.Equal(t, 95.0, records[0].Strike)
		assert.Equal(t, 0.0, records[0].Call.IV)
		assert.Equal(t, 0.05, records[1].RiskFreeRate)
	})

	t.Run("preserves source order", func(t *testing.T) {
		var sb strings.Builder
		sb.WriteString(header)
		for _, strike := range []string{"90", "95", "100", "105"} {
			sb.WriteString("1,100,2,10," + strike + "\n")
		}

		records, err := Load(strings.NewReader(sb.String()))
		require.NoError(t, err)
		require.Len(t, records, 4)

		for i, want := range []float64{90, 95, 100, 105} {
			assert.Equal(t, want, records[i].Strike)
		}
	})

	t.Run("header only and empty input", func(t *testing.T) {
		records, err := Load(strings.NewReader(header))
		require.NoError(t, err)
		assert.Empty(t, records)

		records, err = Load(strings.NewReader(""))
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("non numeric cell is an error", func(t *testing.T) {
		_, err := Load(strings.NewReader(header + "1,abc,2,10,95\n"))
		assert.Error(t, err)
	})
}

func TestLoadFile(t *testing.T) {
	t.Run("reads from disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nvda_data.csv")
		require.NoError(t, os.WriteFile(path, []byte(header+"1,100,2,10,95\n1,100,2,10,100\n"), 0644))

		records, err := LoadFile(path)
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "missing.csv"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
