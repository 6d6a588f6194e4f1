package run

import (
	"bytes"
	"context"
	"math"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jiaming2012/gridpricer/src/config"
	"github.com/jiaming2012/gridpricer/src/gridpricer"
	"github.com/jiaming2012/gridpricer/src/models"
)

const quotes = `QUOTE_UNIXTIME,UNDERLYING_LAST,EXPIRE_UNIX,DTE,STRIKE,C_DELTA,C_GAMMA,C_VEGA,C_THETA,C_RHO,C_IV,C_VOLUME,C_MID_PRICE,P_DELTA,P_GAMMA,P_VEGA,P_THETA,P_RHO,P_IV,P_VOLUME,P_MID_PRICE,RISK_FREE_RATE
1700000000,100,1702592000,30,95,0.7,0.04,0.1,-0.05,0.05,0.25,10,6.6,-0.3,0.04,0.1,-0.04,-0.03,0.26,12,1.3,0.05
1700000000,100,1702592000,30,100,0.5,0.05,0.1,-0.06,0.04,0.24,20,3.1,-0.5,0.05,0.1,-0.05,-0.04,0.25,22,2.7,0.05
1700000000,100,1702592000,30,-5,0,0,0,0,0,0.24,0,0,0,0,0,0,0,0.25,0,0,0.05
`

func testConfig() config.Config {
	cfg := config.Default()
	cfg.PriceSteps = 100
	cfg.TimeSteps = 500
	cfg.Batch.Workers = 2
	return cfg
}

func TestPrice(t *testing.T) {
	dir := t.TempDir()
	inFile := filepath.Join(dir, "quotes.csv")
	require.NoError(t, os.WriteFile(inFile, []byte(quotes), 0644))

	t.Run("prices and exports", func(t *testing.T) {
		var out bytes.Buffer
		results, err := Price(context.Background(), testConfig(), PriceArgs{InFile: inFile, OutDir: filepath.Join(dir, "out"), Limit: 5}, &out)
		require.NoError(t, err)

		assert.Len(t, results.Batch.Priced, 2)
		require.Len(t, results.Batch.Skipped, 1)
		assert.Equal(t, 2, results.Batch.Skipped[0].Index)
		assert.Equal(t, 2, results.Summary.Call.Count)
		assert.FileExists(t, results.OutFile)
		assert.Contains(t, out.String(), "skipped record 2")
	})

	t.Run("missing file", func(t *testing.T) {
		var out bytes.Buffer
		_, err := Price(context.Background(), testConfig(), PriceArgs{InFile: filepath.Join(dir, "missing.csv")}, &out)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("invalid steps fail before loading", func(t *testing.T) {
		cfg := testConfig()
		cfg.TimeSteps = 0

		var out bytes.Buffer
		_, err := Price(context.Background(), cfg, PriceArgs{InFile: filepath.Join(dir, "missing.csv")}, &out)
		assert.ErrorIs(t, err, models.InvalidGridParametersErr)
	})
}

func TestQuote(t *testing.T) {
	var out bytes.Buffer
	result, err := Quote(testConfig(), QuoteArgs{Underlying: 100, Strike: 100, DTE: 30, IV: 0.25, RiskFreeRate: 0.05}, &out)
	require.NoError(t, err)

	assert.InDelta(t, 3.06, result.CallPrice, 0.05)
	assert.Contains(t, out.String(), "call")

	_, err = Quote(testConfig(), QuoteArgs{Underlying: 100, Strike: 100, IV: 0.25}, &out)
	assert.ErrorIs(t, err, models.InvalidRecordErr)
}

func TestConverge(t *testing.T) {
	cfg := testConfig()
	cfg.Grid.Scheme = gridpricer.Implicit

	var out bytes.Buffer
	rows, err := Converge(cfg, ConvergeArgs{
		Quote:      QuoteArgs{Underlying: 100, Strike: 100, DTE: 30, IV: 0.25, RiskFreeRate: 0.05},
		PriceSteps: []int{50, 100, 200},
		TimeRatio:  10,
	}, &out)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, 2000, rows[2].TimeSteps)
	assert.Less(t, rows[1].CallError, rows[0].CallError)
	assert.Less(t, rows[2].CallError, rows[1].CallError)
	assert.Contains(t, out.String(), "closed form")

	_, err = Converge(cfg, ConvergeArgs{PriceSteps: []int{10}}, &out)
	assert.ErrorIs(t, err, models.InvalidGridParametersErr)

	_, err = Converge(cfg, ConvergeArgs{
		Quote:      QuoteArgs{Underlying: 100, Strike: 100, DTE: 30, IV: 0.25, RiskFreeRate: 0.05},
		PriceSteps: []int{math.MaxInt / 2},
		TimeRatio:  10,
	}, &out)
	assert.ErrorIs(t, err, models.InvalidGridParametersErr)
}

func TestServe(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	_, port, err := net.SplitHostPort(l.Addr().String())
	require.NoError(t, err)
	require.NoError(t, l.Close())

	cfg := testConfig()
	cfg.Server.Port = port

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, cfg)
	}()

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestSetup(t *testing.T) {
	t.Setenv("GO_ENV", "")

	path := filepath.Join(t.TempDir(), "gridpricer.yaml")
	require.NoError(t, os.WriteFile(path, []byte("p_steps: 40\nt_steps: 400\n"), 0644))

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("GRIDPRICER_WORKERS=3\n"), 0644))
	t.Setenv("GRIDPRICER_WORKERS", "")
	os.Unsetenv("GRIDPRICER_WORKERS")

	cfg, shutdown, err := Setup(context.Background(), path, envFile)
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))

	assert.Equal(t, 40, cfg.PriceSteps)
	assert.Equal(t, 3, cfg.Batch.Workers)
}
