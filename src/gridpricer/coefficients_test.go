package gridpricer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoefficients(t *testing.T) {
	t.Run("central stencil", func(t *testing.T) {
		co := newCoefficients(20, 0.2, 0.05, 0.001)

		assert.InDelta(t, 0.00175, co.a[10], 1e-15)
		assert.InDelta(t, 0.99595, co.b[10], 1e-15)
		assert.InDelta(t, 0.00225, co.c[10], 1e-15)

		assert.Equal(t, 0.0, co.a[0])
		assert.Equal(t, 0.0, co.c[20])
	})

	t.Run("zero volatility upwinds the drift", func(t *testing.T) {
		co := newCoefficients(10, 0, 0.05, 0.01)

		for i := 1; i < 10; i++ {
			assert.Equal(t, 0.0, co.a[i])
			assert.InDelta(t, 0.01*0.05*float64(i), co.c[i], 1e-15)
			assert.InDelta(t, 1-co.c[i]-0.05*0.01, co.b[i], 1e-15)
		}
	})

	t.Run("negative rate keeps the weights non negative", func(t *testing.T) {
		co := newCoefficients(10, 0.01, -0.02, 0.01)

		for i := 1; i < 10; i++ {
			assert.GreaterOrEqual(t, co.a[i], 0.0)
			assert.GreaterOrEqual(t, co.c[i], 0.0)
		}
	})

	t.Run("zero volatility and rate is the identity", func(t *testing.T) {
		co := newCoefficients(5, 0, 0, 0.1)

		for i := 1; i < 5; i++ {
			assert.Equal(t, 0.0, co.a[i])
			assert.Equal(t, 1.0, co.b[i])
			assert.Equal(t, 0.0, co.c[i])
		}
	})
}

func TestExplicitStabilityLimit(t *testing.T) {
	assert.InDelta(t, 1/(0.0625*10000+0.05*100+0.05), explicitStabilityLimit(0.25, 0.05, 100), 1e-15)
	assert.True(t, explicitStabilityLimit(0, 0, 100) > 1e300)
}
