package gridpricer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTridiagonal(t *testing.T) {
	t.Run("solves a small system", func(t *testing.T) {
		sub := []float64{0, 1, 1, 2}
		diag := []float64{2, 3, 4, 5}
		sup := []float64{1, 1, 1, 0}
		rhs := []float64{1, 2, 3, 4}

		x := append([]float64{}, rhs...)
		newTridiagonal(sub, diag, sup).solve(x)

		for k := range diag {
			got := diag[k] * x[k]
			if k > 0 {
				got += sub[k] * x[k-1]
			}
			if k < len(diag)-1 {
				got += sup[k] * x[k+1]
			}
			assert.InDelta(t, rhs[k], got, 1e-12)
		}
	})

	t.Run("factorisation is reused across solves", func(t *testing.T) {
		sys := newTridiagonal([]float64{0, -1}, []float64{4, 4}, []float64{-1, 0})

		x := []float64{3, 3}
		sys.solve(x)
		assert.InDelta(t, 1.0, x[0], 1e-12)
		assert.InDelta(t, 1.0, x[1], 1e-12)

		y := []float64{4, -1}
		sys.solve(y)
		assert.InDelta(t, 1.0, y[0], 1e-12)
		assert.InDelta(t, 0.0, y[1], 1e-12)
	})

	t.Run("empty system", func(t *testing.T) {
		x := []float64{}
		newTridiagonal(nil, []float64{}, nil).solve(x)
		assert.Empty(t, x)
	})

	t.Run("implicit system of a single interior node", func(t *testing.T) {
		co := newCoefficients(2, 0.2, 0.05, 0.01)
		sys := newThetaSystem(co, 1)

		x := []float64{1}
		sys.solve(x)
		assert.InDelta(t, 1/(1+co.decay(1)), x[0], 1e-15)
	})

	t.Run("explicit scheme has no system", func(t *testing.T) {
		assert.Nil(t, newThetaSystem(newCoefficients(10, 0.2, 0.05, 0.01), 0))
	})
}
