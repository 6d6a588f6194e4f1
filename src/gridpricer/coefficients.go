package gridpricer

import "math"

// coefficients are the finite difference stencil weights for interior price nodes.
// Node i couples to i-1, i and i+1 through a[i], b[i] and c[i] respectively:
//
//	V_i^n = a_i*V_{i-1}^{n+1} + b_i*V_i^{n+1} + c_i*V_{i+1}^{n+1}
//
// Entries 0 and len-1 are boundary nodes and stay zero.
type coefficients struct {
	a, b, c []float64
	rdt     float64
}

func newCoefficients(top int, sigma, r, dt float64) *coefficients {
	co := &coefficients{
		a:   make([]float64, top+1),
		b:   make([]float64, top+1),
		c:   make([]float64, top+1),
		rdt: r * dt,
	}

	sig2 := sigma * sigma
	for i := 1; i < top; i++ {
		fi := float64(i)
		diffusion := sig2 * fi * fi
		drift := r * fi

		switch {
		case diffusion >= math.Abs(drift):
			co.a[i] = 0.5 * dt * (diffusion - drift)
			co.c[i] = 0.5 * dt * (diffusion + drift)
		case drift > 0:
			// convection dominated, difference the drift toward higher prices
			co.a[i] = 0.5 * dt * diffusion
			co.c[i] = 0.5*dt*diffusion + dt*drift
		default:
			co.a[i] = 0.5*dt*diffusion - dt*drift
			co.c[i] = 0.5 * dt * diffusion
		}

		co.b[i] = 1 - co.a[i] - co.c[i] - co.rdt
	}

	return co
}

// decay is the total outflow weight 1 - b_i of node i.
func (co *coefficients) decay(i int) float64 {
	return 1 - co.b[i]
}

// explicitStabilityLimit is the largest dt for which the explicit update keeps b_i >= 0 at the top node.
func explicitStabilityLimit(sigma, r float64, top int) float64 {
	m := float64(top)
	denom := sigma*sigma*m*m + math.Abs(r)*m + r
	if denom <= 0 {
		return math.Inf(1)
	}

	return 1 / denom
}
