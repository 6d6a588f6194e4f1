package gridpricer

// tridiagonal is a pre-factorised tridiagonal system. The matrix of a theta scheme does
// not change between time steps, so forward elimination is done once and every step
// only pays for the substitution passes.
type tridiagonal struct {
	sub   []float64
	denom []float64
	upper []float64
}

// newTridiagonal factorises the system with sub-diagonal sub, diagonal diag and
// super-diagonal sup. sub[0] and sup[n-1] are ignored.
func newTridiagonal(sub, diag, sup []float64) *tridiagonal {
	n := len(diag)
	t := &tridiagonal{
		sub:   sub,
		denom: make([]float64, n),
		upper: make([]float64, n),
	}

	if n == 0 {
		return t
	}

	t.denom[0] = diag[0]
	t.upper[0] = sup[0] / t.denom[0]
	for k := 1; k < n; k++ {
		t.denom[k] = diag[k] - sub[k]*t.upper[k-1]
		t.upper[k] = sup[k] / t.denom[k]
	}

	return t
}

// solve overwrites d with the solution of the system.
func (t *tridiagonal) solve(d []float64) {
	n := len(d)
	if n == 0 {
		return
	}

	d[0] = d[0] / t.denom[0]
	for k := 1; k < n; k++ {
		d[k] = (d[k] - t.sub[k]*d[k-1]) / t.denom[k]
	}

	for k := n - 2; k >= 0; k-- {
		d[k] -= t.upper[k] * d[k+1]
	}
}

// newThetaSystem builds the left hand side of the theta scheme for the interior nodes
// 1..top-1. It returns nil for the explicit scheme, which needs no solve.
func newThetaSystem(co *coefficients, theta float64) *tridiagonal {
	if theta == 0 {
		return nil
	}

	top := len(co.a) - 1
	n := top - 1
	if n < 0 {
		n = 0
	}

	sub := make([]float64, n)
	diag := make([]float64, n)
	sup := make([]float64, n)
	for k := 0; k < n; k++ {
		i := k + 1
		sub[k] = -theta * co.a[i]
		diag[k] = 1 + theta*co.decay(i)
		sup[k] = -theta * co.c[i]
	}

	return newTridiagonal(sub, diag, sup)
}
