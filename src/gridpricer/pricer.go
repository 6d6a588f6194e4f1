package gridpricer

import (
	"fmt"
	"math"
	"sync"

	"github.com/jiaming2012/gridpricer/src/models"
)

// Pricer values European options by solving the Black-Scholes PDE on a uniform price grid.
// A Pricer is safe for concurrent use; each call works on its own buffers.
type Pricer struct {
	cfg  Config
	pool sync.Pool
}

func NewPricer(cfg Config) (*Pricer, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("NewPricer: %w", err)
	}

	return &Pricer{
		cfg: cfg,
		pool: sync.Pool{
			New: func() any {
				return &workspace{}
			},
		},
	}, nil
}

func (p *Pricer) Config() Config {
	return p.cfg
}

type workspace struct {
	cur  []float64
	next []float64
}

func (ws *workspace) resize(n int) {
	if cap(ws.cur) < n {
		ws.cur = make([]float64, n)
		ws.next = make([]float64, n)
	}

	ws.cur = ws.cur[:n]
	ws.next = ws.next[:n]
}

func (p *Pricer) acquire(nodes int) *workspace {
	ws := p.pool.Get().(*workspace)
	ws.resize(nodes)
	return ws
}

func (p *Pricer) ValidateParams(pSteps, tSteps int) error {
	if pSteps <= 0 {
		return fmt.Errorf("%w: p_steps must be positive, found %d", models.InvalidGridParametersErr, pSteps)
	}

	if tSteps <= 0 {
		return fmt.Errorf("%w: t_steps must be positive, found %d", models.InvalidGridParametersErr, tSteps)
	}

	return nil
}

func (p *Pricer) newGridSpec(rec *models.OptionRecord, pSteps, tSteps int) (gridSpec, error) {
	if err := p.ValidateParams(pSteps, tSteps); err != nil {
		return gridSpec{}, err
	}

	if rec == nil {
		return gridSpec{}, fmt.Errorf("%w: record is nil", models.InvalidRecordErr)
	}

	if err := rec.Validate(); err != nil {
		return gridSpec{}, err
	}

	m := p.cfg.FarFieldMultiple
	if pSteps > (math.MaxInt-1)/m || pSteps*m+1 > p.cfg.MaxGridCells {
		return gridSpec{}, fmt.Errorf("%w: %d price steps with far field multiple %d exceeds the limit of %d cells", models.GridTooLargeErr, pSteps, m, p.cfg.MaxGridCells)
	}

	expiry := rec.YearsToExpiry()
	ds := rec.Underlying / float64(pSteps)

	return gridSpec{
		priceSteps: pSteps,
		timeSteps:  tSteps,
		top:        pSteps * m,
		spot:       pSteps,
		ds:         ds,
		dt:         expiry / float64(tSteps),
		sMax:       ds * float64(pSteps*m),
		strike:     rec.Strike,
		rate:       rec.RiskFreeRate,
		expiry:     expiry,
	}, nil
}

func (p *Pricer) checkGridCells(g gridSpec) error {
	perSide := p.cfg.MaxGridCells / (2 * g.nodes())
	if g.timeSteps+1 > perSide {
		return fmt.Errorf("%w: a %d x %d grid per side exceeds the limit of %d cells", models.GridTooLargeErr, g.nodes(), g.timeSteps+1, p.cfg.MaxGridCells)
	}

	return nil
}

// sideSystem is everything that stays fixed while one side marches through time.
type sideSystem struct {
	sigma   float64
	co      *coefficients
	main    *tridiagonal
	startup *tridiagonal
}

func (p *Pricer) newSideSystem(g gridSpec, sigma float64) *sideSystem {
	co := newCoefficients(g.top, sigma, g.rate, g.dt)
	sys := &sideSystem{
		sigma: sigma,
		co:    co,
		main:  newThetaSystem(co, p.cfg.Scheme.theta()),
	}

	if p.cfg.Scheme == CrankNicolson && p.cfg.RannacherSteps > 0 {
		sys.startup = newThetaSystem(co, 1)
	}

	return sys
}

// systems shares one factorisation between the sides when they are priced off the same volatility.
func (p *Pricer) systems(rec *models.OptionRecord, g gridSpec) (*sideSystem, *sideSystem) {
	callVol := p.cfg.VolSource.volatility(rec, models.Call)
	putVol := p.cfg.VolSource.volatility(rec, models.Put)

	call := p.newSideSystem(g, callVol)
	if putVol == callVol {
		return call, call
	}

	return call, p.newSideSystem(g, putVol)
}

// Price returns the theoretical call and put price of the record, read at the spot node
// at valuation time. Only two time levels are kept in memory.
func (p *Pricer) Price(rec *models.OptionRecord, pSteps, tSteps int) (models.PriceResult, error) {
	g, err := p.newGridSpec(rec, pSteps, tSteps)
	if err != nil {
		return models.PriceResult{}, fmt.Errorf("Pricer.Price: %w", err)
	}

	ws := p.acquire(g.nodes())
	defer p.pool.Put(ws)

	callSys, putSys := p.systems(rec, g)

	var result models.PriceResult
	v0, v1, err := p.march(g, models.Call, callSys, ws, nil)
	if err != nil {
		return models.PriceResult{}, fmt.Errorf("Pricer.Price: %w", err)
	}

	result.CallPrice = v0[g.spot]
	result.Call = greeksAt(v0, v1, g.spot, g.ds, g.dt)

	v0, v1, err = p.march(g, models.Put, putSys, ws, nil)
	if err != nil {
		return models.PriceResult{}, fmt.Errorf("Pricer.Price: %w", err)
	}

	result.PutPrice = v0[g.spot]
	result.Put = greeksAt(v0, v1, g.spot, g.ds, g.dt)

	return result, nil
}

// PriceWithGrid solves both sides and keeps every time level.
func (p *Pricer) PriceWithGrid(rec *models.OptionRecord, pSteps, tSteps int) (*PriceGrid, error) {
	g, err := p.newGridSpec(rec, pSteps, tSteps)
	if err != nil {
		return nil, fmt.Errorf("Pricer.PriceWithGrid: %w", err)
	}

	if err := p.checkGridCells(g); err != nil {
		return nil, fmt.Errorf("Pricer.PriceWithGrid: %w", err)
	}

	grid := newPriceGrid(g)

	ws := p.acquire(g.nodes())
	defer p.pool.Put(ws)

	callSys, putSys := p.systems(rec, g)
	for _, side := range []models.OptionType{models.Call, models.Put} {
		sys := callSys
		if side == models.Put {
			sys = putSys
		}

		emit := func(n int, v []float64) {
			grid.setColumn(side, n, v)
		}

		if _, _, err := p.march(g, side, sys, ws, emit); err != nil {
			return nil, fmt.Errorf("Pricer.PriceWithGrid: %w", err)
		}
	}

	return grid, nil
}

// march solves one side backward from expiry. It returns the valuation time level and
// the level after it; both alias the workspace. emit, when set, sees every time level.
func (p *Pricer) march(g gridSpec, side models.OptionType, sys *sideSystem, ws *workspace, emit func(n int, v []float64)) ([]float64, []float64, error) {
	v, w := ws.cur, ws.next

	if g.ds == 0 {
		flatColumn(g, side, g.timeSteps, v)
	} else {
		terminal(g, side, v)
	}

	if emit != nil {
		emit(g.timeSteps, v)
	}

	theta := p.cfg.Scheme.theta()
	for n := g.timeSteps - 1; n >= 0; n-- {
		if g.ds == 0 {
			flatColumn(g, side, n, w)
		} else {
			tau := float64(g.timeSteps-n) * g.dt
			lo, hi := boundaries(g, side, tau)

			th, lhs := theta, sys.main
			if sys.startup != nil && g.timeSteps-1-n < p.cfg.RannacherSteps {
				th, lhs = 1, sys.startup
			}

			step(sys.co, th, lhs, v, w, lo, hi)

			if th == 0 {
				if i, ok := withinEnvelope(g, w); !ok {
					limit := explicitStabilityLimit(sys.sigma, g.rate, g.top)
					return nil, nil, fmt.Errorf("%w: %s diverged at price node %d, time node %d: explicit scheme requires dt <= %.6g, found dt = %.6g", models.NumericalInstabilityErr, side, i, n, limit, g.dt)
				}
			}
		}

		if emit != nil {
			emit(n, w)
		}

		v, w = w, v
	}

	// the last two levels feed the price and greeks
	for _, level := range [][]float64{v, w} {
		if i, ok := allFinite(level); !ok {
			return nil, nil, fmt.Errorf("%w: %s is not finite at price node %d near valuation time, sigma = %g, r = %g", models.NumericalInstabilityErr, side, i, sys.sigma, g.rate)
		}
	}

	return v, w, nil
}

func allFinite(v []float64) (int, bool) {
	for i, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return i, false
		}
	}

	return 0, true
}

// step advances v (time level n+1) to w (time level n) with the theta scheme:
//
//	-th*a_i*w_{i-1} + (1+th*d_i)*w_i - th*c_i*w_{i+1} =
//	    (1-th)*(a_i*v_{i-1} + c_i*v_{i+1}) + (1-(1-th)*d_i)*v_i
//
// where d_i = 1-b_i. lo and hi are the boundary values of level n.
func step(co *coefficients, th float64, lhs *tridiagonal, v, w []float64, lo, hi float64) {
	top := len(v) - 1
	for i := 1; i < top; i++ {
		w[i] = (1-th)*(co.a[i]*v[i-1]+co.c[i]*v[i+1]) + (1-(1-th)*co.decay(i))*v[i]
	}

	if lhs != nil && top > 1 {
		w[1] += th * co.a[1] * lo
		w[top-1] += th * co.c[top-1] * hi
		lhs.solve(w[1:top])
	}

	w[0] = lo
	w[top] = hi
}

// withinEnvelope reports the first node whose value is not finite or escapes the range
// any call or put on this grid can take.
func withinEnvelope(g gridSpec, w []float64) (int, bool) {
	bound := g.sMax + g.strike + 1e-9
	for i, x := range w {
		if math.IsNaN(x) || math.Abs(x) > bound {
			return i, false
		}
	}

	return 0, true
}

// flatColumn fills a time level of a zero-width price axis, where every node is the zero price.
func flatColumn(g gridSpec, side models.OptionType, n int, v []float64) {
	value := 0.0
	if side == models.Put {
		tau := float64(g.timeSteps-n) * g.dt
		value = g.strike * math.Exp(-g.rate*tau)
	}

	for i := range v {
		v[i] = value
	}
}
