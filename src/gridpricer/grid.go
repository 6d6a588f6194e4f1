package gridpricer

import (
	"github.com/jiaming2012/gridpricer/src/models"
)

// gridSpec is the discretisation of one option record.
type gridSpec struct {
	priceSteps int
	timeSteps  int
	top        int // highest price node index
	spot       int // price node of the current underlying
	ds         float64
	dt         float64
	sMax       float64
	strike     float64
	rate       float64
	expiry     float64
}

func (g gridSpec) nodes() int {
	return g.top + 1
}

// PriceGrid holds the solved value surfaces of both sides of one option.
// Time node TimeSteps is expiry and time node 0 is the valuation time.
type PriceGrid struct {
	PriceSteps int
	TimeSteps  int
	Nodes      int
	SpotNode   int
	DS         float64
	DT         float64

	call []float64
	put  []float64
}

func newPriceGrid(g gridSpec) *PriceGrid {
	cells := g.nodes() * (g.timeSteps + 1)
	return &PriceGrid{
		PriceSteps: g.priceSteps,
		TimeSteps:  g.timeSteps,
		Nodes:      g.nodes(),
		SpotNode:   g.spot,
		DS:         g.ds,
		DT:         g.dt,
		call:       make([]float64, cells),
		put:        make([]float64, cells),
	}
}

func (g *PriceGrid) surface(side models.OptionType) []float64 {
	if side == models.Put {
		return g.put
	}

	return g.call
}

// At returns the value of the given side at price node i and time node n.
func (g *PriceGrid) At(side models.OptionType, i, n int) float64 {
	return g.surface(side)[n*g.Nodes+i]
}

func (g *PriceGrid) CallAt(i, n int) float64 {
	return g.At(models.Call, i, n)
}

func (g *PriceGrid) PutAt(i, n int) float64 {
	return g.At(models.Put, i, n)
}

// Column returns the values across all price nodes at time node n. The slice aliases the grid.
func (g *PriceGrid) Column(side models.OptionType, n int) []float64 {
	return g.surface(side)[n*g.Nodes : (n+1)*g.Nodes]
}

func (g *PriceGrid) setColumn(side models.OptionType, n int, v []float64) {
	copy(g.Column(side, n), v)
}

// PriceAt is the value of the given side at the price level i*DS at valuation time.
func (g *PriceGrid) PriceAt(side models.OptionType, i int) float64 {
	return g.At(side, i, 0)
}

func (g *PriceGrid) Greeks(side models.OptionType) models.Greeks {
	next := 0
	if g.TimeSteps > 0 {
		next = 1
	}

	return greeksAt(g.Column(side, 0), g.Column(side, next), g.SpotNode, g.DS, g.DT)
}

// Price reads both sides at the spot node at valuation time.
func (g *PriceGrid) Price() models.PriceResult {
	return models.PriceResult{
		CallPrice: g.CallAt(g.SpotNode, 0),
		PutPrice:  g.PutAt(g.SpotNode, 0),
		Call:      g.Greeks(models.Call),
		Put:       g.Greeks(models.Put),
	}
}

// greeksAt differentiates the valuation-time column v0 around node i. v1 is the next time
// level, used for theta. On the top node one-sided differences are used.
func greeksAt(v0, v1 []float64, i int, ds, dt float64) models.Greeks {
	var greeks models.Greeks
	top := len(v0) - 1

	if ds > 0 {
		switch {
		case i > 0 && i < top:
			greeks.Delta = (v0[i+1] - v0[i-1]) / (2 * ds)
			greeks.Gamma = (v0[i+1] - 2*v0[i] + v0[i-1]) / (ds * ds)
		case i == top && top >= 2:
			greeks.Delta = (v0[i] - v0[i-1]) / ds
			greeks.Gamma = (v0[i] - 2*v0[i-1] + v0[i-2]) / (ds * ds)
		case i == top && top == 1:
			greeks.Delta = (v0[i] - v0[i-1]) / ds
		}
	}

	if dt > 0 {
		greeks.Theta = (v1[i] - v0[i]) / dt
	}

	return greeks
}
