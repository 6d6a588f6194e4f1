package gridpricer

import (
	"math"

	"github.com/jiaming2012/gridpricer/src/models"
)

func payoff(side models.OptionType, s, k float64) float64 {
	if side == models.Put {
		return math.Max(k-s, 0)
	}

	return math.Max(s-k, 0)
}

func terminal(g gridSpec, side models.OptionType, v []float64) {
	for i := range v {
		v[i] = payoff(side, float64(i)*g.ds, g.strike)
	}
}

// boundaries returns the values at price node 0 and the top node with tau years left.
// A call is worthless at zero and tends to its discounted forward intrinsic value at the
// top; a put is the discounted strike at zero and worthless at the top.
func boundaries(g gridSpec, side models.OptionType, tau float64) (float64, float64) {
	discountedStrike := g.strike * math.Exp(-g.rate*tau)
	if side == models.Put {
		return discountedStrike, 0
	}

	return 0, math.Max(g.sMax-discountedStrike, 0)
}
