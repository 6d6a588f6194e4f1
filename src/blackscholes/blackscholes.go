// Package blackscholes is the closed-form European option price, used as the reference
// the grid prices are measured against.
package blackscholes

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/jiaming2012/gridpricer/src/models"
)

// Prices returns the call and put value of a European option on a non-dividend paying
// underlying s with strike k, t years to expiry, rate r and volatility sigma.
func Prices(s, k, t, r, sigma float64) (float64, float64) {
	discountedStrike := k * math.Exp(-r*math.Max(t, 0))

	// no diffusion left: the payoff is known at the forward
	if t <= 0 || sigma <= 0 || s <= 0 || k <= 0 {
		call := math.Max(s-discountedStrike, 0)
		put := math.Max(discountedStrike-s, 0)
		return call, put
	}

	sqrtT := math.Sqrt(t)
	d1 := (math.Log(s/k) + (r+0.5*sigma*sigma)*t) / (sigma * sqrtT)
	d2 := d1 - sigma*sqrtT

	call := s*normCdf(d1) - discountedStrike*normCdf(d2)
	put := discountedStrike*normCdf(-d2) - s*normCdf(-d1)

	return call, put
}

func Call(s, k, t, r, sigma float64) float64 {
	call, _ := Prices(s, k, t, r, sigma)
	return call
}

func Put(s, k, t, r, sigma float64) float64 {
	_, put := Prices(s, k, t, r, sigma)
	return put
}

// PriceRecord prices both sides of a record, each with its own quoted volatility.
func PriceRecord(rec *models.OptionRecord) (float64, float64) {
	t := rec.YearsToExpiry()
	call := Call(rec.Underlying, rec.Strike, t, rec.RiskFreeRate, rec.Call.IV)
	put := Put(rec.Underlying, rec.Strike, t, rec.RiskFreeRate, rec.Put.IV)
	return call, put
}

func normCdf(x float64) float64 {
	return distuv.UnitNormal.CDF(x)
}
