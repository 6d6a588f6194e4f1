package models

import (
	"fmt"
	"math"
	"time"
)

const DaysPerYear = 365.0

// OptionRecord is one quoted strike of an option chain at a point in time.
type OptionRecord struct {
	Time         float64    `json:"time"`
	Underlying   float64    `json:"underlying"`
	ExpireTime   float64    `json:"expire_time"`
	DTE          float64    `json:"dte"`
	Strike       float64    `json:"strike"`
	Call         OptionSide `json:"call"`
	Put          OptionSide `json:"put"`
	RiskFreeRate float64    `json:"rfr"`
}

func (r *OptionRecord) Side(optionType OptionType) OptionSide {
	if optionType == Put {
		return r.Put
	}

	return r.Call
}

// YearsToExpiry uses the calendar-day convention.
func (r *OptionRecord) YearsToExpiry() float64 {
	return r.DTE / DaysPerYear
}

func (r *OptionRecord) QuoteTime() time.Time {
	return time.Unix(int64(r.Time), 0).UTC()
}

func (r *OptionRecord) ExpiresAt() time.Time {
	return time.Unix(int64(r.ExpireTime), 0).UTC()
}

func (r *OptionRecord) Validate() error {
	checks := []struct {
		name  string
		value float64
	}{
		{"underlying", r.Underlying},
		{"strike", r.Strike},
		{"dte", r.DTE},
		{"call iv", r.Call.IV},
		{"put iv", r.Put.IV},
	}

	for _, c := range checks {
		if math.IsNaN(c.value) || math.IsInf(c.value, 0) {
			return fmt.Errorf("%w: %s is not finite", InvalidRecordErr, c.name)
		}

		if c.value < 0 {
			return fmt.Errorf("%w: %s must be non-negative, found %v", InvalidRecordErr, c.name, c.value)
		}
	}

	if r.DTE == 0 {
		return fmt.Errorf("%w: dte must be positive", InvalidRecordErr)
	}

	if math.IsNaN(r.RiskFreeRate) || math.IsInf(r.RiskFreeRate, 0) {
		return fmt.Errorf("%w: risk free rate is not finite", InvalidRecordErr)
	}

	return nil
}
