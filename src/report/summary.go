// Package report compares model prices against quoted mids and renders batch results.
package report

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"github.com/jiaming2012/gridpricer/src/models"
)

// SideSummary holds the error statistics of model price minus quoted mid for one side.
type SideSummary struct {
	Side           models.OptionType `json:"side"`
	Count          int               `json:"count"`
	MeanError      float64           `json:"mean_error"`
	StdDevError    float64           `json:"std_dev_error"`
	MeanAbsError   float64           `json:"mean_abs_error"`
	MedianAbsError float64           `json:"median_abs_error"`
	P95AbsError    float64           `json:"p95_abs_error"`
}

type Summary struct {
	Priced  int         `json:"priced"`
	Skipped int         `json:"skipped"`
	Call    SideSummary `json:"call"`
	Put     SideSummary `json:"put"`
}

// Summarize computes error statistics per side. Rows without a quoted mid are left out.
func Summarize(result *models.BatchResult) (Summary, error) {
	if result == nil {
		return Summary{}, fmt.Errorf("Summarize: nil batch result")
	}

	summary := Summary{
		Priced:  len(result.Priced),
		Skipped: len(result.Skipped),
	}

	var err error
	if summary.Call, err = summarizeSide(result.Priced, models.Call); err != nil {
		return Summary{}, fmt.Errorf("Summarize: call: %w", err)
	}

	if summary.Put, err = summarizeSide(result.Priced, models.Put); err != nil {
		return Summary{}, fmt.Errorf("Summarize: put: %w", err)
	}

	return summary, nil
}

func summarizeSide(priced []models.PricedRecord, side models.OptionType) (SideSummary, error) {
	out := SideSummary{Side: side}

	var errs, absErrs []float64
	for _, p := range priced {
		if p.Record == nil {
			continue
		}

		mid := p.Record.Side(side).Mid
		if mid == 0 {
			continue
		}

		e := p.Result.Price(side) - mid
		errs = append(errs, e)
		absErrs = append(absErrs, math.Abs(e))
	}

	out.Count = len(errs)
	if out.Count == 0 {
		return out, nil
	}

	var err error
	if out.MeanError, err = stats.Mean(errs); err != nil {
		return out, fmt.Errorf("failed to calculate mean: %w", err)
	}

	if out.StdDevError, err = stats.StandardDeviation(errs); err != nil {
		return out, fmt.Errorf("failed to calculate the standard deviation: %w", err)
	}

	if out.MeanAbsError, err = stats.Mean(absErrs); err != nil {
		return out, fmt.Errorf("failed to calculate mean absolute error: %w", err)
	}

	if out.MedianAbsError, err = stats.Median(absErrs); err != nil {
		return out, fmt.Errorf("failed to calculate median absolute error: %w", err)
	}

	if out.P95AbsError, err = stats.Percentile(absErrs, 95); err != nil {
		return out, fmt.Errorf("failed to calculate 95th percentile: %w", err)
	}

	return out, nil
}
