package run

import (
	"fmt"
	"io"
	"math"

	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jiaming2012/gridpricer/src/blackscholes"
	"github.com/jiaming2012/gridpricer/src/config"
	"github.com/jiaming2012/gridpricer/src/gridpricer"
	"github.com/jiaming2012/gridpricer/src/models"
)

type QuoteArgs struct {
	Underlying   float64
	Strike       float64
	DTE          float64
	IV           float64
	RiskFreeRate float64
}

func (a QuoteArgs) toRecord() *models.OptionRecord {
	return &models.OptionRecord{
		Underlying:   a.Underlying,
		Strike:       a.Strike,
		DTE:          a.DTE,
		Call:         models.OptionSide{IV: a.IV},
		Put:          models.OptionSide{IV: a.IV},
		RiskFreeRate: a.RiskFreeRate,
	}
}

// Quote prices a single option and prints it next to the closed form value.
func Quote(cfg config.Config, args QuoteArgs, w io.Writer) (models.PriceResult, error) {
	pricer, err := gridpricer.NewPricer(cfg.Grid)
	if err != nil {
		return models.PriceResult{}, err
	}

	rec := args.toRecord()
	result, err := pricer.Price(rec, cfg.PriceSteps, cfg.TimeSteps)
	if err != nil {
		return models.PriceResult{}, err
	}

	call, put := blackscholes.PriceRecord(rec)

	p := message.NewPrinter(language.English)
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Side", "Grid", "Closed Form", "Delta", "Gamma", "Theta"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetColumnSeparator("")

	table.Append([]string{"call", p.Sprintf("%.4f", result.CallPrice), p.Sprintf("%.4f", call),
		p.Sprintf("%.4f", result.Call.Delta), p.Sprintf("%.4f", result.Call.Gamma), p.Sprintf("%.4f", result.Call.Theta)})
	table.Append([]string{"put", p.Sprintf("%.4f", result.PutPrice), p.Sprintf("%.4f", put),
		p.Sprintf("%.4f", result.Put.Delta), p.Sprintf("%.4f", result.Put.Gamma), p.Sprintf("%.4f", result.Put.Theta)})

	table.Render()

	return result, nil
}

type ConvergeArgs struct {
	Quote      QuoteArgs
	PriceSteps []int
	TimeRatio  int
}

type ConvergeRow struct {
	PriceSteps int
	TimeSteps  int
	CallError  float64
	PutError   float64
}

// Converge reprices one option on successively finer grids, with TimeRatio time steps per
// price step, and reports the absolute error against the closed form at each resolution.
func Converge(cfg config.Config, args ConvergeArgs, w io.Writer) ([]ConvergeRow, error) {
	if args.TimeRatio <= 0 {
		return nil, fmt.Errorf("Converge: %w: time ratio must be positive, found %d", models.InvalidGridParametersErr, args.TimeRatio)
	}

	pricer, err := gridpricer.NewPricer(cfg.Grid)
	if err != nil {
		return nil, err
	}

	rec := args.Quote.toRecord()
	call, put := blackscholes.PriceRecord(rec)

	p := message.NewPrinter(language.English)
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"P Steps", "T Steps", "Call", "Call Err", "Put", "Put Err"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetColumnSeparator("")

	rows := make([]ConvergeRow, 0, len(args.PriceSteps))
	for _, pSteps := range args.PriceSteps {
		if pSteps > math.MaxInt/args.TimeRatio {
			return nil, fmt.Errorf("Converge: %w: %d price steps at time ratio %d overflow the time step count", models.InvalidGridParametersErr, pSteps, args.TimeRatio)
		}

		tSteps := pSteps * args.TimeRatio

		result, err := pricer.Price(rec, pSteps, tSteps)
		if err != nil {
			return nil, fmt.Errorf("Converge: %d x %d: %w", pSteps, tSteps, err)
		}

		row := ConvergeRow{
			PriceSteps: pSteps,
			TimeSteps:  tSteps,
			CallError:  math.Abs(result.CallPrice - call),
			PutError:   math.Abs(result.PutPrice - put),
		}
		rows = append(rows, row)

		table.Append([]string{p.Sprintf("%d", pSteps), p.Sprintf("%d", tSteps),
			p.Sprintf("%.6f", result.CallPrice), p.Sprintf("%.2e", row.CallError),
			p.Sprintf("%.6f", result.PutPrice), p.Sprintf("%.2e", row.PutError)})
	}

	table.Render()
	p.Fprintf(w, "closed form: call %.6f, put %.6f\n", call, put)

	return rows, nil
}
