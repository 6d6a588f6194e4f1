package run

import (
	"context"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/gridpricer/src/batch"
	"github.com/jiaming2012/gridpricer/src/config"
	"github.com/jiaming2012/gridpricer/src/gridpricer"
	"github.com/jiaming2012/gridpricer/src/models"
	"github.com/jiaming2012/gridpricer/src/recordloader"
	"github.com/jiaming2012/gridpricer/src/report"
)

type PriceArgs struct {
	InFile string
	OutDir string
	Limit  int
}

type PriceResults struct {
	Batch   *models.BatchResult
	Summary report.Summary
	OutFile string
}

// Price loads every quote in args.InFile, prices it, and writes the table and error summary to w.
func Price(ctx context.Context, cfg config.Config, args PriceArgs, w io.Writer) (PriceResults, error) {
	pricer, err := gridpricer.NewPricer(cfg.Grid)
	if err != nil {
		return PriceResults{}, err
	}

	if err := pricer.ValidateParams(cfg.PriceSteps, cfg.TimeSteps); err != nil {
		return PriceResults{}, err
	}

	records, err := recordloader.LoadFile(args.InFile)
	if err != nil {
		return PriceResults{}, err
	}

	result, err := batch.Run(ctx, pricer, records, batch.Options{
		PriceSteps: cfg.PriceSteps,
		TimeSteps:  cfg.TimeSteps,
		Workers:    cfg.Batch.Workers,
	})
	if err != nil {
		return PriceResults{}, err
	}

	summary, err := report.Summarize(result)
	if err != nil {
		return PriceResults{}, err
	}

	fmt.Fprintf(w, "Run %s: %d x %d grid, scheme %s\n", result.RunID, cfg.PriceSteps, cfg.TimeSteps, cfg.Grid.Scheme)
	report.RenderTable(w, result, args.Limit)
	report.RenderSummary(w, summary)

	results := PriceResults{Batch: result, Summary: summary}

	if args.OutDir != "" {
		outFile, err := report.ExportToCsv(args.OutDir, result, "grid_prices")
		if err != nil {
			return PriceResults{}, err
		}

		log.Infof("exported %d priced records to %s", len(result.Priced), outFile)
		results.OutFile = outFile
	}

	return results, nil
}
