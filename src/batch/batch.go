// Package batch prices a set of option records concurrently and reports per-record failures
// alongside the successes.
package batch

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/jiaming2012/gridpricer/src/models"
)

const instrumentationName = "github.com/jiaming2012/gridpricer/src/batch"

// Pricer is the part of gridpricer.Pricer the batch driver needs.
type Pricer interface {
	ValidateParams(pSteps, tSteps int) error
	Price(rec *models.OptionRecord, pSteps, tSteps int) (models.PriceResult, error)
}

type Options struct {
	PriceSteps int
	TimeSteps  int
	Workers    int
}

type job struct {
	index  int
	record *models.OptionRecord
}

type outcome struct {
	result models.PriceResult
	err    error
	done   bool
}

type instruments struct {
	priced   metric.Int64Counter
	skipped  metric.Int64Counter
	duration metric.Float64Histogram
}

var (
	metricsOnce sync.Once
	metrics     instruments
)

// batchMetrics creates the instruments on first use. The global meter provider delegates
// to whatever provider telemetry installs later.
func batchMetrics() instruments {
	metricsOnce.Do(func() {
		metrics = newInstruments()
	})

	return metrics
}

func newInstruments() instruments {
	meter := otel.Meter(instrumentationName)

	priced, err := meter.Int64Counter("gridpricer.batch.priced", metric.WithDescription("records priced"))
	if err != nil {
		log.Warnf("batch: failed to create priced counter: %v", err)
	}

	skipped, err := meter.Int64Counter("gridpricer.batch.skipped", metric.WithDescription("records skipped"))
	if err != nil {
		log.Warnf("batch: failed to create skipped counter: %v", err)
	}

	duration, err := meter.Float64Histogram("gridpricer.batch.duration", metric.WithUnit("s"))
	if err != nil {
		log.Warnf("batch: failed to create duration histogram: %v", err)
	}

	return instruments{priced: priced, skipped: skipped, duration: duration}
}

// Run prices every record with the same grid resolution. Grid parameters are checked before
// any record is touched. A record that fails is reported in Skipped and the run continues.
// If ctx is cancelled, records not yet started are skipped with the context error and the
// partial result is returned together with ctx.Err().
func Run(ctx context.Context, pricer Pricer, records []*models.OptionRecord, opts Options) (*models.BatchResult, error) {
	if err := pricer.ValidateParams(opts.PriceSteps, opts.TimeSteps); err != nil {
		return nil, fmt.Errorf("batch.Run: %w", err)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	if workers > len(records) {
		workers = len(records)
	}

	runID := uuid.New()
	start := time.Now()

	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "batch.Run", trace.WithAttributes(
		attribute.String("run_id", runID.String()),
		attribute.Int("records", len(records)),
		attribute.Int("p_steps", opts.PriceSteps),
		attribute.Int("t_steps", opts.TimeSteps),
		attribute.Int("workers", workers),
	))
	defer span.End()

	log.WithContext(ctx).WithFields(log.Fields{
		"run_id":  runID,
		"records": len(records),
		"p_steps": opts.PriceSteps,
		"t_steps": opts.TimeSteps,
		"workers": workers,
	}).Info("batch started")

	outcomes := make([]outcome, len(records))
	jobs := make(chan job)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for j := range jobs {
				res, err := pricer.Price(j.record, opts.PriceSteps, opts.TimeSteps)
				outcomes[j.index] = outcome{result: res, err: err, done: true}
			}
		}()
	}

dispatch:
	for i, rec := range records {
		if ctx.Err() != nil {
			break
		}

		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- job{index: i, record: rec}:
		}
	}

	close(jobs)
	wg.Wait()

	result := &models.BatchResult{
		RunID:      runID,
		PriceSteps: opts.PriceSteps,
		TimeSteps:  opts.TimeSteps,
		Priced:     make([]models.PricedRecord, 0, len(records)),
		Skipped:    make([]models.SkippedRecord, 0),
	}

	for i, o := range outcomes {
		err := o.err
		if !o.done {
			err = ctx.Err()
		}

		if err != nil {
			result.Skipped = append(result.Skipped, models.SkippedRecord{Index: i, Reason: err.Error(), Err: err})

			log.WithContext(ctx).WithFields(log.Fields{
				"run_id": runID,
				"index":  i,
			}).Warnf("record skipped: %v", err)

			continue
		}

		result.Priced = append(result.Priced, models.PricedRecord{Index: i, Record: records[i], Result: o.result})
	}

	result.Elapsed = time.Since(start)

	inst := batchMetrics()
	attrs := metric.WithAttributes(attribute.Int("p_steps", opts.PriceSteps), attribute.Int("t_steps", opts.TimeSteps))
	if inst.priced != nil {
		inst.priced.Add(ctx, int64(len(result.Priced)), attrs)
	}

	if inst.skipped != nil {
		inst.skipped.Add(ctx, int64(len(result.Skipped)), attrs)
	}

	if inst.duration != nil {
		inst.duration.Record(ctx, result.Elapsed.Seconds(), attrs)
	}

	span.SetAttributes(
		attribute.Int("priced", len(result.Priced)),
		attribute.Int("skipped", len(result.Skipped)),
	)

	log.WithContext(ctx).WithFields(log.Fields{
		"run_id":  runID,
		"priced":  len(result.Priced),
		"skipped": len(result.Skipped),
		"elapsed": result.Elapsed,
	}).Info("batch finished")

	if cancelled := countCancelled(outcomes); cancelled > 0 {
		err := ctx.Err()
		span.SetStatus(codes.Error, err.Error())
		return result, fmt.Errorf("batch.Run: cancelled with %d of %d records not started: %w", cancelled, len(records), err)
	}

	return result, nil
}

func countCancelled(outcomes []outcome) int {
	n := 0
	for _, o := range outcomes {
		if !o.done {
			n++
		}
	}

	return n
}
