// Package api serves the grid pricer over http.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jiaming2012/gridpricer/src/batch"
	"github.com/jiaming2012/gridpricer/src/blackscholes"
	"github.com/jiaming2012/gridpricer/src/gridpricer"
	"github.com/jiaming2012/gridpricer/src/models"
	"github.com/jiaming2012/gridpricer/src/report"
)

const (
	DefaultMaxPriceSteps = 5000
	DefaultMaxTimeSteps  = 50000
)

// Options hold the step counts used when a request leaves them out, and the
// largest step counts a request may ask for.
type Options struct {
	PriceSteps    int
	TimeSteps     int
	Workers       int
	MaxPriceSteps int
	MaxTimeSteps  int
}

func (o Options) withDefaults() Options {
	if o.MaxPriceSteps <= 0 {
		o.MaxPriceSteps = DefaultMaxPriceSteps
	}

	if o.MaxTimeSteps <= 0 {
		o.MaxTimeSteps = DefaultMaxTimeSteps
	}

	return o
}

type handler struct {
	pricer  *gridpricer.Pricer
	opts    Options
	decoder *schema.Decoder
}

func (h *handler) steps(pSteps, tSteps int) (int, int, error) {
	if pSteps == 0 {
		pSteps = h.opts.PriceSteps
	}

	if tSteps == 0 {
		tSteps = h.opts.TimeSteps
	}

	if pSteps > h.opts.MaxPriceSteps {
		return 0, 0, fmt.Errorf("%w: p_steps must be at most %d, found %d", models.InvalidGridParametersErr, h.opts.MaxPriceSteps, pSteps)
	}

	if tSteps > h.opts.MaxTimeSteps {
		return 0, 0, fmt.Errorf("%w: t_steps must be at most %d, found %d", models.InvalidGridParametersErr, h.opts.MaxTimeSteps, tSteps)
	}

	return pSteps, tSteps, nil
}

func (h *handler) price(w http.ResponseWriter, r *http.Request) {
	req := new(PriceRequestDTO)
	if err := h.decoder.Decode(req, r.URL.Query()); err != nil {
		if respErr := SetErrorResponse("decode", http.StatusBadRequest, err, w); respErr != nil {
			log.Errorf("price: failed to set error response: %v", respErr)
		}
		return
	}

	pSteps, tSteps, err := h.steps(req.PriceSteps, req.TimeSteps)
	if err != nil {
		errType, status := statusFor(err)
		if respErr := SetErrorResponse(errType, status, err, w); respErr != nil {
			log.Errorf("price: failed to set error response: %v", respErr)
		}
		return
	}

	rec := req.ToModel()

	result, err := h.pricer.Price(rec, pSteps, tSteps)
	if err != nil {
		errType, status := statusFor(err)
		if respErr := SetErrorResponse(errType, status, err, w); respErr != nil {
			log.Errorf("price: failed to set error response: %v", respErr)
		}
		return
	}

	call, put := blackscholes.PriceRecord(rec)
	resp := &PriceResponseDTO{
		PriceSteps: pSteps,
		TimeSteps:  tSteps,
		Record:     rec,
		Result:     result,
		ClosedForm: ClosedFormDTO{CallPrice: call, PutPrice: put},
	}

	if err := SetResponse(resp, w); err != nil {
		log.Errorf("price: failed to set response: %v", err)
	}
}

func (h *handler) priceBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if respErr := SetErrorResponse("decode", http.StatusBadRequest, err, w); respErr != nil {
			log.Errorf("priceBatch: failed to set error response: %v", respErr)
		}
		return
	}

	pSteps, tSteps, err := h.steps(req.PriceSteps, req.TimeSteps)
	if err != nil {
		errType, status := statusFor(err)
		if respErr := SetErrorResponse(errType, status, err, w); respErr != nil {
			log.Errorf("priceBatch: failed to set error response: %v", respErr)
		}
		return
	}

	workers := req.Workers
	if workers == 0 {
		workers = h.opts.Workers
	}

	result, err := batch.Run(r.Context(), h.pricer, req.Records, batch.Options{
		PriceSteps: pSteps,
		TimeSteps:  tSteps,
		Workers:    workers,
	})
	if err != nil {
		errType, status := statusFor(err)
		if respErr := SetErrorResponse(errType, status, err, w); respErr != nil {
			log.Errorf("priceBatch: failed to set error response: %v", respErr)
		}
		return
	}

	summary, err := report.Summarize(result)
	if err != nil {
		if respErr := SetErrorResponse("summary", http.StatusInternalServerError, err, w); respErr != nil {
			log.Errorf("priceBatch: failed to set error response: %v", respErr)
		}
		return
	}

	if err := SetResponse(&BatchResponseDTO{Result: result, Summary: summary}, w); err != nil {
		log.Errorf("priceBatch: failed to set response: %v", err)
	}
}

func healthz(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"status": "ok"}
	if err := SetResponse(&resp, w); err != nil {
		log.Errorf("healthz: failed to set response: %v", err)
	}
}

// SetupHandler registers the pricing routes on router.
func SetupHandler(router *mux.Router, pricer *gridpricer.Pricer, opts Options) error {
	if pricer == nil {
		return fmt.Errorf("SetupHandler: pricer is nil")
	}

	if opts.PriceSteps <= 0 || opts.TimeSteps <= 0 {
		return fmt.Errorf("SetupHandler: default steps must be positive, found %d and %d", opts.PriceSteps, opts.TimeSteps)
	}

	opts = opts.withDefaults()
	if opts.PriceSteps > opts.MaxPriceSteps || opts.TimeSteps > opts.MaxTimeSteps {
		return fmt.Errorf("SetupHandler: default steps %d and %d exceed the limits %d and %d", opts.PriceSteps, opts.TimeSteps, opts.MaxPriceSteps, opts.MaxTimeSteps)
	}

	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)

	h := &handler{pricer: pricer, opts: opts, decoder: decoder}

	// handleFunc enriches the handler's http instrumentation with the route pattern.
	handleFunc := func(pattern string, handlerFunc func(http.ResponseWriter, *http.Request)) *mux.Route {
		return router.Handle(pattern, otelhttp.WithRouteTag(pattern, http.HandlerFunc(handlerFunc)))
	}

	handleFunc("/price", h.price).Methods(http.MethodGet)
	handleFunc("/price/batch", h.priceBatch).Methods(http.MethodPost)
	handleFunc("/healthz", healthz).Methods(http.MethodGet)

	return nil
}

// NewHTTPHandler builds the instrumented root handler.
func NewHTTPHandler(pricer *gridpricer.Pricer, opts Options) (http.Handler, error) {
	router := mux.NewRouter()
	if err := SetupHandler(router, pricer, opts); err != nil {
		return nil, err
	}

	return otelhttp.NewHandler(router, "/"), nil
}
