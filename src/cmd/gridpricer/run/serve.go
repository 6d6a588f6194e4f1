package run

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/gridpricer/src/api"
	"github.com/jiaming2012/gridpricer/src/config"
	"github.com/jiaming2012/gridpricer/src/gridpricer"
)

// Serve runs the pricing api until ctx is done.
func Serve(ctx context.Context, cfg config.Config) error {
	pricer, err := gridpricer.NewPricer(cfg.Grid)
	if err != nil {
		return err
	}

	handler, err := api.NewHTTPHandler(pricer, api.Options{
		PriceSteps:    cfg.PriceSteps,
		TimeSteps:     cfg.TimeSteps,
		Workers:       cfg.Batch.Workers,
		MaxPriceSteps: cfg.Server.MaxPriceSteps,
		MaxTimeSteps:  cfg.Server.MaxTimeSteps,
	})
	if err != nil {
		return err
	}

	listener, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.Server.Port))
	if err != nil {
		return fmt.Errorf("Serve: failed to listen: %w", err)
	}

	srv := &http.Server{
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      2 * time.Minute,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", listener.Addr())
		srvErr <- srv.Serve(listener)
	}()

	select {
	case err := <-srvErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("Serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("Serve: failed to shutdown: %w", err)
	}

	log.Info("server stopped")

	return nil
}
