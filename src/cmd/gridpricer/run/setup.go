package run

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/gridpricer/src/config"
	"github.com/jiaming2012/gridpricer/src/logger"
	"github.com/jiaming2012/gridpricer/src/telemetry"
	"github.com/jiaming2012/gridpricer/src/utils"
)

// Setup loads the environment file and config, configures logging, and starts telemetry when
// enabled. The returned shutdown func is never nil.
func Setup(ctx context.Context, configPath, envFile string) (config.Config, func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }

	if err := utils.InitEnvironmentVariables(envFile); err != nil {
		return config.Config{}, noop, fmt.Errorf("failed to init environment variables: %w", err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, noop, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Setup(cfg.Log, nil, cfg.Telemetry.Enabled); err != nil {
		return config.Config{}, noop, err
	}

	if !cfg.Telemetry.Enabled {
		return cfg, noop, nil
	}

	shutdown, err := telemetry.SetupOTelSDK(ctx, cfg.Telemetry.ServiceName)
	if err != nil {
		return config.Config{}, noop, fmt.Errorf("failed to setup otel sdk: %w", err)
	}

	log.Infof("telemetry enabled for service %s", cfg.Telemetry.ServiceName)

	return cfg, shutdown, nil
}
