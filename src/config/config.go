// Package config loads the gridpricer settings from a yaml file and the environment.
package config

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/jiaming2012/gridpricer/src/gridpricer"
	"github.com/jiaming2012/gridpricer/src/models"
	"github.com/jiaming2012/gridpricer/src/utils"
)

type BatchConfig struct {
	Workers int `yaml:"workers"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
}

type ServerConfig struct {
	Port          string `yaml:"port"`
	MaxPriceSteps int    `yaml:"max_p_steps"`
	MaxTimeSteps  int    `yaml:"max_t_steps"`
}

type Config struct {
	Grid       gridpricer.Config `yaml:"grid"`
	PriceSteps int               `yaml:"p_steps"`
	TimeSteps  int               `yaml:"t_steps"`
	Batch      BatchConfig       `yaml:"batch"`
	Log        LogConfig         `yaml:"log"`
	Telemetry  TelemetryConfig   `yaml:"telemetry"`
	Server     ServerConfig      `yaml:"server"`
}

func Default() Config {
	return Config{
		Grid:       gridpricer.DefaultConfig(),
		PriceSteps: gridpricer.DefaultPriceSteps,
		TimeSteps:  gridpricer.DefaultTimeSteps,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Telemetry: TelemetryConfig{
			ServiceName: "gridpricer",
		},
		Server: ServerConfig{
			Port:          "8080",
			MaxPriceSteps: 5000,
			MaxTimeSteps:  50000,
		},
	}
}

// Load starts from Default, overlays the yaml file at path (if any), then the
// GRIDPRICER_* environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}

		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
		}

		log.Debugf("loaded config from %s", path)
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}

	cfg.Grid = cfg.Grid.WithDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	var err error

	if c.PriceSteps, err = utils.GetEnvInt("GRIDPRICER_P_STEPS", c.PriceSteps); err != nil {
		return err
	}

	if c.TimeSteps, err = utils.GetEnvInt("GRIDPRICER_T_STEPS", c.TimeSteps); err != nil {
		return err
	}

	if c.Batch.Workers, err = utils.GetEnvInt("GRIDPRICER_WORKERS", c.Batch.Workers); err != nil {
		return err
	}

	if c.Grid.FarFieldMultiple, err = utils.GetEnvInt("GRIDPRICER_FAR_FIELD_MULTIPLE", c.Grid.FarFieldMultiple); err != nil {
		return err
	}

	if c.Server.MaxPriceSteps, err = utils.GetEnvInt("GRIDPRICER_MAX_P_STEPS", c.Server.MaxPriceSteps); err != nil {
		return err
	}

	if c.Server.MaxTimeSteps, err = utils.GetEnvInt("GRIDPRICER_MAX_T_STEPS", c.Server.MaxTimeSteps); err != nil {
		return err
	}

	if c.Telemetry.Enabled, err = utils.GetEnvBool("GRIDPRICER_TELEMETRY_ENABLED", c.Telemetry.Enabled); err != nil {
		return err
	}

	c.Grid.Scheme = gridpricer.Scheme(utils.GetEnv("GRIDPRICER_SCHEME", string(c.Grid.Scheme)))
	c.Grid.VolSource = gridpricer.VolSource(utils.GetEnv("GRIDPRICER_VOL_SOURCE", string(c.Grid.VolSource)))
	c.Log.Level = utils.GetEnv("GRIDPRICER_LOG_LEVEL", c.Log.Level)
	c.Log.Format = utils.GetEnv("GRIDPRICER_LOG_FORMAT", c.Log.Format)
	c.Telemetry.ServiceName = utils.GetEnv("GRIDPRICER_SERVICE_NAME", c.Telemetry.ServiceName)
	c.Server.Port = utils.GetEnv("GRIDPRICER_PORT", c.Server.Port)

	return nil
}

func (c Config) Validate() error {
	if c.PriceSteps <= 0 || c.TimeSteps <= 0 {
		return fmt.Errorf("%w: p_steps and t_steps must be positive, found %d and %d", models.InvalidGridParametersErr, c.PriceSteps, c.TimeSteps)
	}

	if c.Server.MaxPriceSteps <= 0 || c.Server.MaxTimeSteps <= 0 {
		return fmt.Errorf("%w: server max_p_steps and max_t_steps must be positive, found %d and %d", models.InvalidGridParametersErr, c.Server.MaxPriceSteps, c.Server.MaxTimeSteps)
	}

	if err := c.Grid.Validate(); err != nil {
		return err
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("invalid log format %q: expected text or json", c.Log.Format)
	}

	return nil
}
