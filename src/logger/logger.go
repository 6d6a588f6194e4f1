package logger

import (
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/uptrace/opentelemetry-go-extra/otellogrus"

	"github.com/jiaming2012/gridpricer/src/config"
)

// Setup configures the package level logrus logger. When traced is set, warnings and
// errors logged with a span context are recorded on that span.
func Setup(cfg config.LogConfig, out io.Writer, traced bool) error {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("logger.Setup: %w", err)
	}

	if out == nil {
		out = os.Stdout
	}

	log.SetOutput(out)
	log.SetLevel(level)

	switch cfg.Format {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	case "text", "":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("logger.Setup: unknown log format %q", cfg.Format)
	}

	if traced {
		log.AddHook(otellogrus.NewHook(otellogrus.WithLevels(
			log.PanicLevel,
			log.FatalLevel,
			log.ErrorLevel,
			log.WarnLevel,
		)))
	}

	return nil
}
