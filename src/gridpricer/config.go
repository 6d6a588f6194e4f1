package gridpricer

import (
	"fmt"

	"github.com/jiaming2012/gridpricer/src/models"
)

type Scheme string

const (
	Explicit      Scheme = "explicit"
	Implicit      Scheme = "implicit"
	CrankNicolson Scheme = "crank-nicolson"
)

func (s Scheme) Validate() error {
	if s != Explicit && s != Implicit && s != CrankNicolson {
		return fmt.Errorf("%w: unknown finite difference scheme %q", models.InvalidGridParametersErr, s)
	}

	return nil
}

// theta is the implicitness weight of the scheme: 0 explicit, 1 fully implicit.
func (s Scheme) theta() float64 {
	switch s {
	case Explicit:
		return 0
	case CrankNicolson:
		return 0.5
	default:
		return 1
	}
}

// VolSource selects which quoted implied volatility drives each side's PDE.
type VolSource string

const (
	VolSourceSide VolSource = "side"
	VolSourceCall VolSource = "call"
	VolSourcePut  VolSource = "put"
	VolSourceMean VolSource = "mean"
)

func (v VolSource) Validate() error {
	switch v {
	case VolSourceSide, VolSourceCall, VolSourcePut, VolSourceMean:
		return nil
	}

	return fmt.Errorf("%w: unknown volatility source %q", models.InvalidGridParametersErr, v)
}

func (v VolSource) volatility(rec *models.OptionRecord, side models.OptionType) float64 {
	switch v {
	case VolSourceCall:
		return rec.Call.IV
	case VolSourcePut:
		return rec.Put.IV
	case VolSourceMean:
		return 0.5 * (rec.Call.IV + rec.Put.IV)
	default:
		return rec.Side(side).IV
	}
}

const (
	DefaultPriceSteps       = 1000
	DefaultTimeSteps        = 10000
	DefaultFarFieldMultiple = 3
	DefaultRannacherSteps   = 2
	DefaultMaxGridCells     = 50_000_000
)

type Config struct {
	Scheme           Scheme    `yaml:"scheme"`
	FarFieldMultiple int       `yaml:"far_field_multiple"`
	VolSource        VolSource `yaml:"vol_source"`
	RannacherSteps   int       `yaml:"rannacher_steps"`
	MaxGridCells     int       `yaml:"max_grid_cells"`
}

func DefaultConfig() Config {
	return Config{
		Scheme:           CrankNicolson,
		FarFieldMultiple: DefaultFarFieldMultiple,
		VolSource:        VolSourceSide,
		RannacherSteps:   DefaultRannacherSteps,
		MaxGridCells:     DefaultMaxGridCells,
	}
}

// WithDefaults fills unset fields. RannacherSteps is left alone since zero is meaningful.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.Scheme == "" {
		c.Scheme = d.Scheme
	}

	if c.FarFieldMultiple == 0 {
		c.FarFieldMultiple = d.FarFieldMultiple
	}

	if c.VolSource == "" {
		c.VolSource = d.VolSource
	}

	if c.MaxGridCells == 0 {
		c.MaxGridCells = d.MaxGridCells
	}

	return c
}

func (c Config) Validate() error {
	if err := c.Scheme.Validate(); err != nil {
		return err
	}

	if err := c.VolSource.Validate(); err != nil {
		return err
	}

	if c.FarFieldMultiple < 1 {
		return fmt.Errorf("%w: far field multiple must be at least 1, found %d", models.InvalidGridParametersErr, c.FarFieldMultiple)
	}

	if c.RannacherSteps < 0 {
		return fmt.Errorf("%w: rannacher steps must be non-negative, found %d", models.InvalidGridParametersErr, c.RannacherSteps)
	}

	if c.MaxGridCells <= 0 {
		return fmt.Errorf("%w: max grid cells must be positive, found %d", models.InvalidGridParametersErr, c.MaxGridCells)
	}

	return nil
}
