package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jiaming2012/gridpricer/src/cmd/gridpricer/run"
	"github.com/jiaming2012/gridpricer/src/config"
	"github.com/jiaming2012/gridpricer/src/gridpricer"
	"github.com/jiaming2012/gridpricer/src/utils"
)

var rootCmd = &cobra.Command{
	Use:   "gridpricer",
	Short: "Price european options by solving the Black-Scholes PDE on a finite difference grid",
}

// setup loads the config and applies the grid flags the user set explicitly.
func setup(ctx context.Context, cmd *cobra.Command) (config.Config, func(context.Context) error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		log.Fatalf("error getting config: %v", err)
	}

	envFile, err := cmd.Flags().GetString("env-file")
	if err != nil {
		log.Fatalf("error getting env-file: %v", err)
	}

	cfg, shutdown, err := run.Setup(ctx, configPath, envFile)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	flags := cmd.Flags()
	if flags.Lookup("p-steps") != nil && flags.Changed("p-steps") {
		if cfg.PriceSteps, err = flags.GetInt("p-steps"); err != nil {
			log.Fatalf("error getting p-steps: %v", err)
		}
	}

	if flags.Lookup("t-steps") != nil && flags.Changed("t-steps") {
		if cfg.TimeSteps, err = flags.GetInt("t-steps"); err != nil {
			log.Fatalf("error getting t-steps: %v", err)
		}
	}

	if flags.Lookup("scheme") != nil && flags.Changed("scheme") {
		scheme, err := flags.GetString("scheme")
		if err != nil {
			log.Fatalf("error getting scheme: %v", err)
		}

		cfg.Grid.Scheme = gridpricer.Scheme(scheme)
	}

	if flags.Lookup("workers") != nil && flags.Changed("workers") {
		if cfg.Batch.Workers, err = flags.GetInt("workers"); err != nil {
			log.Fatalf("error getting workers: %v", err)
		}
	}

	if flags.Lookup("port") != nil && flags.Changed("port") {
		if cfg.Server.Port, err = flags.GetString("port"); err != nil {
			log.Fatalf("error getting port: %v", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Error: %v", err)
	}

	return cfg, shutdown
}

func shutdownTelemetry(shutdown func(context.Context) error) {
	if err := shutdown(context.Background()); err != nil {
		log.Errorf("failed to shutdown telemetry: %v", err)
	}
}

var priceCmd = &cobra.Command{
	Use:   "price --file data/nvda_data.csv",
	Short: "Price every option quote in a csv file",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		cfg, shutdown := setup(ctx, cmd)
		defer shutdownTelemetry(shutdown)

		inFile, err := cmd.Flags().GetString("file")
		if err != nil {
			log.Fatalf("error getting file: %v", err)
		}

		outDir, err := cmd.Flags().GetString("out")
		if err != nil {
			log.Fatalf("error getting out: %v", err)
		}

		limit, err := cmd.Flags().GetInt("limit")
		if err != nil {
			log.Fatalf("error getting limit: %v", err)
		}

		if _, err := run.Price(ctx, cfg, run.PriceArgs{InFile: inFile, OutDir: outDir, Limit: limit}, os.Stdout); err != nil {
			log.Fatalf("Error: %v", err)
		}
	},
}

func quoteArgs(cmd *cobra.Command) run.QuoteArgs {
	get := func(name string) float64 {
		v, err := cmd.Flags().GetFloat64(name)
		if err != nil {
			log.Fatalf("error getting %s: %v", name, err)
		}
		return v
	}

	return run.QuoteArgs{
		Underlying:   get("underlying"),
		Strike:       get("strike"),
		DTE:          get("dte"),
		IV:           get("iv"),
		RiskFreeRate: get("rfr"),
	}
}

var quoteCmd = &cobra.Command{
	Use:   "quote --underlying 100 --strike 100 --dte 30 --iv 0.25 --rfr 0.05",
	Short: "Price a single option and compare it with the closed form",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, shutdown := setup(context.Background(), cmd)
		defer shutdownTelemetry(shutdown)

		if _, err := run.Quote(cfg, quoteArgs(cmd), os.Stdout); err != nil {
			log.Fatalf("Error: %v", err)
		}
	},
}

var convergeCmd = &cobra.Command{
	Use:   "converge --underlying 100 --strike 100 --dte 30 --iv 0.25 --rfr 0.05 --steps 50,100,200,400",
	Short: "Show how the grid price approaches the closed form as the grid is refined",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, shutdown := setup(context.Background(), cmd)
		defer shutdownTelemetry(shutdown)

		stepsStr, err := cmd.Flags().GetString("steps")
		if err != nil {
			log.Fatalf("error getting steps: %v", err)
		}

		steps, err := utils.ParseSteps(stepsStr)
		if err != nil {
			log.Fatalf("Error: %v", err)
		}

		ratio, err := cmd.Flags().GetInt("time-ratio")
		if err != nil {
			log.Fatalf("error getting time-ratio: %v", err)
		}

		if _, err := run.Converge(cfg, run.ConvergeArgs{Quote: quoteArgs(cmd), PriceSteps: steps, TimeRatio: ratio}, os.Stdout); err != nil {
			log.Fatalf("Error: %v", err)
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve --port 8080",
	Short: "Serve the pricing api over http",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		cfg, shutdown := setup(ctx, cmd)

		err := run.Serve(ctx, cfg)
		err = errors.Join(err, shutdown(context.Background()))
		if err != nil {
			log.Fatalf("Error: %v", err)
		}
	},
}

func addQuoteFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("underlying", 0, "Price of the underlying.")
	cmd.Flags().Float64("strike", 0, "Strike price.")
	cmd.Flags().Float64("dte", 0, "Calendar days to expiry.")
	cmd.Flags().Float64("iv", 0, "Implied volatility, annualized.")
	cmd.Flags().Float64("rfr", 0, "Risk free rate, annualized.")
	cmd.MarkFlagRequired("underlying")
	cmd.MarkFlagRequired("strike")
	cmd.MarkFlagRequired("dte")
	cmd.MarkFlagRequired("iv")
}

func addGridFlags(cmd *cobra.Command) {
	cmd.Flags().Int("p-steps", gridpricer.DefaultPriceSteps, "Price steps between zero and the underlying.")
	cmd.Flags().Int("t-steps", gridpricer.DefaultTimeSteps, "Time steps between now and expiry.")
	cmd.Flags().String("scheme", string(gridpricer.CrankNicolson), "Finite difference scheme: explicit, implicit or crank-nicolson.")
}

func main() {
	rootCmd.PersistentFlags().String("config", "", "Path to a gridpricer yaml config.")
	rootCmd.PersistentFlags().String("env-file", "", "Path to a .env file.")

	priceCmd.Flags().String("file", "", "The csv file of option quotes.")
	priceCmd.Flags().String("out", "", "The directory to write priced records to.")
	priceCmd.Flags().Int("limit", 5, "Number of priced records to print, 0 for all.")
	priceCmd.Flags().Int("workers", 0, "Number of pricing goroutines, 0 for one per cpu.")
	priceCmd.MarkFlagRequired("file")
	addGridFlags(priceCmd)

	addQuoteFlags(quoteCmd)
	addGridFlags(quoteCmd)

	addQuoteFlags(convergeCmd)
	convergeCmd.Flags().String("scheme", string(gridpricer.CrankNicolson), "Finite difference scheme: explicit, implicit or crank-nicolson.")
	convergeCmd.Flags().String("steps", "50,100,200,400", "Comma separated price step counts.")
	convergeCmd.Flags().Int("time-ratio", 10, "Time steps per price step.")

	serveCmd.Flags().String("port", "8080", "The port to listen on.")

	rootCmd.AddCommand(priceCmd, quoteCmd, convergeCmd, serveCmd)

	cobra.CheckErr(rootCmd.Execute())
}
