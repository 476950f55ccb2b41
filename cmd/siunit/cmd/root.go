package cmd

import (
	"fmt"
	"os"

	"github.com/corey/siunit/internal/adapters/metrics"
	"github.com/corey/siunit/internal/app"
	"github.com/corey/siunit/internal/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	configPath  string
	logLevel    string
	showMetrics bool
)

// runtime holds everything built from the configuration for one invocation.
type runtime struct {
	cfg     *config.Config
	paths   *app.Paths
	logger  zerolog.Logger
	prom    *prometheus.Registry
	metrics *metrics.Collector
	holder  *app.RegistryHolder
	svc     *app.Service
}

var rt *runtime

var rootCmd = &cobra.Command{
	Use:   "siunit",
	Short: "siunit: physical quantity unit conversion",
	Long: "Converts values between units of the same dimension, inspects the unit table and keeps named quantities.\n" +
		"A project-local .siunit/units.txt replaces the built-in unit table.",
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: dumpMetrics,
}

// projectRoot returns the project root (cwd by default).
func projectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	return dir
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default .siunit/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override logging.level")
	rootCmd.PersistentFlags().BoolVar(&showMetrics, "metrics", false, "Print collected metrics to stderr when done")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(unitsCmd)
	rootCmd.AddCommand(integralCmd)
	rootCmd.AddCommand(vectorCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(tableCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(storeCmd)
}

// setup loads the configuration and builds the registry holder and service.
func setup(cmd *cobra.Command, args []string) error {
	paths := app.NewPaths(projectRoot())

	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadWithFallback(paths.Config)
	}
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	if cfg.Units.TableFile == "" {
		if _, err := os.Stat(paths.Units); err == nil {
			cfg.Units.TableFile = paths.Units
			cfg.Units.Overwrite = true
		}
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = paths.Store
	}

	logger := cfg.Logging.Logger(cmd.ErrOrStderr())
	prom := prometheus.NewRegistry()
	collector := metrics.NewWithRegistry(prom)

	holder, err := app.NewRegistryHolder(cfg.Units, logger, collector)
	if err != nil {
		return err
	}

	rt = &runtime{
		cfg:     cfg,
		paths:   paths,
		logger:  logger,
		prom:    prom,
		metrics: collector,
		holder:  holder,
		svc:     app.NewService(holder, collector, logger, cfg.Output.Precision),
	}
	return nil
}

func dumpMetrics(cmd *cobra.Command, args []string) error {
	if rt == nil || (!showMetrics && !rt.cfg.Metrics.Enabled) {
		return nil
	}
	return metrics.WriteText(cmd.ErrOrStderr(), rt.prom)
}
