// wdireport fetches one World Development Indicator, joins it with the
// income-level country classification, and writes a chart plus a one-page
// report. One invocation is one full run.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"wdireport/internal/app"
	"wdireport/internal/config"
	"wdireport/internal/format"
	"wdireport/internal/logging"
)

var flags struct {
	configPath string
	indicator  string
	fromYear   int
	toYear     int
	outDir     string
	formats    []string
	chartFile  string
	reportFile string
	noCache    bool
	logLevel   string
	logFormat  string
}

func main() {
	rootCmd := &cobra.Command{
		Use:           "wdireport",
		Short:         "Generate the indicator-by-income-group report",
		Long:          "wdireport fetches an indicator series from the World Bank API,\njoins each country's income-level classification, and produces a line\nchart plus a one-page report document.",
		Args:          cobra.NoArgs,
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.Flags().StringVar(&flags.configPath, "config", "", "Path to YAML config file")
	rootCmd.Flags().StringVar(&flags.indicator, "indicator", "", "Indicator code to fetch (default "+config.DefaultIndicator+")")
	rootCmd.Flags().IntVar(&flags.fromYear, "from", 0, "First year of the fetch window")
	rootCmd.Flags().IntVar(&flags.toYear, "to", 0, "Last year of the fetch window")
	rootCmd.Flags().StringVar(&flags.outDir, "out-dir", "", "Directory artifacts are written to")
	rootCmd.Flags().StringSliceVar(&flags.formats, "formats", nil, "Document formats to write (pdf, html, xlsx)")
	rootCmd.Flags().StringVar(&flags.chartFile, "chart-file", "", "Chart image filename")
	rootCmd.Flags().StringVar(&flags.reportFile, "report-file", "", "Report document filename")
	rootCmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "Bypass the API response cache")
	rootCmd.Flags().StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.Flags().StringVar(&flags.logFormat, "log-format", "", "Log format (text, json)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "wdireport: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	cfg := config.LoadFrom(flags.configPath)
	applyFlagOverrides(&cfg)

	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	application := app.New(cfg, logger)
	defer application.Close()

	summary, err := application.Run(cmd.Context())
	if err != nil {
		logger.Error("run failed", "error", err)
		return err
	}

	fmt.Print(format.RenderSummary(summary))
	return nil
}

func applyFlagOverrides(cfg *config.Config) {
	if flags.indicator != "" {
		cfg.Indicator.Code = flags.indicator
	}
	if flags.fromYear != 0 {
		cfg.Window.FromYear = flags.fromYear
	}
	if flags.toYear != 0 {
		cfg.Window.ToYear = flags.toYear
	}
	if flags.outDir != "" {
		cfg.Outputs.Directory = flags.outDir
	}
	if len(flags.formats) > 0 {
		cfg.Outputs.Formats = flags.formats
	}
	if flags.chartFile != "" {
		cfg.Chart.File = flags.chartFile
	}
	if flags.reportFile != "" {
		cfg.Report.File = flags.reportFile
	}
	if flags.noCache {
		cfg.Cache.Disabled = true
	}
	if flags.logLevel != "" {
		cfg.Logging.Level = flags.logLevel
	}
	if flags.logFormat != "" {
		cfg.Logging.Format = flags.logFormat
	}
}
