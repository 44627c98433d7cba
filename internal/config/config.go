package config

import (
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	configPathEnv   = "WDIREPORT_CONFIG"
	indicatorEnv    = "WDIREPORT_INDICATOR"
	apiBaseURLEnv   = "WDIREPORT_API_BASE_URL"
	outputDirEnv    = "WDIREPORT_OUTPUT_DIR"
	cachePathEnv    = "WDIREPORT_CACHE_PATH"
	logLevelEnv     = "WDIREPORT_LOG_LEVEL"
	defaultBaseURL  = "https://api.worldbank.org/v2"
	defaultCacheTTL = 168
)

// DefaultIndicator is the World Development Indicator the report covers
// unless configuration says otherwise: people using at least basic
// sanitation services (% of population).
const DefaultIndicator = "SH.STA.BASS.ZS"

// defaultNarrative is the fixed report paragraph. It describes the chart in
// static prose and is deliberately not derived from the fetched data.
const defaultNarrative = `To analyze changes and potential trends in the use of at least basic sanitation services (% of population), as well as the variance between income groups, I retrieved the relevant indicator from the World Bank API, transformed it into tabular form, joined information about a country's respective income level to the indicator data, and generated a chart from the combined indicator/income group data.

The below chart displays the time range for which data was available via the API on the x-axis and the share of a population that is using at least basic sanitation services on the y-axis. The lines indicate the average share of the population using at least basic sanitation services by income group for a given point in time. The bands on either side of each line are confidence intervals.

The chart indicates that the use in at least basic sanitation services has indeed been changing with a positive trend throughout all income groups. However, large differences between income groups can be observed in the indicator's level at the outset of the data collection period, as well as how severely it changed over the observation period. Countries associated with a high-income level have the highest share of their populations using at least basic sanitation services, while countries associated with a low-income level score lowest. Changes in the indicator are more prevalent for the middle- and lower-income countries, with countries classified as 'Lower middle income' increasing most.`

// Config holds high-level settings required across the application.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	API       APIConfig       `yaml:"api"`
	Indicator IndicatorConfig `yaml:"indicator"`
	Window    WindowConfig    `yaml:"window"`
	Cache     CacheConfig     `yaml:"cache"`
	Chart     ChartConfig     `yaml:"chart"`
	Report    ReportConfig    `yaml:"report"`
	Outputs   OutputConfig    `yaml:"outputs"`
}

// LoggingConfig selects log verbosity and handler format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// APIConfig describes how to reach the statistics service.
type APIConfig struct {
	BaseURL        string `yaml:"baseUrl"`
	UserAgent      string `yaml:"userAgent"`
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
	PerPage        int    `yaml:"perPage"`
}

// IndicatorConfig names the series to fetch and how to label it on the
// chart's y-axis.
type IndicatorConfig struct {
	Code  string `yaml:"code"`
	Label string `yaml:"label"`
}

// WindowConfig bounds the fetch to an inclusive year range.
type WindowConfig struct {
	FromYear int `yaml:"fromYear"`
	ToYear   int `yaml:"toYear"`
}

// CacheConfig controls the on-disk API response cache.
type CacheConfig struct {
	Disabled bool   `yaml:"disabled"`
	Path     string `yaml:"path"`
	TTLHours int    `yaml:"ttlHours"`
}

// ChartConfig fixes the chart artifact's filename, canvas size, and labels.
type ChartConfig struct {
	File         string  `yaml:"file"`
	WidthInches  float64 `yaml:"widthInches"`
	HeightInches float64 `yaml:"heightInches"`
	Title        string  `yaml:"title"`
	XLabel       string  `yaml:"xLabel"`
}

// ReportConfig fixes the document artifact's filename, title, embedded
// image size, and narrative text.
type ReportConfig struct {
	File        string  `yaml:"file"`
	Title       string  `yaml:"title"`
	ImageWidth  float64 `yaml:"imageWidth"`
	ImageHeight float64 `yaml:"imageHeight"`
	Narrative   string  `yaml:"narrative"`
}

// OutputConfig selects where artifacts land and which document formats are
// written. "pdf" is always a valid format; "html" and "xlsx" are optional
// extras.
type OutputConfig struct {
	Directory string   `yaml:"directory"`
	Formats   []string `yaml:"formats"`
}

// NarrativeText returns the configured narrative or the built-in paragraph
// when none is set.
func (r ReportConfig) NarrativeText() string {
	if r.Narrative != "" {
		return r.Narrative
	}
	return defaultNarrative
}

// ChartPath resolves the chart artifact path inside the output directory.
func (c Config) ChartPath() string {
	return filepath.Join(c.Outputs.Directory, c.Chart.File)
}

// Load reads YAML configuration (if present) and applies environment
// overrides. A .env file in the working directory is honored first.
func Load() Config {
	_ = godotenv.Load()

	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		cfg = loadFile(cfg, path)
	}

	cfg.applyEnvOverrides()

	if len(cfg.Outputs.Formats) == 0 {
		cfg.Outputs.Formats = defaultConfig().Outputs.Formats
	}

	return cfg
}

// LoadFrom behaves like Load but prefers an explicit file path (CLI flag)
// over the environment variable.
func LoadFrom(path string) Config {
	if path == "" {
		return Load()
	}

	_ = godotenv.Load()

	cfg := loadFile(defaultConfig(), path)
	cfg.applyEnvOverrides()

	if len(cfg.Outputs.Formats) == 0 {
		cfg.Outputs.Formats = defaultConfig().Outputs.Formats
	}

	return cfg
}

func loadFile(cfg Config, path string) Config {
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		return cfg
	}

	var fileCfg Config
	if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
		log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
		return cfg
	}

	return mergeConfig(cfg, fileCfg)
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(indicatorEnv); v != "" {
		c.Indicator.Code = v
	}

	if v := os.Getenv(apiBaseURLEnv); v != "" {
		c.API.BaseURL = v
	}

	if v := os.Getenv(outputDirEnv); v != "" {
		c.Outputs.Directory = v
	}

	if v := os.Getenv(cachePathEnv); v != "" {
		c.Cache.Path = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if override.API.BaseURL != "" {
		base.API.BaseURL = override.API.BaseURL
	}
	if override.API.UserAgent != "" {
		base.API.UserAgent = override.API.UserAgent
	}
	if override.API.TimeoutSeconds > 0 {
		base.API.TimeoutSeconds = override.API.TimeoutSeconds
	}
	if override.API.PerPage > 0 {
		base.API.PerPage = override.API.PerPage
	}

	if override.Indicator.Code != "" {
		base.Indicator.Code = override.Indicator.Code
	}
	if override.Indicator.Label != "" {
		base.Indicator.Label = override.Indicator.Label
	}

	if override.Window.FromYear != 0 {
		base.Window.FromYear = override.Window.FromYear
	}
	if override.Window.ToYear != 0 {
		base.Window.ToYear = override.Window.ToYear
	}

	if override.Cache.Disabled {
		base.Cache.Disabled = true
	}
	if override.Cache.Path != "" {
		base.Cache.Path = override.Cache.Path
	}
	if override.Cache.TTLHours > 0 {
		base.Cache.TTLHours = override.Cache.TTLHours
	}

	if override.Chart.File != "" {
		base.Chart.File = override.Chart.File
	}
	if override.Chart.WidthInches > 0 {
		base.Chart.WidthInches = override.Chart.WidthInches
	}
	if override.Chart.HeightInches > 0 {
		base.Chart.HeightInches = override.Chart.HeightInches
	}
	if override.Chart.Title != "" {
		base.Chart.Title = override.Chart.Title
	}
	if override.Chart.XLabel != "" {
		base.Chart.XLabel = override.Chart.XLabel
	}

	if override.Report.File != "" {
		base.Report.File = override.Report.File
	}
	if override.Report.Title != "" {
		base.Report.Title = override.Report.Title
	}
	if override.Report.ImageWidth > 0 {
		base.Report.ImageWidth = override.Report.ImageWidth
	}
	if override.Report.ImageHeight > 0 {
		base.Report.ImageHeight = override.Report.ImageHeight
	}
	if override.Report.Narrative != "" {
		base.Report.Narrative = override.Report.Narrative
	}

	if override.Outputs.Directory != "" {
		base.Outputs.Directory = override.Outputs.Directory
	}
	if len(override.Outputs.Formats) > 0 {
		base.Outputs.Formats = override.Outputs.Formats
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		API: APIConfig{
			BaseURL:        defaultBaseURL,
			UserAgent:      "wdireport/1.0",
			TimeoutSeconds: 20,
			PerPage:        1000,
		},
		Indicator: IndicatorConfig{
			Code:  DefaultIndicator,
			Label: "People using at least basic sanitation services (% of population)",
		},
		Window: WindowConfig{FromYear: 1960, ToYear: 2020},
		Cache: CacheConfig{
			Path:     filepath.Join(".wdireport", "responses.db"),
			TTLHours: defaultCacheTTL,
		},
		Chart: ChartConfig{
			File:         "plot.png",
			WidthInches:  15,
			HeightInches: 9,
			Title:        "People using at least basic sanitation services by income group",
			XLabel:       "Date",
		},
		Report: ReportConfig{
			File:        "part1.pdf",
			Title:       "Technical exercise for Data Scientist position (Part I)",
			ImageWidth:  175,
			ImageHeight: 100,
		},
		Outputs: OutputConfig{Directory: ".", Formats: []string{"pdf"}},
	}
}
