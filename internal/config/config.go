package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces every environment override, e.g. SPRINGS_LOGGING_LEVEL.
const EnvPrefix = "SPRINGS"

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Pipeline  PipelineConfig  `yaml:"pipeline" envconfig:"PIPELINE"`
	Charts    ChartsConfig    `yaml:"charts" envconfig:"CHARTS"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
	Export    ExportConfig    `yaml:"export" envconfig:"EXPORT"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format      string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output      string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT"`
}

// PathsConfig contains file system paths configuration.
// Relative directories are resolved against RootDir once at start-up.
type PathsConfig struct {
	RootDir   string `yaml:"root_dir" envconfig:"ROOT_DIR"`
	DataDir   string `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required"`
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR" validate:"required"`
	LogsDir   string `yaml:"logs_dir" envconfig:"LOGS_DIR" validate:"required"`
}

// PipelineConfig holds knobs that change stage semantics.
type PipelineConfig struct {
	// StrictJoinKeys makes the merge fail when a joined table repeats a
	// (site, visit date) key instead of fanning rows out.
	StrictJoinKeys bool `yaml:"strict_join_keys" envconfig:"STRICT_JOIN_KEYS"`
}

// ChartsConfig parameterizes the visualizer.
type ChartsConfig struct {
	TimeseriesSite      string  `yaml:"timeseries_site" envconfig:"TIMESERIES_SITE" validate:"required"`
	TimeseriesParameter string  `yaml:"timeseries_parameter" envconfig:"TIMESERIES_PARAMETER" validate:"oneof=conductivity pH temperature dissolved_oxygen"`
	HistogramBins       int     `yaml:"histogram_bins" envconfig:"HISTOGRAM_BINS" validate:"min=1,max=200"`
	WidthInches         float64 `yaml:"width_inches" envconfig:"WIDTH_INCHES" validate:"gt=0"`
	HeightInches        float64 `yaml:"height_inches" envconfig:"HEIGHT_INCHES" validate:"gt=0"`
}

// TelemetryConfig controls tracing and the textfile metrics dump.
type TelemetryConfig struct {
	ServiceName    string `yaml:"service_name" envconfig:"SERVICE_NAME" validate:"required"`
	TraceExporter  string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=stdout none"`
	MetricsEnabled bool   `yaml:"metrics_enabled" envconfig:"METRICS_ENABLED"`
}

// ExportConfig toggles the report exporter outputs.
type ExportConfig struct {
	Workbook bool `yaml:"workbook" envconfig:"WORKBOOK"`
	SQLite   bool `yaml:"sqlite" envconfig:"SQLITE"`
}

// Load loads configuration from defaults, an optional YAML file and the environment.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom is Load with an explicit YAML file. An empty path searches the
// usual locations; a missing file there is not an error.
func LoadFrom(configFile string) (*Config, error) {
	// .env never overrides variables that are already set
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	cfg := Default()

	if configFile == "" {
		configFile = getConfigFilePath()
	}
	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Environment takes precedence over the file
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML document onto cfg; absent keys keep their values.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks field constraints and normalizes a few values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if c.Logging.Level == "warning" {
		c.Logging.Level = "warn"
	}
	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"springs.yaml",
		"configs/springs.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "console",
		},
		Paths: PathsConfig{
			DataDir:   "data",
			OutputDir: "output",
			LogsDir:   "logs",
		},
		Charts: ChartsConfig{
			TimeseriesSite:      "DEVA_P_BEN0606",
			TimeseriesParameter: "conductivity",
			HistogramBins:       15,
			WidthInches:         6.4,
			HeightInches:        4.8,
		},
		Telemetry: TelemetryConfig{
			ServiceName:    "springs-pipeline",
			TraceExporter:  "none",
			MetricsEnabled: true,
		},
		Export: ExportConfig{
			Workbook: true,
			SQLite:   true,
		},
	}
}
