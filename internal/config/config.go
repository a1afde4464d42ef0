// Package config provides configuration management for the generator.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"finance-synth/internal/calendar"
	apperrors "finance-synth/internal/errors"
	"finance-synth/internal/logging"
)

// FileName is the configuration file name without extension.
const FileName = "findata"

// DefaultSeed fixes the random streams when no seed is configured.
const DefaultSeed = 42

// Config holds all application configuration.
type Config struct {
	Generator GeneratorConfig   `mapstructure:"generator"`
	Warehouse WarehouseConfig   `mapstructure:"warehouse"`
	Logging   logging.LogConfig `mapstructure:"logging"`
	UI        UIConfig          `mapstructure:"ui"`

	// Dir is the directory the configuration was loaded from.
	Dir string `mapstructure:"-"`
}

// GeneratorConfig holds the synthesis parameters.
type GeneratorConfig struct {
	Seed            int64  `mapstructure:"seed"`
	WindowDays      int    `mapstructure:"window_days"`
	EndDate         string `mapstructure:"end_date"` // YYYY-MM-DD, empty means today
	OutputDir       string `mapstructure:"output_dir"`
	CreateOutputDir bool   `mapstructure:"create_output_dir"`
	CatalogFile     string `mapstructure:"catalog_file"`
}

// WarehouseConfig holds the SQLite staging configuration.
type WarehouseConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// UIConfig holds UI-related configuration.
type UIConfig struct {
	ColorEnabled bool `mapstructure:"color_enabled"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/findata"
	}
	return filepath.Join(home, ".config", "findata")
}

// Path returns the configuration file path inside configDir.
func Path(configDir string) string {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}
	return filepath.Join(configDir, FileName+".toml")
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	v := newViper()
	_ = v.Unmarshal(cfg)
	return cfg
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName(FileName)
	v.SetConfigType("toml")

	v.SetDefault("generator.seed", DefaultSeed)
	v.SetDefault("generator.window_days", calendar.DefaultWindowDays)
	v.SetDefault("generator.end_date", "")
	v.SetDefault("generator.output_dir", "data")
	v.SetDefault("generator.create_output_dir", true)
	v.SetDefault("generator.catalog_file", "")

	v.SetDefault("warehouse.enabled", false)
	v.SetDefault("warehouse.path", filepath.Join("data", "finance.db"))

	logDefaults := logging.DefaultLogConfig()
	v.SetDefault("logging.level", logDefaults.Level)
	v.SetDefault("logging.console", logDefaults.Console)
	v.SetDefault("logging.file", logDefaults.File)
	v.SetDefault("logging.file_path", logDefaults.FilePath)
	v.SetDefault("logging.max_size", logDefaults.MaxSize)
	v.SetDefault("logging.max_backups", logDefaults.MaxBackups)
	v.SetDefault("logging.max_age", logDefaults.MaxAge)

	v.SetDefault("ui.color_enabled", true)
	return v
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory. A missing
// findata.toml is not an error; defaults apply.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	loadDotEnv(configDir)

	v := newViper()
	v.AddConfigPath(configDir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, apperrors.Wrapf(err, "loading %s.toml", FileName)
		}
	}

	cfg := &Config{Dir: configDir}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, apperrors.Wrap(err, "decoding config")
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, apperrors.Wrap(err, "validating config")
	}
	return cfg, nil
}

// loadDotEnv reads .env from the working directory and the config directory.
// Variables already set in the environment win.
func loadDotEnv(configDir string) {
	for _, path := range []string{".env", filepath.Join(configDir, ".env")} {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
		}
	}
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("FINDATA_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return apperrors.NewValidationError("FINDATA_SEED", v, "must be an integer")
		}
		cfg.Generator.Seed = seed
	}
	if v := os.Getenv("FINDATA_WINDOW_DAYS"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			return apperrors.NewValidationError("FINDATA_WINDOW_DAYS", v, "must be an integer")
		}
		cfg.Generator.WindowDays = days
	}
	if v := os.Getenv("FINDATA_END_DATE"); v != "" {
		cfg.Generator.EndDate = v
	}
	if v := os.Getenv("FINDATA_OUTPUT_DIR"); v != "" {
		cfg.Generator.OutputDir = v
	}
	if v := os.Getenv("FINDATA_CATALOG_FILE"); v != "" {
		cfg.Generator.CatalogFile = v
	}

	// Setting a warehouse path implies staging is wanted.
	if v := os.Getenv("FINDATA_WAREHOUSE_PATH"); v != "" {
		cfg.Warehouse.Path = v
		cfg.Warehouse.Enabled = true
	}

	if v := os.Getenv("FINDATA_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Generator.WindowDays <= 0 {
		return apperrors.NewValidationError("generator.window_days", c.Generator.WindowDays, "must be positive")
	}
	if c.Generator.EndDate != "" {
		if _, err := calendar.ParseDate(c.Generator.EndDate); err != nil {
			return err
		}
	}
	if c.Generator.OutputDir == "" {
		return apperrors.NewValidationError("generator.output_dir", c.Generator.OutputDir, "must not be empty")
	}
	if c.Warehouse.Enabled && c.Warehouse.Path == "" {
		return apperrors.NewValidationError("warehouse.path", c.Warehouse.Path, "required when the warehouse is enabled")
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return apperrors.NewValidationError("logging.level", c.Logging.Level, "must be debug, info, warn or error")
	}
	return nil
}

// EndDate resolves the configured end date, defaulting to today.
func (c *Config) EndDate() (time.Time, error) {
	if c.Generator.EndDate == "" {
		return calendar.Today(), nil
	}
	return calendar.ParseDate(c.Generator.EndDate)
}

// Window builds the generation window from the configuration.
func (c *Config) Window() (calendar.Window, error) {
	end, err := c.EndDate()
	if err != nil {
		return calendar.Window{}, err
	}
	return calendar.NewWindow(end, c.Generator.WindowDays)
}
