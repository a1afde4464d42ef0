// Package cli provides the command-line interface for the data generator.
package cli

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"finance-synth/internal/catalog"
	"finance-synth/internal/config"
	apperrors "finance-synth/internal/errors"
	"finance-synth/internal/logging"
	"finance-synth/internal/store"
	"finance-synth/pkg/utils"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2026-10-01"
)

// App holds the application dependencies.
type App struct {
	Config  *config.Config
	Logger  zerolog.Logger
	catalog *catalog.Catalog
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd() *cobra.Command {
	app := &App{
		Config: config.Default(),
		Logger: logging.NewLogger(),
	}

	rootCmd := &cobra.Command{
		Use:   "findata",
		Short: "Synthetic personal-finance data generator",
		Long: `findata synthesizes demo datasets for a personal-finance dashboard:
account transactions, daily portfolio prices and daily weather.

Tables are written as CSV into the output directory and can also be staged
into a SQLite warehouse file. Identical seed, window and end date always
produce byte-identical tables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init(cmd)
		},
	}

	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/findata)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	addCoreCommands(rootCmd, app)
	addHelpCommands(rootCmd, app)
	rootCmd.AddCommand(newGenerateCmd(app))
	rootCmd.AddCommand(newVerifyCmd(app))
	rootCmd.AddCommand(newSummaryCmd(app))
	rootCmd.AddCommand(newCatalogCmd(app))

	return rootCmd
}

func (app *App) init(cmd *cobra.Command) error {
	dir, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(dir)
	if err != nil {
		return err
	}
	app.Config = cfg
	app.Logger = logging.NewLoggerWithConfig(cfg.Logging)

	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		logging.SetDebugLevel()
		app.Logger = app.Logger.Level(zerolog.DebugLevel)
	}
	cmd.SetContext(logging.WithLogger(cmd.Context(), app.Logger))
	app.Logger.Debug().Str("config_dir", cfg.Dir).Msg("Configuration loaded")
	return nil
}

// Catalog loads the lookup tables once per invocation.
func (app *App) Catalog() (*catalog.Catalog, error) {
	if app.catalog != nil {
		return app.catalog, nil
	}
	cat, err := catalog.Load(app.Config.Generator.CatalogFile)
	if err != nil {
		return nil, err
	}
	app.catalog = cat
	return cat, nil
}

// openWarehouse opens the SQLite staging file, creating its directory.
func (app *App) openWarehouse(path string) (*store.SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, apperrors.NewExportError(path, "mkdir", err)
	}
	wh, err := store.NewSQLiteStore(path)
	if err != nil {
		return nil, err
	}
	app.Logger.Debug().Str("path", path).Msg("Warehouse opened")
	return wh, nil
}

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case apperrors.IsConfigError(err):
		return 2
	default:
		return 1
	}
}

func addCoreCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newVersionCmd(app))
	rootCmd.AddCommand(newConfigCmd(app))
}

func newVersionCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd, app.Config.UI.ColorEnabled)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("findata v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app.Config.UI.ColorEnabled)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			return showConfig(output, app.Config)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd, app.Config.UI.ColorEnabled)
			path := config.Path(app.Config.Dir)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": path})
			} else {
				output.Println(path)
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write a commented configuration template",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app.Config.UI.ColorEnabled)
			path, err := config.WriteTemplate(app.Config.Dir)
			if err != nil {
				return err
			}
			output.Success("✓ Wrote %s", path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration and catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app.Config.UI.ColorEnabled)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if _, err := app.Catalog(); err != nil {
				output.Error("Catalog validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]bool{"valid": true})
			}
			output.Success("✓ Configuration is valid")
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) error {
	end := cfg.Generator.EndDate
	if end == "" {
		end = "today"
	}
	catalogFile := cfg.Generator.CatalogFile
	if catalogFile == "" {
		catalogFile = "built-in"
	}

	output.Bold("Generator")
	output.Printf("  Seed:            %d\n", cfg.Generator.Seed)
	output.Printf("  Window:          %s days\n", utils.FormatCount(cfg.Generator.WindowDays))
	output.Printf("  End date:        %s\n", end)
	output.Printf("  Output dir:      %s\n", cfg.Generator.OutputDir)
	output.Printf("  Catalog:         %s\n", catalogFile)
	output.Println()

	output.Bold("Warehouse")
	output.Printf("  Enabled:         %v\n", cfg.Warehouse.Enabled)
	output.Printf("  Path:            %s\n", cfg.Warehouse.Path)
	output.Println()

	output.Bold("Logging")
	output.Printf("  Level:           %s\n", cfg.Logging.Level)
	output.Printf("  File:            %v\n", cfg.Logging.File)
	return nil
}
