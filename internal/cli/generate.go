package cli

import (
	"time"

	"github.com/spf13/cobra"

	"finance-synth/internal/logging"
	"finance-synth/internal/pipeline"
	"finance-synth/pkg/utils"
)

func newGenerateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "generate [transactions|stocks|weather]...",
		Aliases: []string{"gen"},
		Short:   "Synthesize datasets and write their tables",
		Long: `Synthesize the requested datasets (all of them when none is named) and
write transactions.csv, stock_data.csv and weather_data.csv into the output
directory. Each table is written to a temporary file and renamed into place.`,
		Example: `  findata generate
  findata generate transactions --seed 7 --days 90
  findata generate --end-date 2025-06-30 --warehouse data/finance.db`,
		ValidArgs: []string{"transactions", "stocks", "weather", "all"},
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app.Config.UI.ColorEnabled)

			if err := applyGenerateFlags(cmd, app); err != nil {
				return err
			}
			datasets, err := pipeline.ParseDatasets(args)
			if err != nil {
				return err
			}
			cat, err := app.Catalog()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			p := pipeline.New(app.Config, cat, logging.FromContext(ctx))
			if app.Config.Warehouse.Enabled {
				wh, err := app.openWarehouse(app.Config.Warehouse.Path)
				if err != nil {
					return err
				}
				defer wh.Close()
				p.SetWarehouse(wh)
			}

			result, err := p.Run(ctx, datasets)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(result)
			}
			renderResult(output, result)
			return nil
		},
	}

	cmd.Flags().Int64("seed", 0, "random seed (overrides config)")
	cmd.Flags().Int("days", 0, "window length in days (overrides config)")
	cmd.Flags().String("end-date", "", "last day of the window, YYYY-MM-DD (default today)")
	cmd.Flags().String("out", "", "output directory (overrides config)")
	cmd.Flags().String("warehouse", "", "also stage tables into this SQLite file")

	return cmd
}

// applyGenerateFlags copies explicitly set flags over the loaded config and
// revalidates it.
func applyGenerateFlags(cmd *cobra.Command, app *App) error {
	flags := cmd.Flags()
	gen := &app.Config.Generator

	if flags.Changed("seed") {
		gen.Seed, _ = flags.GetInt64("seed")
	}
	if flags.Changed("days") {
		gen.WindowDays, _ = flags.GetInt("days")
	}
	if flags.Changed("end-date") {
		gen.EndDate, _ = flags.GetString("end-date")
	}
	if flags.Changed("out") {
		gen.OutputDir, _ = flags.GetString("out")
	}
	if flags.Changed("warehouse") {
		app.Config.Warehouse.Path, _ = flags.GetString("warehouse")
		app.Config.Warehouse.Enabled = true
	}
	return app.Config.Validate()
}

func renderResult(output *Output, result *pipeline.Result) {
	output.Bold("Generated %d table(s)", len(result.Tables))
	output.Dim("Run %s  seed %d  window %s (%d days)",
		result.RunID, result.Seed, result.Window.String(), result.Window.Len())
	output.Println()

	table := NewTable(output, "DATASET", "ROWS", "FILE", "TIME").AlignRight(1)
	for _, t := range result.Tables {
		table.AddRow(
			string(t.Dataset),
			utils.FormatCount(t.Rows),
			t.Path,
			t.Elapsed.Round(time.Millisecond).String(),
		)
	}
	table.Render()
}
