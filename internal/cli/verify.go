package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"finance-synth/internal/models"
	"finance-synth/internal/pipeline"
	"finance-synth/internal/verify"
	"finance-synth/pkg/utils"
)

// maxListedViolations caps the violations printed in text mode.
const maxListedViolations = 20

func newVerifyCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify [transactions|stocks|weather]...",
		Short: "Check exported tables for broken invariants",
		Long: `Read the exported tables back and check dense transaction IDs, date order,
positive prices, portfolio value consistency, humidity bounds and weather
conditions. Exits non-zero when any check fails.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app.Config.UI.ColorEnabled)

			datasets, err := pipeline.ParseDatasets(args)
			if err != nil {
				return err
			}
			cat, err := app.Catalog()
			if err != nil {
				return err
			}

			dir := app.Config.Generator.OutputDir
			if out, _ := cmd.Flags().GetString("out"); out != "" {
				dir = out
			}

			report, err := verify.New(cat).Directory(dir, datasets)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				if err := output.JSON(report); err != nil {
					return err
				}
			} else {
				renderReport(output, report)
			}

			if !report.OK() {
				return fmt.Errorf("verification failed: %d violation(s)", len(report.Violations))
			}
			return nil
		},
	}

	cmd.Flags().String("out", "", "directory holding the tables (default: config output_dir)")
	return cmd
}

func renderReport(output *Output, report *verify.Report) {
	table := NewTable(output, "DATASET", "ROWS", "VIOLATIONS").AlignRight(1, 2)
	for _, ds := range models.AllDatasets {
		rows, ok := report.Rows[ds]
		if !ok {
			continue
		}
		n := 0
		for _, v := range report.Violations {
			if v.Dataset == ds {
				n++
			}
		}
		count := output.ColoredString(ColorGreen, "0")
		if n > 0 {
			count = output.ColoredString(ColorRed, utils.FormatCount(n))
		}
		table.AddRow(string(ds), utils.FormatCount(rows), count)
	}
	table.Render()

	if report.OK() {
		output.Println()
		output.Success("✓ All checks passed")
		return
	}

	output.Println()
	for i, v := range report.Violations {
		if i == maxListedViolations {
			output.Dim("... %d more", len(report.Violations)-maxListedViolations)
			break
		}
		output.Warning("  %s", v.String())
	}
}
