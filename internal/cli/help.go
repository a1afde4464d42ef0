package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

type example struct {
	title    string
	commands []string
}

var workflowExamples = []example{
	{
		title: "First Run",
		commands: []string{
			"findata config init             # Write ~/.config/findata/findata.toml",
			"findata generate                # 180 days ending today, seed 42",
			"findata verify                  # Check the tables just written",
		},
	},
	{
		title: "Reproducible Fixtures",
		commands: []string{
			"findata generate --seed 7 --end-date 2024-06-30 --out testdata",
			"findata generate weather --days 365 --end-date 2024-12-31",
			"FINDATA_SEED=7 findata generate # Same tables from the environment",
		},
	},
	{
		title: "Dashboard Warehouse",
		commands: []string{
			"findata generate --warehouse data/finance.db",
			"findata summary                 # Monthly totals and spending by weather",
			"findata summary --json          # Same report for scripts",
		},
	},
	{
		title: "Custom Tables",
		commands: []string{
			"findata catalog                 # Show merchants, tickers and seasons",
			"findata config validate         # Check config and catalog override",
		},
	},
}

func addHelpCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newExamplesCmd(app))
}

func newExamplesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "examples",
		Short: "Show common workflow examples",
		Long:  "Display examples of common generation workflows.",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app.Config.UI.ColorEnabled)

			output.Bold("Common Workflow Examples")
			output.Println()

			for _, ex := range workflowExamples {
				output.Bold(ex.title)
				for _, c := range ex.commands {
					parts := strings.SplitN(c, "#", 2)
					if len(parts) == 2 {
						output.Printf("  %s %s\n",
							output.ColoredString(ColorCyan, strings.TrimSpace(parts[0])),
							output.ColoredString(ColorDim, strings.TrimSpace(parts[1])))
					} else {
						output.Printf("  %s\n", output.ColoredString(ColorCyan, c))
					}
				}
				output.Println()
			}
			return nil
		},
	}
}
