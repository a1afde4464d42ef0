package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	apperrors "finance-synth/internal/errors"
	"finance-synth/internal/models"
	"finance-synth/internal/store"
	"finance-synth/pkg/utils"
)

func newSummaryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show monthly totals and spending by weather from the warehouse",
		Long: `Query the SQLite warehouse written by 'findata generate --warehouse' and print
monthly income, expenses, net income and savings rate, followed by average
daily spending per weather condition.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app.Config.UI.ColorEnabled)

			path := app.Config.Warehouse.Path
			if p, _ := cmd.Flags().GetString("warehouse"); p != "" {
				path = p
			}
			if _, err := os.Stat(path); err != nil {
				return fmt.Errorf("%w: warehouse %s (run 'findata generate --warehouse %s' first)",
					apperrors.ErrDataNotFound, path, path)
			}

			wh, err := app.openWarehouse(path)
			if err != nil {
				return err
			}
			defer wh.Close()

			ctx := cmd.Context()
			months, err := wh.MonthlySummary(ctx)
			if err != nil {
				return err
			}
			weather, err := wh.SpendingByWeather(ctx)
			if err != nil {
				return err
			}
			run, err := wh.LastRun(ctx)
			if err != nil && !errors.Is(err, apperrors.ErrDataNotFound) {
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"last_run":            run,
					"monthly_summary":     months,
					"spending_by_weather": weather,
				})
			}
			renderSummary(output, run, months, weather)
			return nil
		},
	}

	cmd.Flags().String("warehouse", "", "SQLite warehouse file (default: config warehouse.path)")
	return cmd
}

func renderSummary(output *Output, run *store.Run, months []store.MonthlySummary, weather []store.WeatherSpending) {
	if run != nil {
		output.Dim("Last run %s  seed %d  %s..%s", run.ID, run.Seed,
			run.WindowStart.Format(models.DateLayout), run.WindowEnd.Format(models.DateLayout))
		output.Println()
	}

	output.Bold("Monthly Summary")
	table := NewTable(output, "MONTH", "INCOME", "EXPENSES", "NET", "SAVINGS", "TXNS").AlignRight(1, 2, 3, 4, 5)
	for _, m := range months {
		rate := "-"
		if m.SavingsRate != nil {
			rate = output.ColoredString(output.AmountColor(*m.SavingsRate), utils.FormatPercent(*m.SavingsRate))
		}
		table.AddRow(
			m.Month,
			utils.FormatCurrency(m.TotalIncome),
			utils.FormatCurrency(m.TotalExpenses),
			output.ColoredString(output.AmountColor(m.NetIncome), utils.FormatCurrency(m.NetIncome)),
			rate,
			utils.FormatCount(m.TransactionCount),
		)
	}
	table.Render()
	output.Println()

	output.Bold("Spending by Weather")
	wt := NewTable(output, "CONDITION", "DAYS", "TOTAL", "AVG/DAY").AlignRight(1, 2, 3)
	for _, w := range weather {
		wt.AddRow(
			string(w.Condition),
			utils.FormatCount(w.Days),
			utils.FormatCurrency(w.TotalSpending),
			utils.FormatCurrency(w.AvgDailySpending),
		)
	}
	wt.Render()
}
