package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newCatalogCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Show the merchant, ticker and weather tables in use",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app.Config.UI.ColorEnabled)
			cat, err := app.Catalog()
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(cat)
			}

			t := cat.Transactions
			output.Bold("Spending Categories")
			output.Dim("%d pay periods of %d days, paychecks on day %s, %.0f%% of days have spending",
				t.PayPeriods, t.PeriodDays, joinInts(t.PaycheckOffsets), t.ActivityProbability*100)
			ct := NewTable(output, "CATEGORY", "RANGE", "MERCHANTS")
			for _, c := range t.Categories {
				rng := fmt.Sprintf("%.0f-%.0f", c.MinAmount, c.MaxAmount)
				if c.Income {
					rng = "income"
				}
				ct.AddRow(c.Name, rng, strings.Join(c.Merchants, ", "))
			}
			ct.Render()
			output.Println()

			output.Bold("Tracked Symbols")
			st := NewTable(output, "SYMBOL", "START", "VOLATILITY").AlignRight(1, 2)
			for _, s := range cat.Market.Symbols {
				st.AddRow(s.Symbol, fmt.Sprintf("%.2f", s.InitialPrice), fmt.Sprintf("%.2f", s.Volatility))
			}
			st.Render()
			output.Println()

			output.Bold("Seasons")
			season := NewTable(output, "SEASON", "MONTHS", "TEMP")
			for _, s := range cat.Weather.Seasons {
				season.AddRow(s.Name, joinInts(s.Months), fmt.Sprintf("%.0f-%.0f", s.MinTemp, s.MaxTemp))
			}
			season.Render()
			output.Println()

			output.Bold("Weather Conditions")
			wt := NewTable(output, "CONDITION", "DESCRIPTIONS")
			for _, c := range cat.Weather.Conditions {
				wt.AddRow(c.Name, strings.Join(c.Descriptions, ", "))
			}
			wt.Render()
			return nil
		},
	}
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = fmt.Sprint(x)
	}
	return strings.Join(parts, ",")
}
