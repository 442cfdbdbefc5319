package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"options-lab/internal/engine/heatmap"
	"options-lab/internal/models"
	"options-lab/pkg/utils"
)

func newHeatmapCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "heatmap",
		Short: "Render a price/date P&L surface",
		Long: `Render the strategy's theoretical P&L over a grid of stock
prices and dates. Rows are prices in descending order; the last column
falls on the earliest leg expiry.`,
		Example: `  optlab heatmap --spot 100 --leg long:call:100:4.50:1:2026-06-19
  optlab heatmap --file condor.json --price-steps 15 --date-steps 8`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			inputs, _, err := buildInputs(cmd, app)
			if err != nil {
				output.Error("Invalid input: %v", err)
				return err
			}

			cfg := heatmap.Config{
				RiskFreeRate:  inputs.RiskFreeRate,
				Volatility:    inputs.Volatility,
				DividendYield: inputs.DividendYield,
				PriceRange:    app.Config.Heatmap.PriceRange,
				PriceSteps:    app.Config.Heatmap.PriceSteps,
				DateSteps:     app.Config.Heatmap.DateSteps,
				Workers:       app.Config.Heatmap.Workers,
			}
			if band, _ := cmd.Flags().GetFloat64("range"); band > 0 {
				cfg.PriceRange = band
			}
			if steps, _ := cmd.Flags().GetInt("price-steps"); steps > 1 {
				cfg.PriceSteps = steps
			}
			if steps, _ := cmd.Flags().GetInt("date-steps"); steps > 1 {
				cfg.DateSteps = steps
			}
			if min, _ := cmd.Flags().GetFloat64("min-price"); min > 0 {
				cfg.MinPrice = min
			}
			if max, _ := cmd.Flags().GetFloat64("max-price"); max > 0 {
				cfg.MaxPrice = max
			}

			grid, err := heatmap.Generate(inputs.Legs, inputs.StockPrice, cfg)
			if err != nil {
				output.Error("Heatmap generation failed: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(grid)
			}
			displayHeatmap(output, grid)
			return nil
		},
	}

	addLegFlags(cmd)
	cmd.Flags().Float64("range", 0, "price band as a fraction of spot (default from config)")
	cmd.Flags().Int("price-steps", 0, "number of price rows (default from config)")
	cmd.Flags().Int("date-steps", 0, "number of date columns (default from config)")
	cmd.Flags().Float64("min-price", 0, "absolute lower price bound (overrides --range)")
	cmd.Flags().Float64("max-price", 0, "absolute upper price bound (overrides --range)")
	return cmd
}

// displayHeatmap renders the grid as a table, one row per price level,
// dates across the top. Cells are tinted by sign and magnitude relative
// to the largest absolute P&L in the grid.
func displayHeatmap(output *Output, grid *models.HeatmapData) {
	maxAbs := heatmap.MaxAbsValue(grid.Values)

	output.Printf("%10s", "")
	for _, date := range grid.Dates {
		output.Printf(" %9s", utils.FormatDate(date))
	}
	output.Println()

	for i, price := range grid.Prices {
		output.Printf("%10s", utils.FormatUSD(price))
		for _, value := range grid.Values[i] {
			output.Printf(" %s", cellText(output, value, maxAbs))
		}
		output.Println()
	}
	output.Println()
	output.Dim("max |P&L| in grid: %s", utils.FormatCompact(maxAbs))
}

// cellText formats one cell, colored with the same buckets the hex
// palette uses.
func cellText(output *Output, value, maxAbs float64) string {
	text := fmt.Sprintf("%9.0f", value)
	switch heatmap.PLColor(value, maxAbs) {
	case "#15803d", "#22c55e", "#86efac":
		return output.Green(text)
	case "#fca5a5", "#ef4444", "#b91c1c":
		return output.Red(text)
	default:
		return output.DimText(text)
	}
}
