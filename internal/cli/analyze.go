package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"options-lab/internal/engine"
	"options-lab/internal/models"
	"options-lab/internal/store"
	"options-lab/pkg/utils"
)

func newAnalyzeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze an options strategy",
		Long: `Analyze an options strategy: classification, initial cost,
max profit/loss, break-even prices and the expiration P&L curve.`,
		Example: `  optlab analyze --spot 100 --leg long:call:100:4.50:1:2026-06-19 --leg short:call:110:1.50:1:2026-06-19
  optlab analyze --file condor.json
  optlab analyze --file strategy.json --save`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			inputs, symbol, err := buildInputs(cmd, app)
			if err != nil {
				output.Error("Invalid input: %v", err)
				return err
			}
			inputs.Chart = &models.ChartConfig{
				PriceRange: app.Config.Chart.PriceRange,
				Points:     app.Config.Chart.Points,
			}

			results, err := app.Engine.Analyze(inputs, engine.Options{})
			if err != nil {
				output.Error("Analysis failed: %v", err)
				return err
			}

			if save, _ := cmd.Flags().GetBool("save"); save && app.Store != nil {
				record := &store.AnalysisRecord{
					ID:          fmt.Sprintf("an-%d", time.Now().UnixNano()),
					Symbol:      symbol,
					CreatedAt:   time.Now(),
					SpotPrice:   inputs.StockPrice,
					Strategy:    results.Strategy.Type,
					Confidence:  results.Strategy.Confidence,
					InitialCost: results.InitialCost,
					Inputs:      inputs,
					Results:     *results,
				}
				if err := app.Store.SaveAnalysis(cmd.Context(), record); err != nil {
					output.Warning("Could not save analysis: %v", err)
				} else {
					output.Dim("Saved as %s", record.ID)
				}
			}

			if output.IsJSON() {
				return output.JSON(results)
			}
			displayResults(output, inputs, results)
			return nil
		},
	}

	addLegFlags(cmd)
	cmd.Flags().Bool("save", false, "save the analysis to the journal")
	return cmd
}

func displayResults(output *Output, inputs models.CalculationInputs, results *models.CalculationResults) {
	output.Bold("Strategy: %s", results.Strategy.Type.DisplayName())
	if results.Strategy.Confidence < 1 {
		output.Dim("  confidence %.0f%%", results.Strategy.Confidence*100)
	}
	if results.Strategy.RequiresTimeBasedCalc {
		output.Dim("  multi-expiry position: expiration P&L is an approximation")
	}
	output.Println()

	costLabel := "Net debit"
	if results.InitialCost > 0 {
		costLabel = "Net credit"
	}
	output.Printf("  %-14s %s\n", costLabel, output.PnL(utils.FormatPnL(results.InitialCost), results.InitialCost))
	output.Printf("  %-14s %s\n", "Max profit", formatBound(output, results.MaxProfit))
	output.Printf("  %-14s %s\n", "Max loss", formatBound(output, results.MaxLoss))

	if len(results.BreakEvenPoints) == 0 {
		output.Printf("  %-14s none in range\n", "Break-evens")
	} else {
		output.Printf("  %-14s", "Break-evens")
		for _, be := range results.BreakEvenPoints {
			output.Printf(" %s", utils.FormatUSD(be))
		}
		output.Println()
	}
	output.Println()

	output.Printf("  %-8s %-6s %-6s %10s %10s %12s\n", "Leg", "Type", "Pos", "Intrinsic", "Cost", "Expiry P&L")
	for i, leg := range inputs.Legs {
		row := results.Legs[i]
		output.Printf("  %-8s %-6s %-6s %10.2f %10.2f %12s\n",
			row.LegID, leg.Type, leg.Position, row.IntrinsicValue, row.CostBasis,
			output.PnL(fmt.Sprintf("%.2f", row.ExpirationPL), row.ExpirationPL))
	}
	if inputs.Stock != nil && inputs.Stock.Shares != 0 {
		last := results.Legs[len(results.Legs)-1]
		output.Printf("  %-8s %-6s %-6s %10s %10.2f %12s\n",
			"stock", "-", "-", "-", last.CostBasis,
			output.PnL(fmt.Sprintf("%.2f", last.ExpirationPL), last.ExpirationPL))
	}

	for _, warning := range results.Warnings {
		output.Warning("  ! %s: %s", warning.Field, warning.Message)
	}
}

func formatBound(output *Output, bound *float64) string {
	if bound == nil {
		return output.Yellow("unlimited")
	}
	return output.PnL(utils.FormatPnL(*bound), *bound)
}
