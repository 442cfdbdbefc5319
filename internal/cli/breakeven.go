package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"options-lab/internal/engine/breakeven"
	"options-lab/internal/engine/payoff"
	"options-lab/internal/engine/strategy"
	"options-lab/pkg/utils"
)

var errInvalidArgs = errors.New("invalid arguments")

func newBreakevenCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "breakeven",
		Short: "Find break-even prices for a strategy",
		Long: `Find all stock prices where the strategy's expiration P&L
crosses zero.`,
		Example: `  optlab breakeven --spot 100 --leg long:call:100:4.50:1:2026-06-19 --leg short:call:110:1.50:1:2026-06-19
  optlab breakeven --file condor.json --range 0.4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			inputs, _, err := buildInputs(cmd, app)
			if err != nil {
				output.Error("Invalid input: %v", err)
				return err
			}
			priceRange, _ := cmd.Flags().GetFloat64("range")
			precision, _ := cmd.Flags().GetFloat64("precision")

			points, err := breakeven.FindWithOptions(inputs.Legs, inputs.StockPrice, priceRange, precision)
			if err != nil {
				output.Error("Break-even search failed: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{"breakEvenPoints": points})
			}

			if len(points) == 0 {
				output.Warning("No break-even points in the search range")
				output.Dim("Initial cost: %s", utils.FormatPnL(payoff.InitialCost(inputs.Legs)))
				return nil
			}
			output.Bold("Break-even prices:")
			for _, be := range points {
				output.Printf("  %s\n", utils.FormatUSD(be))
			}
			return nil
		},
	}

	addLegFlags(cmd)
	cmd.Flags().Float64("range", 0, "search range as a fraction of spot (default 0.5)")
	cmd.Flags().Float64("precision", 0, "target precision in dollars (default 0.01)")
	return cmd
}

func newDetectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Classify an options strategy",
		Long:  "Infer the named strategy from the structure of the legs.",
		Example: `  optlab detect --leg long:put:435:1.10:1:2026-06-19 --leg short:put:440:2.20:1:2026-06-19 \
    --leg short:call:460:2.10:1:2026-06-19 --leg long:call:465:1.05:1:2026-06-19`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			inputs, _, err := buildInputs(cmd, app)
			if err != nil {
				output.Error("Invalid input: %v", err)
				return err
			}

			hasStock := inputs.Stock != nil && inputs.Stock.Shares != 0
			result := strategy.Detect(inputs.Legs, hasStock)
			if output.IsJSON() {
				return output.JSON(result)
			}

			output.Bold("%s", result.Type.DisplayName())
			output.Printf("  %-24s %.0f%%\n", "Confidence", result.Confidence*100)
			if result.Confidence < 0.8 {
				output.Dim("  classification is advisory at this confidence")
			}
			output.Printf("  %-24s %v\n", "Requires stock", result.RequiresStock)
			output.Printf("  %-24s %v\n", "Requires time-based calc", result.RequiresTimeBasedCalc)
			return nil
		},
	}

	addLegFlags(cmd)
	return cmd
}
