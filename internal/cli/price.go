package cli

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"options-lab/internal/engine/mathutil"
	"options-lab/internal/engine/payoff"
	"options-lab/internal/engine/pricing"
	"options-lab/internal/logging"
	"options-lab/internal/models"
	"options-lab/pkg/utils"
)

func newPriceCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "price <call|put>",
		Short: "Price a single option",
		Long: `Price a single option with the Black-Scholes model.

Shows the theoretical price, intrinsic and time value, d1/d2, the Greeks
and a put-call parity check.`,
		Example: `  optlab price call --spot 100 --strike 105 --expiry 2026-06-19
  optlab price put --spot 430 --strike 420 --expiry 2026-03-20 --vol 0.25 --rate 0.04`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			var optType models.OptionType
			switch strings.ToLower(args[0]) {
			case "call":
				optType = models.Call
			case "put":
				optType = models.Put
			default:
				output.Error("Option type must be 'call' or 'put'")
				return errInvalidArgs
			}

			spot, _ := cmd.Flags().GetFloat64("spot")
			strike, _ := cmd.Flags().GetFloat64("strike")
			expiryStr, _ := cmd.Flags().GetString("expiry")
			vol, _ := cmd.Flags().GetFloat64("vol")
			rate, _ := cmd.Flags().GetFloat64("rate")
			if vol == 0 {
				vol = app.Config.Market.Volatility
			}
			if rate < 0 {
				rate = app.Config.Market.RiskFreeRate
			}

			expiry, err := time.Parse("2006-01-02", expiryStr)
			if err != nil {
				output.Error("Invalid expiry format. Use YYYY-MM-DD")
				return err
			}
			t := mathutil.TimeToExpiry(expiry, time.Now())

			params := models.BlackScholesParams{
				Type:         optType,
				SpotPrice:    spot,
				Strike:       strike,
				TimeToExpiry: t,
				RiskFreeRate: rate,
				Volatility:   vol,
			}

			result, err := pricing.Price(params)
			if err != nil {
				output.Error("Pricing failed: %v", err)
				return err
			}
			logging.LogPricing(app.Logger, string(optType), spot, strike, t, result.OptionPrice)
			greeks, err := pricing.ComputeGreeks(params)
			if err != nil {
				output.Error("Greeks computation failed: %v", err)
				return err
			}

			// Price the opposite type for the parity check.
			opposite := params
			if optType == models.Call {
				opposite.Type = models.Put
			} else {
				opposite.Type = models.Call
			}
			oppResult, err := pricing.Price(opposite)
			if err != nil {
				output.Error("Pricing failed: %v", err)
				return err
			}

			intrinsic := payoff.IntrinsicValue(optType, spot, strike)

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"params":    params,
					"result":    result,
					"greeks":    greeks,
					"intrinsic": intrinsic,
					"timeValue": pricing.TimeValue(result.OptionPrice, intrinsic),
				})
			}

			output.Bold("%s %s @ %s, expiry %s (T=%.4fy)",
				strings.ToUpper(args[0]), utils.FormatUSD(strike), utils.FormatUSD(spot),
				expiryStr, t)
			output.Printf("  %-14s %s\n", "Price", utils.FormatUSD(result.OptionPrice))
			output.Printf("  %-14s %s\n", "Intrinsic", utils.FormatUSD(intrinsic))
			output.Printf("  %-14s %s\n", "Time value", utils.FormatUSD(pricing.TimeValue(result.OptionPrice, intrinsic)))
			output.Printf("  %-14s %.4f / %.4f\n", "d1 / d2", result.D1, result.D2)
			output.Println()
			output.Printf("  %-14s %+.4f\n", "Delta", greeks.Delta)
			output.Printf("  %-14s %.4f\n", "Gamma", greeks.Gamma)
			output.Printf("  %-14s %.4f\n", "Theta", greeks.Theta)
			output.Printf("  %-14s %.4f\n", "Vega", greeks.Vega)
			output.Printf("  %-14s %.4f\n", "Rho", greeks.Rho)

			call, put := result.OptionPrice, oppResult.OptionPrice
			if optType == models.Put {
				call, put = put, call
			}
			if pricing.VerifyPutCallParity(call, put, spot, strike, t, rate, 0.01) {
				output.Dim("  put-call parity holds")
			} else {
				output.Warning("  put-call parity check failed")
			}
			return nil
		},
	}

	cmd.Flags().Float64("spot", 0, "current stock price")
	cmd.Flags().Float64("strike", 0, "strike price")
	cmd.Flags().String("expiry", "", "expiry date (YYYY-MM-DD)")
	cmd.Flags().Float64("vol", 0, "volatility (default from config)")
	cmd.Flags().Float64("rate", -1, "risk-free rate (default from config)")
	return cmd
}
