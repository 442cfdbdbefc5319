package cli

import (
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"options-lab/internal/errors"
	"options-lab/internal/marketdata"
	"options-lab/pkg/utils"
)

func newDataCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "data",
		Short: "Inspect and import market data",
		Long: `Inspect the locally stored market data and import snapshots
from JSON files. All market data lives in the local store; nothing is
fetched from the network.`,
	}

	cmd.AddCommand(newDataQuoteCmd(app))
	cmd.AddCommand(newDataExpiriesCmd(app))
	cmd.AddCommand(newDataVolCmd(app))
	cmd.AddCommand(newDataImportCmd(app))
	return cmd
}

func newDataQuoteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "quote <symbol>",
		Short:   "Show the stored quote for a symbol",
		Args:    cobra.ExactArgs(1),
		Example: "  optlab data quote SPY",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Market == nil {
				output.Error("Market data store is not available")
				return errors.ErrSourceUnavailable
			}

			quote, err := app.Market.Quote(cmd.Context(), strings.ToUpper(args[0]))
			if err != nil {
				output.Error("No quote for %s: %v", strings.ToUpper(args[0]), err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(quote)
			}
			output.Bold("%s  %s", quote.Symbol, utils.FormatUSD(quote.Price))
			output.Printf("  %-14s %s (%s)\n", "Change",
				output.PnL(utils.FormatPnL(quote.Change), quote.Change),
				utils.FormatPercent(quote.ChangePercent))
			output.Printf("  %-14s %s\n", "Prev close", utils.FormatUSD(quote.PreviousClose))
			output.Printf("  %-14s %s\n", "Volume", utils.FormatQuantity(quote.Volume))
			output.Printf("  %-14s %s\n", "As of", quote.Timestamp.Format(time.RFC3339))
			return nil
		},
	}
}

func newDataExpiriesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "expiries <symbol>",
		Short:   "List stored option expiries for a symbol",
		Args:    cobra.ExactArgs(1),
		Example: "  optlab data expiries SPY",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Market == nil {
				output.Error("Market data store is not available")
				return errors.ErrSourceUnavailable
			}

			infos, err := app.Market.ExpiryDates(cmd.Context(), strings.ToUpper(args[0]))
			if err != nil {
				output.Error("No expiries for %s: %v", strings.ToUpper(args[0]), err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(infos)
			}
			output.Printf("%-12s %-10s %6s\n", "Date", "Type", "DTE")
			for _, info := range infos {
				output.Printf("%-12s %-10s %6d\n",
					utils.FormatDate(info.Date), info.Type, info.DaysUntilExpiry)
			}
			return nil
		},
	}
}

func newDataVolCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "vol <symbol>",
		Short:   "Show volatility metrics from stored close history",
		Args:    cobra.ExactArgs(1),
		Example: "  optlab data vol SPY --days 60 --iv 0.22",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Market == nil {
				output.Error("Market data store is not available")
				return errors.ErrSourceUnavailable
			}

			days, _ := cmd.Flags().GetInt("days")
			iv, _ := cmd.Flags().GetFloat64("iv")
			metrics, err := app.Market.Volatility(cmd.Context(), strings.ToUpper(args[0]), days, iv)
			if err != nil {
				output.Error("Volatility computation failed: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(metrics)
			}
			output.Bold("%s volatility", metrics.Symbol)
			output.Printf("  %-14s %.2f%%\n", "Implied", metrics.ImpliedVolatility*100)
			output.Printf("  %-14s %.2f%%\n", "Historical", metrics.HistoricalVolatility*100)
			output.Printf("  %-14s %.0f\n", "IV rank", metrics.IVRank)
			return nil
		},
	}

	cmd.Flags().Int("days", 30, "trading days of close history")
	cmd.Flags().Float64("iv", 0, "implied volatility (falls back to historical)")
	return cmd
}

// marketDataFile is the JSON snapshot shape accepted by 'data import'.
type marketDataFile struct {
	Quote    *marketdata.Quote  `json:"quote,omitempty"`
	Closes   map[string]float64 `json:"closes,omitempty"`
	Expiries []string           `json:"expiries,omitempty"`
}

func newDataImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <symbol> <file>",
		Short: "Import a market data snapshot from a JSON file",
		Long: `Import a quote, daily close history and option expiries for a
symbol from a JSON snapshot file. Dates use the YYYY-MM-DD format.`,
		Args:    cobra.ExactArgs(2),
		Example: "  optlab data import SPY spy-snapshot.json",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				output.Error("Market data store is not available")
				return errors.ErrSourceUnavailable
			}
			symbol := strings.ToUpper(args[0])

			data, err := os.ReadFile(args[1])
			if err != nil {
				output.Error("Cannot read snapshot: %v", err)
				return err
			}
			var snapshot marketDataFile
			if err := json.Unmarshal(data, &snapshot); err != nil {
				output.Error("Cannot parse snapshot: %v", err)
				return err
			}

			ctx := cmd.Context()
			if snapshot.Quote != nil {
				snapshot.Quote.Symbol = symbol
				if snapshot.Quote.Timestamp.IsZero() {
					snapshot.Quote.Timestamp = time.Now()
				}
				if err := app.Store.SaveQuote(ctx, snapshot.Quote); err != nil {
					output.Error("Failed to save quote: %v", err)
					return err
				}
				output.Success("Saved quote for %s", symbol)
			}

			if len(snapshot.Closes) > 0 {
				closes := make(map[time.Time]float64, len(snapshot.Closes))
				for dateStr, close := range snapshot.Closes {
					date, err := time.Parse("2006-01-02", dateStr)
					if err != nil {
						output.Error("Invalid close date %q", dateStr)
						return err
					}
					closes[date] = close
				}
				if err := app.Store.SaveCloses(ctx, symbol, closes); err != nil {
					output.Error("Failed to save closes: %v", err)
					return err
				}
				output.Success("Saved %d daily closes for %s", len(closes), symbol)
			}

			if len(snapshot.Expiries) > 0 {
				dates := make([]time.Time, 0, len(snapshot.Expiries))
				for _, dateStr := range snapshot.Expiries {
					date, err := time.Parse("2006-01-02", dateStr)
					if err != nil {
						output.Error("Invalid expiry date %q", dateStr)
						return err
					}
					dates = append(dates, date)
				}
				if err := app.Store.SaveExpiries(ctx, symbol, dates); err != nil {
					output.Error("Failed to save expiries: %v", err)
					return err
				}
				output.Success("Saved %d expiries for %s", len(dates), symbol)
			}
			return nil
		},
	}
}
