package cli

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"options-lab/internal/errors"
	"options-lab/internal/models"
	"options-lab/internal/store"
	"options-lab/pkg/utils"
)

func newJournalCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Browse saved analyses",
		Long:  "List, show and delete analyses saved with 'analyze --save'.",
	}

	cmd.AddCommand(newJournalListCmd(app))
	cmd.AddCommand(newJournalShowCmd(app))
	cmd.AddCommand(newJournalDeleteCmd(app))
	return cmd
}

func newJournalListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved analyses",
		Example: `  optlab journal list
  optlab journal list --symbol SPY --strategy IRON_CONDOR --limit 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				output.Error("Journal store is not available")
				return errors.ErrSourceUnavailable
			}

			filter := store.AnalysisFilter{}
			if symbol, _ := cmd.Flags().GetString("symbol"); symbol != "" {
				filter.Symbol = strings.ToUpper(symbol)
			}
			if strat, _ := cmd.Flags().GetString("strategy"); strat != "" {
				filter.Strategy = models.StrategyType(strings.ToUpper(strat))
			}
			if days, _ := cmd.Flags().GetInt("days"); days > 0 {
				filter.From = time.Now().AddDate(0, 0, -days)
			}
			filter.Limit, _ = cmd.Flags().GetInt("limit")

			records, err := app.Store.GetAnalyses(cmd.Context(), filter)
			if err != nil {
				output.Error("Failed to list analyses: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(records)
			}
			if len(records) == 0 {
				output.Info("No saved analyses")
				return nil
			}

			output.Printf("%-22s %-12s %-8s %-22s %12s\n", "ID", "Date", "Symbol", "Strategy", "Cost")
			for _, record := range records {
				symbol := record.Symbol
				if symbol == "" {
					symbol = "-"
				}
				output.Printf("%-22s %-12s %-8s %-22s %12s\n",
					record.ID, utils.FormatDate(record.CreatedAt), symbol,
					record.Strategy.DisplayName(),
					output.PnL(utils.FormatPnL(record.InitialCost), record.InitialCost))
			}
			return nil
		},
	}

	cmd.Flags().String("symbol", "", "filter by symbol")
	cmd.Flags().String("strategy", "", "filter by strategy type, e.g. IRON_CONDOR")
	cmd.Flags().Int("days", 0, "only analyses from the last N days")
	cmd.Flags().Int("limit", 25, "maximum number of rows")
	return cmd
}

func newJournalShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "show <id>",
		Short:   "Show one saved analysis in full",
		Args:    cobra.ExactArgs(1),
		Example: "  optlab journal show an-1755856800000000000",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				output.Error("Journal store is not available")
				return errors.ErrSourceUnavailable
			}

			record, err := app.Store.GetAnalysisByID(cmd.Context(), args[0])
			if err != nil {
				output.Error("Failed to load analysis: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(record)
			}

			output.Bold("%s", record.ID)
			if record.Symbol != "" {
				output.Printf("  %-14s %s\n", "Symbol", record.Symbol)
			}
			output.Printf("  %-14s %s\n", "Saved", record.CreatedAt.Format(time.RFC3339))
			output.Printf("  %-14s %s\n", "Spot", utils.FormatUSD(record.SpotPrice))
			output.Println()
			displayResults(output, record.Inputs, &record.Results)
			return nil
		},
	}
}

func newJournalDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a saved analysis",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				output.Error("Journal store is not available")
				return errors.ErrSourceUnavailable
			}

			if err := app.Store.DeleteAnalysis(cmd.Context(), args[0]); err != nil {
				output.Error("Failed to delete analysis: %v", err)
				return err
			}
			output.Success("Deleted %s", args[0])
			return nil
		},
	}
}
