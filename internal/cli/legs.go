package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"options-lab/internal/engine/validate"
	"options-lab/internal/models"
)

// addLegFlags registers the flags shared by every command that takes a
// strategy as input.
func addLegFlags(cmd *cobra.Command) {
	cmd.Flags().StringArray("leg", nil,
		"option leg as position:type:strike:premium:qty:expiry[:vol], e.g. long:call:100:4.50:1:2026-06-19")
	cmd.Flags().String("file", "", "JSON file describing the strategy legs")
	cmd.Flags().Float64("spot", 0, "current stock price")
	cmd.Flags().Int("stock-shares", 0, "underlying stock position (signed share count)")
	cmd.Flags().Float64("stock-basis", 0, "cost basis per share of the stock position")
	cmd.Flags().Float64("vol", 0, "volatility (default from config)")
	cmd.Flags().Float64("rate", -1, "risk-free rate (default from config)")
	cmd.Flags().Float64("dividend", -1, "dividend yield (default from config)")
}

// strategyFile is the on-disk JSON shape accepted by --file.
type strategyFile struct {
	Symbol     string                  `json:"symbol,omitempty"`
	StockPrice float64                 `json:"stockPrice"`
	Legs       []models.OptionLegInput `json:"legs"`
	Stock      *models.StockLeg        `json:"stock,omitempty"`
}

// buildInputs assembles CalculationInputs from flags, a JSON file, or
// both. Flag values override file values.
func buildInputs(cmd *cobra.Command, app *App) (models.CalculationInputs, string, error) {
	var inputs models.CalculationInputs
	symbol := ""
	now := time.Now()

	if file, _ := cmd.Flags().GetString("file"); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return inputs, "", fmt.Errorf("cannot read strategy file: %w", err)
		}
		var sf strategyFile
		if err := json.Unmarshal(data, &sf); err != nil {
			return inputs, "", fmt.Errorf("cannot parse strategy file: %w", err)
		}
		legs, err := validate.ParseLegs(sf.Legs, now)
		if err != nil {
			return inputs, "", err
		}
		inputs.StockPrice = sf.StockPrice
		inputs.Legs = legs
		inputs.Stock = sf.Stock
		symbol = strings.ToUpper(sf.Symbol)
	}

	if specs, _ := cmd.Flags().GetStringArray("leg"); len(specs) > 0 {
		legs, err := parseLegSpecs(specs, now)
		if err != nil {
			return inputs, "", err
		}
		inputs.Legs = legs
	}

	if spot, _ := cmd.Flags().GetFloat64("spot"); spot > 0 {
		inputs.StockPrice = spot
	}
	if shares, _ := cmd.Flags().GetInt("stock-shares"); shares != 0 {
		basis, _ := cmd.Flags().GetFloat64("stock-basis")
		inputs.Stock = &models.StockLeg{Shares: shares, CostBasis: basis}
	}

	inputs.Volatility = app.Config.Market.Volatility
	if vol, _ := cmd.Flags().GetFloat64("vol"); vol > 0 {
		inputs.Volatility = vol
	}
	inputs.RiskFreeRate = app.Config.Market.RiskFreeRate
	if rate, _ := cmd.Flags().GetFloat64("rate"); rate >= 0 {
		inputs.RiskFreeRate = rate
	}
	inputs.DividendYield = app.Config.Market.DividendYield
	if div, _ := cmd.Flags().GetFloat64("dividend"); div >= 0 {
		inputs.DividendYield = div
	}

	return inputs, symbol, nil
}

// parseLegSpecs parses the compact leg flag format:
// position:type:strike:premium:qty:expiry[:vol]
func parseLegSpecs(specs []string, asOf time.Time) ([]models.OptionLeg, error) {
	raw := make([]models.OptionLegInput, 0, len(specs))
	for i, spec := range specs {
		parts := strings.Split(spec, ":")
		if len(parts) < 6 || len(parts) > 7 {
			return nil, fmt.Errorf("leg %d: expected position:type:strike:premium:qty:expiry[:vol], got %q", i+1, spec)
		}

		strike, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return nil, fmt.Errorf("leg %d: invalid strike %q", i+1, parts[2])
		}
		premium, err := strconv.ParseFloat(parts[3], 64)
		if err != nil {
			return nil, fmt.Errorf("leg %d: invalid premium %q", i+1, parts[3])
		}
		qty, err := strconv.Atoi(parts[4])
		if err != nil {
			return nil, fmt.Errorf("leg %d: invalid quantity %q", i+1, parts[4])
		}

		input := models.OptionLegInput{
			Position: parts[0],
			Type:     parts[1],
			Strike:   strike,
			Premium:  premium,
			Quantity: qty,
			Expiry:   parts[5],
		}
		if len(parts) == 7 {
			vol, err := strconv.ParseFloat(parts[6], 64)
			if err != nil {
				return nil, fmt.Errorf("leg %d: invalid volatility %q", i+1, parts[6])
			}
			input.Volatility = &vol
		}
		raw = append(raw, input)
	}
	return validate.ParseLegs(raw, asOf)
}
