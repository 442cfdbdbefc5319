package validate

import (
	"fmt"
	"strings"
	"time"

	"options-lab/internal/errors"
	"options-lab/internal/models"
)

// DateLayout is the wire format for expiry dates.
const DateLayout = "2006-01-02"

// ParseLeg converts a raw leg input into an OptionLeg. The expiry string
// must parse and lie strictly in the future of asOf.
func ParseLeg(input models.OptionLegInput, asOf time.Time) (models.OptionLeg, error) {
	var leg models.OptionLeg

	optType := models.OptionType(strings.ToUpper(input.Type))
	if optType != models.Call && optType != models.Put {
		return leg, errors.NewInvalidInput("optionType", fmt.Sprintf("unknown option type %q", input.Type))
	}
	position := models.Position(strings.ToUpper(input.Position))
	if position != models.Long && position != models.Short {
		return leg, errors.NewInvalidInput("position", fmt.Sprintf("unknown position %q", input.Position))
	}

	expiry, err := time.Parse(DateLayout, input.Expiry)
	if err != nil {
		return leg, errors.NewCalculationError(errors.CodeInvalidDate,
			fmt.Sprintf("cannot parse expiry date %q", input.Expiry), err)
	}
	if !expiry.After(asOf) {
		return leg, errors.NewCalculationError(errors.CodeExpiredOption,
			fmt.Sprintf("expiry %s is not in the future", input.Expiry), nil)
	}

	return models.OptionLeg{
		ID:         input.ID,
		Type:       optType,
		Position:   position,
		Strike:     input.Strike,
		Premium:    input.Premium,
		Quantity:   input.Quantity,
		Expiry:     expiry,
		Volatility: input.Volatility,
	}, nil
}

// ParseLegs converts a batch of raw inputs, assigning sequential ids to
// entries that arrive without one. Explicit ids must be unique.
func ParseLegs(inputs []models.OptionLegInput, asOf time.Time) ([]models.OptionLeg, error) {
	legs := make([]models.OptionLeg, 0, len(inputs))
	seen := make(map[string]struct{}, len(inputs))
	for i, input := range inputs {
		if input.ID == "" {
			input.ID = fmt.Sprintf("leg-%d", i+1)
		}
		if _, dup := seen[input.ID]; dup {
			return nil, errors.NewCalculationError(errors.CodeInvalidInput,
				fmt.Sprintf("legs[%d]: id %q already used", i, input.ID), errors.ErrDuplicateLegID)
		}
		seen[input.ID] = struct{}{}
		leg, err := ParseLeg(input, asOf)
		if err != nil {
			return nil, errors.Wrapf(err, "legs[%d]", i)
		}
		legs = append(legs, leg)
	}
	return legs, nil
}
