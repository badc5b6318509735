package pricing

import (
	"github.com/shopspring/decimal"

	"storebridge/internal/core/apperror"
	"storebridge/internal/core/types"
	"storebridge/internal/domain/catalog/item"
)

// MarginDefaults is the wrap-type default margin table for the Talabat
// channel. It is injected configuration, not package state, so deployments
// (and tests) can substitute their own percentages.
type MarginDefaults struct {
	Weighed types.Money // wrap=9900
	Regular types.Money // wrap=10000
}

// StandardMarginDefaults returns the production table: 17% for weight-based
// items, 15% for regular items.
func StandardMarginDefaults() MarginDefaults {
	return MarginDefaults{
		Weighed: decimal.NewFromInt(17),
		Regular: decimal.NewFromInt(15),
	}
}

// MarginResolver determines the effective margin percentage for an item.
type MarginResolver struct {
	defaults MarginDefaults
}

// NewMarginResolver creates a resolver with the given default table.
func NewMarginResolver(defaults MarginDefaults) *MarginResolver {
	return &MarginResolver{defaults: defaults}
}

// EffectiveMargin resolves the margin percentage for one computation.
//
// Pasons never carries a margin. On Talabat a custom margin wins when
// present — an explicit zero is a real override, only absence falls through
// to the wrap-type default. Custom values outside [0, 100] are rejected,
// never clamped.
func (r *MarginResolver) EffectiveMargin(channel item.Channel, wrap item.Wrap, custom decimal.NullDecimal) (types.Money, error) {
	if channel == item.ChannelPasons {
		return decimal.Zero, nil
	}
	if channel != item.ChannelTalabat {
		return decimal.Zero, apperror.NewValidation("unknown channel").
			WithDetail("value", string(channel))
	}

	if custom.Valid {
		if !types.PercentInRange(custom.Decimal) {
			return decimal.Zero, apperror.NewMarginOutOfRange("", custom.Decimal.String())
		}
		return custom.Decimal, nil
	}

	switch wrap {
	case item.WrapWeighed:
		return r.defaults.Weighed, nil
	default:
		return r.defaults.Regular, nil
	}
}
