package pricing

import (
	"github.com/shopspring/decimal"

	"storebridge/internal/core/apperror"
	"storebridge/internal/core/types"
	"storebridge/internal/domain/catalog/item"
)

var hundred = decimal.NewFromInt(100)

// CalcInput carries everything one price computation needs, by value.
// Nothing here is shared between channels: a pasons computation is
// byte-identical no matter what talabat configuration looks like.
type CalcInput struct {
	ItemCode string
	// Raw is the MRP (or cost) from the upstream feed; per-KG for
	// weight-based items.
	Raw          types.Money
	Wrap         item.Wrap
	WDF          decimal.NullDecimal
	Channel      item.Channel
	CustomMargin decimal.NullDecimal
}

// CalcResult is the outcome of one price computation.
type CalcResult struct {
	// FinalPrice is the rounded selling price.
	FinalPrice types.Money
	// MarginAmount is the margin actually applied, for GP% reporting.
	MarginAmount types.Money
	// MarginPercent is the resolved margin percentage.
	MarginPercent types.Money
	// BasePrice is the per-package amount before margin.
	BasePrice types.Money
}

// Calculator computes final selling prices.
type Calculator struct {
	margins *MarginResolver
}

// NewCalculator creates a calculator using the given margin resolver.
func NewCalculator(margins *MarginResolver) *Calculator {
	return &Calculator{margins: margins}
}

// Calculate produces the final selling price for one item on one channel.
//
// Weight-based items divide the raw per-KG amount by the WDF first; a
// missing or non-positive WDF is a hard error. The margin amount is
// quantized half-up to 2dp before it is added, matching the upstream feed.
//
// Zero margin bypasses psychological rounding entirely: the exact total is
// rounded half-up to 2dp, so an MRP of 10.00 stays 10.00 and never becomes
// 9.99. Any positive margin gets the full smart rounding, including the
// .00 -> .99 conversion.
func (c *Calculator) Calculate(in CalcInput) (CalcResult, error) {
	margin, err := c.margins.EffectiveMargin(in.Channel, in.Wrap, in.CustomMargin)
	if err != nil {
		if appErr, ok := apperror.AsAppError(err); ok && appErr.Code == apperror.CodeMarginOutOfRange {
			return CalcResult{}, apperror.NewMarginOutOfRange(in.ItemCode, in.CustomMargin.Decimal.String())
		}
		return CalcResult{}, err
	}

	base := in.Raw
	if in.Wrap == item.WrapWeighed {
		wdf, ok := nullDecimalValue(in.WDF)
		if !ok || !wdf.IsPositive() {
			return CalcResult{}, apperror.NewInvalidDivisor(
				"weight_division_factor", in.ItemCode, "price calculation", nullDecimalString(in.WDF))
		}
		base = in.Raw.Div(wdf)
	}
	base = types.RoundHalfUp(base, types.PriceScale)

	marginAmount := types.RoundHalfUp(base.Mul(margin).Div(hundred), types.PriceScale)
	rawTotal := base.Add(marginAmount)

	final := RoundPsychological(rawTotal, margin.IsZero())

	return CalcResult{
		FinalPrice:    final,
		MarginAmount:  marginAmount,
		MarginPercent: margin,
		BasePrice:     base,
	}, nil
}

// ConvertedCost converts a raw cost into the per-package cost: divided by
// the WDF for weight-based items (3dp, the cost precision), unchanged
// otherwise.
func (c *Calculator) ConvertedCost(itemCode string, cost types.Money, wrap item.Wrap, wdfField decimal.NullDecimal) (types.Money, error) {
	if wrap != item.WrapWeighed {
		return types.RoundHalfUp(cost, types.CostScale), nil
	}
	wdf, ok := nullDecimalValue(wdfField)
	if !ok || !wdf.IsPositive() {
		return decimal.Zero, apperror.NewInvalidDivisor(
			"weight_division_factor", itemCode, "cost conversion", nullDecimalString(wdfField))
	}
	return types.RoundHalfUp(cost.Div(wdf), types.CostScale), nil
}

func nullDecimalValue(d decimal.NullDecimal) (decimal.Decimal, bool) {
	if !d.Valid {
		return decimal.Decimal{}, false
	}
	return d.Decimal, true
}

func nullDecimalString(d decimal.NullDecimal) string {
	if !d.Valid {
		return "null"
	}
	return d.Decimal.String()
}
