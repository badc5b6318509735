// Package promotion converts raw promotional prices into channel prices and
// enforces the minimum-margin and minimum-gap rules.
package promotion

import (
	"github.com/shopspring/decimal"

	"storebridge/internal/core/apperror"
	"storebridge/internal/core/types"
	"storebridge/internal/domain/catalog/item"
	"storebridge/internal/domain/pricing"
)

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)

	// Minimum GP% a Talabat promotion may carry.
	minGPPercent = decimal.NewFromInt(20)

	// Multiplier applied to cost when lifting a promotion to the floor;
	// smart rounding lands the result at or above 20% GP.
	minMarginMultiplier = decimal.NewFromFloat(1.25)

	// Minimum distance between selling price and promotional price.
	minPriceGap = decimal.NewFromInt(2)
)

// ConvertInput carries one promo-price conversion.
type ConvertInput struct {
	ItemCode   string
	PromoPrice types.Money
	Channel    item.Channel
	Wrap       item.Wrap
	WDF        decimal.NullDecimal
	// MarginPercent is the already-resolved channel margin.
	MarginPercent types.Money
}

// Convert turns a raw promotional price into the channel price candidate:
// divided by the WDF for weight-based items, lifted by the margin on
// Talabat, then rounded (smart on Talabat, plain 2dp on Pasons).
func Convert(in ConvertInput) (types.Money, error) {
	base := in.PromoPrice
	if in.Wrap == item.WrapWeighed {
		if !in.WDF.Valid || !in.WDF.Decimal.IsPositive() {
			value := "null"
			if in.WDF.Valid {
				value = in.WDF.Decimal.String()
			}
			return decimal.Zero, apperror.NewInvalidDivisor(
				"weight_division_factor", in.ItemCode, "promotion conversion", value)
		}
		base = base.Div(in.WDF.Decimal)
	}

	if in.Channel == item.ChannelTalabat {
		converted := base.Mul(one.Add(in.MarginPercent.Div(hundred)))
		return pricing.RoundPsychological(converted, false), nil
	}
	return types.RoundHalfUp(base, types.PriceScale), nil
}

// ValidateInput carries one promotion validation pass. Cost and prices are
// per-package (already converted) amounts.
type ValidateInput struct {
	ItemCode       string
	Channel        item.Channel
	Cost           types.Money
	ConvertedPromo types.Money
	SellingPrice   types.Money
}

// Result reports the validated promotion and which corrections fired.
type Result struct {
	ConvertedPromo types.Money
	SellingPrice   types.Money
	GPPercent      types.Money
	PromoAdjusted  bool
	SellingAdjusted bool
}

// Validate enforces the promotion price rules:
//
//  1. GP% = (promo - cost) / promo * 100; a zero promo price cannot be
//     divided and is rejected outright.
//  2. Talabat promotions below 20% GP are lifted to smart-rounded
//     cost x 1.25.
//  3. On both channels the selling price must sit at least 2.00 above the
//     promo; too-narrow gaps push the selling price up.
//  4. A promo at or below cost after adjustment is fatal, never clamped.
func Validate(in ValidateInput) (Result, error) {
	if !in.ConvertedPromo.IsPositive() {
		return Result{}, apperror.NewInvalidDivisor(
			"converted_promo", in.ItemCode, "gp calculation", in.ConvertedPromo.String())
	}

	promo := in.ConvertedPromo
	selling := in.SellingPrice
	res := Result{}

	gp := promo.Sub(in.Cost).Div(promo).Mul(hundred)

	if in.Channel == item.ChannelTalabat && gp.LessThan(minGPPercent) {
		promo = pricing.RoundPsychological(in.Cost.Mul(minMarginMultiplier), false)
		res.PromoAdjusted = true
	}

	if in.Cost.IsPositive() && promo.LessThanOrEqual(in.Cost) {
		return Result{}, apperror.NewPromoBelowCost(in.ItemCode, promo.String(), in.Cost.String())
	}

	if selling.Sub(promo).LessThan(minPriceGap) {
		selling = promo.Add(minPriceGap)
		res.SellingAdjusted = true
	}

	res.ConvertedPromo = promo
	res.SellingPrice = selling
	res.GPPercent = types.RoundHalfUp(promo.Sub(in.Cost).Div(promo).Mul(hundred), types.PriceScale)
	return res, nil
}
