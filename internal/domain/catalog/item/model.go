// Package item provides the Item catalog: the canonical product records the
// pricing engine operates on, together with their per-outlet price/stock
// instances.
package item

import (
	"context"

	"github.com/shopspring/decimal"

	"storebridge/internal/core/apperror"
	"storebridge/internal/core/id"
)

// Channel is an isolated sales platform. The same logical product listed on
// both channels is two separate Item records; nothing is ever shared or
// mutated across channels.
type Channel string

const (
	ChannelPasons  Channel = "pasons"
	ChannelTalabat Channel = "talabat"
)

// Valid reports whether c is a known channel.
func (c Channel) Valid() bool {
	return c == ChannelPasons || c == ChannelTalabat
}

// Wrap distinguishes weight-based items from regular case-packed items.
type Wrap string

const (
	// WrapWeighed items are priced per KG in the ERP feed and carry a
	// weight division factor (WDF) converting to per-package prices.
	WrapWeighed Wrap = "9900"

	// WrapRegular items are case-packed and carry an outer case quantity.
	WrapRegular Wrap = "10000"
)

// Valid reports whether w is a known wrap type.
func (w Wrap) Valid() bool {
	return w == WrapWeighed || w == WrapRegular
}

// Item is the canonical product record, scoped to exactly one channel.
// item_code groups a weight-based parent with its derived child units.
type Item struct {
	ID       id.ID   `db:"id" json:"id"`
	ItemCode string  `db:"item_code" json:"itemCode"`
	SKU      string  `db:"sku" json:"sku"`
	Units    string  `db:"units" json:"units"`
	Channel  Channel `db:"channel" json:"channel"`
	Wrap     Wrap    `db:"wrap" json:"wrap"`

	// WeightDivisionFactor converts a per-KG price to a per-package price.
	// 1 marks the canonical parent unit; >1 marks a derived child.
	// Meaningful only for wrap=9900.
	WeightDivisionFactor decimal.NullDecimal `db:"weight_division_factor" json:"weightDivisionFactor"`

	// OuterCaseQuantity is units per case. Meaningful only for wrap=10000.
	OuterCaseQuantity *int `db:"outer_case_quantity" json:"outerCaseQuantity,omitempty"`

	MRP  decimal.Decimal `db:"mrp" json:"mrp"`
	Cost decimal.Decimal `db:"cost" json:"cost"`

	// CustomMarginPercent overrides the channel default margin when set.
	// An explicit zero is honored; absent falls through to the default.
	CustomMarginPercent decimal.NullDecimal `db:"custom_margin_percent" json:"customMarginPercent"`

	// Central-level locks (CLS). OR-ed with the outlet-level flags.
	PriceLocked  bool `db:"price_locked" json:"priceLocked"`
	StatusLocked bool `db:"status_locked" json:"statusLocked"`
}

// Outlet is a physical branch bound to exactly one channel.
type Outlet struct {
	ID      id.ID   `db:"id" json:"id"`
	StoreID string  `db:"store_id" json:"storeId"`
	Name    string  `db:"name" json:"name"`
	Channel Channel `db:"channel" json:"channel"`
	Active  bool    `db:"is_active" json:"isActive"`
}

// ItemOutlet is the price/stock instance of an Item at one Outlet.
// Exactly one exists per (Item, Outlet) pair.
type ItemOutlet struct {
	ID       id.ID `db:"id" json:"id"`
	ItemID   id.ID `db:"item_id" json:"itemId"`
	OutletID id.ID `db:"outlet_id" json:"outletId"`

	SellingPrice decimal.Decimal `db:"selling_price" json:"sellingPrice"`
	MRP          decimal.Decimal `db:"mrp" json:"mrp"`
	Cost         decimal.Decimal `db:"cost" json:"cost"`
	Stock        int             `db:"stock" json:"stock"`

	// Promotion state. PromoPrice is the raw input; ConvertedPromo the
	// validated price actually published while the promotion runs.
	PromoPrice           decimal.NullDecimal `db:"promo_price" json:"promoPrice"`
	ConvertedPromo       decimal.NullDecimal `db:"converted_promo" json:"convertedPromo"`
	OriginalSellingPrice decimal.NullDecimal `db:"original_selling_price" json:"originalSellingPrice"`
	IsOnPromotion        bool                `db:"is_on_promotion" json:"isOnPromotion"`

	// Branch-level locks (BLS).
	PriceLocked  bool `db:"price_locked" json:"priceLocked"`
	StatusLocked bool `db:"status_locked" json:"statusLocked"`

	IsActiveInOutlet bool `db:"is_active_in_outlet" json:"isActiveInOutlet"`
}

// Key identifies the items addressed by one input row. Multiple distinct
// SKUs may legitimately share a key (different package sizes with a nominal
// unit label), so lookups by Key always resolve to a slice.
type Key struct {
	ItemCode string
	Units    string
}

// KeyOf returns the lookup key for an item.
func KeyOf(it Item) Key {
	return Key{ItemCode: it.ItemCode, Units: it.Units}
}

// WDF returns the weight division factor, reporting ok=false when unset.
// Role detection and price division must go through this accessor, never
// through SKU string inspection.
func (i Item) WDF() (decimal.Decimal, bool) {
	if !i.WeightDivisionFactor.Valid {
		return decimal.Decimal{}, false
	}
	return i.WeightDivisionFactor.Decimal, true
}

// Validate implements basic invariant checks before an item enters a batch.
func (i *Item) Validate(ctx context.Context) error {
	if i.ItemCode == "" {
		return apperror.NewValidation("item_code is required")
	}
	if i.Units == "" {
		return apperror.NewValidation("units is required").
			WithDetail("item_code", i.ItemCode)
	}
	if !i.Channel.Valid() {
		return apperror.NewValidation("invalid channel").
			WithDetail("item_code", i.ItemCode).
			WithDetail("value", string(i.Channel))
	}
	if !i.Wrap.Valid() {
		return apperror.NewValidation("invalid wrap type").
			WithDetail("item_code", i.ItemCode).
			WithDetail("value", string(i.Wrap))
	}
	if i.MRP.IsNegative() {
		return apperror.NewValidation("mrp cannot be negative").
			WithDetail("item_code", i.ItemCode)
	}
	if i.Cost.IsNegative() {
		return apperror.NewValidation("cost cannot be negative").
			WithDetail("item_code", i.ItemCode)
	}
	if i.CustomMarginPercent.Valid {
		p := i.CustomMarginPercent.Decimal
		if p.IsNegative() || p.GreaterThan(decimal.NewFromInt(100)) {
			return apperror.NewMarginOutOfRange(i.ItemCode, p.String())
		}
	}
	return nil
}
