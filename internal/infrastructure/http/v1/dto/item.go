package dto

import (
	"github.com/shopspring/decimal"

	"storebridge/internal/domain/catalog/item"
)

// ItemResponse represents a catalog item in API responses.
type ItemResponse struct {
	ID                   string           `json:"id"`
	ItemCode             string           `json:"itemCode"`
	SKU                  string           `json:"sku"`
	Units                string           `json:"units"`
	Channel              string           `json:"channel"`
	Wrap                 string           `json:"wrap"`
	WeightDivisionFactor *decimal.Decimal `json:"weightDivisionFactor,omitempty"`
	OuterCaseQuantity    *int             `json:"outerCaseQuantity,omitempty"`
	MRP                  decimal.Decimal  `json:"mrp"`
	Cost                 decimal.Decimal  `json:"cost"`
	CustomMarginPercent  *decimal.Decimal `json:"customMarginPercent,omitempty"`
	PriceLocked          bool             `json:"priceLocked"`
	StatusLocked         bool             `json:"statusLocked"`
}

// FromItem creates a response from a domain item.
func FromItem(it item.Item) ItemResponse {
	res := ItemResponse{
		ID:                it.ID.String(),
		ItemCode:          it.ItemCode,
		SKU:               it.SKU,
		Units:             it.Units,
		Channel:           string(it.Channel),
		Wrap:              string(it.Wrap),
		OuterCaseQuantity: it.OuterCaseQuantity,
		MRP:               it.MRP,
		Cost:              it.Cost,
		PriceLocked:       it.PriceLocked,
		StatusLocked:      it.StatusLocked,
	}
	if it.WeightDivisionFactor.Valid {
		wdf := it.WeightDivisionFactor.Decimal
		res.WeightDivisionFactor = &wdf
	}
	if it.CustomMarginPercent.Valid {
		m := it.CustomMarginPercent.Decimal
		res.CustomMarginPercent = &m
	}
	return res
}

// FromItems converts a list of items.
func FromItems(items []item.Item) []ItemResponse {
	out := make([]ItemResponse, len(items))
	for i, it := range items {
		out[i] = FromItem(it)
	}
	return out
}

// ItemOutletResponse represents a per-outlet instance.
type ItemOutletResponse struct {
	ID       string `json:"id"`
	ItemID   string `json:"itemId"`
	OutletID string `json:"outletId"`

	SellingPrice decimal.Decimal `json:"sellingPrice"`
	MRP          decimal.Decimal `json:"mrp"`
	Cost         decimal.Decimal `json:"cost"`
	Stock        int             `json:"stock"`

	PromoPrice     *decimal.Decimal `json:"promoPrice,omitempty"`
	ConvertedPromo *decimal.Decimal `json:"convertedPromo,omitempty"`
	IsOnPromotion  bool             `json:"isOnPromotion"`

	PriceLocked      bool `json:"priceLocked"`
	StatusLocked     bool `json:"statusLocked"`
	IsActiveInOutlet bool `json:"isActiveInOutlet"`
}

// FromItemOutlet creates a response from a domain instance.
func FromItemOutlet(io item.ItemOutlet) ItemOutletResponse {
	res := ItemOutletResponse{
		ID:               io.ID.String(),
		ItemID:           io.ItemID.String(),
		OutletID:         io.OutletID.String(),
		SellingPrice:     io.SellingPrice,
		MRP:              io.MRP,
		Cost:             io.Cost,
		Stock:            io.Stock,
		IsOnPromotion:    io.IsOnPromotion,
		PriceLocked:      io.PriceLocked,
		StatusLocked:     io.StatusLocked,
		IsActiveInOutlet: io.IsActiveInOutlet,
	}
	if io.PromoPrice.Valid {
		p := io.PromoPrice.Decimal
		res.PromoPrice = &p
	}
	if io.ConvertedPromo.Valid {
		p := io.ConvertedPromo.Decimal
		res.ConvertedPromo = &p
	}
	return res
}

// LockRequest toggles a central lock.
type LockRequest struct {
	Locked bool `json:"locked"`
}

// LinkOutletRequest links an item to an outlet.
type LinkOutletRequest struct {
	OutletID string `json:"outletId" binding:"required,uuid"`
}
