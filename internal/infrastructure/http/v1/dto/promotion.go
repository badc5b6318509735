package dto

import (
	"github.com/shopspring/decimal"

	"storebridge/internal/domain/promotion"
)

// StartPromotionRequest starts a promotion for one item at one outlet.
type StartPromotionRequest struct {
	ItemID     string          `json:"itemId" binding:"required,uuid"`
	OutletID   string          `json:"outletId" binding:"required,uuid"`
	PromoPrice decimal.Decimal `json:"promoPrice" binding:"required"`
}

// CancelPromotionRequest ends a promotion.
type CancelPromotionRequest struct {
	ItemID   string `json:"itemId" binding:"required,uuid"`
	OutletID string `json:"outletId" binding:"required,uuid"`
}

// PromotionResponse reports the applied promotion.
type PromotionResponse struct {
	ConvertedPromo  decimal.Decimal `json:"convertedPromo"`
	SellingPrice    decimal.Decimal `json:"sellingPrice"`
	GPPercent       decimal.Decimal `json:"gpPercent"`
	PromoAdjusted   bool            `json:"promoAdjusted"`
	SellingAdjusted bool            `json:"sellingAdjusted"`
}

// FromStartResult converts the domain result.
func FromStartResult(res *promotion.StartResult) PromotionResponse {
	return PromotionResponse{
		ConvertedPromo:  res.ConvertedPromo,
		SellingPrice:    res.SellingPrice,
		GPPercent:       res.GPPercent,
		PromoAdjusted:   res.PromoAdjusted,
		SellingAdjusted: res.SellingAdjusted,
	}
}
