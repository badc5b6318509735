package dto

import (
	"github.com/shopspring/decimal"

	"storebridge/internal/domain/bulkupdate"
	"storebridge/internal/domain/catalog/item"
)

// BulkRowRequest is one row of a bulk price/cost/stock update. Absent fields
// leave the stored value untouched.
type BulkRowRequest struct {
	ItemCode string `json:"itemCode" binding:"required"`
	Units    string `json:"units" binding:"required"`

	MRP   *decimal.Decimal `json:"mrp,omitempty"`
	Cost  *decimal.Decimal `json:"cost,omitempty"`
	Stock *int             `json:"stock,omitempty"`

	CustomMarginPercent *decimal.Decimal `json:"customMarginPercent,omitempty"`
	PromoPrice          *decimal.Decimal `json:"promoPrice,omitempty"`
}

// ToRow converts to the domain row.
func (r BulkRowRequest) ToRow() bulkupdate.Row {
	return bulkupdate.Row{
		ItemCode:            r.ItemCode,
		Units:               r.Units,
		MRP:                 r.MRP,
		Cost:                r.Cost,
		Stock:               r.Stock,
		CustomMarginPercent: r.CustomMarginPercent,
		PromoPrice:          r.PromoPrice,
	}
}

// BulkUpdateRequest is one bulk update invocation against one outlet.
type BulkUpdateRequest struct {
	OutletID string           `json:"outletId" binding:"required,uuid"`
	Channel  string           `json:"channel" binding:"required"`
	Rows     []BulkRowRequest `json:"rows" binding:"required,min=1,max=5000"`
}

// BulkRowResponse is the outcome of one input row.
type BulkRowResponse struct {
	ItemCode string `json:"itemCode"`
	Units    string `json:"units"`

	FinalSellingPrice   *decimal.Decimal           `json:"finalSellingPrice,omitempty"`
	MarginAmountApplied decimal.Decimal            `json:"marginAmountApplied"`
	ConvertedCost       *decimal.Decimal           `json:"convertedCost,omitempty"`
	CascadedChildren    []bulkupdate.CascadedChild `json:"cascadedChildren,omitempty"`

	PromoAdjusted   bool `json:"promoAdjusted"`
	SellingAdjusted bool `json:"sellingAdjusted"`

	SkippedFields []string `json:"skippedFields,omitempty"`
	Warnings      []string `json:"warnings,omitempty"`
	Error         string   `json:"error,omitempty"`
}

// BulkUpdateResponse summarizes one processed batch.
type BulkUpdateResponse struct {
	Rows     []BulkRowResponse `json:"rows"`
	Updated  int               `json:"updated"`
	NoChange int               `json:"noChange"`
	NotFound int               `json:"notFound"`
	Created  int               `json:"created"`
}

// FromBatchResult converts the domain result.
func FromBatchResult(res bulkupdate.BatchResult) BulkUpdateResponse {
	out := BulkUpdateResponse{
		Rows:     make([]BulkRowResponse, 0, len(res.Rows)),
		Updated:  res.Updated,
		NoChange: res.NoChange,
		NotFound: res.NotFound,
		Created:  len(res.Created),
	}
	for _, row := range res.Rows {
		rr := BulkRowResponse{
			ItemCode:            row.ItemCode,
			Units:               row.Units,
			FinalSellingPrice:   row.FinalSellingPrice,
			MarginAmountApplied: row.MarginAmountApplied,
			ConvertedCost:       row.ConvertedCost,
			CascadedChildren:    row.CascadedChildren,
			PromoAdjusted:       row.PromoAdjusted,
			SellingAdjusted:     row.SellingAdjusted,
			SkippedFields:       row.SkippedFields,
			Warnings:            row.Warnings,
		}
		if row.Error != nil {
			rr.Error = row.Error.Error()
		}
		out.Rows = append(out.Rows, rr)
	}
	return out
}

// ParseChannel validates a channel string.
func ParseChannel(s string) (item.Channel, bool) {
	ch := item.Channel(s)
	return ch, ch.Valid()
}
