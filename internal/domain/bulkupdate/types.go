// Package bulkupdate drives a batch of price/cost/stock rows through the
// pricing core: role resolution, lock gating, price computation and the
// parent-to-child cascade. The whole pass is a pure in-memory computation
// over snapshots; callers persist what comes back.
package bulkupdate

import (
	"storebridge/internal/core/id"
	"storebridge/internal/core/types"
	"storebridge/internal/domain/catalog/item"
)

// Row is one validated input row as handed over by the upload collaborator.
// Nil members were absent from the upload and leave the stored value alone.
type Row struct {
	ItemCode string
	Units    string

	MRP   *types.Money
	Cost  *types.Money
	Stock *int

	// CustomMarginPercent sets the item's margin override. Talabat only;
	// ignored on Pasons rows.
	CustomMarginPercent *types.Money

	// PromoPrice triggers the promotion pass for this row.
	PromoPrice *types.Money
}

// Batch is one bulk update invocation: the rows plus by-value snapshots of
// every item and outlet instance the rows may touch, all on one channel.
type Batch struct {
	Channel  item.Channel
	OutletID id.ID
	Rows     []Row

	// Items are the candidate catalog records, indexed internally by
	// (item_code, units). Multiple SKUs per key are expected.
	Items []item.Item

	// Instances maps item ID to that item's snapshot at the target outlet.
	// Items without an entry get a fresh instance seeded from the item.
	Instances map[id.ID]item.ItemOutlet
}

// CascadedChild reports one child touched by a parent row.
type CascadedChild struct {
	ItemCode        string       `json:"itemCode"`
	Units           string       `json:"units"`
	NewStock        *int         `json:"newStock,omitempty"`
	NewSellingPrice *types.Money `json:"newSellingPrice,omitempty"`
	SkippedFields   []string     `json:"skippedFields,omitempty"`
}

// RowResult is the computed outcome for one input row.
type RowResult struct {
	ItemCode string `json:"itemCode"`
	Units    string `json:"units"`

	FinalSellingPrice   *types.Money    `json:"finalSellingPrice,omitempty"`
	MarginAmountApplied types.Money     `json:"marginAmountApplied"`
	ConvertedCost       *types.Money    `json:"convertedCost,omitempty"`
	CascadedChildren    []CascadedChild `json:"cascadedChildren,omitempty"`

	PromoAdjusted   bool `json:"promoAdjusted"`
	SellingAdjusted bool `json:"sellingAdjusted"`

	// SkippedFields lists mutations suppressed by an effective lock.
	SkippedFields []string `json:"skippedFields,omitempty"`

	// Warnings carries non-fatal conditions (ambiguous roles).
	Warnings []string `json:"warnings,omitempty"`

	// Error carries this row's failure; the rest of the batch continues.
	Error error `json:"-"`
}

// Failed reports whether the row errored.
func (r RowResult) Failed() bool { return r.Error != nil }

// BatchResult is the outcome of one bulk update pass.
type BatchResult struct {
	Rows []RowResult

	// Updates holds the final state of every mutated (or newly created)
	// outlet instance, ready for one batched write. Instances belonging to
	// one cascade set are contiguous; the whole slice is persisted as a
	// single unit of work.
	Updates []item.ItemOutlet

	// Created flags the subset of Updates that did not exist before.
	Created map[id.ID]bool

	// MarginUpdates holds items whose custom margin override changed.
	MarginUpdates []item.Item

	Updated  int
	NoChange int
	NotFound int
}
