package cascade

import (
	"github.com/shopspring/decimal"

	"storebridge/internal/core/apperror"
	"storebridge/internal/core/id"
	"storebridge/internal/core/types"
	"storebridge/internal/domain/catalog/item"
	"storebridge/internal/domain/pricing"
)

// ParentChange is the set of values being applied to a parent unit. Nil
// members were not part of the input row and do not propagate.
type ParentChange struct {
	MRP   *types.Money
	Cost  *types.Money
	Stock *int
}

// ChildUpdate is one child's recomputed state. All updates of a cascade set
// form a single unit of work: the caller persists them in one batch or not
// at all.
type ChildUpdate struct {
	ItemID   id.ID
	ItemCode string
	Units    string

	MRP          *types.Money
	Cost         *types.Money
	Stock        *int
	SellingPrice *types.Money
	MarginAmount types.Money
}

// Batch is the atomic result of cascading one parent.
type Batch struct {
	Children []ChildUpdate

	// Warning carries a non-fatal AmbiguousRole condition, if any.
	Warning *apperror.AppError
}

// Engine propagates parent changes to child units.
type Engine struct {
	calc *pricing.Calculator
}

// NewEngine creates a cascade engine.
func NewEngine(calc *pricing.Calculator) *Engine {
	return &Engine{calc: calc}
}

// Cascade computes the child updates for a parent change.
//
// The caller must have classified the row as RoleParent: cascade direction
// is strictly parent to child, and gating on the role up front is what keeps
// a child update from ever rippling back to its parent or siblings.
//
// Children receive the parent's MRP and cost unchanged (prices stay per-KG;
// the division happens inside the price calculation), stock multiplied by
// their own WDF, and a freshly computed selling price.
func (e *Engine) Cascade(index *Index, parent item.Item, change ParentChange) (Batch, error) {
	if Classify(parent) != RoleParent {
		return Batch{}, apperror.NewBusinessRule(apperror.CodeBusinessRule,
			"cascade requires a parent item").
			WithDetail("item_code", parent.ItemCode).
			WithDetail("role", Classify(parent).String())
	}

	children, warning := index.ChildrenOf(parent)
	batch := Batch{Warning: warning}

	for _, child := range children {
		wdf, ok := child.WDF()
		if !ok || !wdf.IsPositive() {
			return Batch{}, apperror.NewInvalidDivisor(
				"weight_division_factor", child.ItemCode, "cascade", child.SKU)
		}

		upd := ChildUpdate{
			ItemID:   child.ID,
			ItemCode: child.ItemCode,
			Units:    child.Units,
		}

		if change.MRP != nil {
			mrp := *change.MRP
			upd.MRP = &mrp

			res, err := e.calc.Calculate(pricing.CalcInput{
				ItemCode:     child.ItemCode,
				Raw:          mrp,
				Wrap:         item.WrapWeighed,
				WDF:          decimal.NullDecimal{Decimal: wdf, Valid: true},
				Channel:      child.Channel,
				CustomMargin: child.CustomMarginPercent,
			})
			if err != nil {
				return Batch{}, err
			}
			upd.SellingPrice = &res.FinalPrice
			upd.MarginAmount = res.MarginAmount
		}

		if change.Cost != nil {
			cost := *change.Cost
			upd.Cost = &cost
		}

		if change.Stock != nil {
			// Parent stock arrives in KG; each child stores packs.
			packs := int(decimal.NewFromInt(int64(*change.Stock)).Mul(wdf).IntPart())
			upd.Stock = &packs
		}

		batch.Children = append(batch.Children, upd)
	}

	return batch, nil
}
