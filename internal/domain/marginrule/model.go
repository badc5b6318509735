// Package marginrule assigns custom margin overrides to Talabat items through
// operator-authored filter expressions.
package marginrule

import (
	"context"

	"storebridge/internal/core/apperror"
	"storebridge/internal/core/id"
	"storebridge/internal/core/types"
)

// Rule is one margin assignment rule. Expression is a CEL filter over the
// item attributes (item_code, units, wrap, mrp, cost); every matching Talabat
// item receives MarginPercent as its custom margin.
type Rule struct {
	ID         id.ID  `db:"id" json:"id"`
	Name       string `db:"name" json:"name"`
	Expression string `db:"expression" json:"expression"`

	MarginPercent types.Money `db:"margin_percent" json:"marginPercent"`

	// Priority orders evaluation; the lowest matching priority wins.
	Priority int  `db:"priority" json:"priority"`
	Active   bool `db:"is_active" json:"isActive"`
}

// Validate checks the rule's declarative fields. Expression syntax is
// checked separately by the engine at compile time.
func (r *Rule) Validate(ctx context.Context) error {
	if r.Name == "" {
		return apperror.NewValidation("rule name is required")
	}
	if r.Expression == "" {
		return apperror.NewValidation("rule expression is required").
			WithDetail("name", r.Name)
	}
	if !types.PercentInRange(r.MarginPercent) {
		return apperror.NewMarginOutOfRange(r.Name, r.MarginPercent.String())
	}
	return nil
}

// Repository persists margin rules.
type Repository interface {
	GetByID(ctx context.Context, ruleID id.ID) (*Rule, error)
	List(ctx context.Context, activeOnly bool) ([]Rule, error)
	Create(ctx context.Context, rule *Rule) error
	Update(ctx context.Context, rule *Rule) error
	Delete(ctx context.Context, ruleID id.ID) error
}
