package dto

import (
	"github.com/shopspring/decimal"

	"storebridge/internal/domain/marginrule"
)

// CreateRuleRequest creates a margin rule.
type CreateRuleRequest struct {
	Name          string          `json:"name" binding:"required"`
	Expression    string          `json:"expression" binding:"required"`
	MarginPercent decimal.Decimal `json:"marginPercent" binding:"required"`
	Priority      int             `json:"priority"`
	Active        *bool           `json:"active"`
}

// ToRule converts to the domain rule.
func (r CreateRuleRequest) ToRule() *marginrule.Rule {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return &marginrule.Rule{
		Name:          r.Name,
		Expression:    r.Expression,
		MarginPercent: r.MarginPercent,
		Priority:      r.Priority,
		Active:        active,
	}
}

// UpdateRuleRequest updates a margin rule.
type UpdateRuleRequest struct {
	Name          string          `json:"name" binding:"required"`
	Expression    string          `json:"expression" binding:"required"`
	MarginPercent decimal.Decimal `json:"marginPercent" binding:"required"`
	Priority      int             `json:"priority"`
	Active        bool            `json:"active"`
}

// RuleResponse represents a margin rule.
type RuleResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Expression    string          `json:"expression"`
	MarginPercent decimal.Decimal `json:"marginPercent"`
	Priority      int             `json:"priority"`
	Active        bool            `json:"active"`
}

// FromRule creates a response from a domain rule.
func FromRule(r marginrule.Rule) RuleResponse {
	return RuleResponse{
		ID:            r.ID.String(),
		Name:          r.Name,
		Expression:    r.Expression,
		MarginPercent: r.MarginPercent,
		Priority:      r.Priority,
		Active:        r.Active,
	}
}

// FromRules converts a list of rules.
func FromRules(rules []marginrule.Rule) []RuleResponse {
	out := make([]RuleResponse, len(rules))
	for i, r := range rules {
		out[i] = FromRule(r)
	}
	return out
}
