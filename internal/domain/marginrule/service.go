package marginrule

import (
	"context"
	"fmt"

	"storebridge/internal/core/id"
	"storebridge/internal/domain/catalog/item"
	"storebridge/pkg/logger"
)

// Service manages margin rules and applies them to the Talabat catalog.
type Service struct {
	rules  Repository
	items  item.Repository
	engine *Engine
}

// NewService creates a margin rule service.
func NewService(rules Repository, items item.Repository, engine *Engine) *Service {
	return &Service{rules: rules, items: items, engine: engine}
}

// GetByID returns one rule.
func (s *Service) GetByID(ctx context.Context, ruleID id.ID) (*Rule, error) {
	return s.rules.GetByID(ctx, ruleID)
}

// List returns rules, optionally only active ones.
func (s *Service) List(ctx context.Context, activeOnly bool) ([]Rule, error) {
	return s.rules.List(ctx, activeOnly)
}

// Create validates, compiles and stores a new rule.
func (s *Service) Create(ctx context.Context, rule *Rule) error {
	if err := rule.Validate(ctx); err != nil {
		return err
	}
	if err := s.engine.Compile(rule.Expression); err != nil {
		return err
	}
	if id.IsNil(rule.ID) {
		rule.ID = id.New()
	}
	if err := s.rules.Create(ctx, rule); err != nil {
		return fmt.Errorf("create rule: %w", err)
	}
	logger.Info(ctx, "margin rule created", "name", rule.Name, "priority", rule.Priority)
	return nil
}

// Update validates, compiles and stores rule changes.
func (s *Service) Update(ctx context.Context, rule *Rule) error {
	if err := rule.Validate(ctx); err != nil {
		return err
	}
	if err := s.engine.Compile(rule.Expression); err != nil {
		return err
	}
	if err := s.rules.Update(ctx, rule); err != nil {
		return fmt.Errorf("update rule: %w", err)
	}
	logger.Info(ctx, "margin rule updated", "name", rule.Name)
	return nil
}

// Delete removes a rule.
func (s *Service) Delete(ctx context.Context, ruleID id.ID) error {
	if err := s.rules.Delete(ctx, ruleID); err != nil {
		return fmt.Errorf("delete rule: %w", err)
	}
	logger.Info(ctx, "margin rule deleted", "rule_id", ruleID)
	return nil
}

// AppliedMargin reports one assignment made by ApplyAll.
type AppliedMargin struct {
	ItemCode string `json:"itemCode"`
	Units    string `json:"units"`
	RuleName string `json:"ruleName"`
	Margin   string `json:"margin"`
}

// ApplyResult summarizes one ApplyAll run.
type ApplyResult struct {
	Evaluated int             `json:"evaluated"`
	Assigned  int             `json:"assigned"`
	Applied   []AppliedMargin `json:"applied,omitempty"`
}

// ApplyAll evaluates every active rule against the Talabat catalog and
// persists the winning margins as custom margin overrides.
func (s *Service) ApplyAll(ctx context.Context) (*ApplyResult, error) {
	rules, err := s.rules.List(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}
	items, err := s.items.ListByChannel(ctx, item.ChannelTalabat)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	matches, err := s.engine.Apply(rules, items)
	if err != nil {
		return nil, err
	}

	res := &ApplyResult{Evaluated: len(items), Assigned: len(matches)}
	if len(matches) == 0 {
		return res, nil
	}

	assignments := make(map[id.ID]string, len(matches))
	for _, it := range items {
		rule, ok := matches[it.ID]
		if !ok {
			continue
		}
		assignments[it.ID] = rule.MarginPercent.String()
		res.Applied = append(res.Applied, AppliedMargin{
			ItemCode: it.ItemCode,
			Units:    it.Units,
			RuleName: rule.Name,
			Margin:   rule.MarginPercent.String(),
		})
	}

	if err := s.items.UpdateCustomMargins(ctx, assignments); err != nil {
		return nil, fmt.Errorf("persist margin assignments: %w", err)
	}

	logger.Info(ctx, "margin rules applied",
		"rules", len(rules),
		"evaluated", res.Evaluated,
		"assigned", res.Assigned,
	)
	return res, nil
}
