// Package rule_repo provides the PostgreSQL implementation of the margin
// rule repository.
package rule_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"storebridge/internal/core/apperror"
	"storebridge/internal/core/id"
	"storebridge/internal/domain/marginrule"
	"storebridge/internal/infrastructure/storage/postgres"
)

const ruleTable = "margin_rules"

// RuleRepo implements marginrule.Repository.
type RuleRepo struct {
	txManager  *postgres.TxManager
	selectCols []string
}

var _ marginrule.Repository = (*RuleRepo)(nil)

// NewRuleRepo creates a margin rule repository.
func NewRuleRepo(txManager *postgres.TxManager) *RuleRepo {
	return &RuleRepo{
		txManager:  txManager,
		selectCols: postgres.ExtractDBColumns[marginrule.Rule](),
	}
}

func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// GetByID retrieves one rule.
func (r *RuleRepo) GetByID(ctx context.Context, ruleID id.ID) (*marginrule.Rule, error) {
	q := builder().
		Select(r.selectCols...).
		From(ruleTable).
		Where(squirrel.Eq{"id": ruleID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rule marginrule.Rule
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &rule, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(ruleTable, ruleID.String())
		}
		return nil, fmt.Errorf("get rule: %w", err)
	}
	return &rule, nil
}

// List retrieves rules ordered by priority.
func (r *RuleRepo) List(ctx context.Context, activeOnly bool) ([]marginrule.Rule, error) {
	q := builder().
		Select(r.selectCols...).
		From(ruleTable).
		OrderBy("priority", "name")
	if activeOnly {
		q = q.Where(squirrel.Eq{"is_active": true})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rules []marginrule.Rule
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rules, sql, args...); err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}
	return rules, nil
}

// Create inserts a new rule.
func (r *RuleRepo) Create(ctx context.Context, rule *marginrule.Rule) error {
	data := postgres.StructToMap(rule)

	q := builder().Insert(ruleTable).SetMap(data)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperror.NewDuplicate(ruleTable, "name", rule.Name)
		}
		return fmt.Errorf("insert rule: %w", err)
	}
	return nil
}

// Update persists rule changes.
func (r *RuleRepo) Update(ctx context.Context, rule *marginrule.Rule) error {
	data := postgres.StructToMap(rule)
	delete(data, "id")

	q := builder().
		Update(ruleTable).
		SetMap(data).
		Where(squirrel.Eq{"id": rule.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update rule: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(ruleTable, rule.ID.String())
	}
	return nil
}

// Delete removes a rule.
func (r *RuleRepo) Delete(ctx context.Context, ruleID id.ID) error {
	q := builder().Delete(ruleTable).Where(squirrel.Eq{"id": ruleID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete rule: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(ruleTable, ruleID.String())
	}
	return nil
}
