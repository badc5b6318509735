// Package catalog_repo provides PostgreSQL implementations for the catalog
// repositories: items, outlets and per-outlet instances.
package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"storebridge/internal/core/apperror"
	"storebridge/internal/core/id"
	"storebridge/internal/domain/catalog/item"
	"storebridge/internal/infrastructure/storage/postgres"
)

const itemTable = "items"

// ItemRepo implements item.Repository.
type ItemRepo struct {
	txManager  *postgres.TxManager
	batch      *postgres.BatchExecutor
	selectCols []string
}

var _ item.Repository = (*ItemRepo)(nil)

// NewItemRepo creates an item repository.
func NewItemRepo(txManager *postgres.TxManager) *ItemRepo {
	return &ItemRepo{
		txManager:  txManager,
		batch:      postgres.NewBatchExecutor(txManager),
		selectCols: postgres.ExtractDBColumns[item.Item](),
	}
}

func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *ItemRepo) baseSelect() squirrel.SelectBuilder {
	return builder().Select(r.selectCols...).From(itemTable)
}

// GetByID retrieves one item.
func (r *ItemRepo) GetByID(ctx context.Context, itemID id.ID) (*item.Item, error) {
	q := r.baseSelect().Where(squirrel.Eq{"id": itemID}).Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var it item.Item
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &it, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(itemTable, itemID.String())
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return &it, nil
}

// ListByKeys retrieves every item matching one of the (item_code, units)
// keys on a channel.
func (r *ItemRepo) ListByKeys(ctx context.Context, channel item.Channel, keys []item.Key) ([]item.Item, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	conds := make(squirrel.Or, len(keys))
	for i, key := range keys {
		conds[i] = squirrel.And{
			squirrel.Eq{"item_code": key.ItemCode},
			squirrel.Eq{"units": key.Units},
		}
	}

	q := r.baseSelect().
		Where(squirrel.Eq{"channel": channel}).
		Where(conds)

	return r.selectItems(ctx, q)
}

// ListByCodes retrieves all unit variants of the given item codes on a
// channel.
func (r *ItemRepo) ListByCodes(ctx context.Context, channel item.Channel, itemCodes []string) ([]item.Item, error) {
	if len(itemCodes) == 0 {
		return nil, nil
	}

	q := r.baseSelect().
		Where(squirrel.Eq{"channel": channel}).
		Where(squirrel.Eq{"item_code": itemCodes})

	return r.selectItems(ctx, q)
}

// ListByCode retrieves all unit variants of one item code on a channel.
func (r *ItemRepo) ListByCode(ctx context.Context, channel item.Channel, itemCode string) ([]item.Item, error) {
	return r.ListByCodes(ctx, channel, []string{itemCode})
}

// ListByChannel retrieves the full catalog of one channel.
func (r *ItemRepo) ListByChannel(ctx context.Context, channel item.Channel) ([]item.Item, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"channel": channel}).
		OrderBy("item_code", "units")

	return r.selectItems(ctx, q)
}

// Update persists item changes.
func (r *ItemRepo) Update(ctx context.Context, it *item.Item) error {
	data := postgres.StructToMap(it)
	delete(data, "id")

	q := builder().
		Update(itemTable).
		SetMap(data).
		Where(squirrel.Eq{"id": it.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(itemTable, it.ID.String())
	}
	return nil
}

// UpdateCustomMargins persists custom margin overrides in one round-trip.
func (r *ItemRepo) UpdateCustomMargins(ctx context.Context, assignments map[id.ID]string) error {
	if len(assignments) == 0 {
		return nil
	}

	queries := make([]postgres.BatchQuery, 0, len(assignments))
	for itemID, margin := range assignments {
		queries = append(queries, postgres.BatchQuery{
			SQL:  "UPDATE " + itemTable + " SET custom_margin_percent = $1 WHERE id = $2",
			Args: []any{margin, itemID},
		})
	}
	return r.batch.ExecuteBatch(ctx, queries)
}

func (r *ItemRepo) selectItems(ctx context.Context, q squirrel.SelectBuilder) ([]item.Item, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []item.Item
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}
