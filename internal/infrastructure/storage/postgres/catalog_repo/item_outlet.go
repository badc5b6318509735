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

const itemOutletTable = "item_outlets"

// ItemOutletRepo implements item.ItemOutletRepository.
type ItemOutletRepo struct {
	txManager  *postgres.TxManager
	batch      *postgres.BatchExecutor
	selectCols []string
}

var _ item.ItemOutletRepository = (*ItemOutletRepo)(nil)

// NewItemOutletRepo creates a per-outlet instance repository.
func NewItemOutletRepo(txManager *postgres.TxManager) *ItemOutletRepo {
	return &ItemOutletRepo{
		txManager:  txManager,
		batch:      postgres.NewBatchExecutor(txManager),
		selectCols: postgres.ExtractDBColumns[item.ItemOutlet](),
	}
}

func (r *ItemOutletRepo) baseSelect() squirrel.SelectBuilder {
	return builder().Select(r.selectCols...).From(itemOutletTable)
}

// Get retrieves the instance of one (item, outlet) pair.
func (r *ItemOutletRepo) Get(ctx context.Context, itemID, outletID id.ID) (*item.ItemOutlet, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"item_id": itemID}).
		Where(squirrel.Eq{"outlet_id": outletID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var io item.ItemOutlet
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &io, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(itemOutletTable,
				fmt.Sprintf("%s/%s", itemID, outletID))
		}
		return nil, fmt.Errorf("get item-outlet: %w", err)
	}
	return &io, nil
}

// ListByItem retrieves every outlet instance of one item.
func (r *ItemOutletRepo) ListByItem(ctx context.Context, itemID id.ID) ([]item.ItemOutlet, error) {
	q := r.baseSelect().Where(squirrel.Eq{"item_id": itemID})
	return r.selectInstances(ctx, q)
}

// ListByOutlet retrieves the instances of the given items at one outlet.
func (r *ItemOutletRepo) ListByOutlet(ctx context.Context, outletID id.ID, itemIDs []id.ID) ([]item.ItemOutlet, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}

	q := r.baseSelect().
		Where(squirrel.Eq{"outlet_id": outletID}).
		Where(squirrel.Eq{"item_id": itemIDs})
	return r.selectInstances(ctx, q)
}

// Create inserts a new instance.
func (r *ItemOutletRepo) Create(ctx context.Context, io *item.ItemOutlet) error {
	data := postgres.StructToMap(io)

	q := builder().Insert(itemOutletTable).SetMap(data)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert item-outlet: %w", err)
	}
	return nil
}

// UpdateBatch persists the given instances as a single statement batch.
func (r *ItemOutletRepo) UpdateBatch(ctx context.Context, ios []*item.ItemOutlet) error {
	if len(ios) == 0 {
		return nil
	}

	queries := make([]postgres.BatchQuery, 0, len(ios))
	for _, io := range ios {
		data := postgres.StructToMap(io)
		delete(data, "id")

		q := builder().
			Update(itemOutletTable).
			SetMap(data).
			Where(squirrel.Eq{"id": io.ID})

		sql, args, err := q.ToSql()
		if err != nil {
			return fmt.Errorf("build update: %w", err)
		}
		queries = append(queries, postgres.BatchQuery{SQL: sql, Args: args})
	}
	return r.batch.ExecuteBatch(ctx, queries)
}

func (r *ItemOutletRepo) selectInstances(ctx context.Context, q squirrel.SelectBuilder) ([]item.ItemOutlet, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var ios []item.ItemOutlet
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &ios, sql, args...); err != nil {
		return nil, fmt.Errorf("list item-outlets: %w", err)
	}
	return ios, nil
}
