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

const outletTable = "outlets"

// OutletRepo implements item.OutletRepository.
type OutletRepo struct {
	txManager  *postgres.TxManager
	selectCols []string
}

var _ item.OutletRepository = (*OutletRepo)(nil)

// NewOutletRepo creates an outlet repository.
func NewOutletRepo(txManager *postgres.TxManager) *OutletRepo {
	return &OutletRepo{
		txManager:  txManager,
		selectCols: postgres.ExtractDBColumns[item.Outlet](),
	}
}

// GetByID retrieves one outlet.
func (r *OutletRepo) GetByID(ctx context.Context, outletID id.ID) (*item.Outlet, error) {
	q := builder().
		Select(r.selectCols...).
		From(outletTable).
		Where(squirrel.Eq{"id": outletID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var out item.Outlet
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &out, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(outletTable, outletID.String())
		}
		return nil, fmt.Errorf("get outlet: %w", err)
	}
	return &out, nil
}

// ListActive retrieves the active outlets of one channel.
func (r *OutletRepo) ListActive(ctx context.Context, channel item.Channel) ([]item.Outlet, error) {
	q := builder().
		Select(r.selectCols...).
		From(outletTable).
		Where(squirrel.Eq{"channel": channel}).
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("store_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var outlets []item.Outlet
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &outlets, sql, args...); err != nil {
		return nil, fmt.Errorf("list outlets: %w", err)
	}
	return outlets, nil
}
