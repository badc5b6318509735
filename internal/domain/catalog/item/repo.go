package item

import (
	"context"

	"storebridge/internal/core/id"
)

// Repository provides persistence for items.
type Repository interface {
	GetByID(ctx context.Context, itemID id.ID) (*Item, error)
	ListByKeys(ctx context.Context, channel Channel, keys []Key) ([]Item, error)
	// ListByCodes returns every item carrying one of the given item codes on
	// a channel, all units included. Batch loads need the full code families
	// so parent rows can reach their children.
	ListByCodes(ctx context.Context, channel Channel, itemCodes []string) ([]Item, error)
	ListByCode(ctx context.Context, channel Channel, itemCode string) ([]Item, error)
	ListByChannel(ctx context.Context, channel Channel) ([]Item, error)
	Update(ctx context.Context, it *Item) error
	UpdateCustomMargins(ctx context.Context, assignments map[id.ID]string) error
}

// OutletRepository provides persistence for outlets.
type OutletRepository interface {
	GetByID(ctx context.Context, outletID id.ID) (*Outlet, error)
	ListActive(ctx context.Context, channel Channel) ([]Outlet, error)
}

// ItemOutletRepository provides persistence for per-outlet instances.
type ItemOutletRepository interface {
	Get(ctx context.Context, itemID, outletID id.ID) (*ItemOutlet, error)
	ListByItem(ctx context.Context, itemID id.ID) ([]ItemOutlet, error)
	ListByOutlet(ctx context.Context, outletID id.ID, itemIDs []id.ID) ([]ItemOutlet, error)
	Create(ctx context.Context, io *ItemOutlet) error
	// UpdateBatch persists the given instances as a single statement batch.
	// Cascade sets rely on this being all-or-nothing.
	UpdateBatch(ctx context.Context, ios []*ItemOutlet) error
}
