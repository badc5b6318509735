package item

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"storebridge/internal/core/apperror"
	"storebridge/internal/core/id"
	"storebridge/pkg/logger"
)

// Service provides catalog operations: outlet linking and lock management.
// Price computation lives in the pricing/cascade/bulkupdate packages; this
// service only owns record lifecycle and the central-lock cascade.
type Service struct {
	items   Repository
	outlets OutletRepository
	links   ItemOutletRepository
}

// NewService creates a catalog service.
func NewService(items Repository, outlets OutletRepository, links ItemOutletRepository) *Service {
	return &Service{items: items, outlets: outlets, links: links}
}

// GetItem returns one item by ID.
func (s *Service) GetItem(ctx context.Context, itemID id.ID) (*Item, error) {
	return s.items.GetByID(ctx, itemID)
}

// ListByCode returns every unit variant of one item code on a channel.
func (s *Service) ListByCode(ctx context.Context, channel Channel, itemCode string) ([]Item, error) {
	return s.items.ListByCode(ctx, channel, itemCode)
}

// ListByChannel returns the full catalog of one channel.
func (s *Service) ListByChannel(ctx context.Context, channel Channel) ([]Item, error) {
	return s.items.ListByChannel(ctx, channel)
}

// ListOutletInstances returns every outlet instance of one item.
func (s *Service) ListOutletInstances(ctx context.Context, itemID id.ID) ([]ItemOutlet, error) {
	return s.links.ListByItem(ctx, itemID)
}

// LinkToOutlet creates the ItemOutlet instance for an (item, outlet) pair,
// seeded from the item's canonical values. Both records must belong to the
// same channel; the pair is unique.
func (s *Service) LinkToOutlet(ctx context.Context, itemID, outletID id.ID) (*ItemOutlet, error) {
	it, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	out, err := s.outlets.GetByID(ctx, outletID)
	if err != nil {
		return nil, fmt.Errorf("get outlet: %w", err)
	}

	if it.Channel != out.Channel {
		return nil, apperror.NewBusinessRule(apperror.CodeChannelMismatch,
			"item and outlet belong to different channels").
			WithDetail("item_channel", string(it.Channel)).
			WithDetail("outlet_channel", string(out.Channel))
	}

	if existing, err := s.links.Get(ctx, itemID, outletID); err == nil && existing != nil {
		return nil, apperror.NewDuplicate("item-outlet", "pair",
			fmt.Sprintf("%s/%s", it.ItemCode, out.StoreID))
	}

	io := &ItemOutlet{
		ID:               id.New(),
		ItemID:           itemID,
		OutletID:         outletID,
		SellingPrice:     decimal.Zero,
		MRP:              it.MRP,
		Cost:             it.Cost,
		Stock:            0,
		IsActiveInOutlet: true,
	}
	if err := s.links.Create(ctx, io); err != nil {
		return nil, fmt.Errorf("create item-outlet: %w", err)
	}

	logger.Info(ctx, "linked item to outlet",
		"item_code", it.ItemCode,
		"outlet", out.StoreID,
	)
	return io, nil
}

// SetCentralStatusLock toggles the central status lock and cascades it to
// every outlet instance on the item's channel. Locking disables the item in
// all outlets; unlocking leaves them disabled until explicitly re-enabled.
func (s *Service) SetCentralStatusLock(ctx context.Context, itemID id.ID, locked bool) error {
	it, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return fmt.Errorf("get item: %w", err)
	}

	it.StatusLocked = locked
	if err := s.items.Update(ctx, it); err != nil {
		return fmt.Errorf("update item: %w", err)
	}

	ios, err := s.links.ListByItem(ctx, itemID)
	if err != nil {
		return fmt.Errorf("list item outlets: %w", err)
	}

	updates := make([]*ItemOutlet, 0, len(ios))
	for i := range ios {
		io := ios[i]
		ApplyCentralStatusLock(&io, locked)
		updates = append(updates, &io)
	}
	if err := s.links.UpdateBatch(ctx, updates); err != nil {
		return fmt.Errorf("cascade status lock: %w", err)
	}

	logger.Info(ctx, "central status lock updated",
		"item_code", it.ItemCode,
		"locked", locked,
		"outlets", len(updates),
	)
	return nil
}

// SetCentralPriceLock toggles the central price lock and mirrors it to every
// outlet instance.
func (s *Service) SetCentralPriceLock(ctx context.Context, itemID id.ID, locked bool) error {
	it, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return fmt.Errorf("get item: %w", err)
	}

	it.PriceLocked = locked
	if err := s.items.Update(ctx, it); err != nil {
		return fmt.Errorf("update item: %w", err)
	}

	ios, err := s.links.ListByItem(ctx, itemID)
	if err != nil {
		return fmt.Errorf("list item outlets: %w", err)
	}

	updates := make([]*ItemOutlet, 0, len(ios))
	for i := range ios {
		io := ios[i]
		ApplyCentralPriceLock(&io, locked)
		updates = append(updates, &io)
	}
	if err := s.links.UpdateBatch(ctx, updates); err != nil {
		return fmt.Errorf("cascade price lock: %w", err)
	}

	logger.Info(ctx, "central price lock updated",
		"item_code", it.ItemCode,
		"locked", locked,
		"outlets", len(updates),
	)
	return nil
}

// ReactivateInOutlet explicitly re-enables an item in one outlet after a
// central status lock was cleared. Refused while any status lock is still
// effective.
func (s *Service) ReactivateInOutlet(ctx context.Context, itemID, outletID id.ID) error {
	it, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return fmt.Errorf("get item: %w", err)
	}
	io, err := s.links.Get(ctx, itemID, outletID)
	if err != nil {
		return fmt.Errorf("get item-outlet: %w", err)
	}

	if EffectiveStatusLocked(*it, *io) {
		return apperror.NewBusinessRule(apperror.CodeStatusLocked,
			"status is locked; clear the lock before reactivating").
			WithDetail("item_code", it.ItemCode)
	}

	io.IsActiveInOutlet = true
	return s.links.UpdateBatch(ctx, []*ItemOutlet{io})
}
