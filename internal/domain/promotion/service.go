package promotion

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"storebridge/internal/core/apperror"
	"storebridge/internal/core/id"
	"storebridge/internal/domain/catalog/item"
	"storebridge/internal/domain/pricing"
	"storebridge/pkg/logger"
)

// Service runs the promotion lifecycle against the catalog: start snapshots
// the current selling price and publishes the validated promo, cancel
// restores the snapshot.
type Service struct {
	items   item.Repository
	links   item.ItemOutletRepository
	margins *pricing.MarginResolver
	calc    *pricing.Calculator
}

// NewService creates a promotion service.
func NewService(items item.Repository, links item.ItemOutletRepository, margins *pricing.MarginResolver, calc *pricing.Calculator) *Service {
	return &Service{items: items, links: links, margins: margins, calc: calc}
}

// StartResult reports the applied promotion.
type StartResult struct {
	ConvertedPromo  decimal.Decimal
	SellingPrice    decimal.Decimal
	GPPercent       decimal.Decimal
	PromoAdjusted   bool
	SellingAdjusted bool
}

// Start applies a promotional price to one item at one outlet.
// Price-locked instances are refused; the pre-promotion selling price is
// snapshotted so Cancel can restore it.
func (s *Service) Start(ctx context.Context, itemID, outletID id.ID, promoPrice decimal.Decimal) (*StartResult, error) {
	it, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	io, err := s.links.Get(ctx, itemID, outletID)
	if err != nil {
		return nil, fmt.Errorf("get item-outlet: %w", err)
	}

	if item.EffectivePriceLocked(*it, *io) {
		return nil, apperror.NewBusinessRule(apperror.CodePriceLocked,
			"price is locked for this item").
			WithDetail("item_code", it.ItemCode)
	}

	margin, err := s.margins.EffectiveMargin(it.Channel, it.Wrap, it.CustomMarginPercent)
	if err != nil {
		return nil, err
	}

	converted, err := Convert(ConvertInput{
		ItemCode:      it.ItemCode,
		PromoPrice:    promoPrice,
		Channel:       it.Channel,
		Wrap:          it.Wrap,
		WDF:           it.WeightDivisionFactor,
		MarginPercent: margin,
	})
	if err != nil {
		return nil, err
	}

	cost, err := s.calc.ConvertedCost(it.ItemCode, io.Cost, it.Wrap, it.WeightDivisionFactor)
	if err != nil {
		return nil, err
	}

	validated, err := Validate(ValidateInput{
		ItemCode:       it.ItemCode,
		Channel:        it.Channel,
		Cost:           cost,
		ConvertedPromo: converted,
		SellingPrice:   io.SellingPrice,
	})
	if err != nil {
		return nil, err
	}

	if !io.IsOnPromotion {
		io.OriginalSellingPrice = decimal.NullDecimal{Decimal: io.SellingPrice, Valid: true}
	}
	io.PromoPrice = decimal.NullDecimal{Decimal: promoPrice, Valid: true}
	io.ConvertedPromo = decimal.NullDecimal{Decimal: validated.ConvertedPromo, Valid: true}
	io.SellingPrice = validated.SellingPrice
	io.IsOnPromotion = true

	if err := s.links.UpdateBatch(ctx, []*item.ItemOutlet{io}); err != nil {
		return nil, fmt.Errorf("persist promotion: %w", err)
	}

	logger.Info(ctx, "promotion started",
		"item_code", it.ItemCode,
		"converted_promo", validated.ConvertedPromo,
		"promo_adjusted", validated.PromoAdjusted,
		"selling_adjusted", validated.SellingAdjusted,
	)

	return &StartResult{
		ConvertedPromo:  validated.ConvertedPromo,
		SellingPrice:    validated.SellingPrice,
		GPPercent:       validated.GPPercent,
		PromoAdjusted:   validated.PromoAdjusted,
		SellingAdjusted: validated.SellingAdjusted,
	}, nil
}

// Cancel ends a promotion and restores the snapshotted selling price.
func (s *Service) Cancel(ctx context.Context, itemID, outletID id.ID) error {
	io, err := s.links.Get(ctx, itemID, outletID)
	if err != nil {
		return fmt.Errorf("get item-outlet: %w", err)
	}

	if !io.IsOnPromotion {
		return apperror.NewValidation("item is not on promotion")
	}

	if io.OriginalSellingPrice.Valid {
		io.SellingPrice = io.OriginalSellingPrice.Decimal
	}
	io.PromoPrice = decimal.NullDecimal{}
	io.ConvertedPromo = decimal.NullDecimal{}
	io.OriginalSellingPrice = decimal.NullDecimal{}
	io.IsOnPromotion = false

	if err := s.links.UpdateBatch(ctx, []*item.ItemOutlet{io}); err != nil {
		return fmt.Errorf("persist cancellation: %w", err)
	}

	logger.Info(ctx, "promotion cancelled", "item_outlet", io.ID)
	return nil
}
