package bulkupdate

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storebridge/internal/core/apperror"
	"storebridge/internal/core/id"
	"storebridge/internal/core/types"
	"storebridge/internal/domain/cascade"
	"storebridge/internal/domain/catalog/item"
	"storebridge/internal/domain/pricing"
)

func newTestService() *Service {
	margins := pricing.NewMarginResolver(pricing.StandardMarginDefaults())
	calc := pricing.NewCalculator(margins)
	return NewService(margins, calc, cascade.NewEngine(calc))
}

func weighedItem(code, units, wdf string) item.Item {
	return item.Item{
		ID:       id.New(),
		ItemCode: code,
		SKU:      code + "-" + units,
		Units:    units,
		Channel:  item.ChannelTalabat,
		Wrap:     item.WrapWeighed,
		WeightDivisionFactor: decimal.NullDecimal{
			Decimal: decimal.RequireFromString(wdf),
			Valid:   true,
		},
	}
}

func regularItem(code, units string, ocq int) item.Item {
	it := item.Item{
		ID:       id.New(),
		ItemCode: code,
		SKU:      code + "-" + units,
		Units:    units,
		Channel:  item.ChannelTalabat,
		Wrap:     item.WrapRegular,
	}
	if ocq > 0 {
		it.OuterCaseQuantity = &ocq
	}
	return it
}

func instanceFor(it item.Item) item.ItemOutlet {
	return item.ItemOutlet{
		ID:               id.New(),
		ItemID:           it.ID,
		OutletID:         id.New(),
		MRP:              it.MRP,
		Cost:             it.Cost,
		IsActiveInOutlet: true,
	}
}

func moneyPtr(s string) *types.Money {
	m := decimal.RequireFromString(s)
	return &m
}

func intPtr(n int) *int { return &n }

func instancesOf(ios ...item.ItemOutlet) map[id.ID]item.ItemOutlet {
	m := make(map[id.ID]item.ItemOutlet, len(ios))
	for _, io := range ios {
		m[io.ItemID] = io
	}
	return m
}

func findUpdate(t *testing.T, res BatchResult, itemID id.ID) item.ItemOutlet {
	t.Helper()
	for _, u := range res.Updates {
		if u.ItemID == itemID {
			return u
		}
	}
	t.Fatalf("no update for item %s", itemID)
	return item.ItemOutlet{}
}

func TestProcessParentRowCascades(t *testing.T) {
	parent := weighedItem("200001", "KG", "1")
	child := weighedItem("200001", "250G", "4")

	res := newTestService().Process(context.Background(), Batch{
		Channel:   item.ChannelTalabat,
		OutletID:  id.New(),
		Items:     []item.Item{parent, child},
		Instances: instancesOf(instanceFor(parent), instanceFor(child)),
		Rows: []Row{{
			ItemCode: "200001", Units: "KG",
			MRP: moneyPtr("10.00"), Cost: moneyPtr("8.00"), Stock: intPtr(5),
		}},
	})

	require.Len(t, res.Rows, 1)
	row := res.Rows[0]
	require.NoError(t, row.Error)

	require.NotNil(t, row.FinalSellingPrice)
	assert.True(t, row.FinalSellingPrice.Equal(decimal.RequireFromString("11.75")),
		"final = %s", row.FinalSellingPrice)
	require.NotNil(t, row.ConvertedCost)
	assert.True(t, row.ConvertedCost.Equal(decimal.RequireFromString("8.000")))

	require.Len(t, row.CascadedChildren, 1)
	cc := row.CascadedChildren[0]
	assert.Equal(t, "250G", cc.Units)
	require.NotNil(t, cc.NewStock)
	assert.Equal(t, 20, *cc.NewStock)
	require.NotNil(t, cc.NewSellingPrice)
	assert.True(t, cc.NewSellingPrice.Equal(decimal.RequireFromString("2.99")))

	assert.Equal(t, 2, res.Updated)

	p := findUpdate(t, res, parent.ID)
	assert.Equal(t, 5, p.Stock)
	assert.True(t, p.SellingPrice.Equal(decimal.RequireFromString("11.75")))

	c := findUpdate(t, res, child.ID)
	assert.Equal(t, 20, c.Stock)
	assert.True(t, c.MRP.Equal(decimal.RequireFromString("10.00")), "child keeps per-KG mrp")
	assert.True(t, c.Cost.Equal(decimal.RequireFromString("8.00")))
	assert.True(t, c.SellingPrice.Equal(decimal.RequireFromString("2.99")))
}

func TestProcessPriceLockSkipsPriceFields(t *testing.T) {
	parent := weighedItem("200001", "KG", "1")
	parent.PriceLocked = true // central lock
	child := weighedItem("200001", "250G", "4")

	res := newTestService().Process(context.Background(), Batch{
		Channel:   item.ChannelTalabat,
		OutletID:  id.New(),
		Items:     []item.Item{parent, child},
		Instances: instancesOf(instanceFor(parent), instanceFor(child)),
		Rows: []Row{{
			ItemCode: "200001", Units: "KG",
			MRP: moneyPtr("10.00"), Stock: intPtr(5),
		}},
	})

	row := res.Rows[0]
	require.NoError(t, row.Error)
	assert.ElementsMatch(t, []string{"mrp", "selling_price"}, row.SkippedFields)
	assert.Nil(t, row.FinalSellingPrice)

	// Stock is not a price field and still flows, including to children.
	p := findUpdate(t, res, parent.ID)
	assert.Equal(t, 5, p.Stock)
	assert.True(t, p.SellingPrice.IsZero(), "locked price must not move")

	c := findUpdate(t, res, child.ID)
	assert.Equal(t, 20, c.Stock)
	assert.True(t, c.SellingPrice.IsZero())
}

func TestProcessBranchLockOnChildOnly(t *testing.T) {
	parent := weighedItem("200001", "KG", "1")
	child := weighedItem("200001", "250G", "4")

	childInst := instanceFor(child)
	childInst.PriceLocked = true // branch lock

	res := newTestService().Process(context.Background(), Batch{
		Channel:   item.ChannelTalabat,
		OutletID:  id.New(),
		Items:     []item.Item{parent, child},
		Instances: instancesOf(instanceFor(parent), childInst),
		Rows: []Row{{
			ItemCode: "200001", Units: "KG",
			MRP: moneyPtr("10.00"), Cost: moneyPtr("8.00"),
		}},
	})

	row := res.Rows[0]
	require.NoError(t, row.Error)
	assert.Empty(t, row.SkippedFields, "parent itself is unlocked")
	require.Len(t, row.CascadedChildren, 1)
	assert.ElementsMatch(t, []string{"mrp", "selling_price"}, row.CascadedChildren[0].SkippedFields)

	c := findUpdate(t, res, child.ID)
	assert.True(t, c.SellingPrice.IsZero())
	assert.True(t, c.Cost.Equal(decimal.RequireFromString("8.00")), "cost still cascades")
}

func TestProcessStatusLockDisablesInstance(t *testing.T) {
	it := regularItem("100001", "PC", 12)
	it.StatusLocked = true

	inst := instanceFor(it)

	res := newTestService().Process(context.Background(), Batch{
		Channel:   item.ChannelTalabat,
		OutletID:  id.New(),
		Items:     []item.Item{it},
		Instances: instancesOf(inst),
		Rows:      []Row{{ItemCode: "100001", Units: "PC", Stock: intPtr(24)}},
	})

	require.NoError(t, res.Rows[0].Error)
	u := findUpdate(t, res, it.ID)
	assert.False(t, u.IsActiveInOutlet)
	assert.Equal(t, 2, u.Stock, "24 pieces at 12 per case")
}

func TestProcessRegularStockNeedsCaseQuantity(t *testing.T) {
	it := regularItem("100001", "PC", 0)

	res := newTestService().Process(context.Background(), Batch{
		Channel:   item.ChannelTalabat,
		OutletID:  id.New(),
		Items:     []item.Item{it},
		Instances: instancesOf(instanceFor(it)),
		Rows:      []Row{{ItemCode: "100001", Units: "PC", Stock: intPtr(24)}},
	})

	row := res.Rows[0]
	assert.True(t, apperror.IsCode(row.Error, apperror.CodeInvalidDivisor), "err=%v", row.Error)
	assert.Empty(t, res.Updates, "failed rows leave nothing behind")
}

func TestProcessUnknownKey(t *testing.T) {
	res := newTestService().Process(context.Background(), Batch{
		Channel:  item.ChannelTalabat,
		OutletID: id.New(),
		Rows:     []Row{{ItemCode: "999999", Units: "PC", MRP: moneyPtr("5.00")}},
	})

	assert.Equal(t, 1, res.NotFound)
	assert.True(t, apperror.IsNotFound(res.Rows[0].Error))
}

func TestProcessMultiSKUKeyUpdatesEveryMatch(t *testing.T) {
	a := weighedItem("200001", "PKT", "4")
	b := weighedItem("200001", "PKT", "12")

	res := newTestService().Process(context.Background(), Batch{
		Channel:   item.ChannelTalabat,
		OutletID:  id.New(),
		Items:     []item.Item{a, b},
		Instances: instancesOf(instanceFor(a), instanceFor(b)),
		Rows: []Row{{
			ItemCode: "200001", Units: "PKT", MRP: moneyPtr("10.00"),
		}},
	})

	require.NoError(t, res.Rows[0].Error)
	assert.Equal(t, 2, res.Updated, "one row, every matching SKU priced")
	assert.False(t, findUpdate(t, res, a.ID).SellingPrice.IsZero())
	assert.False(t, findUpdate(t, res, b.ID).SellingPrice.IsZero())
}

func TestProcessPromoRow(t *testing.T) {
	it := regularItem("100001", "PC", 12)
	inst := instanceFor(it)
	inst.Cost = decimal.RequireFromString("8.00")
	inst.SellingPrice = decimal.RequireFromString("12.00")

	res := newTestService().Process(context.Background(), Batch{
		Channel:   item.ChannelTalabat,
		OutletID:  id.New(),
		Items:     []item.Item{it},
		Instances: instancesOf(inst),
		Rows:      []Row{{ItemCode: "100001", Units: "PC", PromoPrice: moneyPtr("10.00")}},
	})

	row := res.Rows[0]
	require.NoError(t, row.Error)
	assert.True(t, row.SellingAdjusted, "11.75 promo against 12.00 selling is too narrow")

	u := findUpdate(t, res, it.ID)
	assert.True(t, u.IsOnPromotion)
	assert.True(t, u.ConvertedPromo.Decimal.Equal(decimal.RequireFromString("11.75")),
		"converted = %s", u.ConvertedPromo.Decimal)
	assert.True(t, u.SellingPrice.Equal(decimal.RequireFromString("13.75")))
	assert.True(t, u.OriginalSellingPrice.Decimal.Equal(decimal.RequireFromString("12.00")))
}

func TestProcessSeedsMissingInstances(t *testing.T) {
	it := regularItem("100001", "PC", 12)

	res := newTestService().Process(context.Background(), Batch{
		Channel:  item.ChannelTalabat,
		OutletID: id.New(),
		Items:    []item.Item{it},
		Rows:     []Row{{ItemCode: "100001", Units: "PC", MRP: moneyPtr("10.00")}},
	})

	require.NoError(t, res.Rows[0].Error)
	require.Len(t, res.Updates, 1)
	assert.True(t, res.Created[it.ID])
	assert.Equal(t, it.ID, res.Updates[0].ItemID)
}

func TestProcessIsIdempotent(t *testing.T) {
	parent := weighedItem("200001", "KG", "1")
	child := weighedItem("200001", "250G", "4")
	rows := []Row{{
		ItemCode: "200001", Units: "KG",
		MRP: moneyPtr("10.00"), Cost: moneyPtr("8.00"), Stock: intPtr(5),
	}}

	svc := newTestService()
	outlet := id.New()

	first := svc.Process(context.Background(), Batch{
		Channel:   item.ChannelTalabat,
		OutletID:  outlet,
		Items:     []item.Item{parent, child},
		Instances: instancesOf(instanceFor(parent), instanceFor(child)),
		Rows:      rows,
	})
	require.Equal(t, 2, first.Updated)

	second := svc.Process(context.Background(), Batch{
		Channel:   item.ChannelTalabat,
		OutletID:  outlet,
		Items:     []item.Item{parent, child},
		Instances: instancesOf(first.Updates...),
		Rows:      rows,
	})

	assert.Equal(t, 0, second.Updated, "re-running the same feed must be a no-op")
	assert.Equal(t, 2, second.NoChange)
	assert.Empty(t, second.Updates)
}
