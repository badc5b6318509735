package cascade

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storebridge/internal/core/types"
	"storebridge/internal/domain/catalog/item"
	"storebridge/internal/domain/pricing"
)

func newTestEngine() *Engine {
	return NewEngine(pricing.NewCalculator(pricing.NewMarginResolver(pricing.StandardMarginDefaults())))
}

func moneyPtr(s string) *types.Money {
	m := decimal.RequireFromString(s)
	return &m
}

func intPtr(n int) *int { return &n }

func TestCascadePropagatesToChildren(t *testing.T) {
	parent := weighed("200001", "KG", "1")
	quarter := weighed("200001", "250G", "4")
	tenth := weighed("200001", "100G", "10")
	x := NewIndex([]item.Item{parent, quarter, tenth})

	batch, err := newTestEngine().Cascade(x, parent, ParentChange{
		MRP:   moneyPtr("10.00"),
		Cost:  moneyPtr("8.00"),
		Stock: intPtr(5),
	})
	require.NoError(t, err)
	require.Len(t, batch.Children, 2)
	assert.Nil(t, batch.Warning)

	byUnits := map[string]ChildUpdate{}
	for _, c := range batch.Children {
		byUnits[c.Units] = c
	}

	q := byUnits["250G"]
	require.NotNil(t, q.MRP)
	assert.True(t, q.MRP.Equal(decimal.RequireFromString("10.00")), "child keeps per-KG mrp")
	require.NotNil(t, q.Cost)
	assert.True(t, q.Cost.Equal(decimal.RequireFromString("8.00")))
	require.NotNil(t, q.Stock)
	assert.Equal(t, 20, *q.Stock, "5 KG becomes 20 quarter packs")
	require.NotNil(t, q.SellingPrice)
	// 10.00/4 = 2.50, +17% = 2.93, smart rounded.
	assert.True(t, q.SellingPrice.Equal(decimal.RequireFromString("2.99")),
		"selling = %s", q.SellingPrice)

	th := byUnits["100G"]
	require.NotNil(t, th.Stock)
	assert.Equal(t, 50, *th.Stock)
}

func TestCascadeStockOnly(t *testing.T) {
	parent := weighed("200001", "KG", "1")
	child := weighed("200001", "250G", "4")
	x := NewIndex([]item.Item{parent, child})

	batch, err := newTestEngine().Cascade(x, parent, ParentChange{Stock: intPtr(3)})
	require.NoError(t, err)
	require.Len(t, batch.Children, 1)

	c := batch.Children[0]
	assert.Nil(t, c.MRP)
	assert.Nil(t, c.SellingPrice)
	require.NotNil(t, c.Stock)
	assert.Equal(t, 12, *c.Stock)
}

func TestCascadeRefusesNonParent(t *testing.T) {
	child := weighed("200001", "250G", "4")
	x := NewIndex([]item.Item{child})

	_, err := newTestEngine().Cascade(x, child, ParentChange{MRP: moneyPtr("10.00")})
	assert.Error(t, err, "a child must never fan out to its siblings")
}

func TestCascadeWithoutChildren(t *testing.T) {
	parent := weighed("200001", "KG", "1")
	x := NewIndex([]item.Item{parent})

	batch, err := newTestEngine().Cascade(x, parent, ParentChange{MRP: moneyPtr("10.00")})
	require.NoError(t, err)
	assert.Empty(t, batch.Children)
}

func TestCascadeReportsAmbiguousParents(t *testing.T) {
	parent := weighed("200001", "KG", "1")
	twin := weighed("200001", "EA", "1")
	child := weighed("200001", "250G", "4")
	x := NewIndex([]item.Item{parent, twin, child})

	batch, err := newTestEngine().Cascade(x, parent, ParentChange{Cost: moneyPtr("8.00")})
	require.NoError(t, err)
	assert.Len(t, batch.Children, 1)
	assert.NotNil(t, batch.Warning)
}
