package cascade

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"storebridge/internal/core/apperror"
	"storebridge/internal/core/id"
	"storebridge/internal/domain/catalog/item"
)

func weighed(code, units, wdf string) item.Item {
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

func regular(code, units string) item.Item {
	return item.Item{
		ID:       id.New(),
		ItemCode: code,
		SKU:      code + "-" + units,
		Units:    units,
		Channel:  item.ChannelTalabat,
		Wrap:     item.WrapRegular,
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		it   item.Item
		want Role
	}{
		{"regular is standalone", regular("100001", "PC"), RoleStandalone},
		{"weighed without wdf is standalone", item.Item{Wrap: item.WrapWeighed}, RoleStandalone},
		{"wdf below one is standalone", weighed("200001", "500G", "0.5"), RoleStandalone},
		{"wdf exactly one is parent", weighed("200001", "KG", "1"), RoleParent},
		{"wdf above one is child", weighed("200001", "250G", "4"), RoleChild},
		{"fractional wdf above one is child", weighed("200001", "700G", "1.43"), RoleChild},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.it))
		})
	}
}

func TestClassifyIgnoresSKU(t *testing.T) {
	// A parent-looking SKU on a child item must not change the role.
	it := weighed("200001", "250G", "4")
	it.SKU = "200001-KG-PARENT"
	assert.Equal(t, RoleChild, Classify(it))
}

func TestIndexByKeyReturnsAllMatches(t *testing.T) {
	a := weighed("200001", "PKT", "4")
	b := weighed("200001", "PKT", "12")
	x := NewIndex([]item.Item{a, b, regular("100001", "PC")})

	got := x.ByKey(item.Key{ItemCode: "200001", Units: "PKT"})
	assert.Len(t, got, 2)

	assert.Empty(t, x.ByKey(item.Key{ItemCode: "999999", Units: "PC"}))
}

func TestSiblingsExcludeRegularItems(t *testing.T) {
	parent := weighed("200001", "KG", "1")
	child := weighed("200001", "250G", "4")
	stranger := regular("200001", "PC")

	x := NewIndex([]item.Item{parent, child, stranger})
	sibs := x.Siblings("200001", item.ChannelTalabat)

	assert.Len(t, sibs, 2)
	for _, s := range sibs {
		assert.Equal(t, item.WrapWeighed, s.Wrap)
	}
}

func TestSiblingsAreChannelScoped(t *testing.T) {
	talabat := weighed("200001", "KG", "1")
	pasons := weighed("200001", "KG", "1")
	pasons.Channel = item.ChannelPasons
	pasons.ID = id.New()

	x := NewIndex([]item.Item{talabat, pasons})
	assert.Len(t, x.Siblings("200001", item.ChannelTalabat), 1)
	assert.Len(t, x.Siblings("200001", item.ChannelPasons), 1)
}

func TestChildrenOf(t *testing.T) {
	parent := weighed("200001", "KG", "1")
	quarter := weighed("200001", "250G", "4")
	small := weighed("200001", "100G", "10")

	x := NewIndex([]item.Item{parent, quarter, small})
	children, warning := x.ChildrenOf(parent)

	assert.Len(t, children, 2)
	assert.Nil(t, warning)
}

func TestChildrenOfAmbiguousParents(t *testing.T) {
	parent := weighed("200001", "KG", "1")
	twin := weighed("200001", "EA", "1")
	child := weighed("200001", "250G", "4")

	x := NewIndex([]item.Item{parent, twin, child})
	children, warning := x.ChildrenOf(parent)

	// Ambiguity is reported but never blocks the cascade.
	assert.Len(t, children, 1)
	if assert.NotNil(t, warning) {
		assert.Equal(t, apperror.CodeAmbiguousRole, warning.Code)
	}
}
