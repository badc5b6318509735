package marginrule

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storebridge/internal/core/id"
	"storebridge/internal/domain/catalog/item"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine()
	require.NoError(t, err)
	return e
}

func talabatItem(code, units string, wrap item.Wrap, mrp, cost string) item.Item {
	return item.Item{
		ID:       id.New(),
		ItemCode: code,
		Units:    units,
		Channel:  item.ChannelTalabat,
		Wrap:     wrap,
		MRP:      decimal.RequireFromString(mrp),
		Cost:     decimal.RequireFromString(cost),
	}
}

func TestCompile(t *testing.T) {
	e := newTestEngine(t)

	assert.NoError(t, e.Compile(`item_code.startsWith("20")`))
	assert.NoError(t, e.Compile(`wrap == "9900" && mrp > 5.0`))
	assert.Error(t, e.Compile(`item_code`), "non-boolean expressions are rejected")
	assert.Error(t, e.Compile(`units ==`), "syntax errors are rejected")
	assert.Error(t, e.Compile(`channel == "talabat"`), "unknown attributes are rejected")
}

func TestMatches(t *testing.T) {
	e := newTestEngine(t)
	it := talabatItem("200001", "KG", item.WrapWeighed, "10.00", "8.00")

	tests := []struct {
		expr string
		want bool
	}{
		{`wrap == "9900"`, true},
		{`wrap == "10000"`, false},
		{`mrp > 5.0 && cost < 9.0`, true},
		{`item_code.startsWith("10")`, false},
		{`units == "KG"`, true},
	}

	for _, tt := range tests {
		got, err := e.Matches(Rule{Name: "t", Expression: tt.expr}, it)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "expr %q", tt.expr)
	}
}

func TestApplyFirstMatchByPriority(t *testing.T) {
	e := newTestEngine(t)
	it := talabatItem("200001", "KG", item.WrapWeighed, "10.00", "8.00")

	broad := Rule{
		ID: id.New(), Name: "all weighed", Expression: `wrap == "9900"`,
		MarginPercent: decimal.NewFromInt(10), Priority: 20, Active: true,
	}
	specific := Rule{
		ID: id.New(), Name: "expensive weighed", Expression: `wrap == "9900" && mrp > 5.0`,
		MarginPercent: decimal.NewFromInt(25), Priority: 10, Active: true,
	}

	matches, err := e.Apply([]Rule{broad, specific}, []item.Item{it})
	require.NoError(t, err)
	require.Contains(t, matches, it.ID)
	assert.Equal(t, "expensive weighed", matches[it.ID].Name)
}

func TestApplySkipsInactiveRulesAndPasonsItems(t *testing.T) {
	e := newTestEngine(t)

	pasons := talabatItem("200001", "KG", item.WrapWeighed, "10.00", "8.00")
	pasons.Channel = item.ChannelPasons
	talabat := talabatItem("200002", "KG", item.WrapWeighed, "10.00", "8.00")

	inactive := Rule{
		ID: id.New(), Name: "disabled", Expression: `true`,
		MarginPercent: decimal.NewFromInt(30), Priority: 1, Active: false,
	}
	active := Rule{
		ID: id.New(), Name: "live", Expression: `wrap == "9900"`,
		MarginPercent: decimal.NewFromInt(12), Priority: 5, Active: true,
	}

	matches, err := e.Apply([]Rule{inactive, active}, []item.Item{pasons, talabat})
	require.NoError(t, err)

	assert.NotContains(t, matches, pasons.ID, "pasons margins are fixed, rules never apply")
	require.Contains(t, matches, talabat.ID)
	assert.Equal(t, "live", matches[talabat.ID].Name)
}
