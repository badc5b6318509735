package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storebridge/internal/core/apperror"
	"storebridge/internal/domain/catalog/item"
)

func nullMoney(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.RequireFromString(s), Valid: true}
}

func TestEffectiveMargin(t *testing.T) {
	r := NewMarginResolver(StandardMarginDefaults())

	tests := []struct {
		name    string
		channel item.Channel
		wrap    item.Wrap
		custom  decimal.NullDecimal
		want    string
	}{
		{"pasons is always zero", item.ChannelPasons, item.WrapRegular, decimal.NullDecimal{}, "0"},
		{"pasons ignores custom", item.ChannelPasons, item.WrapWeighed, nullMoney("25"), "0"},
		{"talabat weighed default", item.ChannelTalabat, item.WrapWeighed, decimal.NullDecimal{}, "17"},
		{"talabat regular default", item.ChannelTalabat, item.WrapRegular, decimal.NullDecimal{}, "15"},
		{"custom overrides default", item.ChannelTalabat, item.WrapWeighed, nullMoney("12.5"), "12.5"},
		{"explicit zero is an override", item.ChannelTalabat, item.WrapRegular, nullMoney("0"), "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.EffectiveMargin(tt.channel, tt.wrap, tt.custom)
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"got %s, want %s", got, tt.want)
		})
	}
}

func TestEffectiveMarginRejectsOutOfRange(t *testing.T) {
	r := NewMarginResolver(StandardMarginDefaults())

	for _, custom := range []string{"-1", "100.01", "250"} {
		_, err := r.EffectiveMargin(item.ChannelTalabat, item.WrapRegular, nullMoney(custom))
		assert.True(t, apperror.IsCode(err, apperror.CodeMarginOutOfRange), "custom=%s err=%v", custom, err)
	}
}

func TestEffectiveMarginUnknownChannel(t *testing.T) {
	r := NewMarginResolver(StandardMarginDefaults())

	_, err := r.EffectiveMargin(item.Channel("noon"), item.WrapRegular, decimal.NullDecimal{})
	assert.Error(t, err)
}
