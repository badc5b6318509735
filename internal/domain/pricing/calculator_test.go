package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storebridge/internal/core/apperror"
	"storebridge/internal/domain/catalog/item"
)

func newTestCalculator() *Calculator {
	return NewCalculator(NewMarginResolver(StandardMarginDefaults()))
}

func TestCalculate(t *testing.T) {
	calc := newTestCalculator()

	tests := []struct {
		name       string
		in         CalcInput
		wantFinal  string
		wantMargin string
	}{
		{
			name: "pasons keeps whole prices",
			in: CalcInput{
				ItemCode: "100001", Raw: decimal.RequireFromString("10.00"),
				Wrap: item.WrapRegular, Channel: item.ChannelPasons,
			},
			wantFinal:  "10.00",
			wantMargin: "0",
		},
		{
			name: "talabat regular gets 15 percent",
			in: CalcInput{
				ItemCode: "100001", Raw: decimal.RequireFromString("10.00"),
				Wrap: item.WrapRegular, Channel: item.ChannelTalabat,
			},
			wantFinal:  "11.75",
			wantMargin: "1.50",
		},
		{
			name: "talabat weighed parent gets 17 percent",
			in: CalcInput{
				ItemCode: "200001", Raw: decimal.RequireFromString("10.00"),
				Wrap: item.WrapWeighed, WDF: nullMoney("1"),
				Channel: item.ChannelTalabat,
			},
			wantFinal:  "11.75",
			wantMargin: "1.70",
		},
		{
			name: "weighed child divides per-KG price",
			in: CalcInput{
				ItemCode: "200001", Raw: decimal.RequireFromString("10.00"),
				Wrap: item.WrapWeighed, WDF: nullMoney("4"),
				Channel: item.ChannelTalabat,
			},
			wantFinal:  "2.99",
			wantMargin: "0.43",
		},
		{
			name: "explicit zero custom margin bypasses smart rounding",
			in: CalcInput{
				ItemCode: "100002", Raw: decimal.RequireFromString("10.00"),
				Wrap: item.WrapRegular, Channel: item.ChannelTalabat,
				CustomMargin: nullMoney("0"),
			},
			wantFinal:  "10.00",
			wantMargin: "0",
		},
		{
			name: "custom margin overrides default",
			in: CalcInput{
				ItemCode: "100003", Raw: decimal.RequireFromString("10.00"),
				Wrap: item.WrapRegular, Channel: item.ChannelTalabat,
				CustomMargin: nullMoney("10"),
			},
			wantFinal:  "10.99",
			wantMargin: "1.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := calc.Calculate(tt.in)
			require.NoError(t, err)
			assert.True(t, res.FinalPrice.Equal(decimal.RequireFromString(tt.wantFinal)),
				"final = %s, want %s", res.FinalPrice, tt.wantFinal)
			assert.True(t, res.MarginAmount.Equal(decimal.RequireFromString(tt.wantMargin)),
				"margin = %s, want %s", res.MarginAmount, tt.wantMargin)
		})
	}
}

func TestCalculateChannelsAreIndependent(t *testing.T) {
	calc := newTestCalculator()
	raw := decimal.RequireFromString("10.00")

	pasons, err := calc.Calculate(CalcInput{
		ItemCode: "100001", Raw: raw, Wrap: item.WrapRegular, Channel: item.ChannelPasons,
	})
	require.NoError(t, err)

	talabat, err := calc.Calculate(CalcInput{
		ItemCode: "100001", Raw: raw, Wrap: item.WrapRegular, Channel: item.ChannelTalabat,
		CustomMargin: nullMoney("50"),
	})
	require.NoError(t, err)

	// Same item code, but the talabat override never leaks into pasons.
	assert.True(t, pasons.FinalPrice.Equal(decimal.RequireFromString("10.00")))
	assert.True(t, talabat.FinalPrice.Equal(decimal.RequireFromString("14.99")))
}

func TestCalculateInvalidDivisor(t *testing.T) {
	calc := newTestCalculator()

	for name, wdf := range map[string]decimal.NullDecimal{
		"missing":  {},
		"zero":     nullMoney("0"),
		"negative": nullMoney("-2"),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := calc.Calculate(CalcInput{
				ItemCode: "200001", Raw: decimal.RequireFromString("10.00"),
				Wrap: item.WrapWeighed, WDF: wdf, Channel: item.ChannelTalabat,
			})
			assert.True(t, apperror.IsCode(err, apperror.CodeInvalidDivisor), "err=%v", err)
		})
	}
}

func TestCalculateOutOfRangeCustomMargin(t *testing.T) {
	calc := newTestCalculator()

	_, err := calc.Calculate(CalcInput{
		ItemCode: "100001", Raw: decimal.RequireFromString("10.00"),
		Wrap: item.WrapRegular, Channel: item.ChannelTalabat,
		CustomMargin: nullMoney("140"),
	})
	assert.True(t, apperror.IsCode(err, apperror.CodeMarginOutOfRange), "err=%v", err)
}

func TestConvertedCost(t *testing.T) {
	calc := newTestCalculator()

	got, err := calc.ConvertedCost("200001", decimal.RequireFromString("10.555"),
		item.WrapWeighed, nullMoney("4"))
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("2.639")), "got %s", got)

	got, err = calc.ConvertedCost("100001", decimal.RequireFromString("5.5"),
		item.WrapRegular, decimal.NullDecimal{})
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("5.500")), "got %s", got)

	_, err = calc.ConvertedCost("200001", decimal.RequireFromString("10.00"),
		item.WrapWeighed, decimal.NullDecimal{})
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidDivisor), "err=%v", err)
}
