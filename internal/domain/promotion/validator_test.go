package promotion

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storebridge/internal/core/apperror"
	"storebridge/internal/domain/catalog/item"
)

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func nullMoney(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.RequireFromString(s), Valid: true}
}

func TestConvert(t *testing.T) {
	tests := []struct {
		name string
		in   ConvertInput
		want string
	}{
		{
			name: "pasons plain rounding",
			in: ConvertInput{
				ItemCode: "100001", PromoPrice: money("10.555"),
				Channel: item.ChannelPasons, Wrap: item.WrapRegular,
				MarginPercent: decimal.Zero,
			},
			want: "10.56",
		},
		{
			name: "talabat margin uplift with smart rounding",
			in: ConvertInput{
				ItemCode: "100001", PromoPrice: money("10.00"),
				Channel: item.ChannelTalabat, Wrap: item.WrapRegular,
				MarginPercent: money("15"),
			},
			want: "11.75",
		},
		{
			name: "weighed divides before uplift",
			in: ConvertInput{
				ItemCode: "200001", PromoPrice: money("10.00"),
				Channel: item.ChannelTalabat, Wrap: item.WrapWeighed,
				WDF: nullMoney("4"), MarginPercent: money("17"),
			},
			want: "2.99",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Convert(tt.in)
			require.NoError(t, err)
			assert.True(t, got.Equal(money(tt.want)), "got %s, want %s", got, tt.want)
		})
	}
}

func TestConvertMissingWDF(t *testing.T) {
	_, err := Convert(ConvertInput{
		ItemCode: "200001", PromoPrice: money("10.00"),
		Channel: item.ChannelTalabat, Wrap: item.WrapWeighed,
		MarginPercent: money("17"),
	})
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidDivisor), "err=%v", err)
}

func TestValidateLiftsLowMarginTalabatPromo(t *testing.T) {
	res, err := Validate(ValidateInput{
		ItemCode: "100001", Channel: item.ChannelTalabat,
		Cost:           money("8.00"),
		ConvertedPromo: money("9.00"), // GP 11.1%
		SellingPrice:   money("15.00"),
	})
	require.NoError(t, err)

	// Floor is smart-rounded cost*1.25: 10.00 -> 9.99.
	assert.True(t, res.ConvertedPromo.Equal(money("9.99")), "promo = %s", res.ConvertedPromo)
	assert.True(t, res.PromoAdjusted)
	assert.False(t, res.SellingAdjusted)
	assert.True(t, res.SellingPrice.Equal(money("15.00")))
	assert.True(t, res.GPPercent.Equal(money("19.92")), "gp = %s", res.GPPercent)
}

func TestValidateKeepsHealthyPromo(t *testing.T) {
	res, err := Validate(ValidateInput{
		ItemCode: "100001", Channel: item.ChannelTalabat,
		Cost:           money("8.00"),
		ConvertedPromo: money("10.00"), // GP exactly 20%
		SellingPrice:   money("12.00"),
	})
	require.NoError(t, err)

	assert.False(t, res.PromoAdjusted)
	assert.False(t, res.SellingAdjusted, "a gap of exactly 2.00 is acceptable")
	assert.True(t, res.ConvertedPromo.Equal(money("10.00")))
}

func TestValidateEnforcesMinimumGap(t *testing.T) {
	res, err := Validate(ValidateInput{
		ItemCode: "100001", Channel: item.ChannelPasons,
		Cost:           money("5.00"),
		ConvertedPromo: money("10.00"),
		SellingPrice:   money("11.00"),
	})
	require.NoError(t, err)

	assert.True(t, res.SellingAdjusted)
	assert.True(t, res.SellingPrice.Equal(money("12.00")), "selling = %s", res.SellingPrice)
	assert.False(t, res.PromoAdjusted, "pasons has no GP floor")
}

func TestValidatePromoBelowCostIsFatal(t *testing.T) {
	_, err := Validate(ValidateInput{
		ItemCode: "100001", Channel: item.ChannelPasons,
		Cost:           money("12.00"),
		ConvertedPromo: money("10.00"),
		SellingPrice:   money("15.00"),
	})
	assert.True(t, apperror.IsCode(err, apperror.CodePromoBelowCost), "err=%v", err)
}

func TestValidateZeroPromoIsRejected(t *testing.T) {
	_, err := Validate(ValidateInput{
		ItemCode: "100001", Channel: item.ChannelTalabat,
		Cost:           money("8.00"),
		ConvertedPromo: decimal.Zero,
		SellingPrice:   money("15.00"),
	})
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidDivisor), "err=%v", err)
}
