package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRoundPsychological(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lower band", "5.10", "5.25"},
		{"lower band edge", "5.24", "5.25"},
		{"second band", "5.30", "5.49"},
		{"second band edge", "5.48", "5.49"},
		{"third band", "5.50", "5.75"},
		{"third band edge", "5.74", "5.75"},
		{"top band", "5.80", "5.99"},
		{"just below whole", "5.985", "5.99"},
		{"fraction just under 25", "10.245", "10.25"},
		{"fraction just under 49", "5.485", "5.49"},
		{"fraction just under 75", "5.745", "5.75"},
		{"sub-cent fraction", "10.005", "10.25"},
		{"exact 25 unchanged", "7.25", "7.25"},
		{"exact 49 unchanged", "7.49", "7.49"},
		{"exact 75 unchanged", "7.75", "7.75"},
		{"exact 99 unchanged", "7.99", "7.99"},
		{"whole converts down", "10.00", "9.99"},
		{"one converts down", "1.00", "0.99"},
		{"sub-unit stays in band", "0.50", "0.75"},
		{"sub-unit whole stays zero", "0.00", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RoundPsychological(decimal.RequireFromString(tt.in), false)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"RoundPsychological(%s) = %s, want %s", tt.in, got, tt.want)
		})
	}
}

func TestRoundPsychologicalBypass(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"whole preserved", "10.00", "10.00"},
		{"plain half-up", "10.005", "10.01"},
		{"rounds down", "9.994", "9.99"},
		{"no ending conversion", "7.30", "7.30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RoundPsychological(decimal.RequireFromString(tt.in), true)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"bypass(%s) = %s, want %s", tt.in, got, tt.want)
		})
	}
}

// The result must always land on an attractive ending, never above the next
// whole number, and never move downward except at the .00 boundary.
func TestRoundPsychologicalStaysWithinUnit(t *testing.T) {
	for cents := 1; cents < 100; cents++ {
		in := decimal.NewFromInt(7).Add(decimal.New(int64(cents), -2))
		got := RoundPsychological(in, false)

		assert.True(t, got.GreaterThanOrEqual(in), "rounded %s below input", in)
		assert.True(t, got.LessThan(decimal.NewFromInt(8)), "rounded %s past the unit", in)

		frac := got.Sub(got.Floor())
		assert.Contains(t, []string{"0.25", "0.49", "0.75", "0.99"}, frac.String(),
			"rounded %s to non-target %s", in, got)
	}
}
