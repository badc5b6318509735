package item

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEffectiveLocks(t *testing.T) {
	tests := []struct {
		name    string
		central bool
		branch  bool
		want    bool
	}{
		{"neither", false, false, false},
		{"central only", true, false, true},
		{"branch only", false, true, true},
		{"both", true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := Item{PriceLocked: tt.central, StatusLocked: tt.central}
			io := ItemOutlet{PriceLocked: tt.branch, StatusLocked: tt.branch}

			assert.Equal(t, tt.want, EffectivePriceLocked(it, io))
			assert.Equal(t, tt.want, EffectiveStatusLocked(it, io))
		})
	}
}

func TestApplyCentralStatusLock(t *testing.T) {
	io := ItemOutlet{IsActiveInOutlet: true}

	ApplyCentralStatusLock(&io, true)
	assert.True(t, io.StatusLocked)
	assert.False(t, io.IsActiveInOutlet, "locking disables the item in the outlet")

	ApplyCentralStatusLock(&io, false)
	assert.False(t, io.StatusLocked)
	assert.False(t, io.IsActiveInOutlet, "unlocking never reactivates on its own")
}

func TestApplyCentralPriceLock(t *testing.T) {
	io := ItemOutlet{}

	ApplyCentralPriceLock(&io, true)
	assert.True(t, io.PriceLocked)

	ApplyCentralPriceLock(&io, false)
	assert.False(t, io.PriceLocked)
}
