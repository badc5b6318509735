package bulkupdate

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDataHashNormalizesRepresentation(t *testing.T) {
	a := DataHash(decimal.RequireFromString("5"), decimal.RequireFromString("3.1"), 10)
	b := DataHash(decimal.RequireFromString("5.00"), decimal.RequireFromString("3.100"), 10)
	assert.Equal(t, a, b, "textual noise must not register as a change")
}

func TestDataHashDetectsChanges(t *testing.T) {
	base := DataHash(decimal.RequireFromString("5.00"), decimal.RequireFromString("3.100"), 10)

	assert.NotEqual(t, base, DataHash(decimal.RequireFromString("5.01"), decimal.RequireFromString("3.100"), 10))
	assert.NotEqual(t, base, DataHash(decimal.RequireFromString("5.00"), decimal.RequireFromString("3.101"), 10))
	assert.NotEqual(t, base, DataHash(decimal.RequireFromString("5.00"), decimal.RequireFromString("3.100"), 11))
}
