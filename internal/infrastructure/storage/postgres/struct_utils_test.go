package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"storebridge/internal/core/id"
	"storebridge/internal/domain/catalog/item"
)

type auditedRecord struct {
	item.Outlet
	Region string `db:"region" json:"region"`
}

func TestExtractDBColumns(t *testing.T) {
	cols := ExtractDBColumns[item.Item]()

	expectedCols := []string{
		"id", "item_code", "sku", "units", "channel", "wrap",
		"weight_division_factor", "outer_case_quantity",
		"mrp", "cost", "custom_margin_percent",
		"price_locked", "status_locked",
	}

	for _, expected := range expectedCols {
		assert.Contains(t, cols, expected)
	}
}

func TestExtractDBColumnsEmbedded(t *testing.T) {
	cols := ExtractDBColumns[auditedRecord]()

	for _, expected := range []string{"id", "store_id", "name", "channel", "is_active", "region"} {
		assert.Contains(t, cols, expected)
	}
}

func TestStructToMap(t *testing.T) {
	rec := auditedRecord{
		Outlet: item.Outlet{
			ID:      id.New(),
			StoreID: "S01",
			Name:    "Main Street",
			Channel: item.ChannelPasons,
			Active:  true,
		},
		Region: "north",
	}

	m := StructToMap(rec)

	assert.Equal(t, rec.ID, m["id"])
	assert.Equal(t, "S01", m["store_id"])
	assert.Equal(t, "Main Street", m["name"])
	assert.Equal(t, item.ChannelPasons, m["channel"])
	assert.Equal(t, true, m["is_active"])
	assert.Equal(t, "north", m["region"])
}
