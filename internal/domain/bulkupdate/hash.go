package bulkupdate

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"

	"storebridge/internal/core/types"
)

// DataHash fingerprints the change-detection fields of one outlet instance.
// The representation is normalized before hashing so that textual noise in
// upstream feeds (5 vs 5.0 vs 5.00) never registers as a change:
// MRP at two decimals, cost at three, stock as a bare integer, joined with
// pipes in that order.
func DataHash(mrp, cost types.Money, stock int) string {
	payload := fmt.Sprintf("%s|%s|%d",
		mrp.StringFixed(types.PriceScale),
		cost.StringFixed(types.CostScale),
		stock,
	)
	sum := md5.Sum([]byte(payload))
	return hex.EncodeToString(sum[:])
}
