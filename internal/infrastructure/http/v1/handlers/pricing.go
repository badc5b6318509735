package handlers

import (
	"github.com/gin-gonic/gin"

	"storebridge/internal/core/apperror"
	"storebridge/internal/core/id"
	"storebridge/internal/domain/bulkupdate"
	"storebridge/internal/infrastructure/http/v1/dto"
)

// PricingHandler handles bulk price/cost/stock updates.
type PricingHandler struct {
	*BaseHandler
	runner *bulkupdate.Runner
}

// NewPricingHandler creates a pricing handler.
func NewPricingHandler(base *BaseHandler, runner *bulkupdate.Runner) *PricingHandler {
	return &PricingHandler{BaseHandler: base, runner: runner}
}

// BulkUpdate runs one batch of update rows against one outlet. Row failures
// are reported inside the response; only batch-level failures produce an
// error status.
func (h *PricingHandler) BulkUpdate(c *gin.Context) {
	var req dto.BulkUpdateRequest
	if !h.BindJSON(c, &req) {
		return
	}

	channel, ok := dto.ParseChannel(req.Channel)
	if !ok {
		h.Error(c, apperror.NewValidation("invalid channel").
			WithDetail("value", req.Channel))
		return
	}
	outletID, err := id.Parse(req.OutletID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid outlet id").
			WithDetail("value", req.OutletID))
		return
	}

	rows := make([]bulkupdate.Row, len(req.Rows))
	for i, r := range req.Rows {
		rows[i] = r.ToRow()
	}

	result, err := h.runner.Run(c.Request.Context(), channel, outletID, rows)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromBatchResult(result))
}
