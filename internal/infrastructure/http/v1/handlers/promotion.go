package handlers

import (
	"github.com/gin-gonic/gin"

	"storebridge/internal/core/apperror"
	"storebridge/internal/core/id"
	"storebridge/internal/domain/promotion"
	"storebridge/internal/infrastructure/http/v1/dto"
)

// PromotionHandler handles the promotion lifecycle.
type PromotionHandler struct {
	*BaseHandler
	service *promotion.Service
}

// NewPromotionHandler creates a promotion handler.
func NewPromotionHandler(base *BaseHandler, service *promotion.Service) *PromotionHandler {
	return &PromotionHandler{BaseHandler: base, service: service}
}

// RegisterRoutes registers promotion routes on the protected group.
func (h *PromotionHandler) RegisterRoutes(rg *gin.RouterGroup, manager gin.HandlerFunc) {
	promos := rg.Group("/promotions")
	{
		promos.POST("", manager, h.Start)
		promos.POST("/cancel", manager, h.Cancel)
	}
}

// Start applies a validated promotional price to one item at one outlet.
func (h *PromotionHandler) Start(c *gin.Context) {
	var req dto.StartPromotionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	itemID, outletID, ok := h.parsePair(c, req.ItemID, req.OutletID)
	if !ok {
		return
	}

	res, err := h.service.Start(c.Request.Context(), itemID, outletID, req.PromoPrice)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromStartResult(res))
}

// Cancel ends a promotion and restores the snapshotted selling price.
func (h *PromotionHandler) Cancel(c *gin.Context) {
	var req dto.CancelPromotionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	itemID, outletID, ok := h.parsePair(c, req.ItemID, req.OutletID)
	if !ok {
		return
	}

	if err := h.service.Cancel(c.Request.Context(), itemID, outletID); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "promotion cancelled")
}

func (h *PromotionHandler) parsePair(c *gin.Context, rawItem, rawOutlet string) (id.ID, id.ID, bool) {
	itemID, err := id.Parse(rawItem)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid item id").WithDetail("value", rawItem))
		return id.Nil(), id.Nil(), false
	}
	outletID, err := id.Parse(rawOutlet)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid outlet id").WithDetail("value", rawOutlet))
		return id.Nil(), id.Nil(), false
	}
	return itemID, outletID, true
}
