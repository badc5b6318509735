package handlers

import (
	"github.com/gin-gonic/gin"

	"storebridge/internal/core/apperror"
	"storebridge/internal/core/id"
	"storebridge/internal/domain/catalog/item"
	"storebridge/internal/infrastructure/http/v1/dto"
)

// ItemHandler handles catalog item endpoints: reads, outlet linking and the
// central lock cascade.
type ItemHandler struct {
	*BaseHandler
	service *item.Service
}

// NewItemHandler creates an item handler.
func NewItemHandler(base *BaseHandler, service *item.Service) *ItemHandler {
	return &ItemHandler{BaseHandler: base, service: service}
}

// RegisterRoutes registers item routes on the protected group. Lock and
// linking mutations additionally require the manager role.
func (h *ItemHandler) RegisterRoutes(rg *gin.RouterGroup, manager gin.HandlerFunc) {
	items := rg.Group("/items")
	{
		items.GET("", h.List)
		items.GET("/:id", h.Get)
		items.GET("/:id/outlets", h.ListOutletInstances)
		items.POST("/:id/outlets", manager, h.LinkOutlet)
		items.POST("/:id/outlets/:outletId/reactivate", manager, h.Reactivate)
		items.PUT("/:id/price-lock", manager, h.SetPriceLock)
		items.PUT("/:id/status-lock", manager, h.SetStatusLock)
	}
}

// Get returns one item by ID.
func (h *ItemHandler) Get(c *gin.Context) {
	itemID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	it, err := h.service.GetItem(c.Request.Context(), itemID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromItem(*it))
}

// List returns catalog items for one channel, optionally narrowed to one
// item code (all unit variants).
func (h *ItemHandler) List(c *gin.Context) {
	channel, ok := dto.ParseChannel(c.Query("channel"))
	if !ok {
		h.Error(c, apperror.NewValidation("invalid channel").
			WithDetail("value", c.Query("channel")))
		return
	}

	var (
		items []item.Item
		err   error
	)
	if code := c.Query("code"); code != "" {
		items, err = h.service.ListByCode(c.Request.Context(), channel, code)
	} else {
		items, err = h.service.ListByChannel(c.Request.Context(), channel)
	}
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{
		Items:      dto.FromItems(items),
		TotalCount: int64(len(items)),
	})
}

// ListOutletInstances returns every outlet instance of one item.
func (h *ItemHandler) ListOutletInstances(c *gin.Context) {
	itemID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	ios, err := h.service.ListOutletInstances(c.Request.Context(), itemID)
	if err != nil {
		h.Error(c, err)
		return
	}
	out := make([]dto.ItemOutletResponse, len(ios))
	for i, io := range ios {
		out[i] = dto.FromItemOutlet(io)
	}
	h.OK(c, dto.ListResponse{Items: out, TotalCount: int64(len(out))})
}

// LinkOutlet creates the per-outlet instance for an item.
func (h *ItemHandler) LinkOutlet(c *gin.Context) {
	itemID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req dto.LinkOutletRequest
	if !h.BindJSON(c, &req) {
		return
	}
	outletID, err := id.Parse(req.OutletID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid outlet id").
			WithDetail("value", req.OutletID))
		return
	}

	io, err := h.service.LinkToOutlet(c.Request.Context(), itemID, outletID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, io.ID.String())
}

// Reactivate re-enables an item in one outlet after a status unlock.
func (h *ItemHandler) Reactivate(c *gin.Context) {
	itemID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	outletID, ok := h.ParseID(c, "outletId")
	if !ok {
		return
	}

	if err := h.service.ReactivateInOutlet(c.Request.Context(), itemID, outletID); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "reactivated")
}

// SetPriceLock toggles the central price lock.
func (h *ItemHandler) SetPriceLock(c *gin.Context) {
	itemID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req dto.LockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.SetCentralPriceLock(c.Request.Context(), itemID, req.Locked); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "price lock updated")
}

// SetStatusLock toggles the central status lock.
func (h *ItemHandler) SetStatusLock(c *gin.Context) {
	itemID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req dto.LockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.SetCentralStatusLock(c.Request.Context(), itemID, req.Locked); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "status lock updated")
}
