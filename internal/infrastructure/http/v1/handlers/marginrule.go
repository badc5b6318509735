package handlers

import (
	"github.com/gin-gonic/gin"

	"storebridge/internal/domain/marginrule"
	"storebridge/internal/infrastructure/http/v1/dto"
)

// MarginRuleHandler handles margin rule CRUD and rule application.
type MarginRuleHandler struct {
	*BaseHandler
	service *marginrule.Service
}

// NewMarginRuleHandler creates a margin rule handler.
func NewMarginRuleHandler(base *BaseHandler, service *marginrule.Service) *MarginRuleHandler {
	return &MarginRuleHandler{BaseHandler: base, service: service}
}

// RegisterRoutes registers margin rule routes on the protected group. All
// mutations require the manager role.
func (h *MarginRuleHandler) RegisterRoutes(rg *gin.RouterGroup, manager gin.HandlerFunc) {
	rules := rg.Group("/margin-rules")
	{
		rules.GET("", h.List)
		rules.GET("/:id", h.Get)
		rules.POST("", manager, h.Create)
		rules.PUT("/:id", manager, h.Update)
		rules.DELETE("/:id", manager, h.Delete)
		rules.POST("/apply", manager, h.Apply)
	}
}

// List returns margin rules. Pass activeOnly=true to hide disabled rules.
func (h *MarginRuleHandler) List(c *gin.Context) {
	activeOnly := c.Query("activeOnly") == "true"

	rules, err := h.service.List(c.Request.Context(), activeOnly)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{
		Items:      dto.FromRules(rules),
		TotalCount: int64(len(rules)),
	})
}

// Get returns one rule by ID.
func (h *MarginRuleHandler) Get(c *gin.Context) {
	ruleID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	rule, err := h.service.GetByID(c.Request.Context(), ruleID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromRule(*rule))
}

// Create compiles and stores a new rule.
func (h *MarginRuleHandler) Create(c *gin.Context) {
	var req dto.CreateRuleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	rule := req.ToRule()
	if err := h.service.Create(c.Request.Context(), rule); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, rule.ID.String())
}

// Update compiles and stores rule changes.
func (h *MarginRuleHandler) Update(c *gin.Context) {
	ruleID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateRuleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	rule := &marginrule.Rule{
		ID:            ruleID,
		Name:          req.Name,
		Expression:    req.Expression,
		MarginPercent: req.MarginPercent,
		Priority:      req.Priority,
		Active:        req.Active,
	}
	if err := h.service.Update(c.Request.Context(), rule); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromRule(*rule))
}

// Delete removes a rule.
func (h *MarginRuleHandler) Delete(c *gin.Context) {
	ruleID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), ruleID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// Apply evaluates every active rule against the Talabat catalog and persists
// the winning margins.
func (h *MarginRuleHandler) Apply(c *gin.Context) {
	res, err := h.service.ApplyAll(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, res)
}
