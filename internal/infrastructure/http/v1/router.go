// Package v1 wires the HTTP API: middleware chain, route groups and handlers.
package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"storebridge/internal/domain/auth"
	"storebridge/internal/domain/bulkupdate"
	"storebridge/internal/domain/catalog/item"
	"storebridge/internal/domain/marginrule"
	"storebridge/internal/domain/promotion"
	"storebridge/internal/infrastructure/http/v1/handlers"
	"storebridge/internal/infrastructure/http/v1/middleware"
	"storebridge/pkg/logger"
)

// RoleManager gates catalog and pricing mutations.
const RoleManager = "manager"

// RouterConfig carries everything the router needs.
type RouterConfig struct {
	Pool    *pgxpool.Pool
	Logger  *logger.Logger
	Version string

	JWTValidator middleware.JWTValidator

	AuthService       *auth.Service
	ItemService       *item.Service
	PromotionService  *promotion.Service
	MarginRuleService *marginrule.Service
	BulkRunner        *bulkupdate.Runner
}

// NewRouter builds the gin engine with the full middleware chain and all
// route groups.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	base := handlers.NewBaseHandler()
	health := handlers.NewHealthHandler(cfg.Pool, cfg.Version)
	authH := handlers.NewAuthHandler(base, cfg.AuthService)
	itemH := handlers.NewItemHandler(base, cfg.ItemService)
	pricingH := handlers.NewPricingHandler(base, cfg.BulkRunner)
	promoH := handlers.NewPromotionHandler(base, cfg.PromotionService)
	ruleH := handlers.NewMarginRuleHandler(base, cfg.MarginRuleService)

	router.GET("/health/live", health.Live)
	router.GET("/health/ready", health.Ready)
	router.GET("/health/info", health.Info)

	api := router.Group("/api/v1")

	authPublic := api.Group("/auth")
	authProtected := api.Group("/auth", middleware.Auth(cfg.JWTValidator))
	authH.RegisterRoutes(authPublic, authProtected)

	protected := api.Group("", middleware.Auth(cfg.JWTValidator))
	manager := middleware.RequireRole(RoleManager)

	itemH.RegisterRoutes(protected, manager)
	promoH.RegisterRoutes(protected, manager)
	ruleH.RegisterRoutes(protected, manager)
	protected.POST("/bulk-updates", manager, pricingH.BulkUpdate)

	return router
}
