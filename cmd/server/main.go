// Package main is the entry point for the storebridge pricing API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storebridge/internal/domain/auth"
	"storebridge/internal/domain/bulkupdate"
	"storebridge/internal/domain/cascade"
	"storebridge/internal/domain/catalog/item"
	"storebridge/internal/domain/marginrule"
	"storebridge/internal/domain/pricing"
	"storebridge/internal/domain/promotion"
	v1 "storebridge/internal/infrastructure/http/v1"
	"storebridge/internal/infrastructure/storage/postgres"
	"storebridge/internal/infrastructure/storage/postgres/auth_repo"
	"storebridge/internal/infrastructure/storage/postgres/catalog_repo"
	"storebridge/internal/infrastructure/storage/postgres/rule_repo"
	"storebridge/pkg/logger"
)

var version = "dev"

func main() {
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting storebridge server")

	// --- Database ---
	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(mustEnv("DATABASE_URL")))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Repositories ---
	itemRepo := catalog_repo.NewItemRepo(txManager)
	outletRepo := catalog_repo.NewOutletRepo(txManager)
	linkRepo := catalog_repo.NewItemOutletRepo(txManager)
	ruleRepo := rule_repo.NewRuleRepo(txManager)
	userRepo := auth_repo.NewUserRepo(txManager)
	tokenRepo := auth_repo.NewTokenRepo(txManager)

	// --- Pricing core ---
	margins := pricing.NewMarginResolver(pricing.StandardMarginDefaults())
	calc := pricing.NewCalculator(margins)
	cascadeEngine := cascade.NewEngine(calc)

	// --- Domain services ---
	auditSink, err := postgres.NewAuditService(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit service", "error", err)
	}

	bulkService := bulkupdate.NewService(margins, calc, cascadeEngine)
	bulkRunner := bulkupdate.NewRunner(bulkService, itemRepo, linkRepo, txManager, auditSink)

	itemService := item.NewService(itemRepo, outletRepo, linkRepo)
	promoService := promotion.NewService(itemRepo, linkRepo, margins, calc)

	ruleEngine, err := marginrule.NewEngine()
	if err != nil {
		log.Fatalw("failed to initialize rule engine", "error", err)
	}
	ruleService := marginrule.NewService(ruleRepo, itemRepo, ruleEngine)

	// --- Auth ---
	jwtSecret := getEnv("JWT_SECRET", "your-secret-key-change-in-production")
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(jwtSecret))
	authService := auth.NewService(userRepo, tokenRepo, jwtService, auth.DefaultServiceConfig())

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:              pool.Unwrap(),
		Logger:            log,
		Version:           version,
		JWTValidator:      jwtService,
		AuthService:       authService,
		ItemService:       itemService,
		PromotionService:  promoService,
		MarginRuleService: ruleService,
		BulkRunner:        bulkRunner,
	})

	// --- Background cleanup ---
	cleanupCtx, cancelCleanup := context.WithCancel(ctx)
	defer cancelCleanup()
	go runTokenCleanup(cleanupCtx, authService, log)

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port, "version", version)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

// runTokenCleanup periodically removes expired refresh tokens.
func runTokenCleanup(ctx context.Context, authService *auth.Service, log *logger.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := authService.CleanupExpiredTokens(ctx)
			if err != nil {
				log.Warnw("token cleanup failed", "error", err)
				continue
			}
			if removed > 0 {
				log.Infow("expired refresh tokens removed", "count", removed)
			}
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}
