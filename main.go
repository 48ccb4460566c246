package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/plantops/backend/internal/config"
	"github.com/plantops/backend/internal/connector"
	"github.com/plantops/backend/internal/db"
	"github.com/plantops/backend/internal/handler"
	"github.com/plantops/backend/internal/normalizer"
	"github.com/plantops/backend/internal/observability"
	"github.com/plantops/backend/internal/ratelimit"
	"github.com/plantops/backend/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func main() {
	// .env가 없어도 무시하고 환경변수만 사용
	_ = godotenv.Load()

	cfg := config.Load()

	logger, err := newLogger(cfg.Log)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	tables, err := config.LoadTables(cfg.TablesFile)
	if err != nil {
		logger.Fatal("failed to load plant tables", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	store := db.New(pool, logger)
	if err := store.EnsureSchemas(ctx); err != nil {
		logger.Fatal("failed to ensure schemas", zap.Error(err))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewMetrics(registry)

	// 외부 시스템 connector
	scada := connector.NewScada(cfg.Scada, logger)
	lims := connector.NewLims()
	wims := connector.NewWims()
	cmms := connector.NewCmms(cfg.Cmms, logger)
	connectors := []connector.Connector{scada, lims, wims, cmms}

	// 서비스 조립
	norm := normalizer.New(tables.TagMap)
	auditWriter := service.NewAuditWriter(store, logger)
	dispatcher := service.NewDispatcher(auditWriter, cfg.Dispatch.MaxAttempts, cfg.Dispatch.BackoffBase, metrics, logger)
	evaluator := service.NewEvaluator(store, store, tables.Rules, metrics, logger)
	pipeline := service.NewPipeline(scada, norm, store, evaluator, metrics, logger)
	elogService := service.NewElogService(store, logger)
	alertService := service.NewAlertService(store, elogService, auditWriter, logger)
	workOrderService := service.NewWorkOrderService(store, store, dispatcher, cmms, elogService, auditWriter, logger)
	complianceService := service.NewComplianceService(store, wims, elogService, auditWriter, tables.ComplianceColumns, logger)
	shiftService := service.NewShiftService(store, elogService)

	authService, err := service.NewAuthService(store, cfg.Auth)
	if err != nil {
		logger.Fatal("failed to init auth service", zap.Error(err))
	}
	if err := authService.EnsureAdmin(ctx); err != nil {
		logger.Fatal("failed to ensure admin account", zap.Error(err))
	}

	limiter := ratelimit.New(cfg.RateLimit.Window, cfg.RateLimit.MaxPerWindow, cfg.RateLimit.MaxKeys)

	router := gin.Default()
	handler.RegisterRoutes(router, handler.Handlers{
		Auth:       handler.NewAuthHandler(authService),
		Dashboard:  handler.NewDashboardHandler(connectors, store),
		Pipeline:   handler.NewPipelineHandler(pipeline),
		Alerts:     handler.NewAlertHandler(alertService),
		WorkOrders: handler.NewWorkOrderHandler(workOrderService),
		Compliance: handler.NewComplianceHandler(complianceService),
		Elog:       handler.NewElogHandler(elogService),
		Audit:      handler.NewAuditHandler(store),
		Shift:      handler.NewShiftHandler(shiftService),
	}, authService, limiter, registry, cfg.Server.AllowedOrigins)

	logger.Info("starting server", zap.String("port", cfg.Server.Port))
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	if cfg.Format == "dev" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
