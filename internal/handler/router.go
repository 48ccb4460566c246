package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/plantops/backend/internal/ratelimit"
	"github.com/plantops/backend/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers - 라우터 등록에 필요한 핸들러 묶음
type Handlers struct {
	Auth       *AuthHandler
	Dashboard  *DashboardHandler
	Pipeline   *PipelineHandler
	Alerts     *AlertHandler
	WorkOrders *WorkOrderHandler
	Compliance *ComplianceHandler
	Elog       *ElogHandler
	Audit      *AuditHandler
	Shift      *ShiftHandler
}

// RegisterRoutes - 전체 HTTP 라우트 등록
// 쓰기 엔드포인트에만 rate limit을 적용함 (조회는 제한 없음)
func RegisterRoutes(
	router *gin.Engine,
	h Handlers,
	authService *service.AuthService,
	limiter *ratelimit.Limiter,
	registry *prometheus.Registry,
	allowedOrigins []string,
) {
	if len(allowedOrigins) > 0 {
		router.Use(CORSMiddleware(allowedOrigins))
	}

	router.GET("/", Root)
	router.GET("/ping", Ping)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	router.POST("/api/v1/auth/login", h.Auth.Login)

	api := router.Group("/api/v1")
	api.Use(AuthMiddleware(authService))

	limited := RateLimitMiddleware(limiter)

	api.GET("/auth/me", h.Auth.Me)

	api.GET("/dashboard/systems", h.Dashboard.Systems)
	api.GET("/dashboard/readings", h.Dashboard.Readings)

	api.POST("/ingest", limited, h.Pipeline.RunIngest)

	api.GET("/alerts", h.Alerts.List)
	api.GET("/alerts/:id", h.Alerts.Get)
	api.POST("/alerts/:id/action", limited, h.Alerts.Transition)

	api.GET("/work-orders", h.WorkOrders.List)
	api.POST("/work-orders", limited, h.WorkOrders.Create)

	api.GET("/compliance/export", h.Compliance.Export)
	api.POST("/compliance/morning-review", limited, h.Compliance.ApproveMorningReview)

	api.POST("/elog", limited, h.Elog.Create)
	api.GET("/elog", h.Elog.List)

	api.GET("/audit", h.Audit.List)

	api.GET("/shift/summary", h.Shift.Summary)
	api.POST("/shift/sign-off", limited, h.Shift.SignOff)
}
