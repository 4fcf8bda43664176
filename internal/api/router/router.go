package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/vishwanathak47/Employee-Duty-Management/config"
	"github.com/vishwanathak47/Employee-Duty-Management/internal/api/handler"
	"github.com/vishwanathak47/Employee-Duty-Management/internal/api/middleware"
	"github.com/vishwanathak47/Employee-Duty-Management/internal/dto"
	"github.com/vishwanathak47/Employee-Duty-Management/pkg/jwt"
	"github.com/vishwanathak47/Employee-Duty-Management/pkg/metrics"
	"github.com/vishwanathak47/Employee-Duty-Management/pkg/redis"
)

// Deps 路由依赖；Redis 与指标均可缺省
type Deps struct {
	Config   *config.Config
	Handler  *handler.Handler
	JWT      *jwt.Manager
	Redis    *redis.Client
	Gatherer prometheus.Gatherer
	Metrics  *metrics.Metrics
	Logger   *zap.Logger
}

// Setup 初始化并返回 Gin 路由引擎
func Setup(d Deps) (*gin.Engine, error) {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := dto.RegisterValidators(v); err != nil {
			return nil, fmt.Errorf("注册校验规则失败: %w", err)
		}
	}

	// *redis.Client 为 nil 时不能直接赋给接口
	var (
		blacklist middleware.TokenBlacklist
		limiter   middleware.RateLimiter
	)
	if d.Redis != nil {
		blacklist = d.Redis
		limiter = d.Redis
	}

	cfg := d.Config
	h := d.Handler

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(d.Logger, d.Metrics))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	// ── 健康检查 / 指标 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if d.Gatherer != nil && cfg.Server.MetricsPath != "" {
		r.GET(cfg.Server.MetricsPath, gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	rateLimit := middleware.RateLimit(limiter, cfg.Server.RateLimit, cfg.Server.RateWindowDuration())

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		auth.Use(rateLimit)
		{
			auth.POST("/signup", h.Auth.Signup)
			auth.POST("/login", h.Auth.Login)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(d.JWT, blacklist), rateLimit)
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.PUT("/auth/theme", h.Auth.UpdateTheme)

			// 员工模块
			employees := authorized.Group("/employees")
			{
				employees.GET("", h.Employee.List)
				employees.POST("", h.Employee.Create)
				employees.GET("/:id", h.Employee.Get)
				employees.PUT("/:id", h.Employee.Update)
				employees.DELETE("/:id", h.Employee.Delete)
				employees.GET("/:id/calendar.ics", h.Employee.Calendar)
			}

			// 值班模块
			duties := authorized.Group("/duties")
			{
				duties.GET("", h.Duty.List)
				duties.POST("/schedule", h.Duty.Schedule)
				duties.PUT("/complete/:id", h.Duty.Complete)
				duties.GET("/status/:date", h.Duty.DayStatus)
			}

			// 报表模块
			reports := authorized.Group("/reports")
			{
				reports.GET("/excel/:monthYear", h.Report.ExportMonthly)
			}
		}
	}

	return r, nil
}
