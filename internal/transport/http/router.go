package httptransport

import (
	"time"

	gincors "github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"hostpanel/backend/internal/auth"
	jwtpkg "hostpanel/backend/internal/auth/jwt"
	"hostpanel/backend/internal/config"
	"hostpanel/backend/internal/health"
	"hostpanel/backend/internal/middleware"
	"hostpanel/backend/internal/monitoring"
	"hostpanel/backend/internal/service"
	"hostpanel/backend/internal/storage"
	"hostpanel/backend/internal/websocket"
)

// RouterDependencies 路由器依赖项
type RouterDependencies struct {
	Config *config.Config

	DomainManager     *service.DomainManager
	DNSManager        *service.DNSManager
	HostingManager    *service.HostingManager
	ContactService    *service.ContactService
	PrivacyService    *service.PrivacyService
	BulkService       *service.BulkOperationsService
	MonitoringService *service.DomainMonitoringService
	ValidationService *service.DomainValidationService

	AuthService *auth.Service
	JWTManager  *jwtpkg.Manager

	Store         storage.Store
	Metrics       *monitoring.Metrics
	AlertManager  *monitoring.AlertManager
	WSHub         *websocket.Hub
	HealthChecker *health.HealthChecker
	Logger        *zap.Logger
}

// NewRouter 创建并返回 Gin 路由实例。
func NewRouter(deps RouterDependencies) *gin.Engine {
	router := gin.New()

	// 使用自定义中间件替代默认中间件
	monitoringMW := middleware.NewMonitoringMiddleware(deps.Metrics, deps.Logger)
	router.Use(monitoringMW.PanicRecovery())
	router.Use(monitoringMW.HTTPMetrics())
	router.Use(middleware.RequestLogger(deps.Logger))
	router.Use(middleware.SecurityHeaders())

	// 全局请求体大小限制 10MB
	router.Use(middleware.RequestSizeLimit(10 * 1024 * 1024))

	// CORS 配置
	corsConfig := gincors.Config{
		AllowOrigins:     deps.Config.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	// 如果允许所有来源，则需清空凭证支持。
	for _, origin := range corsConfig.AllowOrigins {
		if origin == "*" {
			corsConfig.AllowCredentials = false
			break
		}
	}
	router.Use(gincors.New(corsConfig))

	// 创建处理器
	authHandler := NewAuthHandler(deps.AuthService, deps.JWTManager, deps.Logger)
	domainHandler := NewDomainHandler(deps.DomainManager, deps.ValidationService, deps.Logger)
	dnsHandler := NewDNSHandler(deps.DNSManager, deps.Logger)
	contactHandler := NewContactHandler(deps.ContactService, deps.PrivacyService, deps.Logger)
	operationsHandler := NewOperationsHandler(deps.BulkService, deps.MonitoringService, deps.AlertManager, deps.Logger)
	hostingHandler := NewHostingHandler(deps.HostingManager, deps.Logger)
	customerHandler := NewCustomerHandler(deps.Store, deps.Logger)
	packageHandler := NewPackageHandler(deps.Store, deps.Logger)

	// 创建中间件
	jwtAuth := middleware.NewJWTAuth(deps.JWTManager, deps.Logger)
	adminAuth := middleware.NewAdminAuth(deps.AuthService)

	// Swagger 文档
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 健康检查与指标
	router.GET("/health", func(c *gin.Context) {
		Success(c, deps.HealthChecker.CheckHealth())
	})
	healthHandler := deps.HealthChecker.Handler()
	router.GET("/live", gin.WrapH(healthHandler))
	router.GET("/ready", gin.WrapH(healthHandler))
	router.GET("/metrics", gin.WrapH(deps.Metrics.HTTPHandler()))

	// V1 API
	v1 := router.Group("/v1")
	{
		// ========== Public Routes（无需认证的公开API） ==========
		v1.GET("/availability", domainHandler.CheckAvailability)
		v1.POST("/availability/bulk", domainHandler.CheckBulkAvailability)
		v1.GET("/suggestions", domainHandler.SuggestNames)
		v1.GET("/pricing", domainHandler.GetPricing)
		v1.POST("/validation/domains", domainHandler.ValidateSyntax)
		v1.POST("/contacts/validate", contactHandler.ValidateContact)
		v1.GET("/packages", packageHandler.List)
		v1.GET("/packages/:id", packageHandler.Get)

		// ========== Auth Routes ==========
		authRoutes := v1.Group("/auth")
		{
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh", authHandler.Refresh)
			authRoutes.GET("/me", jwtAuth.RequireAuth(), authHandler.Me)
			authRoutes.PUT("/password", jwtAuth.RequireAuth(), authHandler.ChangePassword)
			authRoutes.POST("/operators",
				jwtAuth.RequireAuth(), adminAuth.RequireSuper(), authHandler.CreateOperator)
		}

		// ========== Domain Routes（需要操作员认证） ==========
		domainRoutes := v1.Group("/domains", jwtAuth.RequireAuth(), adminAuth.RequireAdmin())
		{
			domainRoutes.POST("", domainHandler.Register)
			domainRoutes.GET("/:name", domainHandler.GetDetails)
			domainRoutes.POST("/:name/renew", domainHandler.Renew)
			domainRoutes.GET("/:name/transfer-eligibility", domainHandler.TransferEligibility)
			domainRoutes.GET("/:name/lock", domainHandler.GetLockStatus)
			domainRoutes.PUT("/:name/lock", domainHandler.SetLock)
			domainRoutes.GET("/:name/auth-code", domainHandler.GetAuthCode)
			domainRoutes.GET("/:name/renewal-price", domainHandler.GetRenewalPrice)
			domainRoutes.GET("/:name/status", operationsHandler.MonitorDomain)

			// DNS 记录
			domainRoutes.GET("/:name/dns", dnsHandler.GetRecords)
			domainRoutes.PUT("/:name/dns", dnsHandler.UpdateRecords)

			// 联系人与隐私保护
			domainRoutes.GET("/:name/contacts/:type", contactHandler.GetContact)
			domainRoutes.PUT("/:name/contacts/:type", contactHandler.UpdateContact)
			domainRoutes.GET("/:name/privacy", contactHandler.GetPrivacyStatus)
			domainRoutes.PUT("/:name/privacy", contactHandler.SetPrivacy)
		}

		// ========== Transfer / Bulk / Monitoring Routes ==========
		v1.POST("/transfers",
			jwtAuth.RequireAuth(), adminAuth.RequireAdmin(), domainHandler.Transfer)

		bulkRoutes := v1.Group("/bulk", jwtAuth.RequireAuth(), adminAuth.RequireAdmin())
		{
			bulkRoutes.POST("/renew", operationsHandler.BulkRenewal)
			bulkRoutes.POST("/lock", operationsHandler.BulkLock)
			bulkRoutes.POST("/contacts", operationsHandler.BulkContactUpdate)
		}

		monitoringRoutes := v1.Group("/monitoring", jwtAuth.RequireAuth(), adminAuth.RequireAdmin())
		{
			monitoringRoutes.GET("/expiring", operationsHandler.ListExpiringDomains)
			monitoringRoutes.GET("/alerts", operationsHandler.ListActiveAlerts)
		}

		// 监控事件流（WebSocket 自行处理认证，浏览器无法自定义请求头）
		if deps.WSHub != nil {
			v1.GET("/monitoring/ws", websocket.HandleWebSocket(deps.WSHub))
		}

		// ========== Hosting Routes ==========
		hostingRoutes := v1.Group("/hosting/accounts", jwtAuth.RequireAuth(), adminAuth.RequireAdmin())
		{
			hostingRoutes.POST("", hostingHandler.CreateAccount)
			hostingRoutes.GET("/:id", hostingHandler.GetAccount)
			hostingRoutes.DELETE("/:id", hostingHandler.Delete)
			hostingRoutes.POST("/:id/suspend", hostingHandler.Suspend)
			hostingRoutes.POST("/:id/unsuspend", hostingHandler.Unsuspend)
			hostingRoutes.PUT("/:id/plan", hostingHandler.ChangePlan)
			hostingRoutes.GET("/:id/usage", hostingHandler.GetUsage)
			hostingRoutes.POST("/:id/renew", hostingHandler.Renew)
			hostingRoutes.POST("/:id/emails", hostingHandler.CreateEmail)
			hostingRoutes.POST("/:id/databases", hostingHandler.CreateDatabase)
			hostingRoutes.PUT("/:id/password", hostingHandler.ChangePassword)
		}

		// ========== Customer Routes ==========
		customerRoutes := v1.Group("/customers", jwtAuth.RequireAuth(), adminAuth.RequireAdmin())
		{
			customerRoutes.POST("", customerHandler.Create)
			customerRoutes.GET("", customerHandler.List)
			customerRoutes.GET("/:id", customerHandler.Get)
			customerRoutes.PUT("/:id", customerHandler.Update)
			customerRoutes.DELETE("/:id", customerHandler.Delete)
			customerRoutes.GET("/:id/domains", customerHandler.ListDomains)
			customerRoutes.GET("/:id/hosting-accounts", customerHandler.ListAccounts)
		}

		// ========== Package Admin Routes ==========
		packageRoutes := v1.Group("/packages", jwtAuth.RequireAuth(), adminAuth.RequireAdmin())
		{
			packageRoutes.POST("", packageHandler.Create)
			packageRoutes.PUT("/:id/active", packageHandler.Toggle)
			packageRoutes.DELETE("/:id", packageHandler.Delete)
		}
	}

	return router
}
