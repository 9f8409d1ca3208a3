package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"hostpanel/backend/internal/auth"
	jwtpkg "hostpanel/backend/internal/auth/jwt"
	localcache "hostpanel/backend/internal/cache"
	"hostpanel/backend/internal/config"
	"hostpanel/backend/internal/domain"
	"hostpanel/backend/internal/health"
	"hostpanel/backend/internal/logger"
	"hostpanel/backend/internal/monitoring"
	"hostpanel/backend/internal/registrar"
	"hostpanel/backend/internal/service"
	"hostpanel/backend/internal/storage"
	"hostpanel/backend/internal/storage/memory"
	"hostpanel/backend/internal/storage/postgres"
	"hostpanel/backend/internal/storage/redis"
	sqlstore "hostpanel/backend/internal/storage/sql"
	httptransport "hostpanel/backend/internal/transport/http"
	"hostpanel/backend/internal/websocket"
	"hostpanel/backend/internal/whm"
)

// priceCacheTTL 可用性与价格查询缓存的有效期
const priceCacheTTL = 10 * time.Minute

// main 启动域名与主机管理面板后端。
//
// @title HostPanel Backend API
// @version 1.0.0
// @description 域名注册与虚拟主机管理面板后端 API 文档
// @contact.name API Support
// @contact.email support@example.com
// @BasePath /
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description 使用格式：Bearer {token}
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 设置 Gin 模式（基于开发环境标志）
	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// 初始化日志系统
	log, err := logger.NewLogger(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
		LogFile:     "",
		MaxSize:     100,
		MaxBackups:  3,
		MaxAge:      28,
		Compress:    true,
	})
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	log.Info("starting hostpanel server",
		zap.String("log_level", cfg.Log.Level),
		zap.Bool("development", cfg.Log.Development),
		zap.String("registrar_mode", cfg.Registrar.Mode),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 初始化存储层
	var store storage.Store
	if cfg.Database.Type != "" && cfg.Database.DSN != "" {
		sqlStore, err := sqlstore.NewStore(
			cfg.Database.Type,
			cfg.Database.DSN,
			cfg.Database.MaxOpenConns,
			cfg.Database.MaxIdleConns,
			cfg.Database.ConnMaxLifetime,
		)
		if err != nil {
			panic(fmt.Sprintf("failed to initialize database storage: %v", err))
		}
		store = sqlStore
		log.Info("using database storage", zap.String("type", cfg.Database.Type))
	} else {
		store = memory.NewStore()
		log.Info("using memory storage (development mode)")
	}
	defer store.Close()

	// Redis 查询缓存，未启用或连接失败时回退到进程内缓存
	var priceCache service.PriceCache
	var cache *redis.Cache
	if cfg.Redis.Enabled {
		cache, err = redis.NewCache(ctx, cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB, priceCacheTTL, log)
		if err != nil {
			log.Warn("failed to connect to redis, falling back to local cache", zap.Error(err))
			cache = nil
		} else {
			priceCache = cache
			defer cache.Close()
			log.Info("redis query cache enabled", zap.String("address", cfg.Redis.Address))
		}
	}
	if priceCache == nil {
		priceCache = localcache.NewLocalPriceCache(priceCacheTTL)
		log.Info("using in-process query cache")
	}

	// DNS 变更日志作用域（仅 PostgreSQL）
	var txScope service.TxScope
	if cfg.Database.Type == "postgres" && cfg.Database.DSN != "" {
		pgClient, err := postgres.New(ctx, postgres.Config{
			DSN:             cfg.Database.DSN,
			MaxConns:        cfg.Database.MaxOpenConns,
			MinConns:        cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		}, log)
		if err != nil {
			log.Warn("failed to initialize dns change journal, using compensation path", zap.Error(err))
		} else {
			txScope = pgClient
			defer pgClient.Close()
		}
	}

	// 注册商网关
	var registrarClient registrar.Client
	if cfg.Registrar.Mode == "live" {
		registrarClient = registrar.NewHTTPClient(cfg.Registrar.Endpoint, cfg.Registrar.APIKey, 10, log)
		log.Info("using live registrar gateway", zap.String("endpoint", cfg.Registrar.Endpoint))
	} else {
		registrarClient = registrar.NewFake()
		log.Info("using fake registrar gateway (development mode)")
	}

	// WHM 网关（未配置时主机开通走模拟路径）
	var whmClient whm.Client
	if cfg.WHM.Enabled() {
		whmClient = whm.NewHTTPClient(cfg.WHM.Host, cfg.WHM.Username, cfg.WHM.Token, cfg.WHM.RatePerSecond, log)
		log.Info("WHM gateway enabled", zap.String("host", cfg.WHM.Host))
	} else {
		log.Info("WHM gateway not configured, hosting provisioning is simulated")
	}

	// 初始化监控与健康检查
	metrics := monitoring.NewMetrics()
	healthChecker := health.NewHealthChecker(store, cache, log)

	// 初始化服务层
	pricing := service.TLDPriceTable(cfg.Pricing.TLDs)
	domainManager := service.NewDomainManager(registrarClient, store, priceCache, pricing, log)
	dnsManager := service.NewDNSManager(registrarClient, txScope, metrics, log)
	hostingManager := service.NewHostingManager(whmClient, store, metrics, log)
	contactService := service.NewContactService(registrarClient, log)
	privacyService := service.NewPrivacyService(registrarClient, log)
	bulkService := service.NewBulkOperationsService(domainManager, contactService, log)
	monitoringService := service.NewDomainMonitoringService(domainManager, store, log)
	validationService := service.NewDomainValidationService()

	// 初始化认证服务
	authService := auth.NewService(store)
	jwtManager := jwtpkg.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.Issuer,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	// 创建默认超级管理员（仅用于开发测试）
	if cfg.Log.Development {
		createDefaultOperator(authService, log)
	}

	// 监控事件流与告警管理
	wsHub := websocket.NewHub(cfg.CORS.AllowedOrigins, jwtManager, log)

	alertManager := monitoring.NewAlertManager(log)
	alertManager.AddReceiver(monitoring.NewLogAlertReceiver(log))
	alertManager.AddReceiver(websocket.NewAlertReceiver(wsHub))
	if cfg.Monitoring.AlertWebhookURL != "" {
		alertManager.AddReceiver(monitoring.NewWebhookAlertReceiver(cfg.Monitoring.AlertWebhookURL, log))
		log.Info("alert webhook enabled", zap.String("url", cfg.Monitoring.AlertWebhookURL))
	}
	alertManager.AddRule(monitoring.DatabaseConnectionRule(store))
	alertManager.AddRule(monitoring.HighMemoryUsageRule(1024))

	// 创建 HTTP 服务器
	httpAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	router := httptransport.NewRouter(httptransport.RouterDependencies{
		Config:            cfg,
		DomainManager:     domainManager,
		DNSManager:        dnsManager,
		HostingManager:    hostingManager,
		ContactService:    contactService,
		PrivacyService:    privacyService,
		BulkService:       bulkService,
		MonitoringService: monitoringService,
		ValidationService: validationService,
		AuthService:       authService,
		JWTManager:        jwtManager,
		Store:             store,
		Metrics:           metrics,
		AlertManager:      alertManager,
		WSHub:             wsHub,
		HealthChecker:     healthChecker,
		Logger:            log,
	})

	httpServer := &http.Server{
		Addr:              httpAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)

	// 监控事件流 Hub goroutine
	group.Go(func() error {
		wsHub.Run(groupCtx)
		return nil
	})

	// 告警规则评估 goroutine
	group.Go(func() error {
		alertManager.StartMonitoring(groupCtx, time.Minute)
		return nil
	})

	// HTTP 服务器 goroutine
	group.Go(func() error {
		log.Info("starting HTTP server", zap.String("address", httpAddr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", zap.Error(err))
			return err
		}
		return nil
	})

	// 定时检查即将到期的域名 goroutine
	group.Go(func() error {
		ticker := time.NewTicker(12 * time.Hour)
		defer ticker.Stop()

		log.Info("starting domain expiry monitoring task",
			zap.Int("threshold_days", cfg.Monitoring.ExpiryThresholdDays),
		)

		for {
			select {
			case <-groupCtx.Done():
				log.Info("expiry monitoring task stopped")
				return nil
			case <-ticker.C:
				expiring, err := monitoringService.CheckExpiringDomains(cfg.Monitoring.ExpiryThresholdDays)
				if err != nil {
					log.Error("failed to check expiring domains", zap.Error(err))
					continue
				}
				for _, d := range expiring {
					alertManager.TriggerAlert(monitoring.NewDomainExpiryAlert(
						d.DomainName, d.DaysUntilExpiry, d.AutoRenew))
				}
				if len(expiring) > 0 {
					wsHub.Publish(websocket.EventTypeDomainExpiry, expiring)
				}
			}
		}
	})

	// 优雅关闭 goroutine
	group.Go(func() error {
		<-groupCtx.Done()
		log.Info("shutdown signal received, gracefully shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("HTTP server shutdown error", zap.Error(err))
		}

		log.Info("server stopped")
		return nil
	})

	if err := group.Wait(); err != nil && err != context.Canceled {
		log.Fatal("server error", zap.Error(err))
	}

	log.Info("server exited cleanly")
}

// createDefaultOperator 创建默认超级管理员（仅用于开发测试）
func createDefaultOperator(authService *auth.Service, log *zap.Logger) {
	email := "admin@hostpanel.local"
	password := "Admin123456!"

	operator, err := authService.CreateOperator(auth.CreateOperatorInput{
		Email:    email,
		Password: password,
		Username: "admin",
		Role:     domain.RoleSuper,
	})
	if err != nil {
		if err == auth.ErrOperatorExists {
			log.Info("default operator already exists, skipping", zap.String("email", email))
		} else {
			log.Error("failed to create default operator", zap.Error(err))
		}
		return
	}

	log.Warn("default super operator created (development only)",
		zap.String("email", email),
		zap.String("password", password),
		zap.String("operator_id", operator.ID),
	)
}
