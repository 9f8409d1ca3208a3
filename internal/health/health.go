package health

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/heptiolabs/healthcheck"
	"go.uber.org/zap"

	"hostpanel/backend/internal/storage"
	"hostpanel/backend/internal/storage/redis"
)

// HealthChecker 健康检查器
type HealthChecker struct {
	health healthcheck.Handler
	store  storage.Store
	cache  *redis.Cache
	logger *zap.Logger
}

// NewHealthChecker 创建健康检查器
//
// cache 可为 nil（未启用 Redis 缓存时）。
func NewHealthChecker(store storage.Store, cache *redis.Cache, logger *zap.Logger) *HealthChecker {
	hc := &HealthChecker{
		health: healthcheck.NewHandler(),
		store:  store,
		cache:  cache,
		logger: logger,
	}

	hc.addChecks()

	return hc
}

// addChecks 添加健康检查
func (hc *HealthChecker) addChecks() {
	// 存储连接检查
	hc.health.AddReadinessCheck("storage", func() error {
		return hc.store.Health()
	})

	// Redis 缓存检查（已启用时）
	if hc.cache != nil {
		hc.health.AddReadinessCheck("redis", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			return hc.cache.Health(ctx)
		})
	}

	// goroutine 数量上限作为存活检查
	hc.health.AddLivenessCheck("goroutine-threshold", healthcheck.GoroutineCountCheck(500))
}

// Handler 返回健康检查处理器
func (hc *HealthChecker) Handler() http.Handler {
	return hc.health
}

// CheckHealth 执行健康检查并返回各组件状态
func (hc *HealthChecker) CheckHealth() map[string]string {
	results := make(map[string]string)

	if err := hc.store.Health(); err != nil {
		results["storage"] = fmt.Sprintf("ERROR: %v", err)
	} else {
		results["storage"] = "OK"
	}

	if hc.cache != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := hc.cache.Health(ctx); err != nil {
			results["redis"] = fmt.Sprintf("ERROR: %v", err)
		} else {
			results["redis"] = "OK"
		}
	} else {
		results["redis"] = "NOT_CONFIGURED"
	}

	results["timestamp"] = time.Now().Format(time.RFC3339)

	return results
}
