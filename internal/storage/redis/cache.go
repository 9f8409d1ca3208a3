package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"hostpanel/backend/internal/domain"
)

// 缓存键前缀
const (
	availabilityKeyPrefix = "hostpanel:availability:"
	pricingKeyPrefix      = "hostpanel:pricing:"
)

// Cache Redis 缓存
//
// 缓存域名可用性查询与 TLD 价格，降低注册商 API 调用频率。
// 缓存未命中或 Redis 不可用时调用方直接回源，不影响正确性。
type Cache struct {
	client *redis.Client
	log    *zap.Logger
	ttl    time.Duration
}

// NewCache 创建 Redis 缓存并验证连接
func NewCache(ctx context.Context, addr, password string, db int, ttl time.Duration, log *zap.Logger) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	log.Info("connected to Redis", zap.String("addr", addr), zap.Duration("ttl", ttl))

	return &Cache{client: client, log: log, ttl: ttl}, nil
}

// GetAvailability 查询缓存的域名可用性，第二个返回值表示是否命中
func (c *Cache) GetAvailability(ctx context.Context, domainName string) (bool, bool) {
	val, err := c.client.Get(ctx, availabilityKeyPrefix+domainName).Result()
	if err != nil {
		if err != redis.Nil {
			c.log.Debug("availability cache read failed", zap.Error(err))
		}
		return false, false
	}
	return val == "1", true
}

// SetAvailability 写入域名可用性缓存
func (c *Cache) SetAvailability(ctx context.Context, domainName string, available bool) {
	val := "0"
	if available {
		val = "1"
	}
	if err := c.client.Set(ctx, availabilityKeyPrefix+domainName, val, c.ttl).Err(); err != nil {
		c.log.Debug("availability cache write failed", zap.Error(err))
	}
}

// GetPricing 查询缓存的 TLD 价格，第二个返回值表示是否命中
func (c *Cache) GetPricing(ctx context.Context, tld string) (*domain.PriceInfo, bool) {
	data, err := c.client.Get(ctx, pricingKeyPrefix+tld).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Debug("pricing cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var price domain.PriceInfo
	if err := json.Unmarshal(data, &price); err != nil {
		return nil, false
	}
	return &price, true
}

// SetPricing 写入 TLD 价格缓存
func (c *Cache) SetPricing(ctx context.Context, tld string, price *domain.PriceInfo) {
	data, err := json.Marshal(price)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, pricingKeyPrefix+tld, data, c.ttl).Err(); err != nil {
		c.log.Debug("pricing cache write failed", zap.Error(err))
	}
}

// Health 检查 Redis 连接状态
func (c *Cache) Health(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close 关闭 Redis 连接
func (c *Cache) Close() error {
	return c.client.Close()
}
