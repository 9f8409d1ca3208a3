package cache

import (
	"context"
	"sync"
	"time"

	"hostpanel/backend/internal/domain"
)

// LocalPriceCache 进程内的价格与可用性查询缓存
//
// 未配置 Redis 时作为查询缓存的回退实现。
// 特点：
// - 使用 sync.Map 实现无锁读取
// - 支持 TTL 过期
// - 自动清理过期条目
type LocalPriceCache struct {
	data sync.Map
	ttl  time.Duration
}

type cacheEntry struct {
	value     interface{}
	expiresAt time.Time
}

// NewLocalPriceCache 创建本地查询缓存
func NewLocalPriceCache(ttl time.Duration) *LocalPriceCache {
	c := &LocalPriceCache{ttl: ttl}

	// 启动定期清理
	go c.cleanupLoop()

	return c
}

// GetAvailability 读取域名可用性缓存，第二个返回值表示是否命中
func (c *LocalPriceCache) GetAvailability(_ context.Context, domainName string) (bool, bool) {
	value, ok := c.get("availability:" + domainName)
	if !ok {
		return false, false
	}
	available, ok := value.(bool)
	return available, ok
}

// SetAvailability 写入域名可用性缓存
func (c *LocalPriceCache) SetAvailability(_ context.Context, domainName string, available bool) {
	c.set("availability:"+domainName, available)
}

// GetPricing 读取 TLD 价格缓存，第二个返回值表示是否命中
func (c *LocalPriceCache) GetPricing(_ context.Context, tld string) (*domain.PriceInfo, bool) {
	value, ok := c.get("pricing:" + tld)
	if !ok {
		return nil, false
	}
	price, ok := value.(domain.PriceInfo)
	if !ok {
		return nil, false
	}
	return &price, true
}

// SetPricing 写入 TLD 价格缓存
func (c *LocalPriceCache) SetPricing(_ context.Context, tld string, price *domain.PriceInfo) {
	if price == nil {
		return
	}
	c.set("pricing:"+tld, *price)
}

func (c *LocalPriceCache) get(key string) (interface{}, bool) {
	val, ok := c.data.Load(key)
	if !ok {
		return nil, false
	}

	entry := val.(*cacheEntry)
	if time.Now().After(entry.expiresAt) {
		c.data.Delete(key)
		return nil, false
	}
	return entry.value, true
}

func (c *LocalPriceCache) set(key string, value interface{}) {
	c.data.Store(key, &cacheEntry{
		value:     value,
		expiresAt: time.Now().Add(c.ttl),
	})
}

// cleanupLoop 定期清理过期条目
func (c *LocalPriceCache) cleanupLoop() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		c.data.Range(func(key, value interface{}) bool {
			entry := value.(*cacheEntry)
			if now.After(entry.expiresAt) {
				c.data.Delete(key)
			}
			return true
		})
	}
}
