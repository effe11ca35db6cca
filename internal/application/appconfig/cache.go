// Package appconfig 提供数据库驻留配置的进程内缓存
package appconfig

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"antelope-chat-api/internal/domain/repository"
)

// DefaultTTL 缓存默认有效期
const DefaultTTL = 5 * time.Minute

// Cache app_config 表的整表缓存。TTL 内读内存，过期后整表重载，
// singleflight 保证并发过期读只触发一次重载。
type Cache struct {
	repo repository.AppConfigRepository
	ttl  time.Duration
	now  func() time.Time

	mu        sync.RWMutex
	values    map[string]string
	expiresAt time.Time

	sf singleflight.Group
}

// NewCache 创建配置缓存
func NewCache(repo repository.AppConfigRepository, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		repo: repo,
		ttl:  ttl,
		now:  time.Now,
	}
}

// NewCacheWithClock 创建配置缓存，注入时钟
func NewCacheWithClock(repo repository.AppConfigRepository, ttl time.Duration, now func() time.Time) *Cache {
	c := NewCache(repo, ttl)
	if now != nil {
		c.now = now
	}
	return c
}

// Get 读取配置值，键不存在时返回空串
func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	c.mu.RLock()
	fresh := c.values != nil && c.now().Before(c.expiresAt)
	value := c.values[key]
	c.mu.RUnlock()

	if fresh {
		return value, nil
	}

	if err := c.reload(ctx); err != nil {
		return "", err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.values[key], nil
}

// Set 写库并使缓存失效
func (c *Cache) Set(ctx context.Context, key, value string) error {
	if err := c.repo.Set(ctx, key, value); err != nil {
		return err
	}
	c.Invalidate()
	return nil
}

// Invalidate 使缓存立即过期
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.expiresAt = time.Time{}
	c.mu.Unlock()
}

func (c *Cache) reload(ctx context.Context) error {
	_, err, _ := c.sf.Do("reload", func() (interface{}, error) {
		rows, err := c.repo.List(ctx)
		if err != nil {
			return nil, err
		}
		values := make(map[string]string, len(rows))
		for _, row := range rows {
			values[row.Key] = row.Value
		}

		c.mu.Lock()
		c.values = values
		c.expiresAt = c.now().Add(c.ttl)
		c.mu.Unlock()
		return nil, nil
	})
	return err
}
