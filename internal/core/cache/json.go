package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Loader 由 *Cache 实现；测试或未接 redis 时可替换
type Loader interface {
	GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error)
}

// Setter 由 *Cache 实现
type Setter interface {
	Set(ctx context.Context, key string, b []byte, ttl time.Duration) error
}

// SetJSON 序列化后覆盖写入
func SetJSON[T any](c Setter, ctx context.Context, key string, ttl time.Duration, v *T) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, b, ttl)
}

// GetOrLoadJSON load 返回错误时不写缓存（未命中不做负缓存）
func GetOrLoadJSON[T any](
	c Loader,
	ctx context.Context,
	key string,
	ttl time.Duration,
	load func(ctx context.Context) (*T, error),
) (*T, error) {
	b, err := c.GetOrLoad(ctx, key, ttl, func(ctx context.Context) ([]byte, error) {
		v, e := load(ctx)
		if e != nil {
			return nil, e
		}
		return json.Marshal(v)
	})
	if err != nil {
		return nil, err
	}
	if string(b) == "null" {
		return nil, nil
	}
	var out T
	if e := json.Unmarshal(b, &out); e != nil {
		return nil, e
	}
	return &out, nil
}
