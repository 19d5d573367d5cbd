package cache

import (
	"context"
	"encoding/json"
	"time"
)

// GetOrLoadJSON 按 JSON 缓存单个对象；load 返回 nil 时写入 "null"，读出时还原为 nil
func GetOrLoadJSON[T any](
	c *Cache,
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
	out := new(T)
	if e := json.Unmarshal(b, out); e != nil {
		// 脏数据直接删掉，下次回源
		_ = c.Delete(ctx, key)
		return nil, e
	}
	return out, nil
}
