package service

import (
	"context"

	"go.uber.org/zap"

	"go-restaurant-radar/internal/core/cache"
)

func restaurantKey(id string) string { return "restaurant:" + id }

// forgetRestaurant 写后删除缓存快照；删除失败只会旧到 TTL 过期
func forgetRestaurant(ctx context.Context, c *cache.Cache, l *zap.Logger, id string) {
	if c == nil {
		return
	}
	if err := c.Delete(ctx, restaurantKey(id)); err != nil {
		l.Warn("cache invalidate failed", zap.String("restaurant_id", id), zap.Error(err))
	}
}
