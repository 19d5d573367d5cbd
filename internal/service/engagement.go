package service

import (
	"context"
	"fmt"

	"go-restaurant-radar/internal/domain"
)

// EngagementService 用户收藏与浏览记录；
// 每次修改都在一个事务里对用户行读-改-写
type EngagementService struct {
	store domain.Store
}

func NewEngagementService(store domain.Store) *EngagementService {
	return &EngagementService{store: store}
}

// AddFavorite 加入收藏并返回新集合；重复收藏返回 ErrAlreadyFavorited
func (s *EngagementService) AddFavorite(ctx context.Context, userID, restaurantID string) ([]string, error) {
	var out []string
	err := s.store.InTx(ctx, func(tx domain.Store) error {
		u, err := mustUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		if _, err := mustRestaurant(ctx, tx, restaurantID); err != nil {
			return err
		}
		if u.HasFavorite(restaurantID) {
			return ErrAlreadyFavorited
		}
		u.Favorites = append(u.Favorites, restaurantID)
		if err := saveUser(ctx, tx, u); err != nil {
			return err
		}
		out = append([]string(nil), u.Favorites...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RemoveFavorites 移除列出的 id，不存在的忽略
func (s *EngagementService) RemoveFavorites(ctx context.Context, userID string, restaurantIDs []string) error {
	return s.store.InTx(ctx, func(tx domain.Store) error {
		u, err := mustUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		u.Favorites = without(u.Favorites, restaurantIDs)
		if err := saveUser(ctx, tx, u); err != nil {
			return err
		}
		return nil
	})
}

// RecordView 追加浏览记录，重复浏览保留
func (s *EngagementService) RecordView(ctx context.Context, userID, restaurantID string) error {
	return s.store.InTx(ctx, func(tx domain.Store) error {
		if _, err := mustRestaurant(ctx, tx, restaurantID); err != nil {
			return err
		}
		return appendHistory(ctx, tx, userID, restaurantID)
	})
}

// RemoveFromHistory 删除列出 id 的所有出现
func (s *EngagementService) RemoveFromHistory(ctx context.Context, userID string, restaurantIDs []string) error {
	return s.store.InTx(ctx, func(tx domain.Store) error {
		u, err := mustUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		u.History = without(u.History, restaurantIDs)
		if err := saveUser(ctx, tx, u); err != nil {
			return err
		}
		return nil
	})
}

func (s *EngagementService) ListFavoriteRestaurants(ctx context.Context, userID string) ([]domain.Restaurant, error) {
	u, err := mustUser(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}
	return resolveRestaurants(ctx, s.store, u.Favorites)
}

// ListHistoryRestaurants 每次浏览一条，按时间正序
func (s *EngagementService) ListHistoryRestaurants(ctx context.Context, userID string) ([]domain.Restaurant, error) {
	u, err := mustUser(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}
	return resolveRestaurants(ctx, s.store, u.History)
}

func appendHistory(ctx context.Context, tx domain.Store, userID, restaurantID string) error {
	u, err := mustUser(ctx, tx, userID)
	if err != nil {
		return err
	}
	u.History = append(u.History, restaurantID)
	if err := saveUser(ctx, tx, u); err != nil {
		return err
	}
	return nil
}

// resolveRestaurants 保持 ids 顺序，已删除的餐厅直接跳过
func resolveRestaurants(ctx context.Context, st domain.Store, ids []string) ([]domain.Restaurant, error) {
	out := make([]domain.Restaurant, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	found, err := st.Restaurants().FindByIDs(ctx, dedupe(ids))
	if err != nil {
		return nil, fmt.Errorf("load restaurants: %w", err)
	}
	byID := make(map[string]domain.Restaurant, len(found))
	for _, r := range found {
		byID[r.ID] = r
	}
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func without(list []string, drop []string) []string {
	if len(drop) == 0 {
		return list
	}
	skip := make(map[string]struct{}, len(drop))
	for _, id := range drop {
		skip[id] = struct{}{}
	}
	out := make([]string, 0, len(list))
	for _, id := range list {
		if _, ok := skip[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func mustUser(ctx context.Context, st domain.Store, id string) (*domain.User, error) {
	u, err := st.Users().FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func mustRestaurant(ctx context.Context, st domain.Store, id string) (*domain.Restaurant, error) {
	r, err := st.Restaurants().FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find restaurant: %w", err)
	}
	if r == nil {
		return nil, ErrRestaurantNotFound
	}
	return r, nil
}
