package service

import (
	"context"
	"errors"
	"fmt"

	"go-restaurant-radar/internal/domain"
)

// saveRestaurant 写回餐厅；行在事务外被删时映射为 ErrRestaurantNotFound
func saveRestaurant(ctx context.Context, tx domain.Store, r *domain.Restaurant) error {
	if err := tx.Restaurants().Update(ctx, r); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrRestaurantNotFound
		}
		return fmt.Errorf("save restaurant: %w", err)
	}
	return nil
}

// saveUser 同上，针对用户
func saveUser(ctx context.Context, tx domain.Store, u *domain.User) error {
	if err := tx.Users().Update(ctx, u); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}
