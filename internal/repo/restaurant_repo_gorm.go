package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"go-restaurant-radar/internal/domain"
)

type RestaurantRepo struct{ db *gorm.DB }

func NewRestaurantRepo(db *gorm.DB) *RestaurantRepo { return &RestaurantRepo{db: db} }

func (r *RestaurantRepo) Create(ctx context.Context, m *domain.Restaurant) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *RestaurantRepo) FindByID(ctx context.Context, id string) (*domain.Restaurant, error) {
	var m domain.Restaurant
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FindByIDs 只返回仍存在的餐厅，缺失的 id 跳过
func (r *RestaurantRepo) FindByIDs(ctx context.Context, ids []string) ([]domain.Restaurant, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []domain.Restaurant
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Find 按条件全量扫描；tags 存在 JSON 列里，标签在内存中过滤
func (r *RestaurantRepo) Find(ctx context.Context, f domain.RestaurantFilter) ([]domain.Restaurant, error) {
	q := r.db.WithContext(ctx).Model(&domain.Restaurant{})
	if f.OwnerID != nil {
		q = q.Where("owner_id = ?", *f.OwnerID)
	}
	if s := strings.TrimSpace(f.Name); s != "" {
		q = q.Where("name LIKE ?", "%"+s+"%")
	}
	var all []domain.Restaurant
	if err := q.Order("created_at ASC").Order("id ASC").Find(&all).Error; err != nil {
		return nil, err
	}
	if f.Tag == "" {
		return all, nil
	}
	out := all[:0]
	for _, m := range all {
		if m.HasTag(f.Tag) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *RestaurantRepo) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Restaurant{}).Where("owner_id = ?", ownerID).Count(&n).Error
	return n, err
}

// Update 只更新已存在的行，行已被删时返回 domain.ErrNotFound，不会重新插入；
// view_count 只由 IncrementViews 写
func (r *RestaurantRepo) Update(ctx context.Context, m *domain.Restaurant) error {
	res := r.db.WithContext(ctx).Model(&domain.Restaurant{}).
		Where("id = ?", m.ID).
		Select("*").Omit("id", "view_count", "created_at").
		Updates(m)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *RestaurantRepo) IncrementViews(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&domain.Restaurant{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1)).Error
}

func (r *RestaurantRepo) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Restaurant{})
	return res.RowsAffected > 0, res.Error
}
