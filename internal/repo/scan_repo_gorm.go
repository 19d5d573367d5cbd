package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"go-restaurant-radar/internal/domain"
)

type ScanRepo struct{ db *gorm.DB }

func NewScanRepo(db *gorm.DB) *ScanRepo { return &ScanRepo{db: db} }

func (r *ScanRepo) Create(ctx context.Context, s *domain.Scan) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *ScanRepo) FindByID(ctx context.Context, id string) (*domain.Scan, error) {
	var s domain.Scan
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ScanRepo) List(ctx context.Context, f domain.ScanFilter) ([]domain.Scan, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Scan{})
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []domain.Scan
	offset, limit := page(f.Offset, f.Limit)
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
